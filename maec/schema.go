package maec

// Shape information consumed by external JSON-Schema generators. The tables
// mirror the native encoding's field names; the core exposes shapes but does
// not emit schema text itself.

// FieldShape describes one field of an entity as it appears on the wire.
type FieldShape struct {
	Name       string // native-encoding field name
	Kind       string // "string", "timestamp", "identifier", "open-vocab", "name", "field-data", "external-reference", "capability", "observable-map"
	Required   bool
	Collection bool
	Vocab      string // vocabulary name when Kind is "open-vocab"
}

// EntityShape describes one entity type: its type token and field layout.
type EntityShape struct {
	Type   string
	Fields []FieldShape
}

// Shapes returns the wire shape of every entity type in the model.
func Shapes() []EntityShape {
	return []EntityShape{
		{
			Type: TypePackage,
			Fields: []FieldShape{
				{Name: "id", Kind: "identifier", Required: true},
				{Name: "schema_version", Kind: "string"},
				{Name: "created", Kind: "timestamp"},
				{Name: "modified", Kind: "timestamp"},
				{Name: "malware_families", Kind: TypeMalwareFamily, Collection: true},
				{Name: "malware_instances", Kind: TypeMalwareInstance, Collection: true},
				{Name: "behaviors", Kind: TypeBehavior, Collection: true},
				{Name: "collections", Kind: TypeCollection, Collection: true},
				{Name: "relationships", Kind: TypeRelationship, Collection: true},
				{Name: "observable_objects", Kind: "observable-map"},
			},
		},
		{
			Type: TypeMalwareFamily,
			Fields: []FieldShape{
				{Name: "id", Kind: "identifier", Required: true},
				{Name: "name", Kind: "name", Required: true},
				{Name: "description", Kind: "string"},
				{Name: "labels", Kind: "open-vocab", Collection: true, Vocab: MalwareLabelVocab.Name()},
				{Name: "aliases", Kind: "name", Collection: true},
				{Name: "common_capabilities", Kind: TypeCapability, Collection: true},
				{Name: "field_data", Kind: "field-data"},
			},
		},
		{
			Type: TypeMalwareInstance,
			Fields: []FieldShape{
				{Name: "id", Kind: "identifier", Required: true},
				{Name: "instance_object_refs", Kind: "string", Required: true, Collection: true},
				{Name: "name", Kind: "name"},
				{Name: "labels", Kind: "open-vocab", Collection: true, Vocab: MalwareLabelVocab.Name()},
				{Name: "description", Kind: "string"},
				{Name: "field_data", Kind: "field-data"},
			},
		},
		{
			Type: TypeBehavior,
			Fields: []FieldShape{
				{Name: "id", Kind: "identifier", Required: true},
				{Name: "created", Kind: "timestamp"},
				{Name: "modified", Kind: "timestamp"},
				{Name: "name", Kind: "open-vocab", Required: true, Vocab: BehaviorVocab.Name()},
				{Name: "description", Kind: "string"},
				{Name: "timestamp", Kind: "timestamp"},
				{Name: "technique_refs", Kind: "external-reference", Collection: true},
			},
		},
		{
			Type: TypeCapability,
			Fields: []FieldShape{
				{Name: "id", Kind: "identifier", Required: true},
				{Name: "name", Kind: "open-vocab", Required: true, Vocab: CapabilityVocab.Name()},
				{Name: "description", Kind: "string"},
				{Name: "behavior_refs", Kind: "identifier", Collection: true},
				{Name: "refined_capabilities", Kind: TypeCapability, Collection: true},
				{Name: "references", Kind: "external-reference", Collection: true},
			},
		},
		{
			Type: TypeCollection,
			Fields: []FieldShape{
				{Name: "id", Kind: "identifier", Required: true},
				{Name: "created", Kind: "timestamp"},
				{Name: "modified", Kind: "timestamp"},
				{Name: "name", Kind: "string"},
				{Name: "description", Kind: "string"},
				{Name: "association_type", Kind: "open-vocab", Vocab: EntityAssociationVocab.Name()},
				{Name: "ref_list", Kind: "identifier", Collection: true},
			},
		},
		{
			Type: TypeRelationship,
			Fields: []FieldShape{
				{Name: "id", Kind: "identifier", Required: true},
				{Name: "created", Kind: "timestamp"},
				{Name: "modified", Kind: "timestamp"},
				{Name: "source_ref", Kind: "identifier", Required: true},
				{Name: "target_ref", Kind: "identifier", Required: true},
				{Name: "relationship_type", Kind: "open-vocab", Required: true, Vocab: RelationshipTypeVocab.Name()},
				{Name: "description", Kind: "string"},
			},
		},
	}
}

// Vocabularies returns every open vocabulary the model defines.
func Vocabularies() []*VocabSet {
	return []*VocabSet{
		AnalysisConclusionVocab,
		AnalysisEnvironmentVocab,
		AnalysisTypeVocab,
		BehaviorVocab,
		CapabilityVocab,
		ConfidenceVocab,
		DeliveryVectorVocab,
		EntityAssociationVocab,
		MalwareLabelVocab,
		ObfuscationMethodVocab,
		ProcessorArchitectureVocab,
		RelationshipTypeVocab,
	}
}
