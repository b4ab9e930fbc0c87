package maec

import (
	"encoding/json"
	"time"
)

// The native encoding: one JSON object per entity, snake_case field names,
// absent optionals omitted (never null). This is the system of record; the
// XML codec is an independent adapter tested for equivalence against it.

type jsonPackage struct {
	Type              string                     `json:"type"`
	ID                string                     `json:"id"`
	SchemaVersion     string                     `json:"schema_version,omitempty"`
	Created           string                     `json:"created,omitempty"`
	Modified          string                     `json:"modified,omitempty"`
	MalwareFamilies   []jsonMalwareFamily        `json:"malware_families,omitempty"`
	MalwareInstances  []jsonMalwareInstance      `json:"malware_instances,omitempty"`
	Behaviors         []jsonBehavior             `json:"behaviors,omitempty"`
	Collections       []jsonCollection           `json:"collections,omitempty"`
	Relationships     []jsonRelationship         `json:"relationships,omitempty"`
	ObservableObjects map[string]json.RawMessage `json:"observable_objects,omitempty"`
}

type jsonName struct {
	Value      string                 `json:"value"`
	Source     *jsonExternalReference `json:"source,omitempty"`
	Confidence string                 `json:"confidence,omitempty"`
}

type jsonExternalReference struct {
	SourceName  string `json:"source_name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	ExternalID  string `json:"external_id,omitempty"`
}

type jsonFieldData struct {
	DeliveryVectors []string `json:"delivery_vectors,omitempty"`
	FirstSeen       string   `json:"first_seen,omitempty"`
	LastSeen        string   `json:"last_seen,omitempty"`
}

type jsonCapability struct {
	ID                  string                  `json:"id"`
	Name                string                  `json:"name"`
	Description         string                  `json:"description,omitempty"`
	BehaviorRefs        []string                `json:"behavior_refs,omitempty"`
	RefinedCapabilities []jsonCapability        `json:"refined_capabilities,omitempty"`
	References          []jsonExternalReference `json:"references,omitempty"`
}

type jsonMalwareFamily struct {
	Type        string           `json:"type"`
	ID          string           `json:"id"`
	Name        *jsonName        `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	Labels      []string         `json:"labels,omitempty"`
	Aliases     []jsonName       `json:"aliases,omitempty"`
	Common      []jsonCapability `json:"common_capabilities,omitempty"`
	FieldData   *jsonFieldData   `json:"field_data,omitempty"`
}

type jsonMalwareInstance struct {
	Type        string         `json:"type"`
	ID          string         `json:"id"`
	ObjectRefs  []string       `json:"instance_object_refs"`
	Name        *jsonName      `json:"name,omitempty"`
	Labels      []string       `json:"labels,omitempty"`
	Description string         `json:"description,omitempty"`
	FieldData   *jsonFieldData `json:"field_data,omitempty"`
}

type jsonBehavior struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Created       string                  `json:"created,omitempty"`
	Modified      string                  `json:"modified,omitempty"`
	Name          string                  `json:"name"`
	Description   string                  `json:"description,omitempty"`
	Timestamp     string                  `json:"timestamp,omitempty"`
	TechniqueRefs []jsonExternalReference `json:"technique_refs,omitempty"`
}

type jsonCollection struct {
	Type        string   `json:"type"`
	ID          string   `json:"id"`
	Created     string   `json:"created,omitempty"`
	Modified    string   `json:"modified,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Association string   `json:"association_type,omitempty"`
	RefList     []string `json:"ref_list,omitempty"`
}

type jsonRelationship struct {
	Type             string `json:"type"`
	ID               string `json:"id"`
	Created          string `json:"created,omitempty"`
	Modified         string `json:"modified,omitempty"`
	SourceRef        string `json:"source_ref"`
	TargetRef        string `json:"target_ref"`
	RelationshipType string `json:"relationship_type"`
	Description      string `json:"description,omitempty"`
}

// EncodeJSON serializes a package to the native encoding.
func EncodeJSON(p *Package) ([]byte, error) {
	doc := jsonPackage{
		Type:              TypePackage,
		ID:                p.ID,
		SchemaVersion:     p.SchemaVersion,
		Created:           fmtTime(p.Created),
		Modified:          fmtTime(p.Modified),
		ObservableObjects: p.ObservableObjects,
	}
	for _, f := range p.MalwareFamilies {
		doc.MalwareFamilies = append(doc.MalwareFamilies, jsonMalwareFamily{
			Type:        TypeMalwareFamily,
			ID:          f.ID,
			Name:        jsonNameOf(f.Name),
			Description: f.Description,
			Labels:      vocabStrings(f.Labels),
			Aliases:     jsonNames(f.Aliases),
			Common:      jsonCapabilities(f.CommonCapabilities),
			FieldData:   jsonFieldDataOf(f.FieldData),
		})
	}
	for _, i := range p.MalwareInstances {
		doc.MalwareInstances = append(doc.MalwareInstances, jsonMalwareInstance{
			Type:        TypeMalwareInstance,
			ID:          i.ID,
			ObjectRefs:  i.InstanceObjectRefs,
			Name:        jsonNamePtr(i.Name),
			Labels:      vocabStrings(i.Labels),
			Description: i.Description,
			FieldData:   jsonFieldDataOf(i.FieldData),
		})
	}
	for _, b := range p.Behaviors {
		doc.Behaviors = append(doc.Behaviors, jsonBehavior{
			Type:          TypeBehavior,
			ID:            b.ID,
			Created:       fmtTime(b.Created),
			Modified:      fmtTime(b.Modified),
			Name:          b.Name.String(),
			Description:   b.Description,
			Timestamp:     fmtTimePtr(b.Timestamp),
			TechniqueRefs: jsonExternalReferences(b.TechniqueRefs),
		})
	}
	for _, c := range p.Collections {
		doc.Collections = append(doc.Collections, jsonCollection{
			Type:        TypeCollection,
			ID:          c.ID,
			Created:     fmtTime(c.Created),
			Modified:    fmtTime(c.Modified),
			Name:        c.Name,
			Description: c.Description,
			Association: c.Association.String(),
			RefList:     c.RefList,
		})
	}
	for _, r := range p.Relationships {
		doc.Relationships = append(doc.Relationships, jsonRelationship{
			Type:             TypeRelationship,
			ID:               r.ID,
			Created:          fmtTime(r.Created),
			Modified:         fmtTime(r.Modified),
			SourceRef:        r.SourceRef,
			TargetRef:        r.TargetRef,
			RelationshipType: r.RelationshipType.String(),
			Description:      r.Description,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeJSON parses the native encoding into a Package, failing with
// *DecodeError when the bytes are malformed or a required field is absent.
// Unknown fields are ignored for forward compatibility.
func DecodeJSON(data []byte) (*Package, error) {
	var doc jsonPackage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Format: "json", Err: err}
	}
	return packageFromJSON(doc)
}

func packageFromJSON(doc jsonPackage) (*Package, error) {
	if doc.ID == "" {
		return nil, jsonDecodeErr(TypePackage, "id", missingField(TypePackage, "id"))
	}
	if !MatchesType(doc.ID, TypePackage) {
		return nil, jsonDecodeErr(TypePackage, "id", &InvalidIdentifierError{ID: doc.ID, Reason: "not a package identifier"})
	}
	version := doc.SchemaVersion
	if version == "" {
		version = SchemaVersion
	}
	created, err := parseTime(TypePackage, "created", doc.Created)
	if err != nil {
		return nil, err
	}
	modified, err := parseTime(TypePackage, "modified", doc.Modified)
	if err != nil {
		return nil, err
	}

	p := &Package{
		ID:                doc.ID,
		SchemaVersion:     version,
		Created:           created,
		Modified:          modified,
		ObservableObjects: doc.ObservableObjects,
	}

	for _, jf := range doc.MalwareFamilies {
		f, err := familyFromJSON(jf)
		if err != nil {
			return nil, err
		}
		p.MalwareFamilies = append(p.MalwareFamilies, *f)
	}
	for _, ji := range doc.MalwareInstances {
		i, err := instanceFromJSON(ji)
		if err != nil {
			return nil, err
		}
		p.MalwareInstances = append(p.MalwareInstances, *i)
	}
	for _, jb := range doc.Behaviors {
		b, err := behaviorFromJSON(jb)
		if err != nil {
			return nil, err
		}
		p.Behaviors = append(p.Behaviors, *b)
	}
	for _, jc := range doc.Collections {
		c, err := collectionFromJSON(jc)
		if err != nil {
			return nil, err
		}
		p.Collections = append(p.Collections, *c)
	}
	for _, jr := range doc.Relationships {
		r, err := relationshipFromJSON(jr)
		if err != nil {
			return nil, err
		}
		p.Relationships = append(p.Relationships, *r)
	}
	return p, nil
}

func familyFromJSON(jf jsonMalwareFamily) (*MalwareFamily, error) {
	if err := checkWireID(jf.ID, TypeMalwareFamily); err != nil {
		return nil, err
	}
	if jf.Name == nil || jf.Name.Value == "" {
		return nil, jsonDecodeErr(TypeMalwareFamily, "name", missingField(TypeMalwareFamily, "name"))
	}
	caps, err := capabilitiesFromJSON(jf.Common)
	if err != nil {
		return nil, err
	}
	fd, err := fieldDataFromJSON(TypeMalwareFamily, jf.FieldData)
	if err != nil {
		return nil, err
	}
	return &MalwareFamily{
		ID:                 jf.ID,
		Name:               nameFromJSON(*jf.Name),
		Description:        jf.Description,
		Labels:             vocabsOf(MalwareLabelVocab, jf.Labels),
		Aliases:            namesFromJSON(jf.Aliases),
		CommonCapabilities: caps,
		FieldData:          fd,
	}, nil
}

func instanceFromJSON(ji jsonMalwareInstance) (*MalwareInstance, error) {
	if err := checkWireID(ji.ID, TypeMalwareInstance); err != nil {
		return nil, err
	}
	if len(ji.ObjectRefs) == 0 {
		return nil, jsonDecodeErr(TypeMalwareInstance, "instance_object_refs",
			missingField(TypeMalwareInstance, "instance_object_refs"))
	}
	fd, err := fieldDataFromJSON(TypeMalwareInstance, ji.FieldData)
	if err != nil {
		return nil, err
	}
	var name *Name
	if ji.Name != nil {
		n := nameFromJSON(*ji.Name)
		name = &n
	}
	return &MalwareInstance{
		ID:                 ji.ID,
		InstanceObjectRefs: ji.ObjectRefs,
		Name:               name,
		Labels:             vocabsOf(MalwareLabelVocab, ji.Labels),
		Description:        ji.Description,
		FieldData:          fd,
	}, nil
}

func behaviorFromJSON(jb jsonBehavior) (*Behavior, error) {
	if err := checkWireID(jb.ID, TypeBehavior); err != nil {
		return nil, err
	}
	if jb.Name == "" {
		return nil, jsonDecodeErr(TypeBehavior, "name", missingField(TypeBehavior, "name"))
	}
	created, err := parseTime(TypeBehavior, "created", jb.Created)
	if err != nil {
		return nil, err
	}
	modified, err := parseTime(TypeBehavior, "modified", jb.Modified)
	if err != nil {
		return nil, err
	}
	observed, err := parseTimePtr(TypeBehavior, "timestamp", jb.Timestamp)
	if err != nil {
		return nil, err
	}
	return &Behavior{
		ID:            jb.ID,
		Created:       created,
		Modified:      modified,
		Name:          BehaviorVocab.From(jb.Name),
		Description:   jb.Description,
		Timestamp:     observed,
		TechniqueRefs: externalReferencesFromJSON(jb.TechniqueRefs),
	}, nil
}

func collectionFromJSON(jc jsonCollection) (*Collection, error) {
	if err := checkWireID(jc.ID, TypeCollection); err != nil {
		return nil, err
	}
	created, err := parseTime(TypeCollection, "created", jc.Created)
	if err != nil {
		return nil, err
	}
	modified, err := parseTime(TypeCollection, "modified", jc.Modified)
	if err != nil {
		return nil, err
	}
	return &Collection{
		ID:          jc.ID,
		Created:     created,
		Modified:    modified,
		Name:        jc.Name,
		Description: jc.Description,
		Association: EntityAssociationVocab.From(jc.Association),
		RefList:     jc.RefList,
	}, nil
}

func relationshipFromJSON(jr jsonRelationship) (*Relationship, error) {
	if err := checkWireID(jr.ID, TypeRelationship); err != nil {
		return nil, err
	}
	if jr.SourceRef == "" {
		return nil, jsonDecodeErr(TypeRelationship, "source_ref", missingField(TypeRelationship, "source_ref"))
	}
	if jr.TargetRef == "" {
		return nil, jsonDecodeErr(TypeRelationship, "target_ref", missingField(TypeRelationship, "target_ref"))
	}
	if jr.RelationshipType == "" {
		return nil, jsonDecodeErr(TypeRelationship, "relationship_type", missingField(TypeRelationship, "relationship_type"))
	}
	created, err := parseTime(TypeRelationship, "created", jr.Created)
	if err != nil {
		return nil, err
	}
	modified, err := parseTime(TypeRelationship, "modified", jr.Modified)
	if err != nil {
		return nil, err
	}
	return &Relationship{
		ID:               jr.ID,
		Created:          created,
		Modified:         modified,
		SourceRef:        jr.SourceRef,
		TargetRef:        jr.TargetRef,
		RelationshipType: RelationshipTypeVocab.From(jr.RelationshipType),
		Description:      jr.Description,
	}, nil
}

func capabilitiesFromJSON(in []jsonCapability) ([]Capability, error) {
	var out []Capability
	for _, jc := range in {
		if err := checkWireID(jc.ID, TypeCapability); err != nil {
			return nil, err
		}
		if jc.Name == "" {
			return nil, jsonDecodeErr(TypeCapability, "name", missingField(TypeCapability, "name"))
		}
		refined, err := capabilitiesFromJSON(jc.RefinedCapabilities)
		if err != nil {
			return nil, err
		}
		out = append(out, Capability{
			ID:                  jc.ID,
			Name:                CapabilityVocab.From(jc.Name),
			Description:         jc.Description,
			BehaviorRefs:        jc.BehaviorRefs,
			RefinedCapabilities: refined,
			References:          externalReferencesFromJSON(jc.References),
		})
	}
	return out, nil
}

func fieldDataFromJSON(entity string, jf *jsonFieldData) (*FieldData, error) {
	if jf == nil {
		return nil, nil
	}
	first, err := parseTimePtr(entity, "field_data.first_seen", jf.FirstSeen)
	if err != nil {
		return nil, err
	}
	last, err := parseTimePtr(entity, "field_data.last_seen", jf.LastSeen)
	if err != nil {
		return nil, err
	}
	return &FieldData{
		DeliveryVectors: vocabsOf(DeliveryVectorVocab, jf.DeliveryVectors),
		FirstSeen:       first,
		LastSeen:        last,
	}, nil
}

func nameFromJSON(jn jsonName) Name {
	n := Name{Value: jn.Value}
	if jn.Source != nil {
		src := externalReferenceFromJSON(*jn.Source)
		n.Source = &src
	}
	if jn.Confidence != "" {
		n.Confidence = ConfidenceVocab.From(jn.Confidence)
	}
	return n
}

func namesFromJSON(in []jsonName) []Name {
	var out []Name
	for _, jn := range in {
		out = append(out, nameFromJSON(jn))
	}
	return out
}

func externalReferenceFromJSON(jr jsonExternalReference) ExternalReference {
	return ExternalReference{
		SourceName:  jr.SourceName,
		Description: jr.Description,
		URL:         jr.URL,
		ExternalID:  jr.ExternalID,
	}
}

func externalReferencesFromJSON(in []jsonExternalReference) []ExternalReference {
	var out []ExternalReference
	for _, jr := range in {
		out = append(out, externalReferenceFromJSON(jr))
	}
	return out
}

// encode-side helpers

func jsonNameOf(n Name) *jsonName {
	jn := jsonName{
		Value:      n.Value,
		Confidence: n.Confidence.String(),
	}
	if n.Source != nil {
		src := jsonExternalReferenceOf(*n.Source)
		jn.Source = &src
	}
	return &jn
}

func jsonNamePtr(n *Name) *jsonName {
	if n == nil {
		return nil
	}
	return jsonNameOf(*n)
}

func jsonNames(in []Name) []jsonName {
	var out []jsonName
	for _, n := range in {
		out = append(out, *jsonNameOf(n))
	}
	return out
}

func jsonExternalReferenceOf(r ExternalReference) jsonExternalReference {
	return jsonExternalReference{
		SourceName:  r.SourceName,
		Description: r.Description,
		URL:         r.URL,
		ExternalID:  r.ExternalID,
	}
}

func jsonExternalReferences(in []ExternalReference) []jsonExternalReference {
	var out []jsonExternalReference
	for _, r := range in {
		out = append(out, jsonExternalReferenceOf(r))
	}
	return out
}

func jsonCapabilities(in []Capability) []jsonCapability {
	var out []jsonCapability
	for _, c := range in {
		out = append(out, jsonCapability{
			ID:                  c.ID,
			Name:                c.Name.String(),
			Description:         c.Description,
			BehaviorRefs:        c.BehaviorRefs,
			RefinedCapabilities: jsonCapabilities(c.RefinedCapabilities),
			References:          jsonExternalReferences(c.References),
		})
	}
	return out
}

func jsonFieldDataOf(fd *FieldData) *jsonFieldData {
	if fd == nil {
		return nil
	}
	return &jsonFieldData{
		DeliveryVectors: vocabStrings(fd.DeliveryVectors),
		FirstSeen:       fmtTimePtr(fd.FirstSeen),
		LastSeen:        fmtTimePtr(fd.LastSeen),
	}
}

func vocabStrings(in []OpenVocab) []string {
	var out []string
	for _, v := range in {
		out = append(out, v.String())
	}
	return out
}

func vocabsOf(set *VocabSet, in []string) []OpenVocab {
	var out []OpenVocab
	for _, s := range in {
		out = append(out, set.From(s))
	}
	return out
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return fmtTime(*t)
}

func parseTime(entity, field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, jsonDecodeErr(entity, field, err)
	}
	return t.UTC(), nil
}

func parseTimePtr(entity, field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(entity, field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func checkWireID(id, typeName string) error {
	if id == "" {
		return jsonDecodeErr(typeName, "id", missingField(typeName, "id"))
	}
	if !MatchesType(id, typeName) {
		return jsonDecodeErr(typeName, "id", &InvalidIdentifierError{ID: id, Reason: "type token does not match " + typeName})
	}
	return nil
}

func jsonDecodeErr(entity, field string, err error) *DecodeError {
	return &DecodeError{Format: "json", Entity: entity, Field: field, Err: err}
}
