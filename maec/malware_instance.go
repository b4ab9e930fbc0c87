package maec

// MalwareInstance captures a single analyzed malware binary or sample. The
// instance corresponds to one or more observable objects (files, processes)
// referenced by key into the enclosing package's observable-object mapping.
type MalwareInstance struct {
	ID                 string
	InstanceObjectRefs []string // keys into Package.ObservableObjects, required non-empty
	Name               *Name
	Labels             []OpenVocab // MalwareLabelVocab
	Description        string
	FieldData          *FieldData
}

// MalwareInstanceBuilder stages construction of a MalwareInstance.
type MalwareInstanceBuilder struct {
	objectRefs  []string
	name        *Name
	labels      []OpenVocab
	description string
	fieldData   *FieldData
}

// NewMalwareInstance returns an empty MalwareInstance builder.
func NewMalwareInstance() *MalwareInstanceBuilder {
	return &MalwareInstanceBuilder{}
}

// AddObjectRef records a reference to an observable object this instance
// corresponds to; duplicates are ignored. At least one is required.
func (b *MalwareInstanceBuilder) AddObjectRef(ref string) *MalwareInstanceBuilder {
	b.objectRefs = appendUnique(b.objectRefs, ref)
	return b
}

// Name sets the optional instance name.
func (b *MalwareInstanceBuilder) Name(n Name) *MalwareInstanceBuilder {
	b.name = &n
	return b
}

// AddLabel records a malware label; duplicates are ignored.
func (b *MalwareInstanceBuilder) AddLabel(label string) *MalwareInstanceBuilder {
	b.labels = appendUniqueVocab(b.labels, MalwareLabelVocab.From(label))
	return b
}

// Description sets the free-text description.
func (b *MalwareInstanceBuilder) Description(desc string) *MalwareInstanceBuilder {
	b.description = desc
	return b
}

// FieldData attaches field observation metadata.
func (b *MalwareInstanceBuilder) FieldData(fd FieldData) *MalwareInstanceBuilder {
	b.fieldData = &fd
	return b
}

// Build validates the staged fields, stamps an identifier, and returns an
// immutable MalwareInstance.
func (b *MalwareInstanceBuilder) Build() (*MalwareInstance, error) {
	if len(b.objectRefs) == 0 {
		return nil, missingField(TypeMalwareInstance, "instance_object_refs")
	}
	return &MalwareInstance{
		ID:                 GenerateID(TypeMalwareInstance),
		InstanceObjectRefs: b.objectRefs,
		Name:               b.name,
		Labels:             b.labels,
		Description:        b.description,
		FieldData:          b.fieldData,
	}, nil
}
