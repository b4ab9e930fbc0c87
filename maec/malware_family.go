package maec

// MalwareFamily groups malware instances sharing common code and behavior,
// e.g. a ransomware strain tracked across campaigns.
type MalwareFamily struct {
	ID                 string
	Name               Name
	Description        string
	Labels             []OpenVocab // MalwareLabelVocab
	Aliases            []Name
	CommonCapabilities []Capability
	FieldData          *FieldData
}

// MalwareFamilyBuilder stages construction of a MalwareFamily.
type MalwareFamilyBuilder struct {
	name        *Name
	description string
	labels      []OpenVocab
	aliases     []Name
	caps        []Capability
	fieldData   *FieldData
}

// NewMalwareFamily returns an empty MalwareFamily builder.
func NewMalwareFamily() *MalwareFamilyBuilder {
	return &MalwareFamilyBuilder{}
}

// Name sets the required family name.
func (b *MalwareFamilyBuilder) Name(n Name) *MalwareFamilyBuilder {
	b.name = &n
	return b
}

// Description sets the free-text description.
func (b *MalwareFamilyBuilder) Description(desc string) *MalwareFamilyBuilder {
	b.description = desc
	return b
}

// AddLabel records a malware label; duplicates are ignored.
func (b *MalwareFamilyBuilder) AddLabel(label string) *MalwareFamilyBuilder {
	b.labels = appendUniqueVocab(b.labels, MalwareLabelVocab.From(label))
	return b
}

// AddAlias records an alternative name for the family; duplicates (by value)
// are ignored.
func (b *MalwareFamilyBuilder) AddAlias(alias Name) *MalwareFamilyBuilder {
	for _, existing := range b.aliases {
		if existing.Value == alias.Value {
			return b
		}
	}
	b.aliases = append(b.aliases, alias)
	return b
}

// AddCommonCapability embeds an already-built capability shared by all
// instances of the family. The capability is not re-validated.
func (b *MalwareFamilyBuilder) AddCommonCapability(c Capability) *MalwareFamilyBuilder {
	b.caps = append(b.caps, c)
	return b
}

// FieldData attaches field observation metadata.
func (b *MalwareFamilyBuilder) FieldData(fd FieldData) *MalwareFamilyBuilder {
	b.fieldData = &fd
	return b
}

// Build validates the staged fields, stamps an identifier, and returns an
// immutable MalwareFamily.
func (b *MalwareFamilyBuilder) Build() (*MalwareFamily, error) {
	if b.name == nil || b.name.Value == "" {
		return nil, missingField(TypeMalwareFamily, "name")
	}
	return &MalwareFamily{
		ID:                 GenerateID(TypeMalwareFamily),
		Name:               *b.name,
		Description:        b.description,
		Labels:             b.labels,
		Aliases:            b.aliases,
		CommonCapabilities: b.caps,
		FieldData:          b.fieldData,
	}, nil
}

func appendUniqueVocab(values []OpenVocab, v OpenVocab) []OpenVocab {
	for _, existing := range values {
		if existing.Equal(v) {
			return values
		}
	}
	return append(values, v)
}
