package maec

// Capability describes a high-level ability a malware family or instance
// implements, e.g. persistence or credential theft. Behaviors realizing the
// capability are referenced by identifier, never owned.
type Capability struct {
	ID                  string
	Name                OpenVocab // CapabilityVocab
	Description         string
	BehaviorRefs        []string // identifiers of behaviors this capability subsumes
	RefinedCapabilities []Capability
	References          []ExternalReference
}

// CapabilityBuilder stages construction of a Capability.
type CapabilityBuilder struct {
	name         OpenVocab
	description  string
	behaviorRefs []string
	refined      []Capability
	references   []ExternalReference
}

// NewCapability returns a builder for a Capability with the given name.
func NewCapability(name string) *CapabilityBuilder {
	return &CapabilityBuilder{name: CapabilityVocab.From(name)}
}

// Description sets the free-text description.
func (b *CapabilityBuilder) Description(desc string) *CapabilityBuilder {
	b.description = desc
	return b
}

// AddBehaviorRef records a reference to a behavior realizing this
// capability; duplicates are ignored.
func (b *CapabilityBuilder) AddBehaviorRef(ref string) *CapabilityBuilder {
	b.behaviorRefs = appendUnique(b.behaviorRefs, ref)
	return b
}

// AddRefinedCapability nests an already-built sub-capability.
func (b *CapabilityBuilder) AddRefinedCapability(c Capability) *CapabilityBuilder {
	b.refined = append(b.refined, c)
	return b
}

// AddReference records an external reference, e.g. an ATT&CK tactic.
func (b *CapabilityBuilder) AddReference(ref ExternalReference) *CapabilityBuilder {
	b.references = append(b.references, ref)
	return b
}

// Build validates the staged fields, stamps an identifier, and returns an
// immutable Capability.
func (b *CapabilityBuilder) Build() (*Capability, error) {
	if b.name.IsZero() {
		return nil, missingField(TypeCapability, "name")
	}
	for _, ref := range b.behaviorRefs {
		if !MatchesType(ref, TypeBehavior) {
			return nil, &ValidationError{
				Entity: TypeCapability,
				Field:  "behavior_refs",
				Reason: "reference " + ref + " is not a behavior identifier",
			}
		}
	}
	return &Capability{
		ID:                  GenerateID(TypeCapability),
		Name:                b.name,
		Description:         b.description,
		BehaviorRefs:        b.behaviorRefs,
		RefinedCapabilities: b.refined,
		References:          b.references,
	}, nil
}

func appendUnique(refs []string, ref string) []string {
	for _, existing := range refs {
		if existing == ref {
			return refs
		}
	}
	return append(refs, ref)
}
