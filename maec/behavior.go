package maec

import "time"

// Behavior corresponds to the specific purpose behind a particular snippet
// of code executed by a malware instance, e.g. keylogging or detecting a
// virtual machine.
type Behavior struct {
	ID            string
	Created       time.Time
	Modified      time.Time
	Name          OpenVocab // BehaviorVocab
	Description   string
	Timestamp     *time.Time // when the behavior was observed
	TechniqueRefs []ExternalReference
}

// BehaviorBuilder stages construction of a Behavior.
type BehaviorBuilder struct {
	name          OpenVocab
	description   string
	observed      *time.Time
	techniqueRefs []ExternalReference
}

// NewBehavior returns a builder for a Behavior with the given name.
func NewBehavior(name string) *BehaviorBuilder {
	return &BehaviorBuilder{name: BehaviorVocab.From(name)}
}

// Description sets the free-text description.
func (b *BehaviorBuilder) Description(desc string) *BehaviorBuilder {
	b.description = desc
	return b
}

// Timestamp records when the behavior was observed.
func (b *BehaviorBuilder) Timestamp(t time.Time) *BehaviorBuilder {
	ts := normalizeTime(t)
	b.observed = &ts
	return b
}

// AddTechniqueRef records an ATT&CK technique reference; duplicates are
// ignored.
func (b *BehaviorBuilder) AddTechniqueRef(ref ExternalReference) *BehaviorBuilder {
	for _, existing := range b.techniqueRefs {
		if existing == ref {
			return b
		}
	}
	b.techniqueRefs = append(b.techniqueRefs, ref)
	return b
}

// Build validates the staged fields, stamps an identifier and creation
// timestamps, and returns an immutable Behavior.
func (b *BehaviorBuilder) Build() (*Behavior, error) {
	if b.name.IsZero() {
		return nil, missingField(TypeBehavior, "name")
	}
	now := timestamp()
	return &Behavior{
		ID:            GenerateID(TypeBehavior),
		Created:       now,
		Modified:      now,
		Name:          b.name,
		Description:   b.description,
		Timestamp:     b.observed,
		TechniqueRefs: b.techniqueRefs,
	}, nil
}
