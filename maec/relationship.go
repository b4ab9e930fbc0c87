package maec

import "time"

// Relationship is a first-class typed edge between two objects in a
// package, e.g. one malware instance "dropped-by" another.
type Relationship struct {
	ID               string
	Created          time.Time
	Modified         time.Time
	SourceRef        string
	TargetRef        string
	RelationshipType OpenVocab // RelationshipTypeVocab
	Description      string
}

// RelationshipBuilder stages construction of a Relationship.
type RelationshipBuilder struct {
	sourceRef   string
	targetRef   string
	relType     OpenVocab
	description string
}

// NewRelationship returns an empty Relationship builder.
func NewRelationship() *RelationshipBuilder {
	return &RelationshipBuilder{}
}

// Source sets the identifier of the source object.
func (b *RelationshipBuilder) Source(ref string) *RelationshipBuilder {
	b.sourceRef = ref
	return b
}

// Target sets the identifier of the target object.
func (b *RelationshipBuilder) Target(ref string) *RelationshipBuilder {
	b.targetRef = ref
	return b
}

// Type sets the relationship type.
func (b *RelationshipBuilder) Type(relType string) *RelationshipBuilder {
	b.relType = RelationshipTypeVocab.From(relType)
	return b
}

// Description sets the free-text description.
func (b *RelationshipBuilder) Description(desc string) *RelationshipBuilder {
	b.description = desc
	return b
}

// Build validates the staged fields, stamps an identifier and creation
// timestamps, and returns an immutable Relationship. Source and target must
// be well-formed MAEC identifiers; whether they resolve inside a package is
// checked separately by ResolveRefs.
func (b *RelationshipBuilder) Build() (*Relationship, error) {
	if b.sourceRef == "" {
		return nil, missingField(TypeRelationship, "source_ref")
	}
	if b.targetRef == "" {
		return nil, missingField(TypeRelationship, "target_ref")
	}
	if b.relType.IsZero() {
		return nil, missingField(TypeRelationship, "relationship_type")
	}
	if _, err := ParseID(b.sourceRef); err != nil {
		return nil, &ValidationError{Entity: TypeRelationship, Field: "source_ref", Reason: err.Error()}
	}
	if _, err := ParseID(b.targetRef); err != nil {
		return nil, &ValidationError{Entity: TypeRelationship, Field: "target_ref", Reason: err.Error()}
	}
	now := timestamp()
	return &Relationship{
		ID:               GenerateID(TypeRelationship),
		Created:          now,
		Modified:         now,
		SourceRef:        b.sourceRef,
		TargetRef:        b.targetRef,
		RelationshipType: b.relType,
		Description:      b.description,
	}, nil
}
