package maec

import "time"

// Collection groups related objects in a package, e.g. all instances
// observed in one intrusion set. Members are referenced by identifier.
type Collection struct {
	ID          string
	Created     time.Time
	Modified    time.Time
	Name        string
	Description string
	Association OpenVocab // EntityAssociationVocab
	RefList     []string  // identifiers of member objects
}

// CollectionBuilder stages construction of a Collection.
type CollectionBuilder struct {
	name        string
	description string
	association OpenVocab
	refList     []string
}

// NewCollection returns an empty Collection builder.
func NewCollection() *CollectionBuilder {
	return &CollectionBuilder{}
}

// Name sets the optional collection name.
func (b *CollectionBuilder) Name(name string) *CollectionBuilder {
	b.name = name
	return b
}

// Description sets the free-text description.
func (b *CollectionBuilder) Description(desc string) *CollectionBuilder {
	b.description = desc
	return b
}

// Association sets how the members relate to each other.
func (b *CollectionBuilder) Association(association string) *CollectionBuilder {
	b.association = EntityAssociationVocab.From(association)
	return b
}

// AddRef records a member object identifier; duplicates are ignored.
func (b *CollectionBuilder) AddRef(ref string) *CollectionBuilder {
	b.refList = appendUnique(b.refList, ref)
	return b
}

// Build validates the staged fields, stamps an identifier and creation
// timestamps, and returns an immutable Collection.
func (b *CollectionBuilder) Build() (*Collection, error) {
	for _, ref := range b.refList {
		if _, err := ParseID(ref); err != nil {
			return nil, &ValidationError{Entity: TypeCollection, Field: "ref_list", Reason: err.Error()}
		}
	}
	now := timestamp()
	return &Collection{
		ID:          GenerateID(TypeCollection),
		Created:     now,
		Modified:    now,
		Name:        b.name,
		Description: b.description,
		Association: b.association,
		RefList:     b.refList,
	}, nil
}
