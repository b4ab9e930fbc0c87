package maec

import (
	"encoding/json"
	"time"
)

// Package is the aggregate root: the unit of exchange carrying every object
// in one document. It owns its contained entities by value; cross-entity
// references are identifier strings resolved on demand by ResolveRefs.
//
// A Package must not be appended to concurrently; all values are safe for
// concurrent reads once assembled.
type Package struct {
	ID               string
	SchemaVersion    string
	Created          time.Time
	Modified         time.Time
	MalwareFamilies  []MalwareFamily
	MalwareInstances []MalwareInstance
	Behaviors        []Behavior
	Collections      []Collection
	Relationships    []Relationship

	// ObservableObjects maps external identifiers to opaque observable
	// payloads (STIX Cyber Observable Objects). They are carried, never
	// interpreted.
	ObservableObjects map[string]json.RawMessage
}

// PackageBuilder stages assembly of a Package.
type PackageBuilder struct {
	schemaVersion string
	families      []MalwareFamily
	instances     []MalwareInstance
	behaviors     []Behavior
	collections   []Collection
	relationships []Relationship
	observables   map[string]json.RawMessage
}

// NewPackage returns an empty Package builder.
func NewPackage() *PackageBuilder {
	return &PackageBuilder{}
}

// SchemaVersion overrides the default "5.0" schema version.
func (b *PackageBuilder) SchemaVersion(version string) *PackageBuilder {
	b.schemaVersion = version
	return b
}

// AddMalwareFamily appends an already-built family. The value is copied;
// it is not re-validated.
func (b *PackageBuilder) AddMalwareFamily(f MalwareFamily) *PackageBuilder {
	b.families = append(b.families, f)
	return b
}

// AddMalwareInstance appends an already-built instance.
func (b *PackageBuilder) AddMalwareInstance(i MalwareInstance) *PackageBuilder {
	b.instances = append(b.instances, i)
	return b
}

// AddBehavior appends an already-built behavior.
func (b *PackageBuilder) AddBehavior(bh Behavior) *PackageBuilder {
	b.behaviors = append(b.behaviors, bh)
	return b
}

// AddCollection appends an already-built collection.
func (b *PackageBuilder) AddCollection(c Collection) *PackageBuilder {
	b.collections = append(b.collections, c)
	return b
}

// AddRelationship appends an already-built relationship.
func (b *PackageBuilder) AddRelationship(r Relationship) *PackageBuilder {
	b.relationships = append(b.relationships, r)
	return b
}

// AddObservableObject stores an opaque observable payload under key.
// Re-adding a key replaces its payload.
func (b *PackageBuilder) AddObservableObject(key string, payload json.RawMessage) *PackageBuilder {
	if b.observables == nil {
		b.observables = make(map[string]json.RawMessage)
	}
	b.observables[key] = payload
	return b
}

// Build stamps an identifier and creation timestamps and returns the
// assembled Package. The schema version defaults to "5.0".
func (b *PackageBuilder) Build() (*Package, error) {
	version := b.schemaVersion
	if version == "" {
		version = SchemaVersion
	}
	now := timestamp()
	return &Package{
		ID:                GenerateID(TypePackage),
		SchemaVersion:     version,
		Created:           now,
		Modified:          now,
		MalwareFamilies:   b.families,
		MalwareInstances:  b.instances,
		Behaviors:         b.behaviors,
		Collections:       b.collections,
		Relationships:     b.relationships,
		ObservableObjects: b.observables,
	}, nil
}

// Validate performs structural checks on the package itself: identifier
// format and schema version presence. Reference resolution is the separate,
// advisory ResolveRefs pass.
func (p *Package) Validate() error {
	if !MatchesType(p.ID, TypePackage) {
		return &ValidationError{Entity: TypePackage, Field: "id", Reason: "not a package identifier"}
	}
	if p.SchemaVersion == "" {
		return missingField(TypePackage, "schema_version")
	}
	return nil
}

// Contains reports whether an object with the given identifier is present
// in the package.
func (p *Package) Contains(id string) bool {
	for _, f := range p.MalwareFamilies {
		if f.ID == id {
			return true
		}
	}
	for _, i := range p.MalwareInstances {
		if i.ID == id {
			return true
		}
	}
	for _, bh := range p.Behaviors {
		if bh.ID == id {
			return true
		}
	}
	for _, c := range p.Collections {
		if c.ID == id {
			return true
		}
	}
	for _, r := range p.Relationships {
		if r.ID == id {
			return true
		}
	}
	return false
}
