// Package maec implements the MAEC 5.0 data model for structured
// malware-analysis records: typed objects (Package, MalwareFamily,
// MalwareInstance, Behavior, Capability, Collection, Relationship), open
// vocabularies, validating builders, a cross-reference resolver, and
// JSON/XML codecs that round-trip without semantic drift.
//
// All entity values are immutable after Build; the package performs no I/O
// and keeps no global mutable state, so values can be shared freely across
// goroutines.
package maec

// Media types for MAEC content exchanged over HTTP.
const (
	// MediaTypeJSON is the MAEC 5.0 JSON media type.
	MediaTypeJSON = "application/maec+json;version=5.0"

	// MediaTypeJSONGeneric is the MAEC JSON media type without a version.
	MediaTypeJSONGeneric = "application/maec+json"
)

// SchemaVersion is the MAEC specification version this package implements.
const SchemaVersion = "5.0"
