package maec

import (
	"fmt"
	"time"
)

// ExternalReference links a MAEC object to an external source such as an
// ATT&CK technique, a CVE, or a vendor report.
type ExternalReference struct {
	SourceName  string
	Description string
	URL         string
	ExternalID  string
}

// NewExternalReference builds a reference with just a source name.
func NewExternalReference(sourceName string) ExternalReference {
	return ExternalReference{SourceName: sourceName}
}

// AttackTechnique builds a reference to a MITRE ATT&CK technique.
func AttackTechnique(techniqueID, name string) ExternalReference {
	return ExternalReference{
		SourceName:  "mitre-attack",
		Description: name,
		URL:         fmt.Sprintf("https://attack.mitre.org/techniques/%s", techniqueID),
		ExternalID:  techniqueID,
	}
}

// Name is a display name with optional provenance: who asserted it and with
// what confidence.
type Name struct {
	Value      string
	Source     *ExternalReference
	Confidence OpenVocab // ConfidenceVocab; zero value means absent
}

// NewName builds a Name with just a value.
func NewName(value string) Name {
	return Name{Value: value}
}

// WithSource returns a copy of the name carrying the asserting source.
func (n Name) WithSource(source ExternalReference) Name {
	n.Source = &source
	return n
}

// WithConfidence returns a copy of the name carrying a confidence measure.
func (n Name) WithConfidence(confidence string) Name {
	n.Confidence = ConfidenceVocab.From(confidence)
	return n
}

// FieldData captures temporal and provenance metadata observed in the field:
// first/last sighting and the delivery vectors seen in use. A FieldData value
// must carry at least one of its fields.
type FieldData struct {
	DeliveryVectors []OpenVocab // DeliveryVectorVocab
	FirstSeen       *time.Time
	LastSeen        *time.Time
}

// FieldDataBuilder stages construction of a FieldData value.
type FieldDataBuilder struct {
	vectors   []OpenVocab
	firstSeen *time.Time
	lastSeen  *time.Time
}

// NewFieldData returns an empty FieldData builder.
func NewFieldData() *FieldDataBuilder {
	return &FieldDataBuilder{}
}

// AddDeliveryVector records a delivery vector; duplicates are ignored.
func (b *FieldDataBuilder) AddDeliveryVector(vector string) *FieldDataBuilder {
	v := DeliveryVectorVocab.From(vector)
	for _, existing := range b.vectors {
		if existing.Equal(v) {
			return b
		}
	}
	b.vectors = append(b.vectors, v)
	return b
}

// FirstSeen sets the first observation timestamp.
func (b *FieldDataBuilder) FirstSeen(t time.Time) *FieldDataBuilder {
	ts := normalizeTime(t)
	b.firstSeen = &ts
	return b
}

// LastSeen sets the most recent observation timestamp.
func (b *FieldDataBuilder) LastSeen(t time.Time) *FieldDataBuilder {
	ts := normalizeTime(t)
	b.lastSeen = &ts
	return b
}

// Build validates that at least one field is set and returns the value.
func (b *FieldDataBuilder) Build() (*FieldData, error) {
	if len(b.vectors) == 0 && b.firstSeen == nil && b.lastSeen == nil {
		return nil, &ValidationError{
			Entity: "field-data",
			Field:  "delivery_vectors",
			Reason: "at least one of delivery_vectors, first_seen, last_seen must be set",
		}
	}
	return &FieldData{
		DeliveryVectors: b.vectors,
		FirstSeen:       b.firstSeen,
		LastSeen:        b.lastSeen,
	}, nil
}

// normalizeTime strips sub-second precision and monotonic readings so values
// survive an RFC 3339 round trip unchanged.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// timestamp returns the creation stamp applied to entities at Build.
func timestamp() time.Time {
	return normalizeTime(time.Now())
}
