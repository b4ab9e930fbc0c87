package maec

import (
	"bytes"
	"encoding/json"
	"time"
)

// Equal reports semantic equality of two packages: identical field values
// and collection membership. Ordering of the entity collections is not
// significant; observable payloads are compared on compacted JSON so
// whitespace introduced by a codec does not count as drift.
func (p *Package) Equal(other *Package) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.ID != other.ID || p.SchemaVersion != other.SchemaVersion {
		return false
	}
	if !p.Created.Equal(other.Created) || !p.Modified.Equal(other.Modified) {
		return false
	}
	if !familiesEqual(p.MalwareFamilies, other.MalwareFamilies) {
		return false
	}
	if !instancesEqual(p.MalwareInstances, other.MalwareInstances) {
		return false
	}
	if !behaviorsEqual(p.Behaviors, other.Behaviors) {
		return false
	}
	if !collectionsEqual(p.Collections, other.Collections) {
		return false
	}
	if !relationshipsEqual(p.Relationships, other.Relationships) {
		return false
	}
	return observablesEqual(p.ObservableObjects, other.ObservableObjects)
}

func familiesEqual(a, b []MalwareFamily) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[string]MalwareFamily, len(b))
	for _, f := range b {
		byID[f.ID] = f
	}
	for _, f := range a {
		o, ok := byID[f.ID]
		if !ok || !familyEqual(f, o) {
			return false
		}
	}
	return true
}

func familyEqual(a, b MalwareFamily) bool {
	return a.ID == b.ID &&
		nameEqual(a.Name, b.Name) &&
		a.Description == b.Description &&
		vocabsEqual(a.Labels, b.Labels) &&
		namesEqual(a.Aliases, b.Aliases) &&
		capabilitiesEqual(a.CommonCapabilities, b.CommonCapabilities) &&
		fieldDataEqual(a.FieldData, b.FieldData)
}

func instancesEqual(a, b []MalwareInstance) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[string]MalwareInstance, len(b))
	for _, i := range b {
		byID[i.ID] = i
	}
	for _, i := range a {
		o, ok := byID[i.ID]
		if !ok || !instanceEqual(i, o) {
			return false
		}
	}
	return true
}

func instanceEqual(a, b MalwareInstance) bool {
	if a.ID != b.ID || a.Description != b.Description {
		return false
	}
	if !stringSetEqual(a.InstanceObjectRefs, b.InstanceObjectRefs) {
		return false
	}
	if (a.Name == nil) != (b.Name == nil) {
		return false
	}
	if a.Name != nil && !nameEqual(*a.Name, *b.Name) {
		return false
	}
	return vocabsEqual(a.Labels, b.Labels) && fieldDataEqual(a.FieldData, b.FieldData)
}

func behaviorsEqual(a, b []Behavior) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[string]Behavior, len(b))
	for _, bh := range b {
		byID[bh.ID] = bh
	}
	for _, bh := range a {
		o, ok := byID[bh.ID]
		if !ok || !behaviorEqual(bh, o) {
			return false
		}
	}
	return true
}

func behaviorEqual(a, b Behavior) bool {
	return a.ID == b.ID &&
		a.Created.Equal(b.Created) &&
		a.Modified.Equal(b.Modified) &&
		a.Name.Equal(b.Name) &&
		a.Description == b.Description &&
		timePtrEqual(a.Timestamp, b.Timestamp) &&
		referencesEqual(a.TechniqueRefs, b.TechniqueRefs)
}

func collectionsEqual(a, b []Collection) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[string]Collection, len(b))
	for _, c := range b {
		byID[c.ID] = c
	}
	for _, c := range a {
		o, ok := byID[c.ID]
		if !ok || !collectionEqual(c, o) {
			return false
		}
	}
	return true
}

func collectionEqual(a, b Collection) bool {
	return a.ID == b.ID &&
		a.Created.Equal(b.Created) &&
		a.Modified.Equal(b.Modified) &&
		a.Name == b.Name &&
		a.Description == b.Description &&
		a.Association.Equal(b.Association) &&
		stringSetEqual(a.RefList, b.RefList)
}

func relationshipsEqual(a, b []Relationship) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[string]Relationship, len(b))
	for _, r := range b {
		byID[r.ID] = r
	}
	for _, r := range a {
		o, ok := byID[r.ID]
		if !ok || !relationshipEqual(r, o) {
			return false
		}
	}
	return true
}

func relationshipEqual(a, b Relationship) bool {
	return a.ID == b.ID &&
		a.Created.Equal(b.Created) &&
		a.Modified.Equal(b.Modified) &&
		a.SourceRef == b.SourceRef &&
		a.TargetRef == b.TargetRef &&
		a.RelationshipType.Equal(b.RelationshipType) &&
		a.Description == b.Description
}

func capabilitiesEqual(a, b []Capability) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[string]Capability, len(b))
	for _, c := range b {
		byID[c.ID] = c
	}
	for _, c := range a {
		o, ok := byID[c.ID]
		if !ok || !capabilityEqual(c, o) {
			return false
		}
	}
	return true
}

func capabilityEqual(a, b Capability) bool {
	return a.ID == b.ID &&
		a.Name.Equal(b.Name) &&
		a.Description == b.Description &&
		stringSetEqual(a.BehaviorRefs, b.BehaviorRefs) &&
		capabilitiesEqual(a.RefinedCapabilities, b.RefinedCapabilities) &&
		referencesEqual(a.References, b.References)
}

func nameEqual(a, b Name) bool {
	if a.Value != b.Value || !a.Confidence.Equal(b.Confidence) {
		return false
	}
	if (a.Source == nil) != (b.Source == nil) {
		return false
	}
	return a.Source == nil || *a.Source == *b.Source
}

func namesEqual(a, b []Name) bool {
	if len(a) != len(b) {
		return false
	}
	byValue := make(map[string]Name, len(b))
	for _, n := range b {
		byValue[n.Value] = n
	}
	for _, n := range a {
		o, ok := byValue[n.Value]
		if !ok || !nameEqual(n, o) {
			return false
		}
	}
	return true
}

func fieldDataEqual(a, b *FieldData) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return vocabsEqual(a.DeliveryVectors, b.DeliveryVectors) &&
		timePtrEqual(a.FirstSeen, b.FirstSeen) &&
		timePtrEqual(a.LastSeen, b.LastSeen)
}

func vocabsEqual(a, b []OpenVocab) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(b))
	for _, v := range b {
		seen[v.String()] = struct{}{}
	}
	for _, v := range a {
		if _, ok := seen[v.String()]; !ok {
			return false
		}
	}
	return true
}

func referencesEqual(a, b []ExternalReference) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[ExternalReference]struct{}, len(b))
	for _, r := range b {
		seen[r] = struct{}{}
	}
	for _, r := range a {
		if _, ok := seen[r]; !ok {
			return false
		}
	}
	return true
}

func stringSetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		seen[s] = struct{}{}
	}
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			return false
		}
	}
	return true
}

func timePtrEqual(a, b *time.Time) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.Equal(*b)
}

func observablesEqual(a, b map[string]json.RawMessage) bool {
	if len(a) != len(b) {
		return false
	}
	for key, raw := range a {
		other, ok := b[key]
		if !ok || !rawJSONEqual(raw, other) {
			return false
		}
	}
	return true
}

func rawJSONEqual(a, b json.RawMessage) bool {
	var ca, cb bytes.Buffer
	if err := json.Compact(&ca, a); err != nil {
		return bytes.Equal(a, b)
	}
	if err := json.Compact(&cb, b); err != nil {
		return bytes.Equal(a, b)
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
