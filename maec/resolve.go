package maec

import "fmt"

// RefIssue is one advisory diagnostic from ResolveRefs: a reference whose
// target is absent from the package or carries the wrong type token. MAEC
// permits referencing objects defined in other packages, so an issue is a
// finding for the caller to judge, not a hard failure.
type RefIssue struct {
	SourceID string // identifier of the object holding the reference
	Field    string // field the reference lives in, e.g. "behavior_refs"
	Ref      string // the referenced identifier or observable key
	Expected string // expected type token, or "observable-object"
	Missing  bool   // true when the target is absent, false when mistyped
}

func (i RefIssue) String() string {
	if i.Missing {
		return fmt.Sprintf("%s.%s: %s %q not present in package", i.SourceID, i.Field, i.Expected, i.Ref)
	}
	return fmt.Sprintf("%s.%s: %q is not a %s identifier", i.SourceID, i.Field, i.Ref, i.Expected)
}

// ResolveRefs walks every identifier-reference field in the package and
// returns the full list of references that do not resolve locally. An empty
// list means the package is self-consistent.
func ResolveRefs(p *Package) []RefIssue {
	var issues []RefIssue

	behaviors := make(map[string]struct{}, len(p.Behaviors))
	for _, b := range p.Behaviors {
		behaviors[b.ID] = struct{}{}
	}

	var checkCapability func(c Capability)
	checkCapability = func(c Capability) {
		for _, ref := range c.BehaviorRefs {
			if !MatchesType(ref, TypeBehavior) {
				issues = append(issues, RefIssue{
					SourceID: c.ID, Field: "behavior_refs", Ref: ref, Expected: TypeBehavior,
				})
				continue
			}
			if _, ok := behaviors[ref]; !ok {
				issues = append(issues, RefIssue{
					SourceID: c.ID, Field: "behavior_refs", Ref: ref, Expected: TypeBehavior, Missing: true,
				})
			}
		}
		for _, refined := range c.RefinedCapabilities {
			checkCapability(refined)
		}
	}

	for _, f := range p.MalwareFamilies {
		for _, c := range f.CommonCapabilities {
			checkCapability(c)
		}
	}

	for _, inst := range p.MalwareInstances {
		for _, ref := range inst.InstanceObjectRefs {
			if _, ok := p.ObservableObjects[ref]; !ok {
				issues = append(issues, RefIssue{
					SourceID: inst.ID, Field: "instance_object_refs", Ref: ref,
					Expected: "observable-object", Missing: true,
				})
			}
		}
	}

	checkEdge := func(relID, field, ref string) {
		if !ValidID(ref) {
			issues = append(issues, RefIssue{
				SourceID: relID, Field: field, Ref: ref, Expected: "object",
			})
			return
		}
		if !p.Contains(ref) {
			issues = append(issues, RefIssue{
				SourceID: relID, Field: field, Ref: ref, Expected: "object", Missing: true,
			})
		}
	}
	for _, rel := range p.Relationships {
		checkEdge(rel.ID, "source_ref", rel.SourceRef)
		checkEdge(rel.ID, "target_ref", rel.TargetRef)
	}

	for _, c := range p.Collections {
		for _, ref := range c.RefList {
			if !ValidID(ref) {
				issues = append(issues, RefIssue{
					SourceID: c.ID, Field: "ref_list", Ref: ref, Expected: "object",
				})
				continue
			}
			if !p.Contains(ref) {
				issues = append(issues, RefIssue{
					SourceID: c.ID, Field: "ref_list", Ref: ref, Expected: "object", Missing: true,
				})
			}
		}
	}

	return issues
}
