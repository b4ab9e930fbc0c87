package maec

import (
	"errors"
	"testing"
	"time"
)

func TestMalwareFamilyBuilder(t *testing.T) {
	fd, err := NewFieldData().
		AddDeliveryVector("phishing").
		FirstSeen(time.Date(2017, 5, 12, 0, 0, 0, 0, time.UTC)).
		Build()
	if err != nil {
		t.Fatalf("FieldData build: %v", err)
	}

	family, err := NewMalwareFamily().
		Name(NewName("WannaCry").WithConfidence("high")).
		Description("Ransomware family first seen in May 2017").
		AddLabel("ransomware").
		AddLabel("worm").
		AddLabel("ransomware"). // duplicate, ignored
		AddAlias(NewName("WanaCrypt0r")).
		FieldData(*fd).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if !MatchesType(family.ID, TypeMalwareFamily) {
		t.Errorf("family ID %q has wrong type token", family.ID)
	}
	if !idPattern.MatchString(family.ID) {
		t.Errorf("family ID %q does not match identifier pattern", family.ID)
	}
	if len(family.Labels) != 2 {
		t.Errorf("labels = %d, want 2 (duplicate add must collapse)", len(family.Labels))
	}
	if family.Name.Confidence.String() != "high" {
		t.Errorf("name confidence = %q, want high", family.Name.Confidence)
	}
}

func TestMalwareFamilyRequiresName(t *testing.T) {
	_, err := NewMalwareFamily().Description("nameless").Build()
	assertValidationError(t, err, TypeMalwareFamily, "name")
}

func TestMalwareInstanceBuilder(t *testing.T) {
	instance, err := NewMalwareInstance().
		AddObjectRef("0").
		AddObjectRef("1").
		AddObjectRef("0"). // duplicate, ignored
		Name(NewName("sample.exe")).
		AddLabel("dropper-file").
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(instance.InstanceObjectRefs) != 2 {
		t.Errorf("object refs = %d, want 2", len(instance.InstanceObjectRefs))
	}
	if !MatchesType(instance.ID, TypeMalwareInstance) {
		t.Errorf("instance ID %q has wrong type token", instance.ID)
	}
}

func TestMalwareInstanceRequiresObjectRef(t *testing.T) {
	_, err := NewMalwareInstance().Name(NewName("sample.exe")).Build()
	assertValidationError(t, err, TypeMalwareInstance, "instance_object_refs")
}

func TestBehaviorBuilder(t *testing.T) {
	behavior, err := NewBehavior("capture-keyboard-input").
		Description("Hooks the keyboard event chain").
		Timestamp(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)).
		AddTechniqueRef(AttackTechnique("T1056.001", "Keylogging")).
		AddTechniqueRef(AttackTechnique("T1056.001", "Keylogging")). // duplicate
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(behavior.TechniqueRefs) != 1 {
		t.Errorf("technique refs = %d, want 1", len(behavior.TechniqueRefs))
	}
	if behavior.Name.IsExtension() {
		t.Error("capture-keyboard-input should be a known behavior")
	}
	if behavior.Created.IsZero() || behavior.Modified.IsZero() {
		t.Error("behavior must carry creation timestamps")
	}
}

func TestBehaviorRequiresName(t *testing.T) {
	_, err := NewBehavior("").Build()
	assertValidationError(t, err, TypeBehavior, "name")
}

func TestCapabilityBuilder(t *testing.T) {
	behaviorID := GenerateID(TypeBehavior)
	capability, err := NewCapability("persistence").
		Description("Survives reboot").
		AddBehaviorRef(behaviorID).
		AddBehaviorRef(behaviorID). // duplicate
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(capability.BehaviorRefs) != 1 {
		t.Errorf("behavior refs = %d, want 1", len(capability.BehaviorRefs))
	}
	if !MatchesType(capability.ID, TypeCapability) {
		t.Errorf("capability ID %q has wrong type token", capability.ID)
	}
}

func TestCapabilityRejectsWrongTypedRef(t *testing.T) {
	_, err := NewCapability("persistence").
		AddBehaviorRef(GenerateID(TypeMalwareFamily)).
		Build()
	assertValidationError(t, err, TypeCapability, "behavior_refs")
}

func TestRelationshipBuilder(t *testing.T) {
	source := GenerateID(TypeMalwareInstance)
	target := GenerateID(TypeMalwareInstance)

	rel, err := NewRelationship().Source(source).Target(target).Type("variant-of").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if rel.SourceRef != source || rel.TargetRef != target {
		t.Error("relationship endpoints not preserved")
	}

	tests := []struct {
		name    string
		builder *RelationshipBuilder
		field   string
	}{
		{"missing source", NewRelationship().Target(target).Type("variant-of"), "source_ref"},
		{"missing target", NewRelationship().Source(source).Type("variant-of"), "target_ref"},
		{"missing type", NewRelationship().Source(source).Target(target), "relationship_type"},
		{"malformed source", NewRelationship().Source("junk").Target(target).Type("variant-of"), "source_ref"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			assertValidationError(t, err, TypeRelationship, tt.field)
		})
	}
}

func TestCollectionBuilder(t *testing.T) {
	member := GenerateID(TypeMalwareInstance)
	coll, err := NewCollection().
		Name("campaign-2024").
		Association("observed-together").
		AddRef(member).
		AddRef(member). // duplicate
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(coll.RefList) != 1 {
		t.Errorf("ref list = %d, want 1", len(coll.RefList))
	}

	_, err = NewCollection().AddRef("not-an-id").Build()
	assertValidationError(t, err, TypeCollection, "ref_list")
}

func TestFieldDataRequiresOneField(t *testing.T) {
	_, err := NewFieldData().Build()
	if err == nil {
		t.Fatal("empty FieldData build succeeded, want error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}

	if _, err := NewFieldData().AddDeliveryVector("phishing").Build(); err != nil {
		t.Errorf("FieldData with one vector failed: %v", err)
	}
	if _, err := NewFieldData().LastSeen(time.Now()).Build(); err != nil {
		t.Errorf("FieldData with last_seen failed: %v", err)
	}
}

func TestPackageBuilderDefaults(t *testing.T) {
	pkg, err := NewPackage().Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if pkg.SchemaVersion != "5.0" {
		t.Errorf("schema version = %q, want 5.0", pkg.SchemaVersion)
	}
	if !MatchesType(pkg.ID, TypePackage) {
		t.Errorf("package ID %q has wrong type token", pkg.ID)
	}
	if err := pkg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func assertValidationError(t *testing.T, err error, entity, field string) {
	t.Helper()
	if err == nil {
		t.Fatal("build succeeded, want ValidationError")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T (%v), want *ValidationError", err, err)
	}
	if verr.Entity != entity || verr.Field != field {
		t.Errorf("ValidationError = %s.%s, want %s.%s", verr.Entity, verr.Field, entity, field)
	}
}
