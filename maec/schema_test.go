package maec

import "testing"

func TestShapesCoverAllEntityTypes(t *testing.T) {
	seen := map[string]bool{}
	for _, shape := range Shapes() {
		if seen[shape.Type] {
			t.Errorf("entity type %q listed twice", shape.Type)
		}
		seen[shape.Type] = true
	}
	for typeName := range objectTypes {
		if !seen[typeName] {
			t.Errorf("entity type %q has no shape", typeName)
		}
	}
}

func TestShapesFieldInvariants(t *testing.T) {
	for _, shape := range Shapes() {
		fields := map[string]bool{}
		hasID := false
		for _, f := range shape.Fields {
			if fields[f.Name] {
				t.Errorf("%s: field %q listed twice", shape.Type, f.Name)
			}
			fields[f.Name] = true
			if f.Name == "id" {
				hasID = true
				if !f.Required || f.Kind != "identifier" {
					t.Errorf("%s: id must be a required identifier", shape.Type)
				}
			}
			if f.Kind == "open-vocab" && f.Vocab == "" {
				t.Errorf("%s.%s: open-vocab field missing vocabulary name", shape.Type, f.Name)
			}
			if f.Kind != "open-vocab" && f.Vocab != "" {
				t.Errorf("%s.%s: vocabulary set on non-vocab field", shape.Type, f.Name)
			}
		}
		if !hasID {
			t.Errorf("%s: no id field", shape.Type)
		}
	}
}

func TestVocabulariesDistinctAndNonEmpty(t *testing.T) {
	names := map[string]bool{}
	for _, set := range Vocabularies() {
		if set.Name() == "" {
			t.Error("vocabulary with empty name")
		}
		if names[set.Name()] {
			t.Errorf("vocabulary %q listed twice", set.Name())
		}
		names[set.Name()] = true
		if len(set.Members()) == 0 {
			t.Errorf("vocabulary %q has no members", set.Name())
		}
	}
	if len(names) != 12 {
		t.Errorf("vocabulary count = %d, want 12", len(names))
	}
}
