package maec

import "testing"

func TestOpenVocabFromLaw(t *testing.T) {
	// From(s).String() == s for all strings, member or not.
	inputs := []string{"ransomware", "keylogger", "my-custom-label", "", "RANSOMWARE"}
	for _, s := range inputs {
		if got := MalwareLabelVocab.From(s).String(); got != s {
			t.Errorf("From(%q).String() = %q, want %q", s, got, s)
		}
	}
}

func TestOpenVocabClassification(t *testing.T) {
	tests := []struct {
		name      string
		set       *VocabSet
		value     string
		extension bool
	}{
		{"known label", MalwareLabelVocab, "ransomware", false},
		{"custom label", MalwareLabelVocab, "cryptojacker", true},
		{"known vector", DeliveryVectorVocab, "email-attachment", false},
		{"custom vector", DeliveryVectorVocab, "carrier-pigeon", true},
		{"known confidence", ConfidenceVocab, "high", false},
		{"known behavior", BehaviorVocab, "capture-keyboard-input", false},
		{"custom behavior", BehaviorVocab, "mine-monero-quietly", true},
		{"case sensitive", MalwareLabelVocab, "Ransomware", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.set.From(tt.value)
			if v.IsExtension() != tt.extension {
				t.Errorf("From(%q).IsExtension() = %v, want %v", tt.value, v.IsExtension(), tt.extension)
			}
		})
	}
}

func TestOpenVocabEquality(t *testing.T) {
	// A typed member and an equal extension string compare equal.
	member := MalwareLabelVocab.From("worm")
	extension := ConfidenceVocab.From("worm") // "worm" is not a confidence level
	if !extension.IsExtension() {
		t.Fatal("expected extension case")
	}
	if !member.Equal(extension) {
		t.Error("member and equal extension string should compare equal")
	}
	if member.Equal(MalwareLabelVocab.From("virus")) {
		t.Error("distinct values should not compare equal")
	}
}

func TestVocabSetMembers(t *testing.T) {
	members := ConfidenceVocab.Members()
	want := []string{"high", "low", "medium", "none", "unknown"}
	if len(members) != len(want) {
		t.Fatalf("ConfidenceVocab.Members() = %v, want %v", members, want)
	}
	for i, m := range want {
		if members[i] != m {
			t.Errorf("Members()[%d] = %q, want %q", i, members[i], m)
		}
	}
}

func TestBehaviorVocabSize(t *testing.T) {
	if n := len(BehaviorVocab.Members()); n < 190 {
		t.Errorf("behavior vocabulary has %d members, want at least 190", n)
	}
}

func TestOpenVocabZero(t *testing.T) {
	var v OpenVocab
	if !v.IsZero() {
		t.Error("zero OpenVocab should report IsZero")
	}
	if ConfidenceVocab.From("high").IsZero() {
		t.Error("populated OpenVocab should not report IsZero")
	}
}
