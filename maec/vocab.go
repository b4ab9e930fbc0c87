package maec

import "sort"

// VocabSet is a closed, spec-defined vocabulary: the set of canonical wire
// strings MAEC suggests for a field. Implementations may extend any open
// vocabulary with custom strings, so VocabSet is consulted only to classify
// a value, never to reject one.
type VocabSet struct {
	name    string
	members map[string]struct{}
}

// NewVocabSet builds a vocabulary from its canonical member strings.
func NewVocabSet(name string, members ...string) *VocabSet {
	set := &VocabSet{name: name, members: make(map[string]struct{}, len(members))}
	for _, m := range members {
		set.members[m] = struct{}{}
	}
	return set
}

// Name returns the vocabulary's identifier, e.g. "malware-label-ov".
func (v *VocabSet) Name() string { return v.name }

// Contains reports whether s is a canonical member of the vocabulary.
func (v *VocabSet) Contains(s string) bool {
	_, ok := v.members[s]
	return ok
}

// Members returns the canonical member strings in sorted order.
func (v *VocabSet) Members() []string {
	out := make([]string, 0, len(v.members))
	for m := range v.members {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// From wraps s as an OpenVocab value: a known member when s is canonical in
// this vocabulary, an extension value otherwise. Both cases serialize to the
// same string; the wire format never distinguishes them.
func (v *VocabSet) From(s string) OpenVocab {
	return OpenVocab{value: s, extension: !v.Contains(s)}
}

// OpenVocab is a tagged value holding either a member of a closed vocabulary
// or a free-form extension string. Equality and serialization operate on the
// resolved string form, so a typed member and an equal extension string
// compare equal.
type OpenVocab struct {
	value     string
	extension bool
}

// String returns the wire form of the value.
func (o OpenVocab) String() string { return o.value }

// IsExtension reports whether the value is outside its closed vocabulary.
func (o OpenVocab) IsExtension() bool { return o.extension }

// IsZero reports whether the value is unset.
func (o OpenVocab) IsZero() bool { return o.value == "" }

// Equal compares two values on their string form.
func (o OpenVocab) Equal(other OpenVocab) bool { return o.value == other.value }

// The MAEC 5.0 open vocabularies.
var (
	// ConfidenceVocab qualifies how certain a producer is of an asserted value.
	ConfidenceVocab = NewVocabSet("confidence-measure-ov",
		"none", "low", "medium", "high", "unknown",
	)

	// AnalysisTypeVocab classifies how a malware instance was analyzed.
	AnalysisTypeVocab = NewVocabSet("analysis-type-ov",
		"static", "dynamic", "combination",
	)

	// AnalysisConclusionVocab captures the verdict of an analysis.
	AnalysisConclusionVocab = NewVocabSet("analysis-conclusion-ov",
		"benign", "malicious", "suspicious", "indeterminate",
	)

	// AnalysisEnvironmentVocab names properties of an analysis environment.
	AnalysisEnvironmentVocab = NewVocabSet("analysis-environment-ov",
		"operating-system", "host-vm", "installed-software",
	)

	// ProcessorArchitectureVocab names instruction set architectures.
	ProcessorArchitectureVocab = NewVocabSet("processor-architecture-ov",
		"x86", "x86-64", "ia-64", "powerpc", "arm", "alpha", "sparc", "mips",
	)

	// ObfuscationMethodVocab names binary obfuscation methods.
	ObfuscationMethodVocab = NewVocabSet("obfuscation-method-ov",
		"packing", "code-encryption", "dead-code-insertion",
		"entry-point-obfuscation", "import-address-table-obfuscation",
		"interleaving-code", "symbolic-obfuscation", "string-obfuscation",
		"subroutine-reordering", "code-transposition",
		"instruction-substitution", "register-reassignment",
	)

	// DeliveryVectorVocab names vectors used to distribute malware.
	DeliveryVectorVocab = NewVocabSet("delivery-vector-ov",
		"active-attacker", "auto-executing-media", "downloader", "dropper",
		"email-attachment", "exploit-kit-landing-page", "fake-website",
		"janitor-attack", "malicious-iframes", "malvertising",
		"media-baiting", "pharming", "phishing", "trojanized-link",
		"trojanized-software", "usb-cable-syncing", "watering-hole",
	)

	// MalwareLabelVocab names common malware classifications.
	MalwareLabelVocab = NewVocabSet("malware-label-ov",
		"adware", "appender", "backdoor", "boot-sector-virus", "bot",
		"cavity-filler", "clicker", "companion-virus", "data-diddler",
		"downloader", "dropper-file", "file-infector-virus", "fork-bomb",
		"greyware", "implant", "infector", "joke-program", "keylogger",
		"kleptographic-worm", "macro-virus", "mass-mailer",
		"metamorphic-virus", "mid-infector", "mobile-code",
		"multipartite-virus", "parental-control", "password-stealer",
		"polymorphic-virus", "premium-dialer-or-smser", "prepender",
		"ransomware", "rogue-anti-malware", "rootkit", "scareware",
		"security-assessment-tool", "shellcode", "spaghetti-packer",
		"spyware", "trackware", "trojan-horse", "virus", "web-bug",
		"wiper", "worm",
	)

	// EntityAssociationVocab names the ways collection members relate.
	EntityAssociationVocab = NewVocabSet("entity-association-ov",
		"file-system-entities", "network-entities", "process-entities",
		"memory-entities", "ipc-entities", "device-entities",
		"registry-entities", "service-entities", "potential-indicators",
		"same-malware-family", "clustered-together", "observed-together",
		"part-of-intrusion-set", "same-malware-toolkit",
	)

	// RelationshipTypeVocab names typed edges between MAEC objects.
	RelationshipTypeVocab = NewVocabSet("relationship-type-ov",
		"ancestor-of", "communicates-with", "derived-from", "downloaded-by",
		"downloads", "dropped-by", "drops", "exfiltrates-to", "exploits",
		"extracted-from", "installed-by", "installs", "related-to",
		"variant-of",
	)

	// CapabilityVocab names high-level malware capabilities.
	CapabilityVocab = NewVocabSet("capability-ov",
		"anti-behavioral-analysis", "anti-code-analysis", "anti-detection",
		"anti-removal", "availability-violation", "collection",
		"command-and-control", "data-theft", "destruction", "discovery",
		"exfiltration", "fraud", "infection-propagation",
		"integrity-violation", "machine-access-control", "persistence",
		"privilege-escalation", "secondary-operation",
		"security-degradation", "spying",
	)
)
