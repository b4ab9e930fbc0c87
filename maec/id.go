package maec

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Type tokens for every addressable MAEC object kind. The token is the
// prefix of the object's identifier, e.g. "malware-family--<uuid>".
const (
	TypePackage         = "package"
	TypeMalwareFamily   = "malware-family"
	TypeMalwareInstance = "malware-instance"
	TypeBehavior        = "behavior"
	TypeCapability      = "capability"
	TypeCollection      = "collection"
	TypeRelationship    = "relationship"
)

var objectTypes = map[string]struct{}{
	TypePackage:         {},
	TypeMalwareFamily:   {},
	TypeMalwareInstance: {},
	TypeBehavior:        {},
	TypeCapability:      {},
	TypeCollection:      {},
	TypeRelationship:    {},
}

// GenerateID mints a fresh identifier of the form "<typeName>--<uuid-v4>".
// Uniqueness is probabilistic via UUID entropy; no registry is consulted.
func GenerateID(typeName string) string {
	return typeName + "--" + uuid.NewString()
}

// ParseID splits a MAEC identifier into its type token, failing with
// *InvalidIdentifierError when the separator is absent, the type token is
// not a recognized object kind, or the suffix is not a version-4 UUID.
func ParseID(id string) (typeName string, err error) {
	token, suffix, ok := strings.Cut(id, "--")
	if !ok {
		return "", &InvalidIdentifierError{ID: id, Reason: "missing \"--\" separator"}
	}
	if _, known := objectTypes[token]; !known {
		return "", &InvalidIdentifierError{ID: id, Reason: fmt.Sprintf("unrecognized type token %q", token)}
	}
	u, uerr := uuid.Parse(suffix)
	if uerr != nil || suffix != strings.ToLower(suffix) || len(suffix) != 36 {
		return "", &InvalidIdentifierError{ID: id, Reason: "suffix is not a valid UUID"}
	}
	if u.Version() != 4 || u.Variant() != uuid.RFC4122 {
		return "", &InvalidIdentifierError{ID: id, Reason: "UUID is not version 4"}
	}
	return token, nil
}

// ValidID reports whether id is a well-formed MAEC identifier.
func ValidID(id string) bool {
	_, err := ParseID(id)
	return err == nil
}

// MatchesType reports whether id is a well-formed identifier whose type
// token equals typeName. Used to check that a reference field points at an
// object of the expected kind.
func MatchesType(id, typeName string) bool {
	token, err := ParseID(id)
	return err == nil && token == typeName
}

// TypeOf returns the type token of id, or "" when id is malformed.
func TypeOf(id string) string {
	token, err := ParseID(id)
	if err != nil {
		return ""
	}
	return token
}
