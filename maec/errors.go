package maec

import "fmt"

// InvalidIdentifierError reports a malformed or wrong-typed MAEC identifier.
type InvalidIdentifierError struct {
	ID     string
	Reason string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid MAEC identifier %q: %s", e.ID, e.Reason)
}

// ValidationError reports a missing or invalid required field, raised at the
// builder boundary before any entity is returned.
type ValidationError struct {
	Entity string // entity type token, e.g. "malware-family"
	Field  string // offending field, e.g. "name"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid field %q: %s", e.Entity, e.Field, e.Reason)
}

// DecodeError reports malformed wire bytes or a decoded document that is
// missing a required field. Entity and Field locate the failure inside the
// document; Err carries the underlying cause when one exists.
type DecodeError struct {
	Format string // "json" or "xml"
	Entity string // enclosing entity type token, empty for document-level failures
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	where := e.Entity
	if e.Field != "" {
		where = e.Entity + "." + e.Field
	}
	if where == "" {
		where = "document"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s decode: %s: %v", e.Format, where, e.Err)
	}
	return fmt.Sprintf("%s decode: %s", e.Format, where)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func missingField(entity, field string) *ValidationError {
	return &ValidationError{Entity: entity, Field: field, Reason: "required field is missing"}
}
