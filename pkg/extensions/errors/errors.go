package errors

import (
	"fmt"
)

// DuplicateAttributeError signals that an attribute code was registered twice
// for the same entity kind. Registration happens at startup, so this is a
// programmer error and not recoverable.
type DuplicateAttributeError struct {
	entityKind string
	code       string
}

func NewDuplicateAttributeError(entityKind, code string) DuplicateAttributeError {
	return DuplicateAttributeError{entityKind: entityKind, code: code}
}

func (e DuplicateAttributeError) Error() string {
	return fmt.Sprintf("attribute \"%s\" is already registered for entity kind \"%s\"", e.code, e.entityKind)
}

// DuplicateSchemaError signals that an object type schema name was
// registered twice.
type DuplicateSchemaError struct {
	name string
}

func NewDuplicateSchemaError(name string) DuplicateSchemaError {
	return DuplicateSchemaError{name: name}
}

func (e DuplicateSchemaError) Error() string {
	return fmt.Sprintf("object type schema \"%s\" is already registered", e.name)
}

// UnknownAttributeError signals a container write against an attribute code
// that was never registered for the entity's kind.
type UnknownAttributeError struct {
	entityKind string
	code       string
}

func NewUnknownAttributeError(entityKind, code string) UnknownAttributeError {
	return UnknownAttributeError{entityKind: entityKind, code: code}
}

func (e UnknownAttributeError) Error() string {
	return fmt.Sprintf("no attribute \"%s\" registered for entity kind \"%s\"", e.code, e.entityKind)
}

// TypeMismatchError signals a container write whose value does not match the
// shape declared for the attribute.
type TypeMismatchError struct {
	code     string
	declared string
	actual   string
}

func NewTypeMismatchError(code, declared, actual string) TypeMismatchError {
	return TypeMismatchError{code: code, declared: declared, actual: actual}
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("attribute \"%s\" is declared as %s but was assigned %s", e.code, e.declared, e.actual)
}

// SchemaMismatchError signals that a raw record handed to the hydration
// factory does not conform to the named object type schema. Index is the
// offending element index when hydrating an array, or -1 otherwise.
type SchemaMismatchError struct {
	Schema string
	Field  string
	Index  int

	detail string
}

func NewSchemaMismatchError(schema, field, detail string) SchemaMismatchError {
	return SchemaMismatchError{Schema: schema, Field: field, Index: -1, detail: detail}
}

func (e SchemaMismatchError) AtIndex(index int) SchemaMismatchError {
	e.Index = index
	return e
}

func (e SchemaMismatchError) Error() string {
	msg := fmt.Sprintf("record does not match schema \"%s\"", e.Schema)
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s at index %d", msg, e.Index)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: field \"%s\" %s", msg, e.Field, e.detail)
	} else if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return msg
}

// MutatorFailure wraps any error returned by a mutator together with which
// mutator failed and the index of the entity it was processing. The pipeline
// never swallows these; the calling layer decides what to do.
type MutatorFailure struct {
	MutatorID   string
	EntityIndex int

	cause error
}

func NewMutatorFailure(mutatorID string, entityIndex int, cause error) MutatorFailure {
	return MutatorFailure{MutatorID: mutatorID, EntityIndex: entityIndex, cause: cause}
}

func (e MutatorFailure) Error() string {
	return fmt.Sprintf("mutator \"%s\" failed on entity %d: %s", e.MutatorID, e.EntityIndex, e.cause.Error())
}

func (e MutatorFailure) Unwrap() error {
	return e.cause
}

// MissingAccessorError signals that a declared field of an object valued
// attribute has no value at serialization time, i.e. the value was not fully
// hydrated.
type MissingAccessorError struct {
	Schema string
	Field  string
}

func NewMissingAccessorError(schema, field string) MissingAccessorError {
	return MissingAccessorError{Schema: schema, Field: field}
}

func (e MissingAccessorError) Error() string {
	return fmt.Sprintf("object of type \"%s\" has no value for declared field \"%s\"", e.Schema, e.Field)
}
