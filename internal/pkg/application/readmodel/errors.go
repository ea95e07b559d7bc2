package readmodel

import (
	"fmt"
)

type NotFoundError struct {
	msg string
}

func NewNotFoundError(msg string) NotFoundError {
	return NotFoundError{msg: msg}
}

func (nfe NotFoundError) Error() string {
	return nfe.msg
}

type UnknownEntityKindError struct {
	entityKind string
}

func NewUnknownEntityKindError(entityKind string) UnknownEntityKindError {
	return UnknownEntityKindError{entityKind: entityKind}
}

func (e UnknownEntityKindError) Error() string {
	return fmt.Sprintf("unknown entity kind \"%s\"", e.entityKind)
}
