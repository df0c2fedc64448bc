package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies catalog errors so callers can map them to transport
// status codes without inspecting message text.
type ErrorKind string

const (
	KindValidation         ErrorKind = "ValidationError"
	KindDuplicateSku       ErrorKind = "DuplicateSku"
	KindBrandNotFound      ErrorKind = "BrandNotFound"
	KindSchemaMismatch     ErrorKind = "SchemaMismatch"
	KindInvalidOptionValue ErrorKind = "InvalidOptionValue"
	KindNotFound           ErrorKind = "NotFound"
	KindConflict           ErrorKind = "ConflictError"
	KindMediaStore         ErrorKind = "MediaStoreError"
	KindStore              ErrorKind = "StoreError"
)

// Error is the structured error returned by every catalog operation.
// Field names the offending input field or identifier, when there is one.
type Error struct {
	Kind    ErrorKind
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Field)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a catalog error of the same kind, so the
// sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons. They match any *Error of the same kind.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrDuplicateSku       = &Error{Kind: KindDuplicateSku}
	ErrBrandNotFound      = &Error{Kind: KindBrandNotFound}
	ErrSchemaMismatch     = &Error{Kind: KindSchemaMismatch}
	ErrInvalidOptionValue = &Error{Kind: KindInvalidOptionValue}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrMediaStore         = &Error{Kind: KindMediaStore}
	ErrStore              = &Error{Kind: KindStore}
)

func NewValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func NewDuplicateSkuError(sku string) *Error {
	return &Error{Kind: KindDuplicateSku, Field: sku, Message: "sku already in use"}
}

func NewBrandNotFoundError(brandID string) *Error {
	return &Error{Kind: KindBrandNotFound, Field: brandID, Message: "brand not found"}
}

func NewSchemaMismatchError(field, attribute string) *Error {
	return &Error{
		Kind:    KindSchemaMismatch,
		Field:   field,
		Message: fmt.Sprintf("attribute %q is not declared on the product", attribute),
	}
}

func NewInvalidOptionValueError(field, attribute, value string) *Error {
	return &Error{
		Kind:    KindInvalidOptionValue,
		Field:   field,
		Message: fmt.Sprintf("value %q is not declared for attribute %q", value, attribute),
	}
}

func NewNotFoundError(id string) *Error {
	return &Error{Kind: KindNotFound, Field: id, Message: "product not found"}
}

func NewConflictError(id string) *Error {
	return &Error{Kind: KindConflict, Field: id, Message: "product was modified concurrently"}
}

func NewMediaStoreError(locator string, err error) *Error {
	return &Error{Kind: KindMediaStore, Field: locator, Message: "media store failure", Err: err}
}

func NewStoreError(id string, err error) *Error {
	return &Error{Kind: KindStore, Field: id, Message: "catalog store failure", Err: err}
}

// KindOf returns the kind of a catalog error, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
