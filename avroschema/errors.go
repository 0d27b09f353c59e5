package avroschema

import "github.com/pkg/errors"

var (
	// ErrUnsupportedType is returned for types with no schema shape, such
	// as interfaces, channels or functions.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidUnionArity is returned when a union is requested without
	// any non-null branch.
	ErrInvalidUnionArity = errors.New("union needs at least one branch")

	// ErrCircularReference is returned in strict mode when a record refers
	// back to a record that is still being generated.
	ErrCircularReference = errors.New("circular reference")
)
