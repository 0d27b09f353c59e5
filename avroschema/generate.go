package avroschema

import (
	"reflect"

	"github.com/pkg/errors"
	"github.com/utrack/avrogen/typedesc"
)

// Generate compiles the schema of T.
func Generate[T any](opts ...Option) (Node, error) {
	return GenerateType(reflect.TypeOf((*T)(nil)).Elem(), opts...)
}

// GenerateType compiles the schema of a runtime type handle.
func GenerateType(t reflect.Type, opts ...Option) (Node, error) {
	c := buildConfig(opts)
	d, err := typedesc.FromReflect(t, c.describe...)
	if err != nil {
		return nil, errors.Wrap(err, "describing type")
	}
	return New(opts...).Compile(d)
}

// GenerateJSON renders the schema of T, indented with two spaces unless
// WithIndent says otherwise.
func GenerateJSON[T any](opts ...Option) (string, error) {
	n, err := Generate[T](opts...)
	if err != nil {
		return "", err
	}
	buf, err := Render(n, opts...)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// Render formats n according to the indent option.
func Render(n Node, opts ...Option) ([]byte, error) {
	c := buildConfig(opts)
	if c.indent == "" {
		return Marshal(n)
	}
	return MarshalIndent(n, "", c.indent)
}
