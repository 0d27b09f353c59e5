package avroschema

import "github.com/utrack/avrogen/typedesc"

// Option configures a Compiler and the Generate entry points.
type Option func(*config)

type config struct {
	strict bool
	docs   bool
	indent string

	describe []typedesc.Option
}

func buildConfig(opts []Option) config {
	c := config{indent: "  "}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithStrictCycles fails with ErrCircularReference when a record refers
// back to a record that is still being generated, instead of emitting a
// name reference.
func WithStrictCycles() Option {
	return func(c *config) {
		c.strict = true
	}
}

// WithDocs emits "doc" attributes for records, enums and fields that have
// documentation.
func WithDocs() Option {
	return func(c *config) {
		c.docs = true
	}
}

// WithIndent sets the indentation used by GenerateJSON. An empty indent
// renders compact JSON.
func WithIndent(indent string) Option {
	return func(c *config) {
		c.indent = indent
	}
}

// WithDescribeOptions passes options to the reflection provider used by
// Generate and GenerateType.
func WithDescribeOptions(opts ...typedesc.Option) Option {
	return func(c *config) {
		c.describe = append(c.describe, opts...)
	}
}
