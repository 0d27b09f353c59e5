package avroschema

import (
	"github.com/hamba/avro/v2"
	"github.com/pkg/errors"
)

// Verify parses a rendered schema with a full Avro parser. Every call uses
// its own name cache, so unrelated schemas never clash.
func Verify(schemaJSON []byte) error {
	_, err := avro.ParseWithCache(string(schemaJSON), "", &avro.SchemaCache{})
	if err != nil {
		return errors.Wrap(err, "parsing generated schema")
	}
	return nil
}
