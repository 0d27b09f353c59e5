package avroschema

import "github.com/utrack/avrogen/typedesc"

// Identity tokens of well-known host types that live in a package.
const (
	IDCivilDate     = "cloud.google.com/go/civil.Date"
	IDCivilTime     = "cloud.google.com/go/civil.Time"
	IDCivilDateTime = "cloud.google.com/go/civil.DateTime"
	IDTime          = "time.Time"
	IDBigRat        = "math/big.Rat"
	IDDecimal       = "github.com/shopspring/decimal.Decimal"
	IDUUID          = "github.com/google/uuid.UUID"
)

// Fixed decimal facets. Descriptors carry no precision or scale of their
// own.
const (
	DecimalPrecision = 4
	DecimalScale     = 2
)

// wellKnown maps type identities to schema constructors. Constructors
// return fresh nodes, so callers are free to annotate what they get.
var wellKnown = map[string]func() Node{
	"bool":           primitive("boolean"),
	"int8":           primitive("int"),
	"int16":          primitive("int"),
	"int32":          primitive("int"),
	"uint8":          primitive("int"),
	"uint16":         primitive("int"),
	"int":            primitive("long"),
	"int64":          primitive("long"),
	"uint32":         primitive("long"),
	"float32":        primitive("float"),
	"float64":        primitive("double"),
	typedesc.IDBytes: primitive("bytes"),
	"string":         primitive("string"),

	IDCivilDate:     logical("int", "date"),
	IDCivilTime:     logical("long", "time-millis"),
	IDTime:          logical("long", "timestamp-millis"),
	IDCivilDateTime: logical("long", "local-timestamp-millis"),
	IDUUID:          logical("string", "uuid"),
	IDBigRat:        decimalSchema,
	IDDecimal:       decimalSchema,
}

func primitive(name string) func() Node {
	return func() Node {
		return Name(name)
	}
}

func logical(typ, logicalType string) func() Node {
	return func() Node {
		return NewObject().
			Set("type", typ).
			Set("logicalType", logicalType)
	}
}

func decimalSchema() Node {
	return NewObject().
		Set("type", "bytes").
		Set("logicalType", "decimal").
		Set("precision", DecimalPrecision).
		Set("scale", DecimalScale)
}

// WellKnown returns a fresh copy of the schema registered for a type
// identity.
func WellKnown(id string) (Node, bool) {
	fn, ok := wellKnown[id]
	if !ok {
		return nil, false
	}
	return fn(), true
}
