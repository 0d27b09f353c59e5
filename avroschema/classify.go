package avroschema

import "github.com/utrack/avrogen/typedesc"

// Category is the schema shape a type is compiled into.
type Category int

const (
	CategoryWellKnown Category = iota
	CategoryNullable
	CategoryMap
	CategoryCollection
	CategoryEnum
	CategoryRecord
)

func (c Category) String() string {
	switch c {
	case CategoryWellKnown:
		return "well-known"
	case CategoryNullable:
		return "nullable"
	case CategoryMap:
		return "map"
	case CategoryCollection:
		return "collection"
	case CategoryEnum:
		return "enum"
	case CategoryRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Classification is a Category plus what is needed to generate it.
type Classification struct {
	Category Category

	// WellKnown builds a fresh copy of the fixed schema.
	WellKnown func() Node
	// Inner is the wrapped type of a nullable, the value type of a map or
	// the element type of a collection.
	Inner   typedesc.Descriptor
	Symbols []string
	Fields  []typedesc.Field
	// HasShape is false for records that have no field list at all.
	HasShape bool
}

// Classify assigns d to exactly one Category. Capabilities are checked in
// a fixed order, so a type that looks like both a map and a sequence is a
// map, and anything left over is a record.
func Classify(d typedesc.Descriptor) Classification {
	if fn, ok := wellKnown[d.TypeID()]; ok {
		return Classification{Category: CategoryWellKnown, WellKnown: fn}
	}
	if inner, ok := d.NullableOf(); ok {
		return Classification{Category: CategoryNullable, Inner: inner}
	}
	if _, value, ok := d.MapOf(); ok {
		return Classification{Category: CategoryMap, Inner: value}
	}
	if elem, ok := d.SliceOf(); ok {
		return Classification{Category: CategoryCollection, Inner: elem}
	}
	if symbols, ok := d.EnumSymbols(); ok {
		return Classification{Category: CategoryEnum, Symbols: symbols}
	}
	fields, ok := d.StructFields()
	return Classification{Category: CategoryRecord, Fields: fields, HasShape: ok}
}
