package avroschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utrack/avrogen/typedesc"
)

// looseType reports every capability it is given, the way a host type that
// implements several collection interfaces would.
type looseType struct {
	id       string
	nullable typedesc.Descriptor
	mapValue typedesc.Descriptor
	elem     typedesc.Descriptor
	symbols  []string
	fields   []typedesc.Field
}

func (l looseType) TypeID() string        { return l.id }
func (l looseType) TypeName() string      { return l.id }
func (l looseType) TypeNamespace() string { return "" }
func (l looseType) TypeDoc() string       { return "" }

func (l looseType) EnumSymbols() ([]string, bool) { return l.symbols, l.symbols != nil }

func (l looseType) NullableOf() (typedesc.Descriptor, bool) {
	return l.nullable, l.nullable != nil
}

func (l looseType) MapOf() (typedesc.Descriptor, typedesc.Descriptor, bool) {
	return typedesc.Leaf("string"), l.mapValue, l.mapValue != nil
}

func (l looseType) SliceOf() (typedesc.Descriptor, bool) { return l.elem, l.elem != nil }

func (l looseType) StructFields() ([]typedesc.Field, bool) { return l.fields, l.fields != nil }

func TestClassifyPrecedence(t *testing.T) {
	str := typedesc.Leaf("string")
	i32 := typedesc.Leaf("int32")

	tests := []struct {
		name string
		typ  looseType
		want Category
	}{
		{
			name: "well-known wins over everything",
			typ:  looseType{id: "string", nullable: i32, mapValue: i32, elem: i32, symbols: []string{"A"}},
			want: CategoryWellKnown,
		},
		{
			name: "nullable before map",
			typ:  looseType{id: "x", nullable: str, mapValue: i32, elem: i32},
			want: CategoryNullable,
		},
		{
			name: "map before sequence",
			typ:  looseType{id: "x", mapValue: i32, elem: str},
			want: CategoryMap,
		},
		{
			name: "sequence before enum",
			typ:  looseType{id: "x", elem: str, symbols: []string{"A"}},
			want: CategoryCollection,
		},
		{
			name: "enum before record",
			typ:  looseType{id: "x", symbols: []string{"A"}, fields: []typedesc.Field{{Name: "a", Type: str}}},
			want: CategoryEnum,
		},
		{
			name: "record fallback",
			typ:  looseType{id: "x"},
			want: CategoryRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.typ).Category)
		})
	}
}

func TestMapLikeSequenceCompilesAsMap(t *testing.T) {
	n, err := New().Compile(looseType{id: "x.Dict", mapValue: typedesc.Leaf("int32"), elem: typedesc.Leaf("string")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"map","values":"int"}`, compileJSON(t, n))
}

func TestClassifyRecordShape(t *testing.T) {
	cl := Classify(looseType{id: "x"})
	assert.False(t, cl.HasShape)

	cl = Classify(typedesc.Struct("x.Empty", "Empty", ""))
	assert.Equal(t, CategoryRecord, cl.Category)
	assert.True(t, cl.HasShape)
	assert.Equal(t, "record", cl.Category.String())
}
