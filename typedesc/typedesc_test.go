package typedesc

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Celsius float64

type Level string

func (Level) AvroSymbols() []string { return []string{"LOW", "HIGH"} }

type base struct {
	ID string `avro:"id"`
}

type Reading struct {
	base
	Value    Celsius
	Level    Level
	Tags     map[string]string
	Raw      []byte
	Taken    time.Time
	Note     *string
	Comment  string `avro:"comment,nullable"`
	Ignored  string `avro:"-"`
	Sensor   sql.NullInt32
	Previous *Reading
	hidden   int
}

type Page[T any] struct {
	Items []T
	Next  *Page[T]
}

func TestFromReflectStruct(t *testing.T) {
	d, err := Of[Reading]()
	require.NoError(t, err)

	assert.Equal(t, "github.com/utrack/avrogen/typedesc.Reading", d.TypeID())
	assert.Equal(t, "Reading", d.TypeName())
	assert.Equal(t, "github.com.utrack.avrogen.typedesc", d.TypeNamespace())

	fields, ok := d.StructFields()
	require.True(t, ok)

	names := []string{}
	for _, f := range fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "Value", "Level", "Tags", "Raw", "Taken", "Note", "comment", "Sensor", "Previous"}, names)

	byName := map[string]Field{}
	for _, f := range fields {
		byName[f.Name] = f
	}

	assert.Equal(t, "float64", byName["Value"].Type.TypeID())

	symbols, ok := byName["Level"].Type.EnumSymbols()
	require.True(t, ok)
	assert.Equal(t, []string{"LOW", "HIGH"}, symbols)

	_, value, ok := byName["Tags"].Type.MapOf()
	require.True(t, ok)
	assert.Equal(t, "string", value.TypeID())

	assert.Equal(t, IDBytes, byName["Raw"].Type.TypeID())
	assert.Equal(t, "time.Time", byName["Taken"].Type.TypeID())

	inner, ok := byName["Note"].Type.NullableOf()
	require.True(t, ok)
	assert.Equal(t, "string", inner.TypeID())
	assert.False(t, byName["Note"].Nullable)

	assert.True(t, byName["comment"].Nullable)

	inner, ok = byName["Sensor"].Type.NullableOf()
	require.True(t, ok)
	assert.Equal(t, "int32", inner.TypeID())

	inner, ok = byName["Previous"].Type.NullableOf()
	require.True(t, ok)
	assert.Same(t, d, inner)
	assert.Equal(t, "*github.com/utrack/avrogen/typedesc.Reading", byName["Previous"].Type.TypeID())
}

func TestFromReflectOptions(t *testing.T) {
	d, err := Of[Reading](WithNaming(NamingSnake), WithNamespace("com.example"))
	require.NoError(t, err)
	assert.Equal(t, "com.example", d.TypeNamespace())

	fields, _ := d.StructFields()
	assert.Equal(t, "id", fields[0].Name)
	assert.Equal(t, "value", fields[1].Name)

	d, err = Of[Reading](WithNamespace(""))
	require.NoError(t, err)
	assert.Equal(t, "", d.TypeNamespace())
}

func TestFromReflectGeneric(t *testing.T) {
	d, err := Of[Page[Reading]]()
	require.NoError(t, err)
	assert.Equal(t, "Page_Reading", d.TypeName())

	fields, _ := d.StructFields()
	require.Len(t, fields, 2)
	next, ok := fields[1].Type.NullableOf()
	require.True(t, ok)
	assert.Same(t, d, next)
}

func TestFromReflectLeaves(t *testing.T) {
	for _, tt := range []struct {
		typ  reflect.Type
		want string
	}{
		{reflect.TypeOf(uint64(0)), "uint64"},
		{reflect.TypeOf(make(chan int)), "chan int"},
		{reflect.TypeOf((*any)(nil)).Elem(), "interface {}"},
	} {
		d, err := FromReflect(tt.typ)
		require.NoError(t, err)
		assert.Equal(t, tt.want, d.TypeID())
		_, ok := d.StructFields()
		assert.False(t, ok)
	}

	_, err := FromReflect(nil)
	assert.Error(t, err)
}

func TestWalkVisitsOnce(t *testing.T) {
	d, err := Of[Reading]()
	require.NoError(t, err)

	seen := map[string]int{}
	Walk(d, func(d Descriptor) {
		seen[d.TypeID()]++
	})
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
	assert.Contains(t, seen, "github.com/utrack/avrogen/typedesc.Reading")
	assert.Contains(t, seen, "*github.com/utrack/avrogen/typedesc.Reading")
	assert.Contains(t, seen, "map[string]string")
}

func TestAddFieldPanicsOnLeaf(t *testing.T) {
	assert.Panics(t, func() {
		Leaf("string").AddField(Field{Name: "x"})
	})
}

type Chain struct {
	*Chain
	V int
}

func TestFromReflectSelfEmbedding(t *testing.T) {
	d, err := Of[Chain]()
	require.NoError(t, err)

	fields, ok := d.StructFields()
	require.True(t, ok)
	require.Len(t, fields, 1)
	assert.Equal(t, "V", fields[0].Name)
}

type Symboler interface {
	Enumerator
}

type Holder struct {
	S Symboler
}

func TestFromReflectEnumeratorInterface(t *testing.T) {
	d, err := Of[Holder]()
	require.NoError(t, err)

	fields, ok := d.StructFields()
	require.True(t, ok)
	require.Len(t, fields, 1)
	_, isEnum := fields[0].Type.EnumSymbols()
	assert.False(t, isEnum)
	_, isStruct := fields[0].Type.StructFields()
	assert.False(t, isStruct)
}
