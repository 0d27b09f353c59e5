// Package typedesc describes host types in a shape a schema compiler can
// consume without touching the host type system itself.
package typedesc

// Well-known identity tokens for types that have no package path.
const (
	IDBytes = "[]byte"
)

// Descriptor is a resolved view of a single host type.
//
// Capabilities are reported independently and may overlap; deciding which
// one wins is up to the consumer.
type Descriptor interface {
	// TypeID is a stable identity usable as a map key.
	TypeID() string
	TypeName() string
	TypeNamespace() string
	TypeDoc() string

	EnumSymbols() ([]string, bool)
	NullableOf() (Descriptor, bool)
	MapOf() (key Descriptor, value Descriptor, ok bool)
	SliceOf() (Descriptor, bool)
	StructFields() ([]Field, bool)
}

// Field is a single member of a struct-like type.
type Field struct {
	Name     string
	Type     Descriptor
	Nullable bool
	Doc      string
}

// Type is the default Descriptor implementation.
//
// A zero Type is a valid placeholder: providers allocate it first and copy
// the finished value over it, so cyclic graphs point at the same *Type.
type Type struct {
	id        string
	name      string
	namespace string
	doc       string

	isEnum     *descEnum
	isNullable *Type
	isMap      *descMap
	isSlice    *Type
	isStruct   *descStruct
}

type descEnum struct {
	symbols []string
}

type descMap struct {
	key   *Type
	value *Type
}

type descStruct struct {
	fields []Field
}

var _ Descriptor = &Type{}

// Leaf returns a type with no structural capabilities: primitives and
// anything a provider cannot describe further.
func Leaf(id string) *Type {
	return &Type{id: id, name: id}
}

func Slice(id string, elem *Type) *Type {
	return &Type{id: id, name: id, isSlice: elem}
}

// Map returns a map type. Keys are kept for providers that care; Avro
// maps are always keyed by string.
func Map(id string, key, value *Type) *Type {
	return &Type{id: id, name: id, isMap: &descMap{key: key, value: value}}
}

func Nullable(id string, inner *Type) *Type {
	return &Type{id: id, name: id, isNullable: inner}
}

// Enum returns a named enumeration with symbols in declaration order.
func Enum(id, name, namespace string, symbols []string) *Type {
	return &Type{
		id:        id,
		name:      name,
		namespace: namespace,
		isEnum:    &descEnum{symbols: append([]string(nil), symbols...)},
	}
}

// Struct returns a named record-like type.
func Struct(id, name, namespace string, fields ...Field) *Type {
	return &Type{
		id:        id,
		name:      name,
		namespace: namespace,
		isStruct:  &descStruct{fields: append([]Field(nil), fields...)},
	}
}

// AddField appends a field; it panics if t is not a struct.
func (t *Type) AddField(f Field) {
	if t.isStruct == nil {
		panic("typedesc: AddField on non-struct type " + t.id)
	}
	t.isStruct.fields = append(t.isStruct.fields, f)
}

func (t *Type) WithDoc(doc string) *Type {
	t.doc = doc
	return t
}

func (t *Type) TypeID() string        { return t.id }
func (t *Type) TypeName() string      { return t.name }
func (t *Type) TypeNamespace() string { return t.namespace }
func (t *Type) TypeDoc() string       { return t.doc }

func (t *Type) EnumSymbols() ([]string, bool) {
	if t.isEnum == nil {
		return nil, false
	}
	return t.isEnum.symbols, true
}

func (t *Type) NullableOf() (Descriptor, bool) {
	if t.isNullable == nil {
		return nil, false
	}
	return t.isNullable, true
}

func (t *Type) MapOf() (Descriptor, Descriptor, bool) {
	if t.isMap == nil {
		return nil, nil, false
	}
	var key Descriptor
	if t.isMap.key != nil {
		key = t.isMap.key
	}
	return key, t.isMap.value, true
}

func (t *Type) SliceOf() (Descriptor, bool) {
	if t.isSlice == nil {
		return nil, false
	}
	return t.isSlice, true
}

func (t *Type) StructFields() ([]Field, bool) {
	if t.isStruct == nil {
		return nil, false
	}
	return t.isStruct.fields, true
}

// Walk calls fn once for every distinct descriptor reachable from d,
// parents before children.
func Walk(d Descriptor, fn func(Descriptor)) {
	seen := map[string]struct{}{}
	var walk func(d Descriptor)
	walk = func(d Descriptor) {
		if d == nil {
			return
		}
		if _, ok := seen[d.TypeID()]; ok {
			return
		}
		seen[d.TypeID()] = struct{}{}
		fn(d)

		if inner, ok := d.NullableOf(); ok {
			walk(inner)
		}
		if key, value, ok := d.MapOf(); ok {
			walk(key)
			walk(value)
		}
		if elem, ok := d.SliceOf(); ok {
			walk(elem)
		}
		if fields, ok := d.StructFields(); ok {
			for _, f := range fields {
				walk(f.Type)
			}
		}
	}
	walk(d)
}
