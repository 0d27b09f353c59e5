package avroschema

import (
	"bytes"

	gojson "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Node is a piece of an Avro schema document: a Name, an *Object or a
// Union.
type Node interface {
	isNode()
}

// Name is a primitive type name or a reference to a named type that has
// already been defined in the same document.
type Name string

// Union is a list of alternative schemas.
type Union []Node

// Object is a JSON object that keeps its keys in insertion order.
//
// Values are strings, ints, Nodes, []string or []*Object.
type Object struct {
	keys   []string
	values map[string]any
}

func (Name) isNode()    {}
func (Union) isNode()   {}
func (*Object) isNode() {}

func NewObject() *Object {
	return &Object{values: map[string]any{}}
}

// Set adds or replaces a key. A replaced key keeps its position.
func (o *Object) Set(key string, value any) *Object {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Fields returns the field objects of a record schema.
func (o *Object) Fields() []*Object {
	f, _ := o.values["fields"].([]*Object)
	return f
}

// Clone returns a deep copy of o.
func (o *Object) Clone() *Object {
	ret := &Object{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]any, len(o.values)),
	}
	for k, v := range o.values {
		ret.values[k] = cloneValue(v)
	}
	return ret
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Node:
		return cloneNode(t)
	case []string:
		return append([]string(nil), t...)
	case []*Object:
		ret := make([]*Object, len(t))
		for i, o := range t {
			ret[i] = o.Clone()
		}
		return ret
	default:
		return v
	}
}

func cloneNode(n Node) Node {
	switch t := n.(type) {
	case *Object:
		return t.Clone()
	case Union:
		ret := make(Union, len(t))
		for i, b := range t {
			ret[i] = cloneNode(b)
		}
		return ret
	default:
		return n
	}
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := gojson.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := gojson.Marshal(o.values[k])
		if err != nil {
			return nil, errors.Wrapf(err, "marshalling key '%v'", k)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal renders n as compact JSON.
func Marshal(n Node) ([]byte, error) {
	ret, err := gojson.Marshal(n)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling schema")
	}
	return ret, nil
}

// MarshalIndent renders n as indented JSON.
func MarshalIndent(n Node, prefix, indent string) ([]byte, error) {
	raw, err := Marshal(n)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gojson.Indent(&buf, raw, prefix, indent); err != nil {
		return nil, errors.Wrap(err, "indenting schema")
	}
	return buf.Bytes(), nil
}
