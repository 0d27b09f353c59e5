// Package avroschema compiles type descriptors into Avro schema documents.
package avroschema

import (
	"github.com/pkg/errors"
	"github.com/utrack/avrogen/typedesc"
)

// Compiler turns descriptors into schema nodes. It holds no per-call state
// and is safe for concurrent use.
type Compiler struct {
	strict bool
	docs   bool
}

func New(opts ...Option) *Compiler {
	c := buildConfig(opts)
	return &Compiler{strict: c.strict, docs: c.docs}
}

// Compile returns the schema of root. Named types met more than once,
// including through cycles, are defined at their first occurrence and
// referenced by name afterwards.
func (c *Compiler) Compile(root typedesc.Descriptor) (Node, error) {
	if root == nil {
		return nil, errors.Wrap(ErrUnsupportedType, "nil descriptor")
	}
	r := &run{Compiler: c, reg: newRegistry()}
	return r.compile(root)
}

// run is the state of a single Compile call.
type run struct {
	*Compiler
	reg *registry

	// namespace of the record whose fields are being generated
	namespace string
}

func (r *run) compile(d typedesc.Descriptor) (Node, error) {
	cl := Classify(d)
	if cl.Category == CategoryWellKnown {
		return cl.WellKnown(), nil
	}

	if e := r.reg.lookup(d.TypeID()); e.state != stateUnseen {
		if e.state == stateInProgress && r.strict {
			return nil, errors.Wrapf(ErrCircularReference, "type '%v' refers back to itself", d.TypeID())
		}
		return e.reference(r.namespace), nil
	}

	switch cl.Category {
	case CategoryNullable:
		return r.union(true, cl.Inner)
	case CategoryMap:
		values, err := r.compile(cl.Inner)
		if err != nil {
			return nil, errors.Wrapf(err, "map values of '%v'", d.TypeID())
		}
		return NewObject().
			Set("type", "map").
			Set("values", values), nil
	case CategoryCollection:
		items, err := r.compile(cl.Inner)
		if err != nil {
			return nil, errors.Wrapf(err, "array items of '%v'", d.TypeID())
		}
		return NewObject().
			Set("type", "array").
			Set("items", items), nil
	case CategoryEnum:
		return r.enum(d, cl.Symbols), nil
	default:
		if !cl.HasShape {
			return nil, errors.Wrapf(ErrUnsupportedType, "type '%v' has no fields", d.TypeID())
		}
		return r.record(d, cl.Fields)
	}
}

func (r *run) enum(d typedesc.Descriptor, symbols []string) Node {
	ret := r.named("enum", d)
	ret.Set("symbols", append([]string{}, symbols...))
	r.reg.resolve(d.TypeID(), d.TypeName(), r.effectiveNamespace(d))
	return ret
}

func (r *run) record(d typedesc.Descriptor, fields []typedesc.Field) (Node, error) {
	ret := r.named("record", d)
	ret.Set("fields", []*Object{})

	id, name, ns := d.TypeID(), d.TypeName(), r.effectiveNamespace(d)
	r.reg.begin(id, name, ns)

	outer := r.namespace
	r.namespace = ns
	defer func() { r.namespace = outer }()

	fobjs := make([]*Object, 0, len(fields))
	for _, f := range fields {
		var typ Node
		var err error
		if f.Nullable {
			under := f.Type
			if inner, ok := under.NullableOf(); ok {
				under = inner
			}
			typ, err = r.union(true, under)
		} else {
			typ, err = r.compile(f.Type)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "processing field '%v' of '%v'", f.Name, name)
		}

		fo := NewObject().
			Set("name", f.Name).
			Set("type", typ)
		if r.docs && f.Doc != "" {
			fo.Set("doc", f.Doc)
		}
		fobjs = append(fobjs, fo)
	}
	ret.Set("fields", fobjs)

	r.reg.resolve(id, name, ns)
	return ret, nil
}

// effectiveNamespace is the namespace d ends up in once defined at the
// current position: types without one inherit the enclosing namespace.
func (r *run) effectiveNamespace(d typedesc.Descriptor) string {
	if ns := d.TypeNamespace(); ns != "" {
		return ns
	}
	return r.namespace
}

// named builds the shell shared by records and enums.
func (r *run) named(kind string, d typedesc.Descriptor) *Object {
	ret := NewObject().
		Set("type", kind).
		Set("name", d.TypeName())
	if ns := d.TypeNamespace(); ns != "" {
		ret.Set("namespace", ns)
	}
	if r.docs && d.TypeDoc() != "" {
		ret.Set("doc", d.TypeDoc())
	}
	return ret
}

// union compiles branches into a union, led by "null" when nullable.
// Branches that compile to unions themselves are merged in place, since
// Avro forbids nested unions.
func (r *run) union(nullable bool, branches ...typedesc.Descriptor) (Union, error) {
	if len(branches) == 0 {
		return nil, ErrInvalidUnionArity
	}

	ret := Union{}
	hasNull := false
	if nullable {
		ret = append(ret, Name("null"))
		hasNull = true
	}
	for _, b := range branches {
		n, err := r.compile(b)
		if err != nil {
			return nil, err
		}
		inner, ok := n.(Union)
		if !ok {
			ret = append(ret, n)
			continue
		}
		for _, in := range inner {
			if in == Name("null") {
				if hasNull {
					continue
				}
				hasNull = true
			}
			ret = append(ret, in)
		}
	}
	return ret, nil
}
