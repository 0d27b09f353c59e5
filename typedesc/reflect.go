package typedesc

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Enumerator is implemented by named Go types that stand for an
// enumeration. Symbols are returned in declaration order.
type Enumerator interface {
	AvroSymbols() []string
}

var enumeratorType = reflect.TypeOf((*Enumerator)(nil)).Elem()

// Option configures descriptor providers.
type Option func(*options)

type options struct {
	naming       Naming
	namespace    string
	hasNamespace bool
}

// WithNaming sets how Go field names without an explicit avro tag name are
// converted.
func WithNaming(n Naming) Option {
	return func(o *options) {
		o.naming = n
	}
}

// WithNamespace forces the namespace of every named type instead of deriving
// it from the Go package path. An empty namespace drops it altogether.
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
		o.hasNamespace = true
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) namespaceFor(pkgPath string) string {
	if o.hasNamespace {
		return o.namespace
	}
	return NamespaceFromPkgPath(pkgPath)
}

// Of describes T using runtime reflection.
func Of[T any](opts ...Option) (*Type, error) {
	return FromReflect(reflect.TypeOf((*T)(nil)).Elem(), opts...)
}

// FromReflect describes a runtime type handle.
func FromReflect(t reflect.Type, opts ...Option) (*Type, error) {
	if t == nil {
		return nil, errors.New("nil reflect.Type")
	}
	b := &reflectBuilder{
		opts:  buildOptions(opts),
		cache: map[reflect.Type]*Type{},
	}
	return b.getTypeDescCached(t)
}

type reflectBuilder struct {
	opts  options
	cache map[reflect.Type]*Type
	anon  int
}

func (b *reflectBuilder) getTypeDescCached(t reflect.Type) (*Type, error) {
	if r, ok := b.cache[t]; ok {
		return r, nil
	}
	b.cache[t] = &Type{}
	ret, err := b.getTypeDesc(t)
	if err != nil {
		return nil, errors.Wrapf(err, "when describing type '%v'", t.String())
	}
	*b.cache[t] = *ret
	return b.cache[t], nil
}

func (b *reflectBuilder) getTypeDesc(t reflect.Type) (*Type, error) {
	if t.Kind() != reflect.Interface && t.PkgPath() != "" && t.Name() != "" && t.Implements(enumeratorType) {
		return b.enumDesc(t)
	}

	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Float32, reflect.Float64,
		reflect.String:
		// named basic types collapse to their kind
		return Leaf(t.Kind().String()), nil
	case reflect.Pointer:
		ut, err := b.getTypeDescCached(t.Elem())
		if err != nil {
			return nil, errors.Wrapf(err, "parsing ptr value of '%v'", t.String())
		}
		return Nullable(reflectID(t), ut), nil
	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return Leaf(IDBytes), nil
		}
		ut, err := b.getTypeDescCached(t.Elem())
		if err != nil {
			return nil, errors.Wrapf(err, "creating typedesc for '%v'", t.String())
		}
		return Slice(reflectID(t), ut), nil
	case reflect.Map:
		key, err := b.getTypeDescCached(t.Key())
		if err != nil {
			return nil, errors.Wrapf(err, "parsing key type of map '%v'", t.String())
		}
		value, err := b.getTypeDescCached(t.Elem())
		if err != nil {
			return nil, errors.Wrapf(err, "parsing value type of map '%v'", t.String())
		}
		return Map(reflectID(t), key, value), nil
	case reflect.Struct:
		return b.structDesc(t)
	default:
		// chan, func, interface, complex, uint64 and friends have no schema shape
		return Leaf(reflectID(t)), nil
	}
}

func (b *reflectBuilder) enumDesc(t reflect.Type) (*Type, error) {
	e := reflect.Zero(t).Interface().(Enumerator)
	return Enum(reflectID(t), t.Name(), b.opts.namespaceFor(t.PkgPath()), e.AvroSymbols()), nil
}

func (b *reflectBuilder) structDesc(t reflect.Type) (*Type, error) {
	if IsSQLNull(t.PkgPath(), t.Name()) && t.NumField() > 0 {
		ut, err := b.getTypeDescCached(t.Field(0).Type)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing value of '%v'", t.String())
		}
		return Nullable(reflectID(t), ut), nil
	}

	name, args := SplitGenericName(t.Name())
	if name == "" {
		b.anon++
		name = fmt.Sprintf("Anonymous%d", b.anon)
	}
	ret := Struct(reflectID(t), GenericName(name, args), b.opts.namespaceFor(t.PkgPath()))

	if err := b.addFields(ret, t, map[reflect.Type]bool{t: true}); err != nil {
		return nil, err
	}
	return ret, nil
}

// addFields appends the fields of t, flattening embedded structs. seen holds
// the structs already flattened into ret, so self-embedding stops there.
func (b *reflectBuilder) addFields(ret *Type, t reflect.Type, seen map[reflect.Type]bool) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := ParseFieldTag(string(f.Tag))
		if tag.Skip {
			continue
		}

		if f.Anonymous && tag.Name == "" {
			et := f.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				if seen[et] {
					continue
				}
				seen[et] = true
				if err := b.addFields(ret, et, seen); err != nil {
					return errors.Wrapf(err, "processing embedded field '%v'", f.Name)
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		ft, err := b.getTypeDescCached(f.Type)
		if err != nil {
			return errors.Wrapf(err, "parsing field '%v'", f.Name)
		}
		ret.AddField(Field{
			Name:     FieldName(f.Name, tag, b.opts.naming),
			Type:     ft,
			Nullable: tag.Nullable,
		})
	}
	return nil
}

// reflectID is computed from the reflect type alone: the element
// descriptors may still be placeholders while a cycle is being built.
func reflectID(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + reflectID(t.Elem())
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return IDBytes
		}
		return "[]" + reflectID(t.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), reflectID(t.Elem()))
	case reflect.Map:
		return "map[" + reflectID(t.Key()) + "]" + reflectID(t.Elem())
	default:
		return t.String()
	}
}
