package main

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/utrack/avrogen/typedesc"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"
)

// builder turns go/types types into descriptors.
type builder struct {
	fset *token.FileSet
	// loaded packages by path; only these have syntax for docs and enums
	pkgs map[string]*packages.Package

	naming    typedesc.Naming
	namespace *string

	cache map[string]*typedesc.Type
	anon  int
}

func newBuilder(pkgs []*packages.Package, naming typedesc.Naming, namespace *string) *builder {
	b := &builder{
		pkgs:      map[string]*packages.Package{},
		naming:    naming,
		namespace: namespace,
		cache:     map[string]*typedesc.Type{},
	}
	for _, p := range pkgs {
		b.pkgs[p.PkgPath] = p
		if b.fset == nil {
			b.fset = p.Fset
		}
	}
	return b
}

func (b *builder) namespaceFor(pkgPath string) string {
	if b.namespace != nil {
		return *b.namespace
	}
	return typedesc.NamespaceFromPkgPath(pkgPath)
}

func (b *builder) getTypeDescCached(tt types.Type) (*typedesc.Type, error) {
	tt = types.Unalias(tt)
	key := types.TypeString(tt, nil)
	if r, ok := b.cache[key]; ok {
		return r, nil
	}
	b.cache[key] = &typedesc.Type{}
	ret, err := b.getTypeDesc(tt, key)
	if err != nil {
		return nil, errors.Wrapf(err, "when looking for known type '%v'", key)
	}
	*b.cache[key] = *ret
	return b.cache[key], nil
}

func (b *builder) getTypeDesc(tt types.Type, id string) (*typedesc.Type, error) {
	switch t := tt.(type) {
	case *types.Basic:
		// byte and rune report their canonical names
		return typedesc.Leaf(types.Typ[t.Kind()].Name()), nil
	case *types.Pointer:
		ut, err := b.getTypeDescCached(t.Elem())
		if err != nil {
			return nil, errors.Wrapf(err, "parsing ptr value of '%v'", id)
		}
		return typedesc.Nullable(id, ut), nil
	case *types.Slice:
		if isByte(t.Elem()) {
			return typedesc.Leaf(typedesc.IDBytes), nil
		}
		ut, err := b.getTypeDescCached(t.Elem())
		if err != nil {
			return nil, errors.Wrapf(err, "creating typedesc for '%v'", id)
		}
		return typedesc.Slice(id, ut), nil
	case *types.Array:
		ut, err := b.getTypeDescCached(t.Elem())
		if err != nil {
			return nil, errors.Wrapf(err, "creating typedesc for '%v'", id)
		}
		return typedesc.Slice(id, ut), nil
	case *types.Map:
		key, err := b.getTypeDescCached(t.Key())
		if err != nil {
			return nil, errors.Wrapf(err, "parsing key type of map '%v'", id)
		}
		value, err := b.getTypeDescCached(t.Elem())
		if err != nil {
			return nil, errors.Wrapf(err, "parsing value type of map '%v'", id)
		}
		return typedesc.Map(id, key, value), nil
	case *types.Struct:
		b.anon++
		ret := typedesc.Struct(id, fmt.Sprintf("Anonymous%d", b.anon), "")
		if err := b.addFields(ret, t, nil, map[string]bool{}); err != nil {
			return nil, err
		}
		return ret, nil
	case *types.Named:
		return b.namedDesc(t, id)
	default:
		// interfaces, channels, signatures and type parameters have no
		// schema shape
		return typedesc.Leaf(id), nil
	}
}

func (b *builder) namedDesc(t *types.Named, id string) (*typedesc.Type, error) {
	obj := t.Obj()
	pkgPath := ""
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}
	if t.TypeArgs().Len() == 0 && pkgPath != "" {
		id = pkgPath + "." + obj.Name()
	}

	switch tu := t.Underlying().(type) {
	case *types.Basic:
		symbols, err := b.enumSymbols(t)
		if err != nil {
			return nil, err
		}
		if len(symbols) == 0 {
			return b.getTypeDescCached(tu)
		}
		docs := b.getTypeDocs(obj.Pos(), obj.Name())
		return typedesc.Enum(id, obj.Name(), b.namespaceFor(pkgPath), symbols).WithDoc(docs.Doc), nil
	case *types.Struct:
		if typedesc.IsSQLNull(pkgPath, obj.Name()) && tu.NumFields() > 0 {
			ut, err := b.getTypeDescCached(tu.Field(0).Type())
			if err != nil {
				return nil, errors.Wrapf(err, "parsing value of '%v'", id)
			}
			return typedesc.Nullable(id, ut), nil
		}

		args := []string{}
		for i := 0; i < t.TypeArgs().Len(); i++ {
			args = append(args, types.TypeString(t.TypeArgs().At(i), nil))
		}
		docs := b.getTypeDocs(obj.Pos(), obj.Name())
		ret := typedesc.Struct(id, typedesc.GenericName(obj.Name(), args), b.namespaceFor(pkgPath)).
			WithDoc(docs.Doc)
		if err := b.addFields(ret, tu, docs.DocsByFields, map[string]bool{id: true}); err != nil {
			return nil, err
		}
		return ret, nil
	case *types.Slice:
		if isByte(tu.Elem()) {
			return typedesc.Leaf(typedesc.IDBytes), nil
		}
		ut, err := b.getTypeDescCached(tu.Elem())
		if err != nil {
			return nil, errors.Wrapf(err, "creating typedesc for '%v'", id)
		}
		return typedesc.Slice(id, ut), nil
	case *types.Array:
		// keeps the named identity, e.g. uuid.UUID
		ut, err := b.getTypeDescCached(tu.Elem())
		if err != nil {
			return nil, errors.Wrapf(err, "creating typedesc for '%v'", id)
		}
		return typedesc.Slice(id, ut), nil
	case *types.Map, *types.Pointer:
		return b.getTypeDescCached(tu)
	case *types.Interface, *types.Signature, *types.Chan:
		return typedesc.Leaf(id), nil
	default:
		return nil, errors.Errorf("unknown underlying type '%v' of Named '%v'", reflect.TypeOf(tu).String(), id)
	}
}

// addFields appends the fields of st, flattening embedded structs. seen holds
// the named structs already flattened into ret, so self-embedding stops there.
func (b *builder) addFields(ret *typedesc.Type, st *types.Struct, docs map[string]string, seen map[string]bool) error {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		tag := typedesc.ParseFieldTag(st.Tag(i))
		if tag.Skip {
			continue
		}

		if f.Embedded() && tag.Name == "" {
			et := types.Unalias(f.Type())
			if p, ok := et.(*types.Pointer); ok {
				et = types.Unalias(p.Elem())
			}
			if n, ok := et.(*types.Named); ok {
				if es, ok := n.Underlying().(*types.Struct); ok {
					key := types.TypeString(n, nil)
					if seen[key] {
						continue
					}
					seen[key] = true
					edocs := b.getTypeDocs(n.Obj().Pos(), n.Obj().Name())
					if err := b.addFields(ret, es, edocs.DocsByFields, seen); err != nil {
						return errors.Wrapf(err, "processing embedded field '%v'", f.Name())
					}
					continue
				}
			}
		}
		if !f.Exported() {
			continue
		}

		ft, err := b.getTypeDescCached(f.Type())
		if err != nil {
			return errors.Wrapf(err, "parsing field '%v'", f.Name())
		}
		name := typedesc.FieldName(f.Name(), tag, b.naming)
		ret.AddField(typedesc.Field{
			Name:     name,
			Type:     ft,
			Nullable: tag.Nullable,
			Doc:      fieldDoc(f.Name(), name, docs[f.Name()]),
		})
	}
	return nil
}

// enumSymbols returns the names of package-level constants of type t, in
// declaration order. Only integer and string types of loaded packages
// qualify, and only constants declared in a parenthesized const block
// count, so quantities such as time.Duration or a lone
// `const Boiling Celsius = 100` stay plain values.
func (b *builder) enumSymbols(t *types.Named) ([]string, error) {
	obj := t.Obj()
	if obj.Pkg() == nil {
		return nil, nil
	}
	if _, ok := b.pkgs[obj.Pkg().Path()]; !ok {
		return nil, nil
	}
	bt, ok := t.Underlying().(*types.Basic)
	if !ok || bt.Info()&(types.IsInteger|types.IsString) == 0 {
		return nil, nil
	}

	scope := obj.Pkg().Scope()
	consts := []*types.Const{}
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !types.Identical(c.Type(), t) || !b.inConstBlock(c.Pos()) {
			continue
		}
		consts = append(consts, c)
	}
	sort.Slice(consts, func(i, j int) bool {
		return consts[i].Pos() < consts[j].Pos()
	})

	ret := make([]string, 0, len(consts))
	for _, c := range consts {
		if c.Name() == "_" {
			continue
		}
		ret = append(ret, c.Name())
	}
	return ret, nil
}

// inConstBlock reports whether pos lies in a `const ( ... )` declaration.
func (b *builder) inConstBlock(pos token.Pos) bool {
	f, err := b.astFindFile(pos)
	if err != nil {
		return false
	}
	path, _ := astutil.PathEnclosingInterval(f, pos, pos)
	for _, n := range path {
		if gd, ok := n.(*ast.GenDecl); ok {
			return gd.Tok == token.CONST && gd.Lparen.IsValid()
		}
	}
	return false
}

func isByte(t types.Type) bool {
	bt, ok := types.Unalias(t).(*types.Basic)
	return ok && bt.Kind() == types.Uint8
}

type typeDoc struct {
	Doc          string
	DocsByFields map[string]string
}

// getTypeDocs extracts comments of a type declaration. Types outside the
// loaded packages have no syntax and get empty docs.
func (b *builder) getTypeDocs(pos token.Pos, name string) typeDoc {
	desc := typeDoc{DocsByFields: map[string]string{}}

	f, err := b.astFindFile(pos)
	if err != nil {
		return desc
	}
	reg, _ := astutil.PathEnclosingInterval(f, pos, pos)

	var anode *ast.GenDecl
	for _, n := range reg {
		if gd, ok := n.(*ast.GenDecl); ok {
			anode = gd
			break
		}
	}
	if anode == nil {
		return desc
	}
	if anode.Doc != nil {
		desc.Doc = strings.TrimSpace(anode.Doc.Text())
	}

	var spec *ast.TypeSpec
	for _, node := range anode.Specs {
		typeSpec, ok := node.(*ast.TypeSpec)
		if !ok {
			continue
		}
		if typeSpec.Name.String() == name {
			spec = typeSpec
			break
		}
	}
	if spec == nil {
		return desc
	}
	if spec.Doc != nil {
		desc.Doc = strings.TrimSpace(spec.Doc.Text())
	}

	stype, ok := spec.Type.(*ast.StructType)
	if !ok {
		return desc
	}
	for _, fl := range stype.Fields.List {
		if len(fl.Names) == 0 || fl.Doc == nil {
			continue // embedded struct
		}
		for _, n := range fl.Names {
			desc.DocsByFields[n.Name] = strings.TrimSpace(fl.Doc.Text())
		}
	}
	return desc
}

// fieldDoc rewrites a Go field comment for schema readers.
//
// Serial is the serial number -> The serial number
func fieldDoc(goName, avroName, comment string) string {
	comment = strings.TrimPrefix(comment, goName)
	comment = strings.Trim(comment, "\n\r \t")
	comment = strings.TrimPrefix(comment, "is ")

	if avroName != goName {
		comment = strings.ReplaceAll(comment, goName, avroName)
	}

	if len(comment) > 0 {
		r := []rune(comment)
		r[0] = unicode.ToUpper(r[0])
		comment = string(r)
	}
	return comment
}
