package typedesc

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
)

// Naming converts Go field names into schema field names.
type Naming int

const (
	NamingAsIs Naming = iota
	NamingSnake
	NamingCamel
	NamingLowerCamel
	NamingKebab
)

// ParseNaming accepts the names used in config files.
func ParseNaming(s string) (Naming, error) {
	switch strings.ToLower(s) {
	case "", "asis", "as-is", "go":
		return NamingAsIs, nil
	case "snake":
		return NamingSnake, nil
	case "camel":
		return NamingCamel, nil
	case "lowercamel", "lower-camel":
		return NamingLowerCamel, nil
	case "kebab":
		return NamingKebab, nil
	}
	return NamingAsIs, errors.Errorf("unknown naming strategy '%v'", s)
}

func (n Naming) Apply(name string) string {
	switch n {
	case NamingSnake:
		return strcase.ToSnake(name)
	case NamingCamel:
		return strcase.ToCamel(name)
	case NamingLowerCamel:
		return strcase.ToLowerCamel(name)
	case NamingKebab:
		return strcase.ToKebab(name)
	default:
		return name
	}
}

// FieldTag is the parsed `avro:"..."` struct tag.
type FieldTag struct {
	Name     string
	Nullable bool
	Skip     bool
}

// ParseFieldTag reads the avro key of a raw struct tag. Tags may be given
// with or without the surrounding backquotes.
func ParseFieldTag(tags string) FieldTag {
	tags = strings.Trim(tags, "`")
	val, ok := reflect.StructTag(tags).Lookup("avro")
	if !ok {
		return FieldTag{}
	}
	if val == "-" {
		return FieldTag{Skip: true}
	}

	spl := strings.Split(val, ",")
	ret := FieldTag{Name: spl[0]}
	for _, s := range spl[1:] {
		if s == "nullable" {
			ret.Nullable = true
		}
	}
	return ret
}

// FieldName resolves the schema name of a Go field.
func FieldName(goName string, tag FieldTag, naming Naming) string {
	if tag.Name != "" {
		return tag.Name
	}
	return naming.Apply(goName)
}

// NamespaceFromPkgPath turns a Go import path into a dotted namespace:
// github.com/foo/bar-baz becomes github.com.foo.bar_baz.
func NamespaceFromPkgPath(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}
	segs := strings.FieldsFunc(pkgPath, func(r rune) bool { return r == '/' || r == '.' })
	for i, s := range segs {
		s = strings.Map(func(r rune) rune {
			if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return '_'
		}, s)
		if s == "" || unicode.IsDigit(rune(s[0])) {
			s = "_" + s
		}
		segs[i] = s
	}
	return strings.Join(segs, ".")
}

// GenericName builds a schema name for an instantiated generic type, e.g.
// Page[github.com/x/model.User] becomes Page_User.
func GenericName(base string, args []string) string {
	if len(args) == 0 {
		return base
	}
	var sb strings.Builder
	sb.WriteString(base)
	for _, a := range args {
		sb.WriteByte('_')
		sb.WriteString(shortTypeName(a))
	}
	return sb.String()
}

// SplitGenericName splits a reflect-style instantiated name into its base
// name and type argument strings, honoring nested brackets.
func SplitGenericName(name string) (string, []string) {
	open := strings.IndexByte(name, '[')
	if open < 0 || !strings.HasSuffix(name, "]") {
		return name, nil
	}
	base, inner := name[:open], name[open+1:len(name)-1]

	var args []string
	depth, start := 0, 0
	for i, r := range inner {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, inner[start:i])
				start = i + 1
			}
		}
	}
	args = append(args, inner[start:])
	return base, args
}

func shortTypeName(s string) string {
	s = strings.TrimSpace(s)
	base, args := SplitGenericName(s)
	if idx := strings.LastIndexAny(base, "./"); idx > -1 {
		base = base[idx+1:]
	}
	base = strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, base)
	return GenericName(base, args)
}

// IsSQLNull reports whether a named type is one of database/sql's Null
// wrappers (NullString, NullInt64, Null[T], ...).
func IsSQLNull(pkgPath, name string) bool {
	return pkgPath == "database/sql" && strings.HasPrefix(name, "Null")
}
