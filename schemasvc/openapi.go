package schemasvc

import (
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	gojson "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

func genOpenAPI(rs []route) ([]byte, error) {
	paths := openapi3.Paths{}

	for _, rt := range rs {
		p := paths[rt.path]
		if p == nil {
			p = &openapi3.PathItem{}
			paths[rt.path] = p
		}

		op := openapi3.NewOperation()
		op.Description = rt.description
		op.Tags = []string{"schemas"}

		if rt.in != nil {
			if err := genInParams(rt.in, op); err != nil {
				return nil, errors.Wrapf(err, "generating input params of '%v'", rt.path)
			}
		}

		rsp := openapi3.NewResponse().WithDescription("success")
		rsp.Content = openapi3.NewContentWithJSONSchemaRef(genOut(rt.out))
		op.AddResponse(200, rsp)

		if rt.in != nil {
			bad := openapi3.NewResponse().WithDescription("invalid query")
			op.AddResponse(422, bad)
			missing := openapi3.NewResponse().WithDescription("unknown type name")
			op.AddResponse(404, missing)
		}
		p.SetOperation(rt.method, op)
	}

	root := openapi3.T{}
	root.Info = &openapi3.Info{
		Title:   "avrogen schemas",
		Version: "1-autogen",
	}
	root.OpenAPI = "3.0.3"
	root.Components = openapi3.NewComponents()
	root.Paths = paths

	ret, err := gojson.MarshalIndent(&root, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshalling openapi document")
	}
	return ret, nil
}

func genOut(kind string) *openapi3.SchemaRef {
	switch kind {
	case outNames:
		return openapi3.NewSchemaRef("", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))
	default:
		// Avro schemas are strings, objects or arrays; the OpenAPI document is
		// free-form as well
		return openapi3.NewSchemaRef("", openapi3.NewSchema())
	}
}

// genInParams adds a parameter for every `in` tagged field of an input
// struct.
func genInParams(in any, op *openapi3.Operation) error {
	t := reflect.TypeOf(in)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return errors.Errorf("input type '%v' is not a struct", t.String())
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		props := genInProps(string(f.Tag))
		if props == nil {
			continue
		}

		sc, err := genParamSchema(f.Type)
		if err != nil {
			return errors.Wrapf(err, "processing field '%v'", f.Name)
		}

		switch props.location {
		case "query":
			op.AddParameter(openapi3.NewQueryParameter(props.name).
				WithSchema(sc).
				WithRequired(props.required))
		case "header":
			op.AddParameter(openapi3.NewHeaderParameter(props.name).
				WithSchema(sc).
				WithRequired(props.required))
		default:
			return errors.Errorf("unknown in source type '%v' for field '%v'", props.location, f.Name)
		}
	}
	return nil
}

func genParamSchema(t reflect.Type) (*openapi3.Schema, error) {
	switch t.Kind() {
	case reflect.String:
		return openapi3.NewStringSchema(), nil
	case reflect.Bool:
		return openapi3.NewBoolSchema(), nil
	case reflect.Int, reflect.Int32, reflect.Int64:
		return openapi3.NewIntegerSchema(), nil
	default:
		return nil, errors.Errorf("unknown parameter type '%v'", t.String())
	}
}

type inProps struct {
	name     string
	location string
	required bool
}

func genInProps(tags string) *inProps {
	tags = strings.Trim(tags, "`")
	tag := reflect.StructTag(tags)
	tagval := tag.Get("in")
	if len(tagval) == 0 || tagval == "-" {
		return nil
	}

	spl := strings.Split(tagval, ";")

	ret := &inProps{}
	for _, s := range spl {
		if s == "required" {
			ret.required = true
			continue
		}
		src2name := strings.SplitN(s, "=", 2)
		if len(src2name) != 2 {
			continue
		}
		ret.location = src2name[0]
		ret.name = strings.Split(src2name[1], ",")[0]
	}
	return ret
}
