package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool after checking that the zero value of its output
// type satisfies the schema the SDK infers for it.
//
// Panics if the check fails.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics when T would produce tool output that fails its
// own inferred schema. Two mistakes are caught:
//
//   - a slice field without omitzero or omitempty, which marshals as null
//     while the schema says "array";
//   - a json.RawMessage or shape-typed field, which marshals as arbitrary
//     JSON while the schema describes the Go type. Such fields must be any,
//     filled through toAny.
//
// The untyped any output is accepted as is.
func CheckOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := opaqueFields(rt, "", map[reflect.Type]bool{}); len(paths) > 0 {
		panic(fmt.Sprintf("tool %q: output type %s marshals %s through a custom encoder; declare them as any and fill them with toAny",
			toolName, rt, strings.Join(paths, ", ")))
	}

	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return // the SDK reports inference failures itself
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return
	}
	var zero map[string]any
	if err := json.Unmarshal(data, &zero); err != nil {
		return
	}
	if err := resolved.Validate(&zero); err != nil {
		panic(fmt.Sprintf("tool %q: zero value of %s fails its output schema: %v\n  JSON: %s\n  add omitzero to slice fields or initialize them",
			toolName, rt, err, data))
	}
}

var (
	rawMessageType = reflect.TypeFor[json.RawMessage]()
	marshalerType  = reflect.TypeFor[json.Marshaler]()
	textMarshaler  = reflect.TypeFor[interface{ MarshalText() ([]byte, error) }]()
)

// opaqueFields lists the field paths of t whose JSON form is not what its Go
// type suggests to the schema generator.
func opaqueFields(t reflect.Type, path string, visiting map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == rawMessageType || (t.Kind() != reflect.Interface &&
		(t.Implements(marshalerType) || t.Implements(textMarshaler))) {
		if t.Kind() == reflect.Struct && t.PkgPath() == "time" {
			return nil
		}
		return []string{strings.TrimPrefix(path, ".")}
	}
	if t.Kind() == reflect.Interface && t.NumMethod() > 0 {
		return []string{strings.TrimPrefix(path, ".")}
	}
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			found = append(found, opaqueFields(f.Type, path+"."+f.Name, visiting)...)
		}
	case reflect.Slice, reflect.Array:
		found = append(found, opaqueFields(t.Elem(), path+"[]", visiting)...)
	case reflect.Map:
		found = append(found, opaqueFields(t.Elem(), path+"[value]", visiting)...)
	}
	return found
}
