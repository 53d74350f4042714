package render

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/shape"
)

// OpenAPI emits an OpenAPI 3.0 document whose components.schemas hold every
// declaration.
type OpenAPI struct{}

func (OpenAPI) Name() string        { return "openapi" }
func (OpenAPI) Description() string { return "OpenAPI 3.0 components document" }

func (OpenAPI) TypeIdent(key string) string {
	return decl.LeadingLetter(decl.PascalCase(key), "T")
}

func (OpenAPI) FieldIdent(key string) string {
	if key == "" {
		return `""`
	}
	return key
}

func (OpenAPI) ReservedTypeNames() []string { return nil }

func (o OpenAPI) Rules(policy NumberPolicy) (Rules, error) {
	p, err := policyOrDefault(policy)
	if err != nil {
		return Rules{}, err
	}
	return Rules{Target: o.Name(), NumberPolicy: p}, nil
}

func (o OpenAPI) Check(r Rules) error {
	return checkStructured(o.Name(), r)
}

func (OpenAPI) Emit(decls []decl.Declaration, r Rules) (string, error) {
	doc, err := json.MarshalIndent(BuildOpenAPI(decls, r.NumberPolicy), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding openapi document: %w", err)
	}
	return string(doc) + "\n", nil
}

// BuildOpenAPI converts decls into an OpenAPI document. The title is the
// root declaration's name.
func BuildOpenAPI(decls []decl.Declaration, policy NumberPolicy) *openapi3.T {
	title := "Generated"
	schemas := make(openapi3.Schemas, len(decls))
	for _, d := range decls {
		if d.Root && title == "Generated" {
			title = d.Name
		}
		schemas[d.Name] = openapi3.NewSchemaRef("", openAPIDecl(d, policy))
	}
	return &openapi3.T{
		OpenAPI:    "3.0.3",
		Info:       &openapi3.Info{Title: title, Version: "1.0.0"},
		Paths:      openapi3.Paths{},
		Components: &openapi3.Components{Schemas: schemas},
	}
}

func openAPIDecl(d decl.Declaration, policy NumberPolicy) *openapi3.Schema {
	if d.Kind == decl.Alias {
		return openAPISchema(d.Target, policy).Value
	}
	s := openapi3.NewObjectSchema()
	s.Title = d.Name
	for _, f := range d.Fields {
		s.Properties[f.Key] = openAPISchema(f.Shape, policy)
		if k := f.Shape.Kind(); k != shape.KindOptional && k != shape.KindAny {
			s.Required = append(s.Required, f.Key)
		}
	}
	return s
}

func openAPISchema(sh shape.Shape, policy NumberPolicy) *openapi3.SchemaRef {
	switch x := sh.(type) {
	case shape.Optional:
		inner := openAPISchema(x.Inner, policy)
		if inner.Ref != "" {
			// Siblings of $ref are ignored in 3.0, so nullability wraps it.
			s := openapi3.NewSchema()
			s.AllOf = openapi3.SchemaRefs{inner}
			s.Nullable = true
			return openapi3.NewSchemaRef("", s)
		}
		nullable := *inner.Value
		nullable.Nullable = true
		return openapi3.NewSchemaRef("", &nullable)
	case shape.Collection:
		s := openapi3.NewArraySchema()
		s.Items = openAPISchema(x.Elem, policy)
		return openapi3.NewSchemaRef("", s)
	case shape.Reference:
		return openapi3.NewSchemaRef("#/components/schemas/"+x.Name, nil)
	case shape.Boolean:
		return openapi3.NewSchemaRef("", openapi3.NewBoolSchema())
	case shape.Numeric:
		s := openapi3.NewSchema()
		s.Type = "number"
		if policy == Float {
			s.Format = "double"
		}
		return openapi3.NewSchemaRef("", s)
	case shape.Text:
		return openapi3.NewSchemaRef("", openapi3.NewStringSchema())
	}
	return openapi3.NewSchemaRef("", openapi3.NewSchema())
}
