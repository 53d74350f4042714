package render

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/shape"
)

// JSONSchema emits a draft 2020-12 document. The root declaration is the
// document itself; every other declaration lives under $defs.
type JSONSchema struct{}

func (JSONSchema) Name() string        { return "jsonschema" }
func (JSONSchema) Description() string { return "JSON Schema draft 2020-12 document" }

func (JSONSchema) TypeIdent(key string) string {
	return decl.LeadingLetter(decl.PascalCase(key), "T")
}

// FieldIdent keeps the key: properties are named by their JSON keys.
func (JSONSchema) FieldIdent(key string) string {
	if key == "" {
		return `""`
	}
	return key
}

func (JSONSchema) ReservedTypeNames() []string { return nil }

func (s JSONSchema) Rules(policy NumberPolicy) (Rules, error) {
	p, err := policyOrDefault(policy)
	if err != nil {
		return Rules{}, err
	}
	return Rules{Target: s.Name(), NumberPolicy: p}, nil
}

func (s JSONSchema) Check(r Rules) error {
	return checkStructured(s.Name(), r)
}

func (JSONSchema) Emit(decls []decl.Declaration, _ Rules) (string, error) {
	doc, err := json.MarshalIndent(BuildJSONSchema(decls), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding json schema: %w", err)
	}
	return string(doc) + "\n", nil
}

// BuildJSONSchema converts decls into a schema document.
func BuildJSONSchema(decls []decl.Declaration) *jsonschema.Schema {
	var (
		root *jsonschema.Schema
		defs = jsonschema.Definitions{}
	)
	for _, d := range decls {
		s := declSchema(d)
		if d.Root && root == nil {
			root = s
			continue
		}
		defs[d.Name] = s
	}
	if root == nil {
		root = &jsonschema.Schema{}
	}
	root.Version = jsonschema.Version
	if len(defs) > 0 {
		root.Definitions = defs
	}
	return root
}

// BuildDocumentSchema describes one whole document of shape doc, as
// returned by decl.Builder.Documents. Every declaration, the root
// included, lives under $defs so references resolve from any position.
func BuildDocumentSchema(decls []decl.Declaration, doc shape.Shape) *jsonschema.Schema {
	root := schemaOf(doc)
	root.Version = jsonschema.Version
	if len(decls) > 0 {
		root.Definitions = jsonschema.Definitions{}
		for _, d := range decls {
			root.Definitions[d.Name] = declSchema(d)
		}
	}
	return root
}

func declSchema(d decl.Declaration) *jsonschema.Schema {
	if d.Kind == decl.Alias {
		s := schemaOf(d.Target)
		s.Title = d.Name
		return s
	}
	s := &jsonschema.Schema{
		Title:      d.Name,
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for _, f := range d.Fields {
		s.Properties.Set(f.Key, schemaOf(f.Shape))
		// Any may stand for a slot that was absent from some samples.
		if k := f.Shape.Kind(); k != shape.KindOptional && k != shape.KindAny {
			s.Required = append(s.Required, f.Key)
		}
	}
	return s
}

func schemaOf(sh shape.Shape) *jsonschema.Schema {
	switch x := sh.(type) {
	case shape.Optional:
		return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{schemaOf(x.Inner), {Type: "null"}}}
	case shape.Collection:
		return &jsonschema.Schema{Type: "array", Items: schemaOf(x.Elem)}
	case shape.Reference:
		return &jsonschema.Schema{Ref: "#/$defs/" + x.Name}
	case shape.Boolean:
		return &jsonschema.Schema{Type: "boolean"}
	case shape.Numeric:
		return &jsonschema.Schema{Type: "number"}
	case shape.Text:
		return &jsonschema.Schema{Type: "string"}
	}
	return &jsonschema.Schema{}
}

// checkStructured validates rules for targets that build documents rather
// than source text.
func checkStructured(target string, r Rules) error {
	if err := r.checkPolicy(); err != nil {
		return err
	}
	if err := requireEmpty(target, r); err != nil {
		return err
	}
	if r.Rename != "" {
		return invalid("target %s has no rename syntax", target)
	}
	return nil
}
