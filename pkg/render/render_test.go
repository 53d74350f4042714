package render

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/shape"
	"github.com/usestring/jsontypegen/pkg/value"
)

func declsFor(t *testing.T, target Target, root, src string) []decl.Declaration {
	t.Helper()
	v, err := value.Parse([]byte(src))
	require.NoError(t, err)
	decls, err := decl.Build(target, root, shape.Fold(v))
	require.NoError(t, err)
	return decls
}

func emit(t *testing.T, target Target, root, src string, edit func(*Rules)) string {
	t.Helper()
	rules, err := target.Rules(Decimal)
	require.NoError(t, err)
	if edit != nil {
		edit(&rules)
	}
	out, err := Render(declsFor(t, target, root, src), rules)
	require.NoError(t, err)
	return out
}

const rustDerive = "#[derive(Default, Debug, Clone, PartialEq, serde_derive::Serialize, serde_derive::Deserialize)]\n"

func TestRust_EmptyObject(t *testing.T) {
	assert.Equal(t, rustDerive+"pub struct Root {}\n", emit(t, Rust{}, "Root", `{}`, nil))
}

func TestRust_Nesting(t *testing.T) {
	got := emit(t, Rust{}, "Root",
		`[{"nested": {"a": 5, "doubly_nested": {"c": 10}}, "in_array": [{"b": 5}]}]`, nil)

	want := rustDerive + `pub struct Root {
    pub nested: Nested,
    pub in_array: Vec<InArray>,
}

` + rustDerive + `pub struct Nested {
    pub a: Decimal,
    pub doubly_nested: DoublyNested,
}

` + rustDerive + `pub struct DoublyNested {
    pub c: Decimal,
}

` + rustDerive + `pub struct InArray {
    pub b: Decimal,
}
`
	assert.Equal(t, want, got)
}

func TestRust_Rename(t *testing.T) {
	want := rustDerive + `pub struct Renamed {
    #[serde(rename = "type")]
    pub type_field: Decimal,
}
`
	assert.Equal(t, want, emit(t, Rust{}, "Renamed", `{"type": 5}`, nil))
}

func TestRust_RenameQuotesKey(t *testing.T) {
	got := emit(t, Rust{}, "Root", `{"say \"hi\"": 1}`, nil)
	assert.Contains(t, got, `#[serde(rename = "say \"hi\"")]`)
	assert.Contains(t, got, "pub say_hi: Decimal,")
}

func TestRust_FloatPolicyAndImports(t *testing.T) {
	rules, err := Rust{}.Rules(Float)
	require.NoError(t, err)
	assert.Equal(t, "f64", rules.Number)

	got := emit(t, Rust{}, "Root", `{"a": 1}`, func(r *Rules) { r.Imports = true })
	assert.True(t, strings.HasPrefix(got, "use rust_decimal::Decimal;\n\n"))
	assert.NotContains(t, got, "use serde_derive")
}

func TestRust_Alias(t *testing.T) {
	assert.Equal(t, "pub type Root = Vec<Option<Decimal>>;\n", emit(t, Rust{}, "Root", `[1, null]`, nil))
}

func TestRust_Visibility(t *testing.T) {
	got := emit(t, Rust{}, "Point", `{"x": 2}`, func(r *Rules) {
		r.TypeVisibility = "pub(crate)"
		r.FieldVisibility = ""
		r.Derives = nil
	})
	assert.Equal(t, "pub(crate) struct Point {\n    x: Decimal,\n}\n", got)
}

func TestCheck_InvalidRules(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		edit   func(*Rules)
	}{
		{"rust visibility", Rust{}, func(r *Rules) { r.TypeVisibility = "public" }},
		{"rust derive", Rust{}, func(r *Rules) { r.Derives = []string{"Serialize, Debug"} }},
		{"optional without verb", Rust{}, func(r *Rules) { r.Optional = "Option" }},
		{"collection with two verbs", Rust{}, func(r *Rules) { r.Collection = "Map<%s, %s>" }},
		{"stray verb", Rust{}, func(r *Rules) { r.Optional = "Option<%s%d>" }},
		{"empty spelling", Rust{}, func(r *Rules) { r.Text = " " }},
		{"unknown policy", Rust{}, func(r *Rules) { r.NumberPolicy = "bignum" }},
		{"go visibility", Go{}, func(r *Rules) { r.TypeVisibility = "pub(crate)" }},
		{"go derives", Go{}, func(r *Rules) { r.Derives = []string{"Debug"} }},
		{"go package", Go{}, func(r *Rules) { r.Package = "func" }},
		{"typescript visibility", TypeScript{}, func(r *Rules) { r.TypeVisibility = "pub" }},
		{"kotlin annotation", Kotlin{}, func(r *Rules) { r.Derives = []string{"Serializable"} }},
		{"jsonschema visibility", JSONSchema{}, func(r *Rules) { r.FieldVisibility = "pub" }},
		{"unknown target", Rust{}, func(r *Rules) { r.Target = "cobol" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := tt.target.Rules(Decimal)
			require.NoError(t, err)
			tt.edit(&rules)

			_, err = Render(nil, rules)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRules), "got %v", err)
		})
	}
}

func TestRules_UnknownPolicy(t *testing.T) {
	for _, target := range Targets() {
		_, err := target.Rules("bignum")
		assert.ErrorIs(t, err, ErrInvalidRules, target.Name())
	}
}

func TestGo_Emit(t *testing.T) {
	got := emit(t, Go{}, "Root",
		`[{"id": 1, "tags": ["a"], "meta": {"x": true}, "extra": null}, {"id": 2, "note": "n", "extra": 5}]`, nil)

	assert.Contains(t, got, "package model\n")
	assert.Contains(t, got, `import "encoding/json"`)
	assert.Contains(t, got, "type Root struct {")
	assert.Regexp(t, `Tags\s+\[\]string\s+`+"`json:\"tags,omitempty\"`", got)
	assert.Regexp(t, `Meta\s+\*Meta\s+`+"`json:\"meta,omitempty\"`", got)
	assert.Regexp(t, `Extra\s+\*json\.Number\s+`+"`json:\"extra,omitempty\"`", got)
	assert.Regexp(t, `Note\s+\*string\s+`+"`json:\"note,omitempty\"`", got)
	assert.Contains(t, got, "type Meta struct {")
}

func TestGo_NoImportWithoutJSONTypes(t *testing.T) {
	got := emit(t, Go{}, "Root", `{"name": "x"}`, func(r *Rules) { r.Package = "" })
	assert.NotContains(t, got, "import")
	assert.NotContains(t, got, "package")
	assert.True(t, strings.HasPrefix(got, "type Root struct {"))
}

func TestGo_TagKeys(t *testing.T) {
	for _, src := range []string{`{"a,b": 1}`, `{"a\"b": 1}`, `{"a\\b": 1}`} {
		t.Run(src, func(t *testing.T) {
			rules, err := Go{}.Rules(Decimal)
			require.NoError(t, err)
			_, err = Render(declsFor(t, Go{}, "Root", src), rules)
			assert.ErrorIs(t, err, decl.ErrInvalidIdentifier)
		})
	}

	got := emit(t, Go{}, "Root", `{"a-b c": 2}`, nil)
	tag := structTag("a-b c")
	assert.Contains(t, got, tag)

	// The emitted tag must read the sample back.
	typ := reflect.StructOf([]reflect.StructField{
		{Name: "ABC", Type: reflect.TypeOf(json.Number("")), Tag: reflect.StructTag(strings.Trim(tag, "`"))},
	})
	v := reflect.New(typ)
	require.NoError(t, json.Unmarshal([]byte(`{"a-b c": 2}`), v.Interface()))
	assert.Equal(t, json.Number("2"), v.Elem().Field(0).Interface())
}

func TestTypeScript_Emit(t *testing.T) {
	got := emit(t, TypeScript{}, "Root",
		`[{"a-b": 1, "list": [1, null], "child": {"ok": true}}, {"a-b": 2}]`, nil)

	want := `export interface Root {
  "a-b": number;
  list?: (number | null)[] | null;
  child?: Child | null;
}

export interface Child {
  ok: boolean;
}
`
	assert.Equal(t, want, got)
}

func TestWrap(t *testing.T) {
	tests := []struct {
		format, inner, want string
	}{
		{"%s[]", "number | null", "(number | null)[]"},
		{"%s[]", "(number | null)[]", "(number | null)[][]"},
		{"%s | null", "(number | null)[]", "(number | null)[] | null"},
		{"%s | null", "number", "number | null"},
		{"Option<%s>", "A | B", "Option<A | B>"},
		{"%s[]", "Array<A | B>", "Array<A | B>[]"},
	}
	for _, tt := range tests {
		t.Run(tt.format+" "+tt.inner, func(t *testing.T) {
			assert.Equal(t, tt.want, wrap(tt.format, tt.inner))
		})
	}
}

func TestTypeScript_TypeAlias(t *testing.T) {
	got := emit(t, TypeScript{TypeAlias: true}, "Root", `{"a": "x"}`, nil)
	assert.Equal(t, "export type Root = {\n  a: string;\n};\n", got)
}

func TestKotlin_Emit(t *testing.T) {
	got := emit(t, Kotlin{}, "Root", `[{"first_name": "a", "class": 1, "any": null}, {"first_name": "b", "class": 2, "any": null, "late": [1.5]}]`,
		func(r *Rules) { r.Imports = true })

	want := `import com.fasterxml.jackson.annotation.JsonProperty
import com.fasterxml.jackson.databind.JsonNode
import java.math.BigDecimal

data class Root(
    @JsonProperty("first_name")
    val firstName: String,
    @JsonProperty("class")
    val classField: BigDecimal,
    val any: JsonNode,
    val late: List<BigDecimal>? = null,
)
`
	assert.Equal(t, want, got)
}

func TestKotlin_EmptyClass(t *testing.T) {
	assert.Equal(t, "class Root\n", emit(t, Kotlin{}, "Root", `{}`, nil))
}

func TestKotlin_QuoteEscapesTemplates(t *testing.T) {
	assert.Equal(t, `"\$ref"`, kotlinQuote("$ref"))
}

func TestJSONSchema_Emit(t *testing.T) {
	got := emit(t, JSONSchema{}, "Root", `[{"id": 1, "child": {"n": "x"}}, {"id": 2, "child": null}]`, nil)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &doc))

	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", doc["$schema"])
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []any{"id"}, doc["required"])

	props := doc["properties"].(map[string]any)
	child := props["child"].(map[string]any)
	anyOf := child["anyOf"].([]any)
	require.Len(t, anyOf, 2)
	assert.Equal(t, "#/$defs/Child", anyOf[0].(map[string]any)["$ref"])
	assert.Equal(t, "null", anyOf[1].(map[string]any)["type"])

	defs := doc["$defs"].(map[string]any)
	assert.Contains(t, defs, "Child")
}

func TestJSONSchema_PropertyOrder(t *testing.T) {
	got := emit(t, JSONSchema{}, "Root", `{"zeta": 1, "alpha": 2}`, nil)
	assert.Less(t, strings.Index(got, `"zeta"`), strings.Index(got, `"alpha"`))
}

func TestOpenAPI_Emit(t *testing.T) {
	got := emit(t, OpenAPI{}, "Root", `[{"id": 1, "child": {"n": "x"}}, {"id": 2}]`, nil)

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(got))
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	root := doc.Components.Schemas["Root"].Value
	require.NotNil(t, root)
	assert.Equal(t, []string{"id"}, root.Required)

	child := root.Properties["child"].Value
	require.NotNil(t, child)
	assert.True(t, child.Nullable)
	require.Len(t, child.AllOf, 1)
	assert.Equal(t, "#/components/schemas/Child", child.AllOf[0].Ref)
}

func TestSchemas_AnyFieldsNotRequired(t *testing.T) {
	src := `[{"id": 1, "note": 5}, {"id": 2, "note": "x"}, {"id": 3}]`

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(emit(t, JSONSchema{}, "Root", src, nil)), &doc))
	assert.Equal(t, []any{"id"}, doc["required"])

	api, err := openapi3.NewLoader().LoadFromData([]byte(emit(t, OpenAPI{}, "Root", src, nil)))
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, api.Components.Schemas["Root"].Value.Required)
}

func TestShapeDump_Emit(t *testing.T) {
	got := emit(t, ShapeDump{}, "Root", `{"a": [1]}`, nil)

	var decls []map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &decls))
	require.Len(t, decls, 1)
	assert.Equal(t, "Root", decls[0]["name"])
	assert.Equal(t, "struct", decls[0]["kind"])
}

func TestTypeOf_ParenthesizesPostfixUnions(t *testing.T) {
	r, err := TypeScript{}.Rules(Decimal)
	require.NoError(t, err)
	assert.Equal(t, "(string | null)[]", r.TypeOf(shape.Collection{Elem: shape.Optional{Inner: shape.Text{}}}))
	assert.Equal(t, "unknown", r.TypeOf(shape.Any{}))
}

func TestRegistry(t *testing.T) {
	var names []string
	for _, target := range Targets() {
		names = append(names, target.Name())
	}
	assert.Equal(t, []string{"rust", "go", "typescript", "typescript/typealias", "kotlin", "jsonschema", "openapi", "shape"}, names)

	_, ok := Lookup("nope")
	assert.False(t, ok)

	reg := NewRegistry(Rust{}, Go{}, Rust{})
	assert.Len(t, reg.Targets(), 2)
}

func TestRender_Deterministic(t *testing.T) {
	src := `[{"b": {"x": 1}, "a": [{"y": "s"}], "c": null}, {"b": {"z": true}, "d": 1.5}]`
	for _, target := range Targets() {
		t.Run(target.Name(), func(t *testing.T) {
			first := emit(t, target, "Root", src, nil)
			for range 5 {
				assert.Equal(t, first, emit(t, target, "Root", src, nil))
			}
		})
	}
}
