package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/shape"
)

// Kotlin emits Jackson data classes.
type Kotlin struct{}

var kotlinKeywords = map[string]bool{
	"as": true, "break": true, "class": true, "continue": true, "do": true,
	"else": true, "false": true, "for": true, "fun": true, "if": true,
	"in": true, "interface": true, "is": true, "null": true, "object": true,
	"package": true, "return": true, "super": true, "this": true,
	"throw": true, "true": true, "try": true, "typealias": true,
	"typeof": true, "val": true, "var": true, "when": true, "while": true,
}

var kotlinAnnotation = regexp.MustCompile(`^@[A-Za-z_][A-Za-z0-9_.]*(\(.*\))?$`)

func (Kotlin) Name() string        { return "kotlin" }
func (Kotlin) Description() string { return "Kotlin data classes with Jackson annotations" }

func (Kotlin) TypeIdent(key string) string {
	return decl.LeadingLetter(decl.PascalCase(key), "T")
}

func (Kotlin) FieldIdent(key string) string {
	id := decl.CamelCase(key)
	if id == "" {
		return ""
	}
	if kotlinKeywords[id] {
		return id + "Field"
	}
	return decl.LeadingLetter(id, "_")
}

func (Kotlin) ReservedTypeNames() []string {
	return []string{"Any", "Unit", "List", "String", "Boolean", "Double", "Int", "Long", "BigDecimal", "JsonNode"}
}

func (Kotlin) Rules(policy NumberPolicy) (Rules, error) {
	p, err := policyOrDefault(policy)
	if err != nil {
		return Rules{}, err
	}
	number := "BigDecimal"
	if p == Float {
		number = "Double"
	}
	return Rules{
		Target:       "kotlin",
		NumberPolicy: p,
		Optional:     "%s?",
		Collection:   "List<%s>",
		AnyValue:     "JsonNode",
		Boolean:      "Boolean",
		Number:       number,
		Text:         "String",
		Rename:       "@JsonProperty(%s)",
	}, nil
}

func (Kotlin) Check(r Rules) error {
	if err := r.checkPolicy(); err != nil {
		return err
	}
	if err := r.checkSpellings(); err != nil {
		return err
	}
	switch r.TypeVisibility {
	case "", "public", "internal", "private":
	default:
		return invalid("kotlin type visibility %q", r.TypeVisibility)
	}
	switch r.FieldVisibility {
	case "", "public", "internal", "private":
	default:
		return invalid("kotlin field visibility %q", r.FieldVisibility)
	}
	for _, a := range r.Derives {
		if !kotlinAnnotation.MatchString(a) {
			return invalid("kotlin class annotation %q", a)
		}
	}
	return nil
}

func (Kotlin) Emit(decls []decl.Declaration, r Rules) (string, error) {
	var body strings.Builder
	renamed := false
	for i, d := range decls {
		if i > 0 {
			body.WriteByte('\n')
		}
		if d.Kind == decl.Alias {
			fmt.Fprintf(&body, "%stypealias %s = %s\n", prefix(r.TypeVisibility), d.Name, r.TypeOf(d.Target))
			continue
		}
		for _, a := range r.Derives {
			body.WriteString(a)
			body.WriteByte('\n')
		}
		if len(d.Fields) == 0 {
			// A data class needs at least one constructor parameter.
			fmt.Fprintf(&body, "%sclass %s\n", prefix(r.TypeVisibility), d.Name)
			continue
		}
		fmt.Fprintf(&body, "%sdata class %s(\n", prefix(r.TypeVisibility), d.Name)
		for _, f := range d.Fields {
			if f.Renamed() && r.Rename != "" {
				renamed = true
				body.WriteString("    ")
				fmt.Fprintf(&body, r.Rename, kotlinQuote(f.Key))
				body.WriteByte('\n')
			}
			def := ""
			if f.Shape.Kind() == shape.KindOptional {
				def = " = null"
			}
			fmt.Fprintf(&body, "    %sval %s: %s%s,\n", prefix(r.FieldVisibility), f.Ident, r.TypeOf(f.Shape), def)
		}
		body.WriteString(")\n")
	}

	if !r.Imports {
		return body.String(), nil
	}
	var imports []string
	if renamed && strings.HasPrefix(r.Rename, "@JsonProperty") {
		imports = append(imports, "com.fasterxml.jackson.annotation.JsonProperty")
	}
	if r.AnyValue == "JsonNode" && uses(decls, isKind(shape.KindAny)) {
		imports = append(imports, "com.fasterxml.jackson.databind.JsonNode")
	}
	if r.Number == "BigDecimal" && uses(decls, isKind(shape.KindNumeric)) {
		imports = append(imports, "java.math.BigDecimal")
	}
	if len(imports) == 0 {
		return body.String(), nil
	}
	var sb strings.Builder
	for _, imp := range imports {
		fmt.Fprintf(&sb, "import %s\n", imp)
	}
	sb.WriteByte('\n')
	sb.WriteString(body.String())
	return sb.String(), nil
}

// kotlinQuote renders s as a Kotlin string literal. Dollar signs are
// escaped so keys never start a template.
func kotlinQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '$':
			sb.WriteString(`\$`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, c)
				continue
			}
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
