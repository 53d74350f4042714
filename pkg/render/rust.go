package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/shape"
)

// Rust emits serde structs.
type Rust struct{}

var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true,
	// reserved for future use
	"abstract": true, "become": true, "box": true, "do": true, "final": true,
	"gen": true, "macro": true, "override": true, "priv": true, "try": true,
	"typeof": true, "unsized": true, "virtual": true, "yield": true,
}

var (
	rustVisibility = regexp.MustCompile(`^(pub(\((crate|super|self|in [A-Za-z_][A-Za-z0-9_]*(::[A-Za-z_][A-Za-z0-9_]*)*)\))?)?$`)
	rustPath       = regexp.MustCompile(`^(::)?[A-Za-z_][A-Za-z0-9_]*(::[A-Za-z_][A-Za-z0-9_]*)*$`)
)

func (Rust) Name() string        { return "rust" }
func (Rust) Description() string { return "Rust structs with serde derives" }

func (Rust) TypeIdent(key string) string {
	return decl.LeadingLetter(decl.PascalCase(key), "T")
}

func (Rust) FieldIdent(key string) string {
	id := decl.SnakeCase(key)
	if id == "" {
		return ""
	}
	if rustKeywords[id] {
		return id + "_field"
	}
	return decl.LeadingLetter(id, "_")
}

func (Rust) ReservedTypeNames() []string {
	return []string{"Option", "Vec", "String", "Decimal", "Self"}
}

func (Rust) Rules(policy NumberPolicy) (Rules, error) {
	p, err := policyOrDefault(policy)
	if err != nil {
		return Rules{}, err
	}
	number := "Decimal"
	if p == Float {
		number = "f64"
	}
	return Rules{
		Target: "rust",
		Derives: []string{
			"Default", "Debug", "Clone", "PartialEq",
			"serde_derive::Serialize", "serde_derive::Deserialize",
		},
		TypeVisibility:  "pub",
		FieldVisibility: "pub",
		NumberPolicy:    p,
		Optional:        "Option<%s>",
		Collection:      "Vec<%s>",
		AnyValue:        "::serde_json::Value",
		Boolean:         "bool",
		Number:          number,
		Text:            "String",
		Rename:          "#[serde(rename = %s)]",
	}, nil
}

func (Rust) Check(r Rules) error {
	if err := r.checkPolicy(); err != nil {
		return err
	}
	if err := r.checkSpellings(); err != nil {
		return err
	}
	if !rustVisibility.MatchString(r.TypeVisibility) {
		return invalid("rust type visibility %q", r.TypeVisibility)
	}
	if !rustVisibility.MatchString(r.FieldVisibility) {
		return invalid("rust field visibility %q", r.FieldVisibility)
	}
	for _, d := range r.Derives {
		if !rustPath.MatchString(d) {
			return invalid("rust derive %q is not a path", d)
		}
	}
	return nil
}

func (Rust) Emit(decls []decl.Declaration, r Rules) (string, error) {
	var sb strings.Builder

	if r.Imports && r.Number == "Decimal" && uses(decls, isKind(shape.KindNumeric)) {
		sb.WriteString("use rust_decimal::Decimal;\n\n")
	}

	for i, d := range decls {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if d.Kind == decl.Alias {
			fmt.Fprintf(&sb, "%stype %s = %s;\n", prefix(r.TypeVisibility), d.Name, r.TypeOf(d.Target))
			continue
		}

		if len(r.Derives) > 0 {
			fmt.Fprintf(&sb, "#[derive(%s)]\n", strings.Join(r.Derives, ", "))
		}
		fmt.Fprintf(&sb, "%sstruct %s {", prefix(r.TypeVisibility), d.Name)
		if len(d.Fields) == 0 {
			sb.WriteString("}\n")
			continue
		}
		sb.WriteByte('\n')
		for _, f := range d.Fields {
			if f.Renamed() && r.Rename != "" {
				sb.WriteString("    ")
				fmt.Fprintf(&sb, r.Rename, rustQuote(f.Key))
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "    %s%s: %s,\n", prefix(r.FieldVisibility), f.Ident, r.TypeOf(f.Shape))
		}
		sb.WriteString("}\n")
	}
	return sb.String(), nil
}

// prefix turns a visibility into a keyword prefix.
func prefix(visibility string) string {
	if visibility == "" {
		return ""
	}
	return visibility + " "
}

// rustQuote renders s as a Rust string literal.
func rustQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&sb, `\u{%x}`, c)
				continue
			}
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
