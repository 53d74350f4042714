package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/shape"
)

// TypeScript emits interfaces, or object type aliases when TypeAlias is set.
// Property names keep the original key, quoted when needed, so no rename
// annotation exists.
type TypeScript struct {
	TypeAlias bool
}

func (t TypeScript) Name() string {
	if t.TypeAlias {
		return "typescript/typealias"
	}
	return "typescript"
}

func (t TypeScript) Description() string {
	if t.TypeAlias {
		return "TypeScript object type aliases"
	}
	return "TypeScript interfaces"
}

func (TypeScript) TypeIdent(key string) string {
	return decl.LeadingLetter(decl.PascalCase(key), "T")
}

func (TypeScript) FieldIdent(key string) string {
	if isJSIdentifier(key) {
		return key
	}
	quoted, _ := json.Marshal(key)
	return string(quoted)
}

func (TypeScript) ReservedTypeNames() []string {
	return []string{"Array", "Object", "String", "Number", "Boolean", "Record", "Partial", "Date", "Map", "Set"}
}

func isJSIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

func (t TypeScript) Rules(policy NumberPolicy) (Rules, error) {
	p, err := policyOrDefault(policy)
	if err != nil {
		return Rules{}, err
	}
	// JSON numbers parse to number either way.
	return Rules{
		Target:         t.Name(),
		TypeVisibility: "export",
		NumberPolicy:   p,
		Optional:       "%s | null",
		Collection:     "%s[]",
		AnyValue:       "unknown",
		Boolean:        "boolean",
		Number:         "number",
		Text:           "string",
	}, nil
}

func (t TypeScript) Check(r Rules) error {
	if err := r.checkPolicy(); err != nil {
		return err
	}
	if err := r.checkSpellings(); err != nil {
		return err
	}
	if len(r.Derives) > 0 {
		return invalid("target %s has no derive list", t.Name())
	}
	if r.TypeVisibility != "" && r.TypeVisibility != "export" {
		return invalid("typescript type visibility %q", r.TypeVisibility)
	}
	if r.FieldVisibility != "" && r.FieldVisibility != "readonly" {
		return invalid("typescript field visibility %q", r.FieldVisibility)
	}
	if r.Rename != "" {
		return invalid("typescript keeps keys verbatim, rename format must be empty")
	}
	return nil
}

func (t TypeScript) Emit(decls []decl.Declaration, r Rules) (string, error) {
	var sb strings.Builder
	for i, d := range decls {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if d.Kind == decl.Alias {
			fmt.Fprintf(&sb, "%stype %s = %s;\n", prefix(r.TypeVisibility), d.Name, r.TypeOf(d.Target))
			continue
		}

		if t.TypeAlias {
			fmt.Fprintf(&sb, "%stype %s = {", prefix(r.TypeVisibility), d.Name)
		} else {
			fmt.Fprintf(&sb, "%sinterface %s {", prefix(r.TypeVisibility), d.Name)
		}
		if len(d.Fields) > 0 {
			sb.WriteByte('\n')
		}
		for _, f := range d.Fields {
			mark := ""
			if f.Shape.Kind() == shape.KindOptional {
				mark = "?"
			}
			fmt.Fprintf(&sb, "  %s%s%s: %s;\n", prefix(r.FieldVisibility), f.Ident, mark, r.TypeOf(f.Shape))
		}
		if t.TypeAlias {
			sb.WriteString("};\n")
		} else {
			sb.WriteString("}\n")
		}
	}
	return sb.String(), nil
}
