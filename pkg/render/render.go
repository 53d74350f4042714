// Package render emits declarations as source text for a target language.
//
// A Target owns a language's identifier conventions and its default
// rendering Rules. Callers start from the target's defaults, override what
// they need (visibility, derives, spellings) and call Render, which checks
// the rules before anything is emitted. Emission is deterministic:
// identical declarations and rules always produce identical bytes.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/shape"
)

// ErrInvalidRules is returned when rendering rules are inconsistent with
// each other or with the target.
var ErrInvalidRules = errors.New("invalid rendering rules")

// NumberPolicy selects how Numeric shapes are spelled.
type NumberPolicy string

const (
	// Decimal renders numbers as the target's arbitrary-precision type.
	Decimal NumberPolicy = "decimal"
	// Float renders numbers as the target's native double.
	Float NumberPolicy = "float"
)

// Rules fix everything about the output that is not derived from the
// declarations themselves.
type Rules struct {
	Target string `json:"target"`

	// Derives is the derive or annotation list placed on every struct.
	Derives []string `json:"derives,omitempty"`

	TypeVisibility  string `json:"type_visibility,omitempty"`
	FieldVisibility string `json:"field_visibility,omitempty"`

	NumberPolicy NumberPolicy `json:"number_policy"`

	// Optional and Collection are format strings with exactly one %s.
	Optional   string `json:"optional,omitempty"`
	Collection string `json:"collection,omitempty"`

	AnyValue string `json:"any_value,omitempty"`
	Boolean  string `json:"boolean,omitempty"`
	Number   string `json:"number,omitempty"`
	Text     string `json:"text,omitempty"`

	// Rename is a format string with one %s that receives the quoted key.
	// Empty means the target needs no rename annotation.
	Rename string `json:"rename,omitempty"`

	// Imports adds the import lines the output needs to compile.
	Imports bool `json:"imports,omitempty"`

	// Package is the package clause, for targets that have one.
	Package string `json:"package,omitempty"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRules, fmt.Sprintf(format, args...))
}

// checkFormat verifies that format has exactly one %s and no other verbs.
func checkFormat(name, format string) error {
	if strings.Count(format, "%s") != 1 {
		return invalid("%s format %q must contain exactly one %%s", name, format)
	}
	if strings.Count(strings.ReplaceAll(format, "%%", ""), "%") != 1 {
		return invalid("%s format %q has verbs other than %%s", name, format)
	}
	return nil
}

// checkSpellings verifies the spelling rules shared by the textual targets.
func (r Rules) checkSpellings() error {
	if err := checkFormat("optional", r.Optional); err != nil {
		return err
	}
	if err := checkFormat("collection", r.Collection); err != nil {
		return err
	}
	for _, sp := range []struct{ name, v string }{
		{"any value", r.AnyValue},
		{"boolean", r.Boolean},
		{"number", r.Number},
		{"text", r.Text},
	} {
		if strings.TrimSpace(sp.v) == "" {
			return invalid("%s spelling is empty", sp.name)
		}
	}
	if r.Rename != "" {
		if err := checkFormat("rename", r.Rename); err != nil {
			return err
		}
	}
	return nil
}

// checkPolicy rejects number policies other than decimal and float.
func (r Rules) checkPolicy() error {
	switch r.NumberPolicy {
	case Decimal, Float:
		return nil
	}
	return invalid("unknown number policy %q", r.NumberPolicy)
}

// TypeOf spells s using the rule's spellings. References are emitted by
// name. A union spelled inside a postfix format such as "%s[]" is wrapped
// in parentheses.
func (r Rules) TypeOf(s shape.Shape) string {
	switch x := s.(type) {
	case shape.Optional:
		return wrap(r.Optional, r.TypeOf(x.Inner))
	case shape.Collection:
		return wrap(r.Collection, r.TypeOf(x.Elem))
	case shape.Reference:
		return x.Name
	case shape.Boolean:
		return r.Boolean
	case shape.Numeric:
		return r.Number
	case shape.Text:
		return r.Text
	}
	// Any, Null and unnamed records cannot be spelled more precisely.
	return r.AnyValue
}

func wrap(format, inner string) string {
	if postfix(format) && topLevelUnion(inner) {
		inner = "(" + inner + ")"
	}
	return fmt.Sprintf(format, inner)
}

// postfix reports whether format appends a suffix with no spaces, as "%s[]" does.
func postfix(format string) bool {
	rest, ok := strings.CutPrefix(format, "%s")
	return ok && rest != "" && !strings.ContainsAny(rest, " \t")
}

// topLevelUnion reports whether s has a " | " outside any brackets.
func topLevelUnion(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '<', '{':
			depth++
		case ')', ']', '>', '}':
			depth--
		case '|':
			if depth == 0 && i > 0 && s[i-1] == ' ' && i+1 < len(s) && s[i+1] == ' ' {
				return true
			}
		}
	}
	return false
}

// Render checks rules against their target and emits decls.
func Render(decls []decl.Declaration, rules Rules) (string, error) {
	t, ok := Lookup(rules.Target)
	if !ok {
		return "", invalid("unknown target %q", rules.Target)
	}
	if err := t.Check(rules); err != nil {
		return "", err
	}
	return t.Emit(decls, rules)
}

// uses reports whether any shape in decls satisfies pred.
func uses(decls []decl.Declaration, pred func(shape.Shape) bool) bool {
	var visit func(shape.Shape) bool
	visit = func(s shape.Shape) bool {
		if s == nil {
			return false
		}
		if pred(s) {
			return true
		}
		switch x := s.(type) {
		case shape.Optional:
			return visit(x.Inner)
		case shape.Collection:
			return visit(x.Elem)
		}
		return false
	}
	for _, d := range decls {
		if visit(d.Target) {
			return true
		}
		for _, f := range d.Fields {
			if visit(f.Shape) {
				return true
			}
		}
	}
	return false
}

func isKind(k shape.Kind) func(shape.Shape) bool {
	return func(s shape.Shape) bool { return s.Kind() == k }
}

// requireEmpty rejects settings a target has no syntax for.
func requireEmpty(target string, r Rules) error {
	if len(r.Derives) > 0 {
		return invalid("target %s has no derive list", target)
	}
	if r.TypeVisibility != "" {
		return invalid("target %s has no type visibility, got %q", target, r.TypeVisibility)
	}
	if r.FieldVisibility != "" {
		return invalid("target %s has no field visibility, got %q", target, r.FieldVisibility)
	}
	return nil
}

// policyOrDefault resolves an empty policy to Decimal and rejects unknown
// ones.
func policyOrDefault(p NumberPolicy) (NumberPolicy, error) {
	switch p {
	case "":
		return Decimal, nil
	case Decimal, Float:
		return p, nil
	}
	return "", invalid("unknown number policy %q", p)
}
