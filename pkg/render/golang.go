package render

import (
	"fmt"
	"go/format"
	"go/token"
	"strconv"
	"strings"
	"unicode"

	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/shape"
)

// Go emits structs with encoding/json tags.
type Go struct{}

func (Go) Name() string        { return "go" }
func (Go) Description() string { return "Go structs with encoding/json tags" }

func (Go) TypeIdent(key string) string {
	return decl.LeadingLetter(decl.PascalCase(key), "T")
}

func (Go) FieldIdent(key string) string {
	return decl.LeadingLetter(decl.PascalCase(key), "F")
}

func (Go) ReservedTypeNames() []string { return nil }

func (Go) Rules(policy NumberPolicy) (Rules, error) {
	p, err := policyOrDefault(policy)
	if err != nil {
		return Rules{}, err
	}
	number := "json.Number"
	if p == Float {
		number = "float64"
	}
	return Rules{
		Target:       "go",
		NumberPolicy: p,
		Optional:     "*%s",
		Collection:   "[]%s",
		AnyValue:     "json.RawMessage",
		Boolean:      "bool",
		Number:       number,
		Text:         "string",
		Package:      "model",
		Imports:      true,
	}, nil
}

func (Go) Check(r Rules) error {
	if err := r.checkPolicy(); err != nil {
		return err
	}
	if err := r.checkSpellings(); err != nil {
		return err
	}
	if err := requireEmpty("go", r); err != nil {
		return err
	}
	if r.Rename != "" {
		return invalid("go renames through struct tags, rename format must be empty")
	}
	if r.Package != "" && (!token.IsIdentifier(r.Package) || token.IsKeyword(r.Package)) {
		return invalid("go package name %q", r.Package)
	}
	return nil
}

func (g Go) Emit(decls []decl.Declaration, r Rules) (string, error) {
	var (
		body     strings.Builder
		needJSON bool
	)
	spell := func(s shape.Shape) string {
		t := g.typeOf(r, s)
		needJSON = needJSON || strings.Contains(t, "json.")
		return t
	}
	for _, d := range decls {
		body.WriteByte('\n')
		if d.Kind == decl.Alias {
			fmt.Fprintf(&body, "type %s = %s\n", d.Name, spell(d.Target))
			continue
		}
		fmt.Fprintf(&body, "type %s struct {\n", d.Name)
		for _, f := range d.Fields {
			if !validTagKey(f.Key) {
				return "", &decl.IdentifierError{Role: "json tag key", Raw: f.Key, Path: d.Name}
			}
			tag := f.Key
			if f.Shape.Kind() == shape.KindOptional {
				tag += ",omitempty"
			}
			fmt.Fprintf(&body, "\t%s %s %s\n", f.Ident, spell(f.Shape), structTag(tag))
		}
		body.WriteString("}\n")
	}

	var src strings.Builder
	pkg := r.Package
	if pkg == "" {
		// go/format only parses whole files.
		pkg = "fragment"
	}
	fmt.Fprintf(&src, "package %s\n", pkg)
	if r.Imports && needJSON {
		src.WriteString("\nimport \"encoding/json\"\n")
	}
	src.WriteString(body.String())

	formatted, err := format.Source([]byte(src.String()))
	if err != nil {
		return "", fmt.Errorf("formatting go source: %w", err)
	}
	out := string(formatted)
	if r.Package == "" {
		out = strings.TrimLeft(strings.TrimPrefix(out, "package fragment\n"), "\n")
	}
	return out, nil
}

// typeOf spells s for Go. Slices and raw messages already have a nil zero
// value, so optionals of them do not get a pointer.
func (Go) typeOf(r Rules, s shape.Shape) string {
	if o, ok := s.(shape.Optional); ok {
		switch o.Inner.Kind() {
		case shape.KindCollection, shape.KindAny:
			return r.TypeOf(o.Inner)
		}
	}
	return r.TypeOf(s)
}

// validTagKey reports whether encoding/json reads key back from a struct
// tag name unchanged. Commas start tag options and other punctuation makes
// the tag name ignored.
func validTagKey(key string) bool {
	if key == "" {
		return false
	}
	for _, c := range key {
		switch {
		case strings.ContainsRune("!#$%&()*+-./:;<=>?@[]^_{|}~ ", c):
		case !unicode.IsLetter(c) && !unicode.IsDigit(c):
			return false
		}
	}
	return true
}

func structTag(name string) string {
	return "`json:" + strconv.Quote(name) + "`"
}
