// Package validate checks samples against the JSON Schema rendered from
// their own declarations. A sample that fails means the generated types
// could not read it back.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/render"
	"github.com/usestring/jsontypegen/pkg/shape"
	"github.com/usestring/jsontypegen/pkg/value"
)

const resourceURL = "typegen://document.schema.json"

// Validator validates documents against one compiled schema.
type Validator struct {
	schema  *jsonschema.Schema
	printer *message.Printer
}

// Option configures a Validator.
type Option func(*Validator)

// WithLanguage localizes validation messages.
func WithLanguage(tag language.Tag) Option {
	return func(v *Validator) { v.printer = message.NewPrinter(tag) }
}

// Compile builds a validator for documents of shape doc, whose records
// are referenced from decls.
func Compile(decls []decl.Declaration, doc shape.Shape, opts ...Option) (*Validator, error) {
	raw, err := json.Marshal(render.BuildDocumentSchema(decls, doc))
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	var schemaValue any
	if err := json.Unmarshal(raw, &schemaValue); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceURL, schemaValue); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	v := &Validator{schema: compiled, printer: message.NewPrinter(language.English)}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Validate returns the messages of every violation, or nil when doc is
// valid.
func (v *Validator) Validate(doc value.Value) []string {
	err := v.schema.Validate(doc.JSONInterface())
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return v.messages(validationErr)
	}
	return []string{err.Error()}
}

// Failure describes one document that did not validate.
type Failure struct {
	Index    int      `json:"index"`
	Position int      `json:"position,omitempty"`
	Errors   []string `json:"errors"`
}

// Report summarizes a check run.
type Report struct {
	Checked  int       `json:"checked"`
	Failures []Failure `json:"failures,omitempty"`
}

// Valid reports whether every checked document validated.
func (r *Report) Valid() bool {
	return len(r.Failures) == 0
}

// Check validates every sample against the document shape doc.
func Check(decls []decl.Declaration, doc shape.Shape, samples []value.Value, opts ...Option) (*Report, error) {
	v, err := Compile(decls, doc, opts...)
	if err != nil {
		return nil, err
	}
	report := &Report{}
	for i, s := range samples {
		report.Checked++
		if errs := v.Validate(s); errs != nil {
			report.Failures = append(report.Failures, Failure{Index: i, Errors: errs})
		}
	}
	return report, nil
}

// CheckTuple validates each row position against the matching document
// shape in docs. Positions beyond len(docs) are reported as failures.
func CheckTuple(decls []decl.Declaration, docs []shape.Shape, rows [][]value.Value, opts ...Option) (*Report, error) {
	validators := make([]*Validator, len(docs))
	for i, doc := range docs {
		v, err := Compile(decls, doc, opts...)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		validators[i] = v
	}

	report := &Report{}
	for r, row := range rows {
		for p, cell := range row {
			report.Checked++
			if p >= len(validators) {
				report.Failures = append(report.Failures, Failure{Index: r, Position: p, Errors: []string{"unexpected tuple position"}})
				continue
			}
			if errs := validators[p].Validate(cell); errs != nil {
				report.Failures = append(report.Failures, Failure{Index: r, Position: p, Errors: errs})
			}
		}
	}
	return report, nil
}

// messages flattens the leaf causes of err into "path: message" lines,
// deduplicated and sorted.
func (v *Validator) messages(err *jsonschema.ValidationError) []string {
	seen := map[string]bool{}
	var out []string
	v.collect(err, seen, &out)
	if len(out) == 0 {
		out = append(out, err.Error())
	}
	sort.Strings(out)
	return out
}

func (v *Validator) collect(err *jsonschema.ValidationError, seen map[string]bool, out *[]string) {
	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(v.printer)
		// $ref wrappers repeat their causes.
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			line := msg
			if len(err.InstanceLocation) > 0 {
				line = "/" + strings.Join(err.InstanceLocation, "/") + ": " + msg
			}
			if !seen[line] {
				seen[line] = true
				*out = append(*out, line)
			}
		}
	}
	for _, cause := range err.Causes {
		v.collect(cause, seen, out)
	}
}
