// Package typegen generates type declarations from sample documents.
//
// Generate runs the whole pipeline for one invocation: samples are folded
// into a shape, the shape is flattened into named declarations and the
// declarations are rendered for a target language. Every call owns its
// own namespace, so independent calls may run in parallel.
//
//	res, err := typegen.Generate("Point", samples, typegen.WithTarget("go"))
//	if err != nil {
//		return err
//	}
//	fmt.Print(res.Code)
package typegen

import (
	"errors"
	"fmt"

	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/render"
	"github.com/usestring/jsontypegen/pkg/sample"
	"github.com/usestring/jsontypegen/pkg/shape"
	"github.com/usestring/jsontypegen/pkg/stats"
	"github.com/usestring/jsontypegen/pkg/validate"
	"github.com/usestring/jsontypegen/pkg/value"
)

// ErrNoSamples is returned when there is nothing to infer from.
var ErrNoSamples = errors.New("no samples")

// Result is the outcome of one generation.
type Result struct {
	Name         string             `json:"name"`
	Code         string             `json:"code"`
	Declarations []decl.Declaration `json:"declarations"`
	// Shape is the finalized root shape. It is nil in tuple mode.
	Shape shape.Shape `json:"shape,omitempty"`
	// Positions holds the finalized shape of every tuple position.
	Positions   []shape.Shape `json:"positions,omitempty"`
	SampleCount int           `json:"sample_count"`
	Rules       render.Rules  `json:"rules"`

	docs    []shape.Shape
	samples []value.Value
	rows    [][]value.Value
}

// Generate infers declarations for samples and renders them. rootName may
// carry a visibility qualifier, as in "pub(crate) Point".
func Generate(rootName string, samples []value.Value, opts ...Option) (*Result, error) {
	return Options{}.Apply(opts...).Generate(rootName, samples)
}

// GenerateInputs decodes inputs with the configured selector and calls
// Generate on the resulting samples.
func GenerateInputs(rootName string, inputs []sample.Input, opts ...Option) (*Result, error) {
	return Options{}.Apply(opts...).GenerateInputs(rootName, inputs)
}

// GenerateInputs decodes inputs with o.Selector and generates from them.
func (o Options) GenerateInputs(rootName string, inputs []sample.Input) (*Result, error) {
	samples, err := sample.Decode(o.Selector, inputs...)
	if err != nil {
		return nil, err
	}
	return o.Generate(rootName, samples)
}

// Generate runs one generation with o.
func (o Options) Generate(rootName string, samples []value.Value) (*Result, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	visibility, name := ParseRootName(rootName)

	t, err := o.target()
	if err != nil {
		return nil, err
	}
	rules, err := o.rules(t, visibility)
	if err != nil {
		return nil, err
	}
	// Configuration errors are reported before any inference work.
	if err := t.Check(rules); err != nil {
		return nil, err
	}

	res := &Result{Name: name, SampleCount: len(samples), Rules: rules}
	b := decl.NewBuilder(t, nil)
	if o.Tuple {
		res.rows = tupleRows(samples)
		res.Positions = shape.FoldTuple(res.rows...)
		res.Declarations, err = b.BuildTuple(name, res.Positions)
	} else {
		res.samples = samples
		res.Shape = shape.Fold(samples...)
		res.Declarations, err = b.Build(name, res.Shape)
	}
	if err != nil {
		return nil, err
	}
	res.docs = b.Documents()

	res.Code, err = t.Emit(res.Declarations, rules)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", rules.Target, err)
	}
	return res, nil
}

// tupleRows turns samples into tuple rows. A single array document is one
// row of its elements; with several documents each array is a row and any
// other document is a one-position row.
func tupleRows(samples []value.Value) [][]value.Value {
	rows := make([][]value.Value, 0, len(samples))
	for _, s := range samples {
		if s.Kind() == value.Array {
			rows = append(rows, s.Items())
			continue
		}
		rows = append(rows, []value.Value{s})
	}
	return rows
}

// Check validates every sample against the JSON Schema of the generated
// declarations.
func (r *Result) Check(opts ...validate.Option) (*validate.Report, error) {
	if r.rows != nil {
		return validate.CheckTuple(r.Declarations, r.docs, r.rows, opts...)
	}
	if len(r.docs) != 1 {
		return nil, fmt.Errorf("no document shape for %s", r.Name)
	}
	return validate.Check(r.Declarations, r.docs[0], r.samples, opts...)
}

// Stats computes field statistics over the samples. When every sample is
// a top-level array its elements are the samples, so paths start at the
// element fields. In tuple mode each path is prefixed with its position,
// as in "[1].name".
func (r *Result) Stats(opts ...stats.Option) []stats.FieldStat {
	if r.rows == nil {
		root, samples := r.statSamples()
		return stats.Compute(root, samples, opts...)
	}
	var out []stats.FieldStat
	for i, pos := range r.Positions {
		var cells []value.Value
		for _, row := range r.rows {
			if i < len(row) {
				cells = append(cells, row[i])
			}
		}
		prefix := fmt.Sprintf("[%d]", i)
		for _, st := range stats.Compute(pos, cells, opts...) {
			if len(st.Path) > 0 && st.Path[0] == '[' {
				st.Path = prefix + st.Path
			} else {
				st.Path = prefix + "." + st.Path
			}
			out = append(out, st)
		}
	}
	return out
}

// StatsSamples returns the number of samples Stats counts frequencies
// over: the elements of top-level arrays, or the tuple rows.
func (r *Result) StatsSamples() int {
	if r.rows != nil {
		return len(r.rows)
	}
	_, samples := r.statSamples()
	return len(samples)
}

func (r *Result) statSamples() (shape.Shape, []value.Value) {
	c, ok := r.Shape.(shape.Collection)
	if !ok {
		return r.Shape, r.samples
	}
	var items []value.Value
	for _, s := range r.samples {
		items = append(items, s.Items()...)
	}
	return c.Elem, items
}

// Infer folds samples without naming or rendering anything.
func Infer(samples []value.Value, tuple bool) ([]shape.Shape, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if tuple {
		return shape.FoldTuple(tupleRows(samples)...), nil
	}
	return []shape.Shape{shape.Fold(samples...)}, nil
}
