package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/render"
	"github.com/usestring/jsontypegen/pkg/sample"
	"github.com/usestring/jsontypegen/pkg/typegen"
)

// GenerateInput is the input for typegen_generate.
type GenerateInput struct {
	Name    string   `json:"name,omitempty" jsonschema:"Root type name, optionally prefixed by a visibility such as 'pub(crate) Point' (default: Root)"`
	Samples []Sample `json:"samples" jsonschema:"Sample documents to infer from"`

	Target          string   `json:"target,omitempty" jsonschema:"Output language; see typegen_list_targets (default: configured target)"`
	NumberPolicy    string   `json:"number_policy,omitempty" jsonschema:"decimal or float (default: configured policy)"`
	TypeVisibility  *string  `json:"type_visibility,omitempty" jsonschema:"Visibility qualifier of declared types; empty string for none"`
	FieldVisibility *string  `json:"field_visibility,omitempty" jsonschema:"Visibility qualifier of fields; empty string for none"`
	Derives         []string `json:"derives,omitempty" jsonschema:"Derive or annotation list placed on every struct"`
	Imports         *bool    `json:"imports,omitempty" jsonschema:"Emit the import lines the output needs"`
	Package         string   `json:"package,omitempty" jsonschema:"Package clause for targets that have one"`

	JQ    string `json:"jq,omitempty" jsonschema:"jq expression; each output becomes one sample"`
	XPath string `json:"xpath,omitempty" jsonschema:"XPath selecting sample nodes in XML or HTML"`
	CSS   string `json:"css,omitempty" jsonschema:"CSS selector picking JSON script blocks in HTML"`
	Tuple bool   `json:"tuple,omitempty" jsonschema:"Merge top-level array positions independently"`
}

// DeclarationSummary describes one emitted declaration.
type DeclarationSummary struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Root   bool     `json:"root,omitempty"`
	Fields []string `json:"fields,omitzero"`
}

// GenerateOutput is the output of typegen_generate.
type GenerateOutput struct {
	Name         string               `json:"name"`
	Target       string               `json:"target"`
	Code         string               `json:"code"`
	Declarations []DeclarationSummary `json:"declarations,omitzero"`
	SampleCount  int                  `json:"sample_count"`
	Cached       bool                 `json:"cached"`
	Hint         string               `json:"hint,omitempty"`
}

// ToolGenerate renders declarations for the samples.
func ToolGenerate(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GenerateInput) (*sdkmcp.CallToolResult, GenerateOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GenerateInput) (*sdkmcp.CallToolResult, GenerateOutput, error) {
		res, cached, err := d.run(input.Name, input.options(d.defaults()), input.Samples)
		if err != nil {
			return nil, GenerateOutput{}, err
		}

		out := GenerateOutput{
			Name:         res.Name,
			Target:       res.Rules.Target,
			Code:         res.Code,
			Declarations: summarize(res.Declarations),
			SampleCount:  res.SampleCount,
			Cached:       cached,
		}
		if len(out.Declarations) > 1 {
			out.Hint = "Use typegen_field_stats with the same samples to see which fields are optional and why."
		}
		return nil, out, nil
	}
}

func (in GenerateInput) options(defaults typegen.Options) typegen.Options {
	o := defaults
	if in.Target != "" {
		o.Target = in.Target
	}
	if in.NumberPolicy != "" {
		o.NumberPolicy = render.NumberPolicy(in.NumberPolicy)
	}
	if in.TypeVisibility != nil {
		o.TypeVisibility = in.TypeVisibility
	}
	if in.FieldVisibility != nil {
		o.FieldVisibility = in.FieldVisibility
	}
	if in.Derives != nil {
		o.Derives = in.Derives
	}
	if in.Imports != nil {
		o.Imports = in.Imports
	}
	if in.Package != "" {
		o.Package = in.Package
	}
	o.Tuple = in.Tuple
	o.Selector = sample.Selector{JQ: in.JQ, XPath: in.XPath, CSS: in.CSS}
	return o
}

// run reads samples and generates through the cache.
func (d *Deps) run(name string, opts typegen.Options, samples []Sample) (*typegen.Result, bool, error) {
	if name == "" {
		name = "Root"
	}
	inputs, err := toInputs(samples)
	if err != nil {
		return nil, false, err
	}
	return d.generate(name, opts, inputs)
}

func summarize(decls []decl.Declaration) []DeclarationSummary {
	out := make([]DeclarationSummary, 0, len(decls))
	for _, dc := range decls {
		s := DeclarationSummary{Name: dc.Name, Kind: dc.Kind.String(), Root: dc.Root}
		for _, f := range dc.Fields {
			s.Fields = append(s.Fields, fmt.Sprintf("%s: %s", f.Ident, f.Shape))
		}
		out = append(out, s)
	}
	return out
}
