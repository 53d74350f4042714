package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsontypegen/pkg/sample"
	"github.com/usestring/jsontypegen/pkg/stats"
	"github.com/usestring/jsontypegen/pkg/typegen"
)

// FieldStatsInput is the input for typegen_field_stats.
type FieldStatsInput struct {
	Samples  []Sample `json:"samples" jsonschema:"Sample documents to analyze"`
	JQ       string   `json:"jq,omitempty" jsonschema:"jq expression; each output becomes one sample"`
	XPath    string   `json:"xpath,omitempty" jsonschema:"XPath selecting sample nodes in XML or HTML"`
	CSS      string   `json:"css,omitempty" jsonschema:"CSS selector picking JSON script blocks in HTML"`
	Tuple    bool     `json:"tuple,omitempty" jsonschema:"Analyze top-level array positions independently"`
	MaxDepth int      `json:"max_depth,omitempty" jsonschema:"Deepest nesting level reported (default: 8)"`
}

// FieldStatsOutput is the output of typegen_field_stats.
type FieldStatsOutput struct {
	Fields      []stats.FieldStat `json:"fields,omitzero"`
	SampleCount int               `json:"sample_count"`
	Optional    int               `json:"optional"`
	Hint        string            `json:"hint,omitempty"`
}

// ToolFieldStats reports per-field frequency, nullability and formats.
func ToolFieldStats(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input FieldStatsInput) (*sdkmcp.CallToolResult, FieldStatsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input FieldStatsInput) (*sdkmcp.CallToolResult, FieldStatsOutput, error) {
		if input.MaxDepth < 0 {
			return nil, FieldStatsOutput{}, ErrInvalidInput("max_depth must not be negative")
		}

		opts := d.defaults()
		opts.Tuple = input.Tuple
		opts.Selector = sample.Selector{JQ: input.JQ, XPath: input.XPath, CSS: input.CSS}
		res, _, err := d.run("Root", opts, input.Samples)
		if err != nil {
			return nil, FieldStatsOutput{}, err
		}

		var sopts []stats.Option
		if input.MaxDepth > 0 {
			sopts = append(sopts, stats.WithMaxDepth(input.MaxDepth))
		}
		out := statsOutput(res, sopts...)
		return nil, out, nil
	}
}

func statsOutput(res *typegen.Result, opts ...stats.Option) FieldStatsOutput {
	out := FieldStatsOutput{
		Fields:      res.Stats(opts...),
		SampleCount: res.StatsSamples(),
	}
	for _, f := range out.Fields {
		if !f.Required {
			out.Optional++
		}
	}
	if out.Optional > 0 {
		out.Hint = "Fields that are not required render as optional types. Add samples that carry them to confirm."
	}
	return out
}
