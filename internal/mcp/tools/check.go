package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsontypegen/pkg/sample"
	"github.com/usestring/jsontypegen/pkg/validate"
)

// CheckInput is the input for typegen_check.
type CheckInput struct {
	Name    string   `json:"name,omitempty" jsonschema:"Root type name (default: Root)"`
	Samples []Sample `json:"samples" jsonschema:"Sample documents to infer from and validate"`
	JQ      string   `json:"jq,omitempty" jsonschema:"jq expression; each output becomes one sample"`
	XPath   string   `json:"xpath,omitempty" jsonschema:"XPath selecting sample nodes in XML or HTML"`
	CSS     string   `json:"css,omitempty" jsonschema:"CSS selector picking JSON script blocks in HTML"`
	Tuple   bool     `json:"tuple,omitempty" jsonschema:"Merge top-level array positions independently"`
}

// CheckOutput is the output of typegen_check.
type CheckOutput struct {
	Name     string             `json:"name"`
	Valid    bool               `json:"valid"`
	Checked  int                `json:"checked"`
	Failures []validate.Failure `json:"failures,omitzero"`
}

// ToolCheck validates every sample against the JSON Schema of the
// declarations generated from them.
func ToolCheck(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input CheckInput) (*sdkmcp.CallToolResult, CheckOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CheckInput) (*sdkmcp.CallToolResult, CheckOutput, error) {
		opts := d.defaults()
		opts.Tuple = input.Tuple
		opts.Selector = sample.Selector{JQ: input.JQ, XPath: input.XPath, CSS: input.CSS}
		res, _, err := d.run(input.Name, opts, input.Samples)
		if err != nil {
			return nil, CheckOutput{}, err
		}

		report, err := res.Check()
		if err != nil {
			return nil, CheckOutput{}, fmt.Errorf("compiling schema for %s: %w", res.Name, err)
		}
		return nil, CheckOutput{
			Name:     res.Name,
			Valid:    report.Valid(),
			Checked:  report.Checked,
			Failures: report.Failures,
		}, nil
	}
}
