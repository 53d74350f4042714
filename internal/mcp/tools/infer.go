package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsontypegen/pkg/sample"
	"github.com/usestring/jsontypegen/pkg/typegen"
)

// InferShapeInput is the input for typegen_infer_shape.
type InferShapeInput struct {
	Samples []Sample `json:"samples" jsonschema:"Sample documents to infer from"`
	JQ      string   `json:"jq,omitempty" jsonschema:"jq expression; each output becomes one sample"`
	XPath   string   `json:"xpath,omitempty" jsonschema:"XPath selecting sample nodes in XML or HTML"`
	CSS     string   `json:"css,omitempty" jsonschema:"CSS selector picking JSON script blocks in HTML"`
	Tuple   bool     `json:"tuple,omitempty" jsonschema:"Merge top-level array positions independently"`
}

// InferShapeOutput is the output of typegen_infer_shape.
type InferShapeOutput struct {
	// Shapes holds one tree per tuple position, or a single tree.
	Shapes      []any    `json:"shapes,omitzero"`
	Outline     []string `json:"outline,omitzero"`
	SampleCount int      `json:"sample_count"`
	Hint        string   `json:"hint,omitempty"`
}

// ToolInferShape merges samples into a shape without naming or rendering.
func ToolInferShape(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferShapeInput) (*sdkmcp.CallToolResult, InferShapeOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferShapeInput) (*sdkmcp.CallToolResult, InferShapeOutput, error) {
		inputs, err := toInputs(input.Samples)
		if err != nil {
			return nil, InferShapeOutput{}, err
		}
		values, err := sample.Decode(sample.Selector{JQ: input.JQ, XPath: input.XPath, CSS: input.CSS}, inputs...)
		if err != nil {
			return nil, InferShapeOutput{}, WrapGenerateError(err)
		}
		shapes, err := typegen.Infer(values, input.Tuple)
		if err != nil {
			return nil, InferShapeOutput{}, WrapGenerateError(err)
		}

		out := InferShapeOutput{
			SampleCount: len(values),
			Hint:        "Use typegen_generate with the same samples to name and render these shapes.",
		}
		for _, s := range shapes {
			tree, err := toAny(s)
			if err != nil {
				return nil, InferShapeOutput{}, fmt.Errorf("encoding shape: %w", err)
			}
			out.Shapes = append(out.Shapes, tree)
			out.Outline = append(out.Outline, s.String())
		}
		// The text content carries the trees as plain JSON for clients that
		// ignore structured output.
		res, err := MakeJSONToolResult(shapes)
		if err != nil {
			return nil, InferShapeOutput{}, fmt.Errorf("encoding shapes: %w", err)
		}
		return res, out, nil
	}
}
