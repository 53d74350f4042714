package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleGenerateBindings implements the sample-to-declarations workflow.
func HandleGenerateBindings(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		target := cfg.DefaultTarget
		rootName := "Root"
		source := ""
		if args := req.Params.Arguments; args != nil {
			if v := strings.TrimSpace(args["target"]); v != "" {
				target = v
			}
			if v := strings.TrimSpace(args["root_name"]); v != "" {
				rootName = v
			}
			source = strings.TrimSpace(args["source"])
		}
		if target == "" {
			target = "rust"
		}

		var sb strings.Builder

		sb.WriteString("# Generate Type Bindings from Samples\n\n")
		fmt.Fprintf(&sb, "You are producing %s declarations named `%s` ", target, rootName)
		if source != "" {
			fmt.Fprintf(&sb, "for the documents in %s. ", source)
		} else {
			sb.WriteString("for a set of example documents. ")
		}
		sb.WriteString("The declarations must accept every sample, so the sample set decides what comes out optional.\n\n")

		sb.WriteString("## How samples merge\n\n")
		sb.WriteString("- A key missing from some samples, or null in some, becomes optional\n")
		sb.WriteString("- A key whose types disagree (number in one sample, string in another) becomes an untyped value\n")
		sb.WriteString("- Array elements merge the same way, so one odd element widens the element type\n")
		sb.WriteString("- Nested objects become their own named types, named after their key\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Collect samples** - pass several documents, not one\n")
		sb.WriteString("   - Include at least one response with every optional section filled in\n")
		sb.WriteString("   - Include error or empty variants only if the type must accept them\n")
		sb.WriteString("   - Use `jq` to pick the part of a larger payload to type, e.g. `.data.items[]`\n\n")
		sb.WriteString("2. **Inspect** - `typegen_field_stats(samples)`\n")
		sb.WriteString("   - Fields with `required: false` will render optional; confirm that is intended\n")
		sb.WriteString("   - `format` hints (uuid, date-time, enum) are worth noting in the final answer\n\n")
		sb.WriteString("3. **Explain surprises** - `typegen_infer_shape(samples)`\n")
		sb.WriteString("   - An `Any` in the outline means conflicting types; find the sample that disagrees\n\n")
		fmt.Fprintf(&sb, "4. **Generate** - `typegen_generate(name: %q, target: %q, samples)`\n", rootName, target)
		sb.WriteString("   - Set `imports: true` when the output goes into a file as is\n")
		sb.WriteString("   - Use `typegen_list_targets` to see visibility and derive defaults\n\n")
		sb.WriteString("5. **Verify** - `typegen_check(samples)`\n")
		sb.WriteString("   - `valid: true` confirms the declarations accept every sample\n")
		sb.WriteString("   - Report any failures with their sample index\n\n")

		sb.WriteString("## Output\n\n")
		sb.WriteString("Return the generated code unchanged, followed by a short list of fields that came out optional or untyped and why.\n")

		return &sdkmcp.GetPromptResult{
			Description: fmt.Sprintf("Generate %s bindings for %s", target, rootName),
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
