package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "typegen_generate",
		Description: "Generate type declarations from sample documents. Samples are merged into one shape: a key missing from some samples or null in some becomes optional, conflicting types become an untyped value. Returns {name, target, code, declarations: [{name, kind, fields}], sample_count, cached}. Pick the output language with target (default rust); see typegen_list_targets.",
	}, ToolGenerate(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "typegen_infer_shape",
		Description: "Merge sample documents into a shape tree without naming or rendering it. Returns {shapes, outline, sample_count}; outline is a one-line rendering such as {id: Numeric, tags: Collection<Text>}. Use this to see why a field came out optional or untyped before calling typegen_generate.",
	}, ToolInferShape(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "typegen_field_stats",
		Description: "Report per-field statistics across samples: frequency, required, nullable, distinct count, examples and detected formats (uuid, date-time, date, email, uri, ipv4, enum). Paths look like user.name, items[].id or [].id for root arrays.",
	}, ToolFieldStats(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "typegen_check",
		Description: "Generate declarations from samples, then validate every sample against the JSON Schema of those declarations. Returns {valid, checked, failures: [{index, position, errors}]}. A valid result confirms the generated types accept every input.",
	}, ToolCheck(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "typegen_list_targets",
		Description: "List output languages with their default visibility and derive rules.",
	}, ToolListTargets(d))
}
