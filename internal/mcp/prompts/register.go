package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "generate_bindings",
		Description: "RECOMMENDED: Turn example payloads into type declarations for a language. Walks through collecting representative samples, checking optional fields, generating and validating the result.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "target",
				Description: "Output language (e.g., 'rust', 'go', 'typescript', 'kotlin', 'jsonschema')",
				Required:    false,
			},
			{
				Name:        "root_name",
				Description: "Name of the root type (e.g., 'Order', 'pub(crate) Event')",
				Required:    false,
			},
			{
				Name:        "source",
				Description: "Where the samples come from (e.g., 'fixtures/*.json', 'the /v1/orders response')",
				Required:    false,
			},
		},
	}, HandleGenerateBindings(cfg))
}
