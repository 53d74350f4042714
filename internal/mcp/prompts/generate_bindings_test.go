package prompts

import (
	"context"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptText(t *testing.T, res *sdkmcp.GetPromptResult) string {
	t.Helper()
	require.Len(t, res.Messages, 1)
	text, ok := res.Messages[0].Content.(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleGenerateBindings_Defaults(t *testing.T) {
	h := HandleGenerateBindings(&Config{DefaultTarget: "go"})
	res, err := h(context.Background(), &sdkmcp.GetPromptRequest{Params: &sdkmcp.GetPromptParams{}})
	require.NoError(t, err)

	assert.Equal(t, "Generate go bindings for Root", res.Description)
	text := promptText(t, res)
	assert.Contains(t, text, "You are producing go declarations named `Root`")
	assert.Contains(t, text, `typegen_generate(name: "Root", target: "go", samples)`)
}

func TestHandleGenerateBindings_Arguments(t *testing.T) {
	h := HandleGenerateBindings(&Config{})
	res, err := h(context.Background(), &sdkmcp.GetPromptRequest{Params: &sdkmcp.GetPromptParams{
		Arguments: map[string]string{
			"target":    "kotlin",
			"root_name": "Order",
			"source":    "fixtures/orders/*.json",
		},
	}})
	require.NoError(t, err)

	text := promptText(t, res)
	assert.Contains(t, text, "kotlin declarations named `Order`")
	assert.Contains(t, text, "for the documents in fixtures/orders/*.json.")
}

func TestHandleGenerateBindings_FallbackTarget(t *testing.T) {
	res, err := HandleGenerateBindings(&Config{})(context.Background(), &sdkmcp.GetPromptRequest{Params: &sdkmcp.GetPromptParams{}})
	require.NoError(t, err)
	assert.Equal(t, "Generate rust bindings for Root", res.Description)
}
