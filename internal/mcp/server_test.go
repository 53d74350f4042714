package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsontypegen/internal/cache"
	"github.com/usestring/jsontypegen/internal/config"
	"github.com/usestring/jsontypegen/internal/mcp/tools"
	"github.com/usestring/jsontypegen/pkg/render"
)

func newTestServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	c, err := cache.New(8)
	require.NoError(t, err)
	s, err := NewServer(&tools.Deps{
		Config: &config.Config{Target: "go", NumberPolicy: "float"},
		Cache:  c,
	}, opts...)
	require.NoError(t, err)
	return s
}

func connect(t *testing.T, s *Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()

	ss, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestNewServer_RequiresDeps(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)

	_, err = NewServer(&tools.Deps{})
	assert.Error(t, err)
}

func TestServer_ListsBuiltins(t *testing.T) {
	cs := connect(t, newTestServer(t, WithBuiltinTools(), WithBuiltinPrompts()))
	ctx := context.Background()

	toolList, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range toolList.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"typegen_generate",
		"typegen_infer_shape",
		"typegen_field_stats",
		"typegen_check",
		"typegen_list_targets",
	}, names)

	promptList, err := cs.ListPrompts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, promptList.Prompts, 1)
	assert.Equal(t, "generate_bindings", promptList.Prompts[0].Name)

	resources, err := cs.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 1)
	assert.Equal(t, "typegen://targets", resources.Resources[0].URI)
}

func TestServer_CallGenerate(t *testing.T) {
	cs := connect(t, newTestServer(t, WithBuiltinTools()))

	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name: "typegen_generate",
		Arguments: map[string]any{
			"name":    "Point",
			"samples": []map[string]any{{"text": `{"x": 1.5, "y": 2}`}},
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out tools.GenerateOutput
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "go", out.Target)
	assert.Contains(t, out.Code, "type Point struct {")
	assert.Contains(t, out.Code, "float64")
}

func TestServer_CallGenerateError(t *testing.T) {
	cs := connect(t, newTestServer(t, WithBuiltinTools()))

	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name: "typegen_generate",
		Arguments: map[string]any{
			"samples": []map[string]any{{"text": `{"a": 1}`}},
			"target":  "cobol",
		},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_ReadResources(t *testing.T) {
	cs := connect(t, newTestServer(t, WithBuiltinTools()))
	ctx := context.Background()

	res, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "typegen://targets"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	var targets []tools.TargetInfo
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &targets))
	assert.NotEmpty(t, targets)

	res, err = cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "typegen://targets/rust"})
	require.NoError(t, err)
	var rules render.Rules
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &rules))
	assert.Equal(t, "rust", rules.Target)
	assert.Equal(t, render.Float, rules.NumberPolicy)

	_, err = cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "typegen://targets/cobol"})
	assert.Error(t, err)
}

func TestWithCustomRegistration(t *testing.T) {
	called := false
	newTestServer(t, WithCustomRegistration(func(*sdkmcp.Server) { called = true }))
	assert.True(t, called)
}

func TestParseResourceURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    map[string]string
		wantErr bool
	}{
		{uri: "typegen://targets", want: map[string]string{}},
		{uri: "typegen://targets/go", want: map[string]string{"name": "go"}},
		{uri: "typegen://targets/", wantErr: true},
		{uri: "typegen://targets/go/extra", wantErr: true},
		{uri: "typegen://shapes", wantErr: true},
		{uri: "http://targets", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := parseResourceURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
