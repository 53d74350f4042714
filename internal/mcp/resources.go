package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsontypegen/internal/mcp/tools"
	"github.com/usestring/jsontypegen/pkg/render"
)

// Resource URI scheme: typegen://
// Supported URIs:
//   typegen://targets
//   typegen://targets/{name}

const resourceScheme = "typegen://"

// registerResources registers resources and their handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         resourceScheme + "targets",
		Name:        "Targets",
		Description: "Every output language with its description and default visibility and derive rules. typegen_list_targets returns the same data.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceTargets)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: resourceScheme + "targets/{name}",
		Name:        "Target Rules",
		Description: "The complete default rendering rules of one target: type spellings, optional and collection forms, rename annotation and derives.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceTargetRules)
}

func (s *Server) handleResourceTargets(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	return toResourceResult(req.Params.URI, tools.Targets(s.defaultTarget()))
}

func (s *Server) handleResourceTargetRules(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	policy := render.Decimal
	if s.deps.Config != nil && s.deps.Config.NumberPolicy != "" {
		policy = render.NumberPolicy(s.deps.Config.NumberPolicy)
	}
	rules, err := render.Defaults(params["name"], policy)
	if err != nil {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}
	return toResourceResult(req.Params.URI, rules)
}

func (s *Server) defaultTarget() string {
	if s.deps.Config != nil && s.deps.Config.Target != "" {
		return s.deps.Config.Target
	}
	return render.DefaultTarget
}

// parseResourceURI splits a typegen:// URI into its parameters.
func parseResourceURI(uri string) (map[string]string, error) {
	path, ok := strings.CutPrefix(uri, resourceScheme)
	if !ok {
		return nil, tools.ErrInvalidInput(fmt.Sprintf("invalid URI scheme: %s", uri))
	}

	parts := strings.Split(path, "/")
	params := make(map[string]string)

	switch parts[0] {
	case "targets":
		if len(parts) > 2 {
			return nil, tools.ErrInvalidInput(fmt.Sprintf("too many segments: %s", uri))
		}
		if len(parts) == 2 {
			if parts[1] == "" {
				return nil, tools.ErrInvalidInput("targets URI requires a target name")
			}
			params["name"] = parts[1]
		}
	default:
		return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown resource type: %s", parts[0]))
	}

	return params, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
