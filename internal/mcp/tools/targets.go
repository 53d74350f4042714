package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsontypegen/pkg/render"
)

// ListTargetsInput is the input for typegen_list_targets.
type ListTargetsInput struct{}

// TargetInfo describes one output language.
type TargetInfo struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	TypeVisibility  string   `json:"type_visibility,omitempty"`
	FieldVisibility string   `json:"field_visibility,omitempty"`
	Derives         []string `json:"derives,omitzero"`
	Default         bool     `json:"default,omitempty"`
}

// ListTargetsOutput is the output of typegen_list_targets.
type ListTargetsOutput struct {
	Targets []TargetInfo `json:"targets,omitzero"`
}

// ToolListTargets lists the registered output languages.
func ToolListTargets(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListTargetsInput) (*sdkmcp.CallToolResult, ListTargetsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListTargetsInput) (*sdkmcp.CallToolResult, ListTargetsOutput, error) {
		def := render.DefaultTarget
		if d.Config != nil && d.Config.Target != "" {
			def = d.Config.Target
		}
		return nil, ListTargetsOutput{Targets: Targets(def)}, nil
	}
}

// Targets describes every built-in target with its default rules,
// flagging def as the default.
func Targets(def string) []TargetInfo {
	var out []TargetInfo
	for _, t := range render.Targets() {
		info := TargetInfo{Name: t.Name(), Description: t.Description(), Default: t.Name() == def}
		if rules, err := t.Rules(render.Decimal); err == nil {
			info.TypeVisibility = rules.TypeVisibility
			info.FieldVisibility = rules.FieldVisibility
			info.Derives = rules.Derives
		}
		out = append(out, info)
	}
	return out
}
