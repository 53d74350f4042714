// Package tools contains MCP tool implementations for jsontypegen.
package tools

import (
	"encoding/json"
	"fmt"
	"os"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsontypegen/pkg/sample"
)

// MIME type constant.
const MimeJSON = "application/json"

// maxSamples caps the documents one call may pass.
const maxSamples = 500

// Sample is one document handed to a tool, inline or by path.
type Sample struct {
	Text        string `json:"text,omitempty" jsonschema:"Document text. JSON, NDJSON, YAML, XML, HTML, CSV and form bodies are recognized."`
	Path        string `json:"path,omitempty" jsonschema:"File to read the document from, instead of text"`
	ContentType string `json:"content_type,omitempty" jsonschema:"Content type of the document (default: from the path extension, then sniffed)"`
}

// MakeJSONToolResult creates a CallToolResult with JSON text content.
func MakeJSONToolResult(v any) (*sdkmcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: string(b)},
		},
	}, nil
}

// toInputs reads every sample into a decoder input.
func toInputs(samples []Sample) ([]sample.Input, error) {
	if len(samples) == 0 {
		return nil, ErrInvalidInput("at least one sample is required")
	}
	if len(samples) > maxSamples {
		return nil, ErrInvalidInput(fmt.Sprintf("at most %d samples are accepted, got %d", maxSamples, len(samples)))
	}

	inputs := make([]sample.Input, 0, len(samples))
	for i, s := range samples {
		switch {
		case s.Path != "" && s.Text != "":
			return nil, ErrInvalidInput(fmt.Sprintf("sample %d: set text or path, not both", i))
		case s.Path != "":
			data, err := os.ReadFile(s.Path)
			if err != nil {
				return nil, &CodedError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("sample %d: reading %s", i, s.Path), Cause: err}
			}
			inputs = append(inputs, sample.Input{Name: s.Path, ContentType: s.ContentType, Data: data})
		case s.Text != "":
			inputs = append(inputs, sample.Input{ContentType: s.ContentType, Data: []byte(s.Text)})
		default:
			return nil, ErrInvalidInput(fmt.Sprintf("sample %d is empty", i))
		}
	}
	return inputs, nil
}

// toAny converts v to its generic JSON form so that the output schema sees
// an untyped value.
func toAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
