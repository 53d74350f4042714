package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/shape"
)

func TestCheckOutputSchema(t *testing.T) {
	type nilSlice struct {
		Items []string `json:"items"`
	}
	type omitzeroSlice struct {
		Items []string `json:"items,omitzero"`
	}
	type omitemptySlice struct {
		Items []string `json:"items,omitempty"`
	}
	type scalars struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	type rawMessage struct {
		Data json.RawMessage `json:"data,omitempty"`
	}
	type shapeField struct {
		Shape shape.Shape `json:"shape,omitempty"`
	}
	type textKind struct {
		Kind decl.Kind `json:"kind"`
	}
	type nested struct {
		Inner struct {
			Schema json.RawMessage `json:"schema,omitempty"`
		} `json:"inner"`
	}
	type anySlice struct {
		Items []any `json:"items,omitzero"`
	}

	tests := []struct {
		name   string
		check  func()
		panics bool
	}{
		{"nil slice", func() { CheckOutputSchema[nilSlice]("t") }, true},
		{"omitzero slice", func() { CheckOutputSchema[omitzeroSlice]("t") }, false},
		{"omitempty slice", func() { CheckOutputSchema[omitemptySlice]("t") }, false},
		{"scalars", func() { CheckOutputSchema[scalars]("t") }, false},
		{"any", func() { CheckOutputSchema[any]("t") }, false},
		{"raw message", func() { CheckOutputSchema[rawMessage]("t") }, true},
		{"shape interface", func() { CheckOutputSchema[shapeField]("t") }, true},
		{"text marshaler", func() { CheckOutputSchema[textKind]("t") }, true},
		{"nested raw message", func() { CheckOutputSchema[nested]("t") }, true},
		{"any slice", func() { CheckOutputSchema[anySlice]("t") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.panics {
				assert.Panics(t, tt.check)
			} else {
				assert.NotPanics(t, tt.check)
			}
		})
	}
}

func TestCheckOutputSchema_ToolOutputs(t *testing.T) {
	assert.NotPanics(t, func() {
		CheckOutputSchema[GenerateOutput]("typegen_generate")
		CheckOutputSchema[InferShapeOutput]("typegen_infer_shape")
		CheckOutputSchema[FieldStatsOutput]("typegen_field_stats")
		CheckOutputSchema[CheckOutput]("typegen_check")
		CheckOutputSchema[ListTargetsOutput]("typegen_list_targets")
	})
}
