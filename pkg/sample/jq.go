package sample

import (
	"fmt"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/usestring/jsontypegen/pkg/value"
)

type jqProgram struct {
	code *gojq.Code
}

func compileJQ(expression string) (*jqProgram, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("%w: jq: %v", ErrInvalidSelector, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("%w: jq: %v", ErrInvalidSelector, err)
	}
	return &jqProgram{code: code}, nil
}

// apply runs the program on every document. Each output is a sample. jq
// objects are unordered, so selected objects have sorted keys.
func (p *jqProgram) apply(docs []value.Value) ([]value.Value, error) {
	var out []value.Value
	for i, doc := range docs {
		iter := p.code.Run(doc.Interface())
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, isErr := v.(error); isErr {
				return nil, fmt.Errorf("document %d: %s", i+1, formatJQError(err))
			}
			sample, err := value.FromAny(v)
			if err != nil {
				return nil, fmt.Errorf("document %d: %w", i+1, err)
			}
			out = append(out, sample)
		}
	}
	return out, nil
}

// formatJQError trims gojq's wording for type errors.
func formatJQError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "cannot iterate over") || strings.Contains(msg, "expected an object") {
		return "jq type mismatch: " + msg
	}
	return msg
}
