// Package sample decodes request bodies and files into sample values.
//
// The Engine dispatches by content category, the same way for every
// surface: JSON and NDJSON streams, multi-document YAML, XML, JSON embedded
// in HTML script tags, CSV tables and form-urlencoded bodies. A Selector
// narrows each document to the parts that should become samples.
package sample

import (
	"errors"
	"fmt"

	"github.com/usestring/jsontypegen/pkg/contenttype"
	"github.com/usestring/jsontypegen/pkg/value"
)

var (
	// ErrUnsupportedContent is returned for binary or unknown content.
	ErrUnsupportedContent = errors.New("unsupported content")
	// ErrInvalidSelector is returned for selectors that do not compile or do
	// not apply to the content.
	ErrInvalidSelector = errors.New("invalid selector")
)

// Input is one document to decode.
type Input struct {
	// Name is a file path or label. Its extension is used when ContentType
	// is empty.
	Name        string
	ContentType string
	Data        []byte
}

// Selector picks samples out of each document. XPath applies to XML and
// HTML, CSS to HTML. JQ runs last, on every decoded value, and each of its
// outputs becomes one sample.
type Selector struct {
	JQ    string `json:"jq,omitempty"`
	XPath string `json:"xpath,omitempty"`
	CSS   string `json:"css,omitempty"`
}

// Result is the decoded form of one input.
type Result struct {
	Category contenttype.Category `json:"category"`
	Samples  []value.Value        `json:"-"`
}

// Engine decodes inputs with a fixed selector. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	sel Selector
	jq  *jqProgram
}

// NewEngine compiles the selector.
func NewEngine(sel Selector) (*Engine, error) {
	if sel.XPath != "" && sel.CSS != "" {
		return nil, fmt.Errorf("%w: xpath and css are mutually exclusive", ErrInvalidSelector)
	}
	e := &Engine{sel: sel}
	if sel.JQ != "" {
		prog, err := compileJQ(sel.JQ)
		if err != nil {
			return nil, err
		}
		e.jq = prog
	}
	return e, nil
}

// Decode turns one input into samples.
func (e *Engine) Decode(in Input) (*Result, error) {
	category := contenttype.Resolve(in.ContentType, in.Name, in.Data)

	if e.sel.CSS != "" && category != contenttype.HTML {
		return nil, fmt.Errorf("%w: css selectors apply to html, got %s", ErrInvalidSelector, category)
	}
	if e.sel.XPath != "" && category != contenttype.XML && category != contenttype.HTML {
		return nil, fmt.Errorf("%w: xpath applies to xml and html, got %s", ErrInvalidSelector, category)
	}

	var (
		docs []value.Value
		err  error
	)
	switch category {
	case contenttype.JSON:
		docs, err = value.ParseStream(in.Data)
	case contenttype.YAML:
		docs, err = value.ParseYAML(in.Data)
	case contenttype.XML:
		docs, err = decodeXML(in.Data, e.sel.XPath)
	case contenttype.HTML:
		docs, err = decodeHTML(in.Data, e.sel)
	case contenttype.CSV:
		docs, err = decodeCSV(in.Data)
	case contenttype.Form:
		docs, err = decodeForm(in.Data)
	default:
		return nil, fmt.Errorf("%w: %s content in %s", ErrUnsupportedContent, category, label(in))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s as %s: %w", label(in), category, err)
	}

	if e.jq != nil {
		if docs, err = e.jq.apply(docs); err != nil {
			return nil, fmt.Errorf("selecting from %s: %w", label(in), err)
		}
	}
	return &Result{Category: category, Samples: docs}, nil
}

// DecodeAll decodes every input in order and concatenates their samples.
func (e *Engine) DecodeAll(inputs ...Input) ([]value.Value, error) {
	var out []value.Value
	for _, in := range inputs {
		res, err := e.Decode(in)
		if err != nil {
			return nil, err
		}
		out = append(out, res.Samples...)
	}
	return out, nil
}

// Decode is a one-shot helper around NewEngine and Engine.DecodeAll.
func Decode(sel Selector, inputs ...Input) ([]value.Value, error) {
	e, err := NewEngine(sel)
	if err != nil {
		return nil, err
	}
	return e.DecodeAll(inputs...)
}

func label(in Input) string {
	if in.Name != "" {
		return in.Name
	}
	return "input"
}
