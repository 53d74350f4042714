package sample

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"

	"github.com/usestring/jsontypegen/pkg/value"
)

// defaultScripts matches the script tags pages use to embed data.
const defaultScripts = `script[type="application/json"], script[type="application/ld+json"]`

// decodeHTML parses JSON embedded in an HTML page. Each selected element's
// text is read as a stream of JSON documents. Without a selector, JSON and
// JSON-LD script tags are selected.
func decodeHTML(body []byte, sel Selector) ([]value.Value, error) {
	if sel.XPath != "" {
		return htmlXPath(body, sel.XPath)
	}

	css := sel.CSS
	if css == "" {
		css = defaultScripts
	}
	matcher, err := cascadia.Compile(css)
	if err != nil {
		return nil, fmt.Errorf("%w: css: %v", ErrInvalidSelector, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var texts []string
	doc.FindMatcher(matcher).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	return embeddedJSON(texts)
}

func htmlXPath(body []byte, expression string) ([]value.Value, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	nodes, err := htmlquery.QueryAll(doc, expression)
	if err != nil {
		return nil, fmt.Errorf("%w: xpath: %v", ErrInvalidSelector, err)
	}

	texts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		texts = append(texts, htmlquery.InnerText(n))
	}
	return embeddedJSON(texts)
}

func embeddedJSON(texts []string) ([]value.Value, error) {
	var out []value.Value
	for i, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		docs, err := value.ParseStream([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i+1, err)
		}
		out = append(out, docs...)
	}
	return out, nil
}
