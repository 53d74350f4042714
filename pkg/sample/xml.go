package sample

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/usestring/jsontypegen/pkg/value"
)

const (
	xmlAttrPrefix = "@"
	xmlTextKey    = "#text"
	xmlMaxDepth   = 256
)

// decodeXML converts an XML document into one sample per selected element.
// Without an XPath expression the root element is the only sample.
func decodeXML(body []byte, expression string) ([]value.Value, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	var nodes []*xmlquery.Node
	if expression != "" {
		nodes, err = xmlquery.QueryAll(doc, expression)
		if err != nil {
			return nil, fmt.Errorf("%w: xpath: %v", ErrInvalidSelector, err)
		}
	} else {
		for n := doc.FirstChild; n != nil; n = n.NextSibling {
			if n.Type == xmlquery.ElementNode {
				nodes = append(nodes, n)
				break
			}
		}
	}

	out := make([]value.Value, 0, len(nodes))
	for _, n := range nodes {
		v, err := xmlValue(n, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// xmlValue maps an element to a value. Attributes become "@name" members,
// child elements become members named after their tag (arrays when
// repeated) and mixed text becomes "#text". An element with neither
// attributes nor children is its text, or null when empty.
func xmlValue(n *xmlquery.Node, depth int) (value.Value, error) {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		return value.StringValue(n.Data), nil
	case xmlquery.AttributeNode:
		return value.StringValue(n.InnerText()), nil
	case xmlquery.ElementNode:
	default:
		return value.StringValue(strings.TrimSpace(n.InnerText())), nil
	}
	if depth > xmlMaxDepth {
		return value.Value{}, fmt.Errorf("xml nesting exceeds %d levels", xmlMaxDepth)
	}

	var (
		members []value.Member
		order   []string
		groups  = map[string][]value.Value{}
		text    strings.Builder
	)
	for _, a := range n.Attr {
		members = append(members, value.Member{Key: xmlAttrPrefix + qualified(a.Name.Space, a.Name.Local), Value: value.StringValue(a.Value)})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			child, err := xmlValue(c, depth+1)
			if err != nil {
				return value.Value{}, err
			}
			name := qualified(c.Prefix, c.Data)
			if _, seen := groups[name]; !seen {
				order = append(order, name)
			}
			groups[name] = append(groups[name], child)
		case xmlquery.TextNode, xmlquery.CharDataNode:
			text.WriteString(c.Data)
		}
	}

	trimmed := strings.TrimSpace(text.String())
	if len(members) == 0 && len(order) == 0 {
		if trimmed == "" {
			return value.NullValue(), nil
		}
		return value.StringValue(trimmed), nil
	}
	for _, name := range order {
		items := groups[name]
		if len(items) == 1 {
			members = append(members, value.Member{Key: name, Value: items[0]})
			continue
		}
		members = append(members, value.Member{Key: name, Value: value.ArrayValue(items...)})
	}
	if trimmed != "" {
		members = append(members, value.Member{Key: xmlTextKey, Value: value.StringValue(trimmed)})
	}
	return value.ObjectValue(members...), nil
}

func qualified(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
