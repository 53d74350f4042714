// Package contenttype classifies sample documents by media type, file
// extension or content.
package contenttype

import (
	"bytes"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Category represents a broad content-type classification.
type Category string

const (
	JSON    Category = "json"
	XML     Category = "xml"
	HTML    Category = "html"
	YAML    Category = "yaml"
	CSV     Category = "csv"
	Form    Category = "form"
	Text    Category = "text"
	Binary  Category = "binary"
	Unknown Category = ""
)

// Categories lists the categories samples can be decoded from.
var Categories = []Category{JSON, YAML, XML, HTML, CSV, Form}

// Classify returns the broad content category for a content-type header value.
// Parameters (charset, boundary) are stripped with mime.ParseMediaType, with a
// lower-case fallback for malformed values. Empty input is Unknown.
func Classify(contentType string) Category {
	if strings.TrimSpace(contentType) == "" {
		return Unknown
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	// application/json, application/x-ndjson, application/vnd.*+json
	case strings.Contains(mediaType, "json"):
		return JSON
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return HTML
	case strings.Contains(mediaType, "xml"):
		return XML
	case strings.Contains(mediaType, "yaml"):
		return YAML
	case mediaType == "text/csv" || mediaType == "text/tab-separated-values":
		return CSV
	case mediaType == "application/x-www-form-urlencoded":
		return Form
	case strings.HasPrefix(mediaType, "text/"):
		return Text
	}
	return Binary
}

// Parse accepts either a category name ("yaml") or a media type
// ("application/yaml").
func Parse(s string) Category {
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return Classify(s)
}

var extensions = map[string]Category{
	".json":    JSON,
	".ndjson":  JSON,
	".jsonl":   JSON,
	".geojson": JSON,
	".yaml":    YAML,
	".yml":     YAML,
	".xml":     XML,
	".html":    HTML,
	".htm":     HTML,
	".csv":     CSV,
	".tsv":     CSV,
}

// ForPath classifies a file by extension. It returns Unknown for unfamiliar
// extensions.
func ForPath(path string) Category {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Sniff guesses the category from the leading bytes of data.
func Sniff(data []byte) Category {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return JSON
	}
	if !utf8.Valid(data) {
		return Binary
	}

	switch trimmed[0] {
	case '{', '[', '"':
		return JSON
	case '<':
		head := strings.ToLower(string(trimmed[:min(len(trimmed), 512)]))
		if strings.Contains(head, "<html") || strings.HasPrefix(head, "<!doctype html") {
			return HTML
		}
		return XML
	}
	if bytes.HasPrefix(trimmed, []byte("---")) {
		return YAML
	}
	return Text
}

// Resolve picks a category from, in order, an explicit content type, the
// file path and the content itself. Text that does not sniff as anything
// more specific is treated as YAML, which is a superset of JSON scalars.
func Resolve(contentType, path string, data []byte) Category {
	if c := Parse(contentType); c != Unknown && c != Text {
		return c
	}
	if c := ForPath(path); c != Unknown {
		return c
	}
	if c := Sniff(data); c != Text {
		return c
	}
	return YAML
}
