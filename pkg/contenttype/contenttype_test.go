package contenttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        Category
	}{
		// JSON
		{"application/json", "application/json", JSON},
		{"vendor json", "application/vnd.api+json", JSON},
		{"json with charset", "application/json; charset=utf-8", JSON},
		{"json with complex params", "application/json; charset=utf-8; boundary=something", JSON},

		// HTML
		{"text/html", "text/html", HTML},
		{"html with charset", "text/html; charset=utf-8", HTML},
		{"xhtml", "application/xhtml+xml", HTML},

		// XML
		{"application/xml", "application/xml", XML},
		{"text/xml", "text/xml", XML},
		{"vendor xml", "application/vnd.foo+xml", XML},

		// YAML
		{"application/yaml", "application/yaml", YAML},
		{"text/yaml", "text/yaml", YAML},
		{"application/x-yaml", "application/x-yaml", YAML},

		// CSV
		{"text/csv", "text/csv", CSV},
		{"tsv", "text/tab-separated-values", CSV},

		// Form
		{"form-urlencoded", "application/x-www-form-urlencoded", Form},

		// Text
		{"text/plain", "text/plain", Text},
		{"text/javascript", "text/javascript", Text},
		{"text/css", "text/css", Text},
		{"text/markdown", "text/markdown", Text},

		// Binary
		{"image/png", "image/png", Binary},
		{"audio/mp3", "audio/mp3", Binary},
		{"video/mp4", "video/mp4", Binary},
		{"octet-stream", "application/octet-stream", Binary},
		{"pdf", "application/pdf", Binary},
		{"gzip", "application/gzip", Binary},
		{"zip", "application/zip", Binary},

		// Edge cases
		{"empty", "", Unknown},
		{"ndjson", "application/x-ndjson", JSON},
		{"uppercase", "Application/JSON", JSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.contentType)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, YAML, Parse("yaml"))
	assert.Equal(t, CSV, Parse("CSV"))
	assert.Equal(t, XML, Parse("application/atom+xml"))
	assert.Equal(t, Unknown, Parse(""))
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want Category
	}{
		{"samples/a.json", JSON},
		{"feed.NDJSON", JSON},
		{"events.jsonl", JSON},
		{"conf.yml", YAML},
		{"page.htm", HTML},
		{"table.tsv", CSV},
		{"notes.txt", Unknown},
		{"-", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ForPath(tt.path))
		})
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Category
	}{
		{"object", `  {"a": 1}`, JSON},
		{"array", "\n[1]", JSON},
		{"bom", "\ufeff{}", JSON},
		{"empty", "", JSON},
		{"xml", `<?xml version="1.0"?><a/>`, XML},
		{"html", "<!DOCTYPE html><html></html>", HTML},
		{"yaml document", "---\na: 1", YAML},
		{"plain", "a: 1", Text},
		{"binary", "\xff\xfe\x00", Binary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sniff([]byte(tt.data)))
		})
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, CSV, Resolve("text/csv", "a.json", []byte("{}")), "content type wins")
	assert.Equal(t, YAML, Resolve("", "a.yaml", []byte("{}")), "extension beats sniffing")
	assert.Equal(t, JSON, Resolve("text/plain", "", []byte(`{"a": 1}`)), "plain text is sniffed")
	assert.Equal(t, YAML, Resolve("", "", []byte("a: 1")), "unrecognized text is yaml")
	assert.Equal(t, Binary, Resolve("image/png", "", nil))
}
