package sample

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsontypegen/pkg/contenttype"
	"github.com/usestring/jsontypegen/pkg/value"
)

func encode(t *testing.T, vs []value.Value) []string {
	t.Helper()
	out := make([]string, len(vs))
	for i, v := range vs {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		out[i] = string(b)
	}
	return out
}

func decode(t *testing.T, sel Selector, in Input) *Result {
	t.Helper()
	e, err := NewEngine(sel)
	require.NoError(t, err)
	res, err := e.Decode(in)
	require.NoError(t, err)
	return res
}

func TestDecode_JSONStream(t *testing.T) {
	res := decode(t, Selector{}, Input{Name: "feed.ndjson", Data: []byte("{\"a\":1}\n{\"a\":2,\"b\":null}\n")})
	assert.Equal(t, contenttype.JSON, res.Category)
	assert.Equal(t, []string{`{"a":1}`, `{"a":2,"b":null}`}, encode(t, res.Samples))
}

func TestDecode_YAML(t *testing.T) {
	res := decode(t, Selector{}, Input{ContentType: "application/yaml", Data: []byte("a: 1\n---\na: two\n")})
	assert.Equal(t, contenttype.YAML, res.Category)
	assert.Equal(t, []string{`{"a":1}`, `{"a":"two"}`}, encode(t, res.Samples))
}

func TestDecode_XML(t *testing.T) {
	body := []byte(`<?xml version="1.0"?>
<catalog region="eu">
	<book id="1"><title>Go</title><tag>a</tag><tag>b</tag></book>
	<note lang="en">hello</note>
	<empty/>
</catalog>`)
	res := decode(t, Selector{}, Input{ContentType: "application/xml", Data: body})

	assert.Equal(t, []string{
		`{"@region":"eu","book":{"@id":"1","title":"Go","tag":["a","b"]},"note":{"@lang":"en","#text":"hello"},"empty":null}`,
	}, encode(t, res.Samples))
}

func TestDecode_XMLXPath(t *testing.T) {
	body := []byte(`<list><item><n>1</n></item><item><n>2</n><extra>x</extra></item></list>`)
	res := decode(t, Selector{XPath: "//item"}, Input{Name: "list.xml", Data: body})
	assert.Equal(t, []string{`{"n":"1"}`, `{"n":"2","extra":"x"}`}, encode(t, res.Samples))
}

func TestDecode_HTMLScripts(t *testing.T) {
	body := []byte(`<!DOCTYPE html><html><head>
<script type="application/ld+json">{"@type": "Product", "name": "Lamp"}</script>
<script>var x = 1;</script>
</head><body>
<script type="application/json" id="state">{"user": {"id": 7}}</script>
</body></html>`)

	res := decode(t, Selector{}, Input{ContentType: "text/html", Data: body})
	assert.Equal(t, contenttype.HTML, res.Category)
	assert.Equal(t, []string{`{"@type":"Product","name":"Lamp"}`, `{"user":{"id":7}}`}, encode(t, res.Samples))

	res = decode(t, Selector{CSS: "#state"}, Input{ContentType: "text/html", Data: body})
	assert.Equal(t, []string{`{"user":{"id":7}}`}, encode(t, res.Samples))

	res = decode(t, Selector{XPath: `//script[@id="state"]`}, Input{ContentType: "text/html", Data: body})
	assert.Equal(t, []string{`{"user":{"id":7}}`}, encode(t, res.Samples))
}

func TestDecode_CSV(t *testing.T) {
	body := []byte("id,name,active,score\n1,Ann,true,\n2,\"Bo, Jr\",false,1.5\n3,Cy\n")
	res := decode(t, Selector{}, Input{Name: "people.csv", Data: body})
	assert.Equal(t, []string{
		`{"id":1,"name":"Ann","active":true,"score":null}`,
		`{"id":2,"name":"Bo, Jr","active":false,"score":1.5}`,
		`{"id":3,"name":"Cy"}`,
	}, encode(t, res.Samples))
}

func TestDecode_TSV(t *testing.T) {
	res := decode(t, Selector{}, Input{Name: "t.tsv", Data: []byte("a\tb\n01\tx\n")})
	assert.Equal(t, []string{`{"a":"01","b":"x"}`}, encode(t, res.Samples))
}

func TestDecode_Form(t *testing.T) {
	res := decode(t, Selector{}, Input{ContentType: "application/x-www-form-urlencoded", Data: []byte("z=1&a=hello+world&tag=x&tag=y")})
	assert.Equal(t, []string{`{"z":"1","a":"hello world","tag":["x","y"]}`}, encode(t, res.Samples))
}

func TestDecode_JQ(t *testing.T) {
	body := []byte(`{"data": {"items": [{"id": 1}, {"id": 2, "name": "b"}]}}`)
	res := decode(t, Selector{JQ: ".data.items[]"}, Input{Data: body})
	assert.Equal(t, []string{`{"id":1}`, `{"id":2,"name":"b"}`}, encode(t, res.Samples))
}

func TestDecode_JQOverXML(t *testing.T) {
	body := []byte(`<r><item>a</item><item>b</item></r>`)
	res := decode(t, Selector{JQ: ".item[]"}, Input{ContentType: "text/xml", Data: body})
	assert.Equal(t, []string{`"a"`, `"b"`}, encode(t, res.Samples))
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		sel  Selector
		in   Input
		want error
	}{
		{"binary", Selector{}, Input{ContentType: "image/png", Data: []byte{0x89, 0x50}}, ErrUnsupportedContent},
		{"css on json", Selector{CSS: "script"}, Input{Data: []byte(`{}`)}, ErrInvalidSelector},
		{"xpath on csv", Selector{XPath: "//a"}, Input{Name: "a.csv", Data: []byte("a\n1\n")}, ErrInvalidSelector},
		{"bad xpath", Selector{XPath: "//["}, Input{Name: "a.xml", Data: []byte("<a/>")}, ErrInvalidSelector},
		{"bad css", Selector{CSS: "::::"}, Input{Name: "a.html", Data: []byte("<html></html>")}, ErrInvalidSelector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.sel, tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestNewEngine_InvalidSelectors(t *testing.T) {
	_, err := NewEngine(Selector{JQ: ".["})
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = NewEngine(Selector{XPath: "//a", CSS: "a"})
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestDecode_MalformedJSONNamesInput(t *testing.T) {
	_, err := Decode(Selector{}, Input{Name: "bad.json", Data: []byte(`{"a": }`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestDecodeAll_Concatenates(t *testing.T) {
	got, err := Decode(Selector{},
		Input{Name: "a.json", Data: []byte(`{"a":1}`)},
		Input{Name: "b.yaml", Data: []byte("a: 2")},
	)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
