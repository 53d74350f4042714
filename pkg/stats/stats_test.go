package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsontypegen/pkg/shape"
	"github.com/usestring/jsontypegen/pkg/value"
)

func compute(t *testing.T, docs ...string) map[string]FieldStat {
	t.Helper()
	samples := make([]value.Value, len(docs))
	for i, d := range docs {
		v, err := value.Parse([]byte(d))
		require.NoError(t, err)
		samples[i] = v
	}
	byPath := make(map[string]FieldStat)
	for _, s := range Compute(shape.Fold(samples...), samples) {
		byPath[s.Path] = s
	}
	return byPath
}

func TestCompute_BasicFields(t *testing.T) {
	byPath := compute(t,
		`{"id": 1, "name": "Alice", "active": true}`,
		`{"id": 2, "name": "Bob", "active": false}`,
		`{"id": 3, "name": "Charlie", "active": true}`,
	)

	assert.Equal(t, 1.0, byPath["id"].Frequency)
	assert.True(t, byPath["id"].Required)
	assert.False(t, byPath["id"].Nullable)
	assert.Equal(t, "numeric", byPath["id"].Type)
	assert.Equal(t, []any{json.Number("1"), json.Number("2"), json.Number("3")}, byPath["id"].Examples)

	assert.Equal(t, "text", byPath["name"].Type)
	assert.Equal(t, 3, byPath["name"].DistinctCount)

	assert.Equal(t, "boolean", byPath["active"].Type)
	assert.Equal(t, 2, byPath["active"].DistinctCount)
}

func TestCompute_OptionalAndNullable(t *testing.T) {
	byPath := compute(t,
		`{"id": 1, "name": "Alice", "email": "a@example.com"}`,
		`{"id": 2, "email": null}`,
		`{"id": 3, "name": "Charlie", "email": "c@example.com"}`,
	)

	name := byPath["name"]
	assert.InDelta(t, 0.666, name.Frequency, 0.01)
	assert.Equal(t, uint64(2), name.Present)
	assert.False(t, name.Required)
	assert.False(t, name.Nullable)

	email := byPath["email"]
	assert.Equal(t, 1.0, email.Frequency)
	assert.Equal(t, uint64(1), email.Nulls)
	assert.True(t, email.Nullable)
	assert.False(t, email.Required)
	assert.Equal(t, "text", email.Type)
}

func TestCompute_NestedPaths(t *testing.T) {
	byPath := compute(t,
		`{"user": {"id": 1, "tags": ["a"]}, "items": [{"sku": "x"}, {"sku": "y", "qty": 2}]}`,
		`{"user": {"id": 2}, "items": []}`,
	)

	for _, p := range []string{"user", "user.id", "user.tags", "items", "items[].sku", "items[].qty"} {
		assert.Contains(t, byPath, p)
	}
	assert.Equal(t, "record", byPath["user"].Type)
	assert.Equal(t, "collection<text>", byPath["user.tags"].Type)
	assert.Equal(t, "collection<record>", byPath["items"].Type)
	assert.Empty(t, byPath["user"].Examples)

	qty := byPath["items[].qty"]
	assert.Equal(t, 0.5, qty.Frequency)
	assert.Equal(t, uint64(1), qty.Samples)

	sku := byPath["items[].sku"]
	assert.True(t, sku.Required)
	assert.Equal(t, uint64(2), sku.Present)
	assert.Equal(t, uint64(1), sku.Samples)
}

func TestCompute_RootCollection(t *testing.T) {
	byPath := compute(t, `[{"a": 1}, {"a": 2, "b": true}]`, `[{"a": 3}]`)

	a := byPath["[].a"]
	assert.Equal(t, uint64(3), a.Present)
	assert.Equal(t, uint64(2), a.Samples)
	assert.True(t, a.Required)
	assert.InDelta(t, 1.0/3, byPath["[].b"].Frequency, 0.001)
}

func TestCompute_MaxDepth(t *testing.T) {
	samples := []value.Value{}
	v, err := value.Parse([]byte(`{"a": {"b": {"c": 1}}}`))
	require.NoError(t, err)
	samples = append(samples, v)

	got := Compute(shape.Fold(samples...), samples, WithMaxDepth(1))
	paths := make([]string, len(got))
	for i, s := range got {
		paths[i] = s.Path
	}
	assert.Equal(t, []string{"a", "a.b"}, paths)
	assert.True(t, got[1].Truncated)
}

func TestCompute_Empty(t *testing.T) {
	assert.Nil(t, Compute(nil, nil))
	assert.Nil(t, Compute(shape.Record{}, nil))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"uuid", []string{
			"550e8400-e29b-41d4-a716-446655440000",
			"6ba7b810-9dad-11d1-80b4-00c04fd430c8",
			"6ba7b811-9dad-11d1-80b4-00c04fd430c8",
		}, "uuid"},
		{"braced uuid is not canonical", []string{"{550e8400-e29b-41d4-a716-446655440000}"}, ""},
		{"date-time", []string{"2024-01-15T10:30:00Z", "2024-02-01T00:00:00.5+02:00"}, "date-time"},
		{"date", []string{"2024-01-15", "1999-12-31"}, "date"},
		{"invalid date", []string{"2024-13-45"}, ""},
		{"email", []string{"a@example.com", "b.c@example.org"}, "email"},
		{"uri", []string{"https://example.com/a", "mailto:x@example.com"}, "uri"},
		{"ipv4", []string{"10.0.0.1", "192.168.1.254"}, "ipv4"},
		{"ipv6 is not ipv4", []string{"::ffff:10.0.0.1"}, ""},
		{"enum", []string{"red", "green", "red", "blue", "green"}, "enum"},
		{"all distinct", []string{"alpha", "beta", "gamma"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enum := detectFormat(tt.values)
			assert.Equal(t, tt.want, got)
			if tt.want == "enum" {
				assert.Equal(t, []string{"blue", "green", "red"}, enum)
			}
		})
	}
}

func TestCompute_FormatNeedsEnoughSamples(t *testing.T) {
	docs := []string{
		`{"status": "open"}`, `{"status": "closed"}`, `{"status": "open"}`,
		`{"status": "open"}`, `{"status": "closed"}`,
	}
	byPath := compute(t, docs...)
	assert.Equal(t, "enum", byPath["status"].Format)
	assert.Equal(t, []string{"closed", "open"}, byPath["status"].EnumValues)

	byPath = compute(t, docs[:2]...)
	assert.Empty(t, byPath["status"].Format)
}

func TestCompute_MixedTypesSkipFormat(t *testing.T) {
	byPath := compute(t,
		`{"v": "a"}`, `{"v": "a"}`, `{"v": "a"}`, `{"v": "a"}`, `{"v": "a"}`, `{"v": 1}`,
	)
	assert.Equal(t, "any", byPath["v"].Type)
	assert.Empty(t, byPath["v"].Format)
}
