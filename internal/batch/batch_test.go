package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name, manifest, want string
	}{
		{"no jobs", "workers: 2\n", "no jobs"},
		{"missing name", "jobs:\n  - inputs: [a.json]\n    output: a.rs\n", "missing name"},
		{"missing inputs", "jobs:\n  - name: A\n    output: a.rs\n", "missing inputs"},
		{"missing output", "jobs:\n  - name: A\n    inputs: [a.json]\n", "missing output"},
		{"duplicate output", "jobs:\n  - {name: A, inputs: [a.json], output: x.rs}\n  - {name: B, inputs: [b.json], output: x.rs}\n", "another job"},
		{"bad yaml", "jobs: [", "parsing manifest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.manifest), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRun_WritesOutputsAndJoinsErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "samples", "point", "a.json"), `{"x": 1, "y": 2}`)
	writeFile(t, filepath.Join(dir, "samples", "point", "b.json"), `{"x": 3}`)
	writeFile(t, filepath.Join(dir, "samples", "users.yaml"), "name: ann\n---\nname: bo\nage: 3\n")
	writeFile(t, filepath.Join(dir, "manifest.yaml"), `
workers: 2
defaults:
  target: go
jobs:
  - name: Point
    inputs: ["samples/point/*.json"]
    output: gen/point.go
    options:
      package: geo
  - name: User
    inputs: ["samples/users.yaml"]
    output: gen/user.ts
    options:
      target: typescript
  - name: Missing
    inputs: ["samples/none/*.json"]
    output: gen/missing.rs
  - name: BadTarget
    inputs: ["samples/users.yaml"]
    output: gen/bad.txt
    options:
      target: cobol
`)

	m, err := Load(filepath.Join(dir, "manifest.yaml"))
	require.NoError(t, err)

	results, err := m.Run(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `job "Missing"`)
	assert.Contains(t, err.Error(), `job "BadTarget"`)
	require.Len(t, results, 4)

	point := results[0]
	require.NoError(t, point.Err)
	assert.Equal(t, 2, point.Files)
	assert.Equal(t, 2, point.Samples)
	code, err := os.ReadFile(filepath.Join(dir, "gen", "point.go"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "package geo")
	assert.Contains(t, string(code), "type Point struct")

	user := results[1]
	require.NoError(t, user.Err)
	code, err = os.ReadFile(filepath.Join(dir, "gen", "user.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "export interface User {")
	assert.Contains(t, string(code), "age?: number | null;")

	_, err = os.Stat(filepath.Join(dir, "gen", "missing.rs"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{}`)
	m, err := Parse([]byte("jobs:\n  - {name: A, inputs: [a.json], output: a.rs}\n"), dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := m.Run(ctx, 1)
	require.Error(t, err)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestMerge(t *testing.T) {
	m, err := Parse([]byte(`
defaults:
  target: rust
  derives: [Debug]
  tuple: true
jobs:
  - name: A
    inputs: [a.json]
    output: a.rs
    options:
      type_visibility: ""
      selector:
        jq: .items[]
`), "")
	require.NoError(t, err)

	got := merge(m.Defaults, m.Jobs[0].Options)
	assert.Equal(t, "rust", got.Target)
	assert.Equal(t, []string{"Debug"}, got.Derives)
	assert.True(t, got.Tuple)
	require.NotNil(t, got.TypeVisibility)
	assert.Equal(t, "", *got.TypeVisibility)
	assert.Equal(t, ".items[]", got.Selector.JQ)
}
