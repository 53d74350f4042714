// Package batch runs many generations described by a YAML manifest.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/usestring/jsontypegen/pkg/sample"
	"github.com/usestring/jsontypegen/pkg/typegen"
)

// Manifest lists the jobs of one batch run.
//
//	workers: 4
//	defaults:
//	  target: go
//	jobs:
//	  - name: Order
//	    inputs: ["samples/orders/*.json"]
//	    output: gen/order.go
//	    options:
//	      package: orders
type Manifest struct {
	Workers  int             `yaml:"workers"`
	Defaults typegen.Options `yaml:"defaults"`
	Jobs     []Job           `yaml:"jobs"`

	// dir resolves relative input and output paths.
	dir string
}

// Job is one generation.
type Job struct {
	Name    string          `yaml:"name"`
	Inputs  []string        `yaml:"inputs"`
	Output  string          `yaml:"output"`
	Options typegen.Options `yaml:"options"`
}

// JobResult records the outcome of one job.
type JobResult struct {
	Name         string        `json:"name"`
	Output       string        `json:"output"`
	Files        int           `json:"files"`
	Samples      int           `json:"samples"`
	Declarations int           `json:"declarations"`
	Duration     time.Duration `json:"duration"`
	Err          error         `json:"-"`
}

// Load reads a manifest file. Relative paths in it are resolved against
// the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, filepath.Dir(path))
}

// Parse decodes a manifest whose relative paths are resolved against dir.
func Parse(data []byte, dir string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if len(m.Jobs) == 0 {
		return nil, errors.New("manifest has no jobs")
	}
	seen := make(map[string]bool, len(m.Jobs))
	for i, j := range m.Jobs {
		switch {
		case j.Name == "":
			return nil, fmt.Errorf("job %d: missing name", i+1)
		case len(j.Inputs) == 0:
			return nil, fmt.Errorf("job %q: missing inputs", j.Name)
		case j.Output == "":
			return nil, fmt.Errorf("job %q: missing output", j.Name)
		case seen[j.Output]:
			return nil, fmt.Errorf("job %q: output %s is written by another job", j.Name, j.Output)
		}
		seen[j.Output] = true
	}
	m.dir = dir
	return &m, nil
}

// Run executes every job with at most workers running at once; a
// non-positive workers falls back to the manifest's setting and then to
// the number of CPUs. A failing job does not stop the others. The
// returned error joins every job error.
func (m *Manifest) Run(ctx context.Context, workers int) ([]JobResult, error) {
	if workers <= 0 {
		workers = m.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]JobResult, len(m.Jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range m.Jobs {
		g.Go(func() error {
			start := time.Now()
			results[i] = m.run(ctx, job)
			results[i].Duration = time.Since(start)

			level, attrs := slog.LevelInfo, []slog.Attr{
				slog.String("job", job.Name),
				slog.String("output", results[i].Output),
				slog.Int("samples", results[i].Samples),
				slog.Int("declarations", results[i].Declarations),
				slog.Duration("duration", results[i].Duration),
			}
			if err := results[i].Err; err != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			slog.LogAttrs(ctx, level, "batch job finished", attrs...)
			// Job errors are collected, never returned, so siblings keep running.
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("job %q: %w", r.Name, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func (m *Manifest) run(ctx context.Context, job Job) JobResult {
	res := JobResult{Name: job.Name, Output: m.resolve(job.Output)}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	files, err := m.expand(job.Inputs)
	if err != nil {
		res.Err = err
		return res
	}
	res.Files = len(files)

	inputs := make([]sample.Input, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			res.Err = err
			return res
		}
		inputs = append(inputs, sample.Input{Name: f, Data: data})
	}

	out, err := merge(m.Defaults, job.Options).GenerateInputs(job.Name, inputs)
	if err != nil {
		res.Err = err
		return res
	}
	res.Samples = out.SampleCount
	res.Declarations = len(out.Declarations)

	if err := os.MkdirAll(filepath.Dir(res.Output), 0o755); err != nil {
		res.Err = err
		return res
	}
	res.Err = os.WriteFile(res.Output, []byte(out.Code), 0o644)
	return res
}

// expand resolves globs in order, dropping duplicates. A pattern that
// matches nothing is an error.
func (m *Manifest) expand(patterns []string) ([]string, error) {
	var (
		files []string
		seen  = map[string]bool{}
	)
	for _, p := range patterns {
		matches, err := filepath.Glob(m.resolve(p))
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("input %q matches no files", p)
		}
		sort.Strings(matches)
		for _, f := range matches {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files, nil
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) || m.dir == "" {
		return p
	}
	return filepath.Join(m.dir, p)
}

// merge overlays the options a job sets on the manifest defaults.
func merge(defaults, job typegen.Options) typegen.Options {
	out := defaults
	if job.Target != "" {
		out.Target = job.Target
	}
	if job.NumberPolicy != "" {
		out.NumberPolicy = job.NumberPolicy
	}
	if job.TypeVisibility != nil {
		out.TypeVisibility = job.TypeVisibility
	}
	if job.FieldVisibility != nil {
		out.FieldVisibility = job.FieldVisibility
	}
	if job.Derives != nil {
		out.Derives = job.Derives
	}
	if job.Imports != nil {
		out.Imports = job.Imports
	}
	if job.Package != "" {
		out.Package = job.Package
	}
	if job.Tuple {
		out.Tuple = true
	}
	if job.Selector != (sample.Selector{}) {
		out.Selector = job.Selector
	}
	return out
}
