package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/usestring/jsontypegen/internal/batch"
	"github.com/usestring/jsontypegen/internal/cache"
	"github.com/usestring/jsontypegen/internal/config"
	"github.com/usestring/jsontypegen/internal/httpapi"
	"github.com/usestring/jsontypegen/internal/mcp/tools"
	"github.com/usestring/jsontypegen/pkg/mcpsrv"
	"github.com/usestring/jsontypegen/pkg/stats"
	"github.com/usestring/jsontypegen/pkg/typegen"
)

// GenerateCmd prints declarations for samples.
type GenerateCmd struct {
	Source SourceFlags `embed:""`
	Gen    GenFlags    `embed:""`

	Output string `short:"o" help:"Write to a file instead of stdout." type:"path" placeholder:"FILE"`
	JSON   bool   `help:"Print the full result as JSON."`
}

// Run is called by Kong when the generate command is executed.
func (c *GenerateCmd) Run(cfg *config.Config, out io.Writer) error {
	res, err := generate(cfg, c.Source, c.Gen)
	if err != nil {
		return err
	}

	var data []byte
	if c.JSON {
		if data, err = json.MarshalIndent(res, "", "  "); err != nil {
			return err
		}
		data = append(data, '\n')
	} else {
		data = []byte(res.Code)
	}

	if c.Output == "" {
		_, err = out.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.Output), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(c.Output, data, 0o644); err != nil {
		return err
	}
	slog.Info("wrote declarations",
		slog.String("output", c.Output),
		slog.Int("declarations", len(res.Declarations)),
		slog.Int("samples", res.SampleCount),
	)
	return nil
}

func generate(cfg *config.Config, src SourceFlags, gen GenFlags) (*typegen.Result, error) {
	inputs, err := src.readInputs()
	if err != nil {
		return nil, err
	}
	return gen.options(cfg, src).GenerateInputs(gen.Name, inputs)
}

// StatsCmd prints field statistics.
type StatsCmd struct {
	Source SourceFlags `embed:""`

	MaxDepth int  `help:"Deepest nesting level reported." default:"8"`
	JSON     bool `help:"Print statistics as JSON."`
}

// Run is called by Kong when the stats command is executed.
func (c *StatsCmd) Run(cfg *config.Config, out io.Writer) error {
	res, err := generate(cfg, c.Source, GenFlags{Name: "Root"})
	if err != nil {
		return err
	}
	fields := res.Stats(stats.WithMaxDepth(c.MaxDepth))

	if c.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(fields)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tTYPE\tFREQ\tREQUIRED\tNULLABLE\tDISTINCT\tFORMAT")
	for _, f := range fields {
		format := f.Format
		if format == "enum" {
			format = "enum(" + strings.Join(f.EnumValues, "|") + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%t\t%t\t%d\t%s\n",
			f.Path, f.Type, f.Frequency, f.Required, f.Nullable, f.DistinctCount, format)
	}
	fmt.Fprintf(tw, "\n%d samples\n", res.StatsSamples())
	return tw.Flush()
}

var errCheckFailed = errors.New("some samples do not match the generated declarations")

// CheckCmd validates samples against the declarations generated from them.
type CheckCmd struct {
	Source SourceFlags `embed:""`

	Name string `short:"n" default:"Root" help:"Root type name."`
}

// Run is called by Kong when the check command is executed.
func (c *CheckCmd) Run(cfg *config.Config, out io.Writer) error {
	res, err := generate(cfg, c.Source, GenFlags{Name: c.Name})
	if err != nil {
		return err
	}
	report, err := res.Check()
	if err != nil {
		return err
	}

	if report.Valid() {
		fmt.Fprintf(out, "ok: %d documents match %s\n", report.Checked, res.Name)
		return nil
	}
	for _, f := range report.Failures {
		label := fmt.Sprintf("sample %d", f.Index)
		if c.Source.Tuple {
			label = fmt.Sprintf("sample %d position %d", f.Index, f.Position)
		}
		for _, msg := range f.Errors {
			fmt.Fprintf(out, "%s: %s\n", label, msg)
		}
	}
	return errCheckFailed
}

// BatchCmd runs a manifest.
type BatchCmd struct {
	Manifest string `arg:"" type:"existingfile" help:"YAML manifest of jobs."`
	Workers  int    `short:"w" help:"Jobs run at once (default: manifest, then TYPEGEN_BATCH_WORKERS, then CPUs)."`
}

// Run is called by Kong when the batch command is executed.
func (c *BatchCmd) Run(cfg *config.Config, out io.Writer) error {
	m, err := batch.Load(c.Manifest)
	if err != nil {
		return err
	}
	workers := c.Workers
	if workers <= 0 && m.Workers <= 0 {
		workers = cfg.BatchWorkers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := m.Run(ctx, workers)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tOUTPUT\tSAMPLES\tDECLS\tSTATUS")
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.Name, r.Output, r.Samples, r.Declarations, status)
	}
	if ferr := tw.Flush(); ferr != nil {
		return ferr
	}
	return err
}

// TargetsCmd lists output languages.
type TargetsCmd struct{}

// Run is called by Kong when the targets command is executed.
func (c *TargetsCmd) Run(cfg *config.Config, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, t := range tools.Targets(cfg.Target) {
		name := t.Name
		if t.Default {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, t.Description)
	}
	return tw.Flush()
}

// ServeCmd serves the HTTP API.
type ServeCmd struct {
	Addr         string `help:"Listen address (default: TYPEGEN_HTTP_ADDR or :8080)." placeholder:"ADDR"`
	CacheSize    int    `help:"Cached generations (default: TYPEGEN_CACHE_MAX_ITEMS)." default:"-1"`
	MaxBodyBytes int64  `help:"Largest accepted request body (default: TYPEGEN_MAX_BODY_BYTES)."`
}

// Run is called by Kong when the serve command is executed.
func (c *ServeCmd) Run(cfg *config.Config) error {
	addr := c.Addr
	if addr == "" {
		addr = cfg.HTTPAddr
	}
	size := c.CacheSize
	if size < 0 {
		size = cfg.CacheMaxItems
	}
	maxBody := c.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = int64(cfg.MaxBodyBytes)
	}

	resultCache, err := cache.New(size)
	if err != nil {
		return err
	}
	srv, err := httpapi.New(httpapi.Config{
		Defaults:     cfg.GenerateOptions(),
		MaxBodyBytes: maxBody,
	}, resultCache)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, addr)
}

// MCPCmd serves MCP on stdio.
type MCPCmd struct{}

// Run is called by Kong when the mcp command is executed.
func (c *MCPCmd) Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := mcpsrv.NewServer(mcpsrv.WithConfig(cfg), mcpsrv.WithoutLoggingSetup())
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}
	defer server.Close()

	slog.Info("starting jsontypegen MCP server on stdio")
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("server stopped")
	return nil
}
