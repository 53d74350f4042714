package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/usestring/jsontypegen/internal/config"
	"github.com/usestring/jsontypegen/pkg/render"
	"github.com/usestring/jsontypegen/pkg/sample"
	"github.com/usestring/jsontypegen/pkg/typegen"
)

// CLI is the command tree.
type CLI struct {
	Config string   `help:"Config file (.json, .yaml or .toml)." type:"path" placeholder:"FILE"`
	Log    LogFlags `embed:"" prefix:"log-"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate declarations from samples (default command)."`
	Stats    StatsCmd    `cmd:"" help:"Report per-field statistics for samples."`
	Check    CheckCmd    `cmd:"" help:"Generate, then validate every sample against the generated schema."`
	Batch    BatchCmd    `cmd:"" help:"Run the jobs of a YAML manifest in parallel."`
	Targets  TargetsCmd  `cmd:"" help:"List output languages."`
	Serve    ServeCmd    `cmd:"" help:"Serve the HTTP API."`
	MCP      MCPCmd      `cmd:"" name:"mcp" help:"Serve MCP on stdio."`
}

// LogFlags override the LOG_* environment.
type LogFlags struct {
	Level  string `help:"Log level (debug, info, warn, error)." placeholder:"LEVEL"`
	Format string `help:"Log format: text or json." placeholder:"FORMAT"`
	File   string `help:"Log file; stderr when empty." type:"path" placeholder:"FILE"`
}

func (l LogFlags) apply(cfg *config.Config) {
	if l.Level != "" {
		cfg.LogLevel = l.Level
	}
	if l.Format != "" {
		cfg.LogFormat = l.Format
	}
	if l.File != "" {
		cfg.LogFile = l.File
	}
}

// SourceFlags select where samples come from.
type SourceFlags struct {
	Files       []string `arg:"" optional:"" help:"Sample files, - for stdin; stdin when none."`
	ContentType string   `help:"Content type of stdin (default: sniffed)." placeholder:"TYPE"`
	JQ          string   `name:"jq" help:"jq expression; each output is one sample." placeholder:"EXPR"`
	XPath       string   `name:"xpath" help:"XPath selecting sample nodes in XML or HTML." placeholder:"EXPR"`
	CSS         string   `name:"css" help:"CSS selector for JSON script blocks in HTML." placeholder:"SEL"`
	Tuple       bool     `help:"Merge top-level array positions independently."`
}

func (s SourceFlags) selector() sample.Selector {
	return sample.Selector{JQ: s.JQ, XPath: s.XPath, CSS: s.CSS}
}

// GenFlags are the rendering options shared by generating commands.
type GenFlags struct {
	Name            string   `short:"n" default:"Root" help:"Root type name, optionally with a visibility, as in 'pub(crate) Point'."`
	Target          string   `short:"t" help:"Output language (default: TYPEGEN_TARGET or rust)." placeholder:"NAME"`
	NumberPolicy    string   `help:"Number type: decimal or float (default: TYPEGEN_NUMBER_POLICY or decimal)." placeholder:"POLICY"`
	TypeVisibility  *string  `help:"Visibility qualifier of declared types; empty for none." placeholder:"VIS"`
	FieldVisibility *string  `help:"Visibility qualifier of fields; empty for none." placeholder:"VIS"`
	Derive          []string `help:"Derive or annotation list placed on every struct." sep:","`
	Imports         *bool    `help:"Emit the import lines the output needs."`
	Package         string   `help:"Package clause for targets that have one." placeholder:"NAME"`
}

// options overlays flags on the environment's defaults.
func (g GenFlags) options(cfg *config.Config, src SourceFlags) typegen.Options {
	o := cfg.GenerateOptions()
	if g.Target != "" {
		o.Target = g.Target
	}
	if g.NumberPolicy != "" {
		o.NumberPolicy = render.NumberPolicy(g.NumberPolicy)
	}
	o.TypeVisibility = g.TypeVisibility
	o.FieldVisibility = g.FieldVisibility
	if len(g.Derive) > 0 {
		o.Derives = g.Derive
	}
	o.Imports = g.Imports
	o.Package = g.Package
	o.Tuple = src.Tuple
	o.Selector = src.selector()
	return o
}

var (
	stdin           io.Reader = os.Stdin
	stdinIsTerminal           = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

var errNoInput = errors.New("no samples: pass files or pipe a document on stdin")

// readInputs loads the named files, or stdin when there are none.
func (s SourceFlags) readInputs() ([]sample.Input, error) {
	if len(s.Files) == 0 {
		if stdinIsTerminal() {
			return nil, errNoInput
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []sample.Input{{Name: "stdin", ContentType: s.ContentType, Data: data}}, nil
	}

	inputs := make([]sample.Input, 0, len(s.Files))
	for _, f := range s.Files {
		if f == "-" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			inputs = append(inputs, sample.Input{Name: "stdin", ContentType: s.ContentType, Data: data})
			continue
		}
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, sample.Input{Name: f, Data: data})
	}
	return inputs, nil
}
