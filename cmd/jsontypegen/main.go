// Command jsontypegen generates type declarations from sample documents.
//
//	jsontypegen -n Order -t go --package orders samples/*.json
//	curl -s https://api.example.com/items | jsontypegen -n Item --jq '.items[]'
//
// It also runs batch manifests, an HTTP API (serve) and an MCP server on
// stdio (mcp). Options may come from flags, environment variables, a .env
// file or a jsontypegen.{json,yaml,toml} config file, in that order of
// precedence.
package main

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/usestring/jsontypegen/internal/config"
	"github.com/usestring/jsontypegen/internal/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		_, _ = os.Stderr.WriteString("failed to load .env: " + err.Error() + "\n")
		os.Exit(2)
	}

	jsonPaths, yamlPaths, tomlPaths := configCandidatePaths(findUserConfig(os.Args[1:]))

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("jsontypegen"),
		kong.Description("Generate type declarations from JSON, YAML, XML, HTML, CSV and form samples."),
		kong.UsageOnError(),
		// Config files are read in priority order; flags and env override them.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	cfg := config.Load()
	cli.Log.apply(cfg)

	cleanup, err := logging.Setup(logging.FromConfig(cfg))
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = cleanup() }()

	ctx.Bind(cfg)
	ctx.BindTo(os.Stdout, (*io.Writer)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

// findUserConfig returns the --config flag or TYPEGEN_CONFIG before kong
// parses anything, so that the file can feed the parser.
func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("TYPEGEN_CONFIG")
}
