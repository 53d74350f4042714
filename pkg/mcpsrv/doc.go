// Package mcpsrv provides an embeddable MCP server for jsontypegen.
//
// The server exposes the builtin generation tools, the generate_bindings
// prompt and the typegen://targets resources. Callers can add their own
// tools, prompts and resources with functional options.
//
// # Basic Usage
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Tools that need the shared result cache are registered with WithDepsTool:
//
//	type CountInput struct {
//	    Text string `json:"text"`
//	}
//
//	type CountOutput struct {
//	    Declarations int `json:"declarations"`
//	}
//
//	mcpsrv.WithDepsTool(
//	    &mcp.Tool{Name: "count_types", Description: "Count generated types"},
//	    func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	            res, _, err := d.Cache.Generate(cache.Request{
//	                Name:   "Root",
//	                Inputs: []sample.Input{{Data: []byte(in.Text)}},
//	            })
//	            if err != nil {
//	                return nil, CountOutput{}, err
//	            }
//	            return nil, CountOutput{Declarations: len(res.Declarations)}, nil
//	        }
//	    },
//	)
//
// # Configuration
//
// Defaults come from the environment (see internal/config) and can be
// overridden:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithTarget("typescript"),
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/jsontypegen-mcp.log"),
//	)
package mcpsrv
