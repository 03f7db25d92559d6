// Package mcp exposes the literal-locating engine over the Model Context
// Protocol, so agent clients can call it as tools instead of shelling out
// and parsing CLI output.
package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/lml/internal/config"
	"github.com/standardbeagle/lml/internal/debug"
	"github.com/standardbeagle/lml/internal/version"
)

// Server hosts the locate_message and explain_message tools on a stdio
// transport.
type Server struct {
	cfg    *config.Config
	root   string
	server *mcp.Server
}

// NewServer builds the tool server. root is the default scan directory for
// calls that do not name one; cfg supplies exclusions, worker count, and
// the other scan knobs.
func NewServer(cfg *config.Config, root string) *Server {
	s := &Server{cfg: cfg, root: root}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "lml-mcp-server",
		Version: version.Version,
	}, nil)
	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name: "locate_message",
		Description: "Find the source string literals most likely to have produced a runtime " +
			"log message. Scans C, Python, and JavaScript sources and ranks literals by " +
			"ordered token overlap with the message.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"message": {
					Type:        "string",
					Description: "The runtime log message to locate (e.g. 'disk full on sda1')",
				},
				"directory": {
					Type:        "string",
					Description: "Scan root directory (default: the directory the server was started in)",
				},
				"min_score": {
					Type:        "number",
					Description: "Minimum candidate score, inclusive (default 0)",
				},
				"max_results": {
					Type:        "integer",
					Description: "Cap on returned candidates (default unlimited)",
				},
				"sort": {
					Type:        "boolean",
					Description: "Sort candidates by score, best first",
				},
			},
			Required: []string{"message"},
		},
	}, s.handleLocate)

	s.server.AddTool(&mcp.Tool{
		Name: "explain_message",
		Description: "Diagnose why a specific string literal does or does not match a runtime " +
			"log message: per-token verdicts, order violations, and near-miss suggestions " +
			"for absent tokens.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"message": {
					Type:        "string",
					Description: "The runtime log message",
				},
				"candidate": {
					Type:        "string",
					Description: "The literal text to diagnose, format directives included",
				},
			},
			Required: []string{"message", "candidate"},
		},
	}, s.handleExplain)
}

// Start serves on stdio until ctx is cancelled or the transport closes.
func (s *Server) Start(ctx context.Context) error {
	debug.LogMCP("starting server, root=%s\n", s.root)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
