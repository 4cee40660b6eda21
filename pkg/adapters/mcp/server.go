// Package mcp exposes an engine as a Model Context Protocol server so agents
// can roll loot and inspect data problems as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/trove"
	"github.com/aretw0/trove/internal/presentation/graph"
	"github.com/aretw0/trove/internal/registry"
	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphURI is the resource holding the Mermaid graph of the snapshot.
const GraphURI = "trove://graph"

// Engine is the part of trove.Engine the server needs.
type Engine interface {
	Generate(ctx context.Context, table string, params *loot.ParamsBuilder, opts ...trove.GenerateOption) (*trove.Result, error)
	Reload(ctx context.Context) (*registry.Report, error)
	Report() *registry.Report
	Snapshot() *registry.Snapshot
	Tables() []string
}

// ListTablesArgs are the arguments of list_tables.
type ListTablesArgs struct {
	Kind string `json:"kind,omitempty"`
}

// ListTablesResponse is the structured result of list_tables.
type ListTablesResponse struct {
	Kind  domain.Kind `json:"kind" jsonschema_description:"Asset kind that was listed"`
	Names []string    `json:"names" jsonschema_description:"Published asset names, sorted"`
}

// GenerateArgs are the arguments of generate. Params maps parameter keys to
// JSON encoded values.
type GenerateArgs struct {
	Table  string         `json:"table"`
	Seed   *uint64        `json:"seed,omitempty"`
	Luck   float32        `json:"luck,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// Server wraps the engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("trove-mcp", strings.TrimSpace(trove.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server, for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List the published loot tables, or the assets of another kind."),
		mcp.WithString("kind", mcp.Description("Asset kind: loot_table (default), predicate or item_modifier"),
			mcp.Enum(string(domain.KindLootTable), string(domain.KindPredicate), string(domain.KindItemModifier))),
		mcp.WithOutputSchema[ListTablesResponse](),
	), mcp.NewStructuredToolHandler(s.handleListTables))

	s.mcpServer.AddTool(mcp.NewTool("generate",
		mcp.WithDescription("Roll a loot table once and return the dropped items."),
		mcp.WithString("table", mcp.Required(), mcp.Description("Name of the loot table")),
		mcp.WithNumber("seed", mcp.Description("Seed for a reproducible roll (optional)")),
		mcp.WithNumber("luck", mcp.Description("Luck of the looter")),
		mcp.WithObject("params", mcp.Description("Context parameters, e.g. {\"origin\": {\"x\": 0, \"y\": 64, \"z\": 0}}")),
		mcp.WithOutputSchema[trove.Result](),
	), mcp.NewStructuredToolHandler(s.handleGenerate))

	s.mcpServer.AddTool(mcp.NewTool("problems",
		mcp.WithDescription("Report the validation problems of the last reload."),
		mcp.WithOutputSchema[registry.Report](),
	), mcp.NewStructuredToolHandler(s.handleProblems))

	s.mcpServer.AddTool(mcp.NewTool("reload",
		mcp.WithDescription("Reload the data and publish a new snapshot."),
		mcp.WithOutputSchema[registry.Report](),
	), mcp.NewStructuredToolHandler(s.handleReload))
}

func (s *Server) handleListTables(_ context.Context, _ mcp.CallToolRequest, args ListTablesArgs) (ListTablesResponse, error) {
	if args.Kind == "" {
		return ListTablesResponse{Kind: domain.KindLootTable, Names: s.engine.Tables()}, nil
	}
	kind, err := domain.ParseKind(args.Kind)
	if err != nil {
		return ListTablesResponse{}, err
	}
	return ListTablesResponse{Kind: kind, Names: s.engine.Snapshot().Names(kind)}, nil
}

func (s *Server) handleGenerate(ctx context.Context, _ mcp.CallToolRequest, args GenerateArgs) (trove.Result, error) {
	if args.Table == "" {
		return trove.Result{}, fmt.Errorf("table is required")
	}
	params := loot.NewParamsBuilder().WithLuck(args.Luck)
	for name, v := range args.Params {
		raw, err := json.Marshal(v)
		if err != nil {
			return trove.Result{}, fmt.Errorf("invalid value for parameter %s: %w", name, err)
		}
		if err := params.WithEncodedParam(name, raw); err != nil {
			return trove.Result{}, err
		}
	}
	var opts []trove.GenerateOption
	if args.Seed != nil {
		opts = append(opts, trove.WithSeed(*args.Seed))
	}

	res, err := s.engine.Generate(ctx, args.Table, params, opts...)
	if err != nil {
		s.logger.Warn("MCP Generate failed", "table", args.Table, "error", err)
		return trove.Result{}, fmt.Errorf("generate failed: %w", err)
	}
	return *res, nil
}

func (s *Server) handleProblems(_ context.Context, _ mcp.CallToolRequest, _ struct{}) (registry.Report, error) {
	report := s.engine.Report()
	if report == nil {
		return registry.Report{}, nil
	}
	return *report, nil
}

func (s *Server) handleReload(ctx context.Context, _ mcp.CallToolRequest, _ struct{}) (registry.Report, error) {
	report, err := s.engine.Reload(ctx)
	if err != nil {
		return registry.Report{}, fmt.Errorf("reload failed: %w", err)
	}
	return *report, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Loot Asset Graph",
		mcp.WithResourceDescription("Mermaid flowchart of the published snapshot, problems highlighted"),
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		overlay := &graph.Overlay{}
		if report := s.engine.Report(); report != nil {
			overlay = graph.ProblemOverlay(report.Problems)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "text/plain",
				Text:     graph.GenerateMermaid(s.engine.Snapshot(), overlay),
			},
		}, nil
	})
}
