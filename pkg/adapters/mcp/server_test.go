package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/trove"
	"github.com/aretw0/trove/internal/registry"
	mcpAdapter "github.com/aretw0/trove/pkg/adapters/mcp"
	"github.com/aretw0/trove/pkg/adapters/memory"
	"github.com/aretw0/trove/pkg/domain"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *client.Client {
	t.Helper()
	eng, err := trove.New("", trove.WithSource(memory.MustNewSource(map[string]string{
		"loot_table:chest":  `{"type": "chest", "pools": [{"rolls": 2, "entries": [{"type": "item", "name": "gem"}]}]}`,
		"loot_table:broken": `{"pools": [{"entries": [{"type": "loot_table", "name": "ghost"}]}]}`,
		"predicate:lucky":   `{"type": "random_chance", "chance": 0.5}`,
	})))
	require.NoError(t, err)

	c, err := client.NewInProcessClient(mcpAdapter.NewServer(eng, nil).MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "trove-test", Version: "0.0.0"}
	_, err = c.Initialize(ctx, initReq)
	require.NoError(t, err)
	return c
}

// call invokes a tool and decodes its text content into out.
func call(t *testing.T, c *client.Client, name string, args map[string]any, out any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	if out != nil && !res.IsError {
		text, ok := res.Content[0].(mcp.TextContent)
		require.True(t, ok, "expected text content, got %T", res.Content[0])
		require.NoError(t, json.Unmarshal([]byte(text.Text), out))
	}
	return res
}

func TestTools_List(t *testing.T) {
	c := newClient(t)

	tools, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"list_tables", "generate", "problems", "reload"}, names)
}

func TestListTables(t *testing.T) {
	c := newClient(t)

	var res mcpAdapter.ListTablesResponse
	call(t, c, "list_tables", nil, &res)
	assert.Equal(t, domain.KindLootTable, res.Kind)
	assert.Equal(t, []string{"broken", "chest", "empty"}, res.Names)

	call(t, c, "list_tables", map[string]any{"kind": "predicate"}, &res)
	assert.Equal(t, []string{"lucky"}, res.Names)

	bad := call(t, c, "list_tables", map[string]any{"kind": "recipe"}, nil)
	assert.True(t, bad.IsError)
}

func TestGenerate(t *testing.T) {
	c := newClient(t)

	var res trove.Result
	call(t, c, "generate", map[string]any{
		"table":  "chest",
		"seed":   5,
		"params": map[string]any{"origin": map[string]any{"x": 1, "y": 64, "z": 1}},
	}, &res)
	assert.Equal(t, uint64(5), res.Seed)
	assert.Equal(t, domain.TableID("chest"), res.Table)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "gem", res.Items[0].Name)

	for name, args := range map[string]map[string]any{
		"unknown table":  {"table": "nope"},
		"missing params": {"table": "chest"},
		"bad param":      {"table": "chest", "params": map[string]any{"explosion_radius": "loud"}},
		"no table":       {},
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, call(t, c, "generate", args, nil).IsError)
		})
	}
}

func TestProblemsAndReload(t *testing.T) {
	c := newClient(t)

	var report registry.Report
	call(t, c, "problems", nil, &report)
	require.Len(t, report.Problems, 1)
	assert.Contains(t, report.Problems[0].Message, "unknown loot table called ghost")

	var reloaded registry.Report
	call(t, c, "reload", nil, &reloaded)
	assert.NotEqual(t, report.SnapshotID, reloaded.SnapshotID)
	assert.Len(t, reloaded.Problems, 1)
}

func TestGraphResource(t *testing.T) {
	c := newClient(t)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = mcpAdapter.GraphURI
	res, err := c.ReadResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	text, ok := res.Contents[0].(mcp.TextResourceContents)
	require.True(t, ok, "expected text resource, got %T", res.Contents[0])
	assert.Contains(t, text.Text, "loot_table__broken -.-> loot_table__ghost")
	assert.Contains(t, text.Text, "class loot_table__broken problem;")
}
