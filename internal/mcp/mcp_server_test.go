package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sprintlab/sprintlens/internal/contract"
	"github.com/sprintlab/sprintlens/internal/iocache"
	mcp_internal "github.com/sprintlab/sprintlens/internal/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `sprint_id,committed,completed,defects_resolved,issues_resolved,cycle_times
S1,20,18,1,10,2;3;4
S2,22,20,2,12,3;5
S3,21,21,0,11,2;4
S4,20,16,1,9,3;6
`

func writeSampleDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sprints.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func noStoreManager() *iocache.MockCacheManager {
	mockMgr := &iocache.MockCacheManager{}
	mockMgr.On("GetResultStore").Return(nil).Maybe()
	mockMgr.On("GetRunStore").Return(nil).Maybe()
	return mockMgr
}

func baseConfig() *contract.Config {
	return &contract.Config{
		Window:         contract.DefaultWindow,
		Iterations:     1000,
		Seed:           contract.DefaultSeed,
		ItemsPerPerson: contract.DefaultItemsPerPerson,
		HighThreshold:  contract.DefaultHighThreshold,
		LowThreshold:   contract.DefaultLowThreshold,
	}
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), noStoreManager())

	t.Run("get_sprint_kpis missing input_path", func(t *testing.T) {
		res := callTool(t, s, "get_sprint_kpis", map[string]any{})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "input_path is required")
	})

	t.Run("forecast_commitment missing commitment", func(t *testing.T) {
		res := callTool(t, s, "forecast_commitment", map[string]any{
			"input_path": writeSampleDataset(t),
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "commitment is required and must be non-negative")
	})

	t.Run("forecast_commitment negative commitment", func(t *testing.T) {
		res := callTool(t, s, "forecast_commitment", map[string]any{
			"input_path": writeSampleDataset(t),
			"commitment": -5.0,
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "commitment is required and must be non-negative")
	})

	t.Run("forecast_horizon invalid horizon", func(t *testing.T) {
		res := callTool(t, s, "forecast_horizon", map[string]any{
			"input_path": writeSampleDataset(t),
			"horizon":    0.0,
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "horizon must be a positive integer")
	})

	t.Run("get_sprint_kpis unreadable dataset", func(t *testing.T) {
		res := callTool(t, s, "get_sprint_kpis", map[string]any{
			"input_path": "/nonexistent/sprints.csv",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "KPI computation failed")
	})
}

func TestMCPServerHandlers_Results(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), noStoreManager())
	dataset := writeSampleDataset(t)

	t.Run("get_sprint_kpis returns report", func(t *testing.T) {
		res := callTool(t, s, "get_sprint_kpis", map[string]any{
			"input_path": dataset,
			"window":     3.0,
		})
		require.False(t, res.IsError)

		var report map[string]any
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &report))
		assert.Equal(t, float64(3), report["effective_window"])
	})

	t.Run("forecast_commitment returns labeled probability", func(t *testing.T) {
		res := callTool(t, s, "forecast_commitment", map[string]any{
			"input_path": dataset,
			"commitment": 19.0,
			"seed":       42.0,
		})
		require.False(t, res.IsError)

		var payload map[string]any
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &payload))
		assert.NotNil(t, payload["simulation"])
		assert.NotEmpty(t, payload["label"])
	})

	t.Run("forecast_commitment zero is trivially met", func(t *testing.T) {
		res := callTool(t, s, "forecast_commitment", map[string]any{
			"input_path": dataset,
			"commitment": 0.0,
			"seed":       42.0,
		})
		require.False(t, res.IsError)

		var payload map[string]any
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &payload))
		simulation := payload["simulation"].(map[string]any)
		assert.Equal(t, 1.0, simulation["probability"])
	})

	t.Run("forecast_horizon returns bands", func(t *testing.T) {
		res := callTool(t, s, "forecast_horizon", map[string]any{
			"input_path": dataset,
			"horizon":    2.0,
		})
		require.False(t, res.IsError)

		var payload map[string]any
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &payload))
		horizon := payload["horizon"].(map[string]any)
		assert.Len(t, horizon["steps"], 2)
	})

	t.Run("get_team_profile returns profile", func(t *testing.T) {
		res := callTool(t, s, "get_team_profile", map[string]any{
			"input_path": dataset,
		})
		require.False(t, res.IsError)

		var profile map[string]any
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &profile))
		assert.Equal(t, "low", profile["team_size_confidence"])
	})
}
