// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sprintlab/sprintlens/internal/contract"
)

// NewMCPServer initializes and configures the Sprintlens MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Sprintlens Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_sprint_kpis ---
	s.AddTool(mcp.NewTool("get_sprint_kpis",
		mcp.WithDescription("Compute sprint KPIs (velocity, throughput, carryover, defect ratio, cycle time percentiles) from a sprint dataset."),
		mcp.WithString("input_path", mcp.Description("Path to the sprint dataset CSV file."), mcp.Required()),
		mcp.WithNumber("window", mcp.Description("Rolling window size in sprints. Defaults to 6.")),
	), h.handleGetSprintKPIs)

	// --- 2. Tool: forecast_commitment ---
	s.AddTool(mcp.NewTool("forecast_commitment",
		mcp.WithDescription("Estimate the probability of completing a sprint commitment via Monte Carlo resampling of historical velocity."),
		mcp.WithString("input_path", mcp.Description("Path to the sprint dataset CSV file."), mcp.Required()),
		mcp.WithNumber("commitment", mcp.Description("Work units pledged for the upcoming sprint."), mcp.Required()),
		mcp.WithNumber("window", mcp.Description("Rolling window size in sprints.")),
		mcp.WithNumber("iterations", mcp.Description("Monte Carlo trial count.")),
		mcp.WithNumber("seed", mcp.Description("Pseudo-random seed for reproducible results.")),
	), h.handleForecastCommitment)

	// --- 3. Tool: forecast_horizon ---
	s.AddTool(mcp.NewTool("forecast_horizon",
		mcp.WithDescription("Forecast velocity bands (p10/p50/p90) for the next N sprints from historical velocity."),
		mcp.WithString("input_path", mcp.Description("Path to the sprint dataset CSV file."), mcp.Required()),
		mcp.WithNumber("horizon", mcp.Description("Number of future sprints to forecast."), mcp.Required()),
		mcp.WithNumber("window", mcp.Description("Rolling window size in sprints.")),
		mcp.WithNumber("seed", mcp.Description("Pseudo-random seed for reproducible results.")),
	), h.handleForecastHorizon)

	// --- 4. Tool: get_team_profile ---
	s.AddTool(mcp.NewTool("get_team_profile",
		mcp.WithDescription("Infer team characteristics (cadence, approximate size, predictability) from a sprint dataset."),
		mcp.WithString("input_path", mcp.Description("Path to the sprint dataset CSV file."), mcp.Required()),
		mcp.WithNumber("window", mcp.Description("Rolling window size in sprints.")),
		mcp.WithNumber("items_per_person", mcp.Description("Assumed resolved items per person per sprint. Defaults to 5.")),
	), h.handleGetTeamProfile)

	return s
}

// StartMCPServer starts the Sprintlens MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
