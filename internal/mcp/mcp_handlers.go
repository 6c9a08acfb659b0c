package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sprintlab/sprintlens/core"
	"github.com/sprintlab/sprintlens/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// applyCommonArgs copies the dataset path and window overrides onto a cloned config.
func applyCommonArgs(cfg *contract.Config, request mcp.CallToolRequest) error {
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}
	if cfg.InputPath == "" {
		return fmt.Errorf("input_path is required")
	}
	if w := request.GetInt("window", 0); w > 0 {
		cfg.Window = w
	}
	if cfg.Window <= 0 {
		cfg.Window = contract.DefaultWindow
	}
	return nil
}

func (h *toolHandler) handleGetSprintKPIs(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommonArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := core.GetKPIResults(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("KPI computation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleForecastCommitment(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommonArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg.Horizon = 0

	cfg.Commitment = request.GetFloat("commitment", contract.CommitmentUnset)
	if cfg.Commitment < 0 {
		return mcp.NewToolResultError("commitment is required and must be non-negative"), nil
	}
	if i := request.GetInt("iterations", 0); i > 0 {
		cfg.Iterations = i
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = contract.DefaultIterations
	}
	if s := request.GetInt("seed", 0); s != 0 {
		cfg.Seed = int64(s)
	}

	result, _, _, err := core.GetForecastResults(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("forecast failed: %v", err)), nil
	}

	payload := map[string]any{
		"simulation": result,
		"label":      contract.GetPlainForecastLabel(result.Probability),
	}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleForecastHorizon(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommonArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg.Commitment = contract.CommitmentUnset

	cfg.Horizon = request.GetInt("horizon", 0)
	if cfg.Horizon <= 0 {
		return mcp.NewToolResultError("horizon must be a positive integer"), nil
	}
	if s := request.GetInt("seed", 0); s != 0 {
		cfg.Seed = int64(s)
	}

	_, horizon, insights, err := core.GetForecastResults(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("horizon forecast failed: %v", err)), nil
	}

	payload := map[string]any{
		"horizon":  horizon,
		"insights": insights,
	}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTeamProfile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommonArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if ipp := request.GetFloat("items_per_person", 0); ipp > 0 {
		cfg.ItemsPerPerson = ipp
	}
	if cfg.ItemsPerPerson <= 0 {
		cfg.ItemsPerPerson = contract.DefaultItemsPerPerson
	}
	if cfg.HighThreshold <= 0 {
		cfg.HighThreshold = contract.DefaultHighThreshold
	}
	if cfg.LowThreshold <= 0 {
		cfg.LowThreshold = contract.DefaultLowThreshold
	}

	profile, err := core.GetProfileResults(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("profile inference failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(profile, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
