package gmail_tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nangokit/gmail-mcp/internal/tools/batch"
)

// successResult serializes payload as a JSON tool result with "success": true.
func successResult(payload map[string]interface{}) *mcp.CallToolResult {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["success"] = true

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("serializing result: %w", err))
	}
	return mcp.NewToolResultText(string(data))
}

// errorResult serializes err as a JSON error result with "success": false.
// The result carries the IsError flag so MCP clients see the failure, while
// the payload stays machine-readable.
func errorResult(err error) *mcp.CallToolResult {
	payload := map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	}

	data, merr := json.Marshal(payload)
	if merr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(string(data))
}

// errorResultf is errorResult with fmt.Errorf formatting.
func errorResultf(format string, args ...interface{}) *mcp.CallToolResult {
	return errorResult(fmt.Errorf(format, args...))
}

// batchResult serializes a batch summary. countKey names the succeeded
// counter in the payload ("marked_as_read", "deleted"). A batch with any
// failed id is reported as an error result, with the per-id outcomes
// included so callers can see which ids went through.
func batchResult(summary batch.Summary, countKey string) *mcp.CallToolResult {
	payload := map[string]interface{}{
		"success": summary.AllSucceeded(),
		"total":   summary.Total,
		countKey:  summary.Succeeded,
		"failed":  summary.Failed,
		"results": summary.Results,
	}
	if len(summary.FailedIDs) > 0 {
		payload["failed_ids"] = summary.FailedIDs
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("serializing result: %w", err))
	}
	if summary.AllSucceeded() {
		return mcp.NewToolResultText(string(data))
	}
	return mcp.NewToolResultError(string(data))
}
