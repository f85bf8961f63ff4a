// Package tool carries the executor contract shared by every agent
// and the argument coercion helpers for decoded tool-call payloads.
package tool

import (
	"context"
	"fmt"

	contractx "github.com/voxdesk/voxdesk/agent/contract"
)

// DefaultExecutor answers any tool the agent does not implement. The
// reply goes back to the model as a corrective message, not an error.
func DefaultExecutor(agentType contractx.AgentType) contractx.Executor {
	return func(ctx context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("tool=%s is unavailable for agent=%s", tool, agentType),
		}, nil
	}
}
