// Package agents defines the boundary to the agent execution capability
// and the retry policy wrapped around it. How agents actually run (local
// LLM, remote service) is outside this package; the orchestrator only sees
// the TeamProvider interface.
package agents

import "context"

// AgentRole is the specialization assigned to a team member.
type AgentRole string

const (
	RoleArchitect AgentRole = "architect" // application architecture
	RoleDesigner  AgentRole = "designer"  // UI/UX design
	RoleDeveloper AgentRole = "developer" // code generation and fixes
	RoleTester    AgentRole = "tester"    // validation of generated code
)

// Capabilities describes what an agent is allowed to use and do.
type Capabilities struct {
	Tools      []string `json:"tools"`
	Skills     []string `json:"skills"`
	Modalities []string `json:"modalities"`
	Languages  []string `json:"languages"`
}

// AgentSpec is the request to create one specialized agent.
type AgentSpec struct {
	Name         string       `json:"name"`
	Role         AgentRole    `json:"role"`
	Description  string       `json:"description"`
	Capabilities Capabilities `json:"capabilities"`
}

// TeamProvider is the capability port to the agent execution mechanism.
// ExecuteTask may fail transiently (rate limits) or permanently; callers
// go through the retry Executor rather than calling it directly.
type TeamProvider interface {
	CreateAgent(ctx context.Context, spec AgentSpec) (string, error)
	ExecuteTask(ctx context.Context, agentID string, task string) (string, error)
}

// MockTeamProvider is a TeamProvider for tests.
type MockTeamProvider struct {
	CreateAgentFunc func(ctx context.Context, spec AgentSpec) (string, error)
	ExecuteTaskFunc func(ctx context.Context, agentID string, task string) (string, error)
}

// CreateAgent implements TeamProvider.
func (m *MockTeamProvider) CreateAgent(ctx context.Context, spec AgentSpec) (string, error) {
	if m.CreateAgentFunc != nil {
		return m.CreateAgentFunc(ctx, spec)
	}
	return "agent-" + string(spec.Role), nil
}

// ExecuteTask implements TeamProvider.
func (m *MockTeamProvider) ExecuteTask(ctx context.Context, agentID string, task string) (string, error) {
	if m.ExecuteTaskFunc != nil {
		return m.ExecuteTaskFunc(ctx, agentID, task)
	}
	return "ok", nil
}
