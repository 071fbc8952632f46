package agent

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// contextHeader opens the block of earlier answers handed to later agents.
const contextHeader = "Perspectives from the team so far:"

type AgentOutput struct {
	AgentID   string
	Role      string
	Response  string
	Timestamp time.Time
}

func (o AgentOutput) label() string {
	if o.Role == "" {
		return o.AgentID
	}
	return o.AgentID + " | " + o.Role
}

// ContextManager collects agent outputs in completion order. Parallel
// branches append concurrently.
type ContextManager struct {
	mu      sync.RWMutex
	History []AgentOutput
}

func NewContextManager() *ContextManager {
	return &ContextManager{}
}

func (cm *ContextManager) AddOutput(agentID, role, response string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.History = append(cm.History, AgentOutput{
		AgentID:   agentID,
		Role:      role,
		Response:  response,
		Timestamp: time.Now(),
	})
}

// GetContext renders every output as "[id | role]:" followed by the answer.
func (cm *ContextManager) GetContext() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if len(cm.History) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(contextHeader + "\n\n")
	for _, output := range cm.History {
		fmt.Fprintf(&sb, "[%s]:\n%s\n\n", output.label(), output.Response)
	}
	return sb.String()
}

func (cm *ContextManager) GetLastOutput() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if len(cm.History) == 0 {
		return ""
	}
	return cm.History[len(cm.History)-1].Response
}

func (cm *ContextManager) Clear() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.History = nil
}
