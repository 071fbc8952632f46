package engine

import "sync"

type WorkflowState int

const (
	StatePending WorkflowState = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s WorkflowState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State tracks run progress. Parallel hats advance it concurrently.
type State struct {
	mu          sync.Mutex
	Status      WorkflowState
	CurrentStep int
	TotalSteps  int
	Error       error
}

func NewState(totalSteps int) *State {
	return &State{
		Status:     StatePending,
		TotalSteps: totalSteps,
	}
}

func (s *State) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = StateRunning
}

func (s *State) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = StateCompleted
}

func (s *State) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = StateFailed
	s.Error = err
}

func (s *State) NextStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CurrentStep++
}

// Progress returns the completed and total step counts.
func (s *State) Progress() (current, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CurrentStep, s.TotalSteps
}
