package pipeline

import (
	"sync"
	"time"

	"panelcli/internal/identity"
	"panelcli/internal/loader"
	"panelcli/pkg/contracts/domain"
)

// RunStatus represents the overall pipeline run status
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Options carries the fixed survey layout and run parameters into the steps.
type Options struct {
	InputPath  string
	OutputPath string
	// LongOutputPath receives the reshaped emotion battery; empty skips the
	// extra file.
	LongOutputPath string

	Catalog      domain.Catalog
	BaselineVars []string
	BaselineWave int
	Measures     []domain.Measure
	ReshapeWave  int
	CenteredVars []string
	VoteRecode   *domain.RecodeTable

	// ExpectedParticipants pins the panel size; zero disables the guard.
	ExpectedParticipants int
	// Workers bounds per-variable parallelism inside a stage.
	Workers int
}

// RunState is the complete state of one pipeline run. Each step owns the
// table it writes here; later steps read but never mutate it.
type RunState struct {
	mu sync.RWMutex

	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Steps map[string]*StepState `json:"steps"`

	Options Options `json:"-"`

	// Tables produced by the steps, in pipeline order.
	Raw       *loader.RawTable              `json:"-"`
	Resolver  *identity.Resolver            `json:"-"`
	Rows      []domain.PanelRow             `json:"-"`
	Baselines map[int]domain.BaselineRecord `json:"-"`
	Long      []domain.LongRecord           `json:"-"`

	// Error if the run failed
	Error error `json:"error,omitempty"`
}

// NewRunState creates a new run state
func NewRunState(id string, opts Options) *RunState {
	return &RunState{
		ID:        id,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Options:   opts,
	}
}

// Start marks the run as running
func (s *RunState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = RunStatusRunning
	s.StartTime = time.Now()
}

// Complete marks the run as completed
func (s *RunState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (s *RunState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusFailed
	s.Error = err
}

// GetStep returns the state of a specific step
func (s *RunState) GetStep(stepID string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Steps[stepID]
}

// SetStep updates the state of a specific step
func (s *RunState) SetStep(stepID string, state *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Steps[stepID] = state
}
