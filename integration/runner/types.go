package runner

import (
	"time"

	"github.com/google/uuid"
)

// Special input values that trigger non-game actions
const (
	ResetSessionInput = "RESET_SESSION"
)

// TestSuite defines a scripted playthrough
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name  string     `json:"name" yaml:"name"`
	World string     `json:"world,omitempty" yaml:"world,omitempty"` // World file, used for regular tests
	Steps []TestStep `json:"steps,omitempty" yaml:"steps,omitempty"` // Used for regular tests
	Cases []string   `json:"cases,omitempty" yaml:"cases,omitempty"` // Used for suite tests (list of case files)

	StartingOxygen int `json:"starting_oxygen,omitempty" yaml:"starting_oxygen,omitempty"` // Overrides the runner default when set
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep defines a single command and its expected outcomes
// Use input: "RESET_SESSION" to start over with a fresh session
type TestStep struct {
	Name         string       `json:"name,omitempty" yaml:"name,omitempty"`
	Input        string       `json:"input" yaml:"input"`
	Expectations Expectations `json:"expect" yaml:"expect"`
}

// Expectations defines what to check after a step executes
type Expectations struct {
	// Session properties
	Location  *string  `json:"location,omitempty" yaml:"location,omitempty"`
	Inventory []string `json:"inventory,omitempty" yaml:"inventory,omitempty"` // Full inventory contents (order independent); [] asserts it is empty
	Turn      *int     `json:"turn,omitempty" yaml:"turn,omitempty"`
	Oxygen    *int     `json:"oxygen,omitempty" yaml:"oxygen,omitempty"`
	Phase     *string  `json:"phase,omitempty" yaml:"phase,omitempty"`
	Outcome   *string  `json:"outcome,omitempty" yaml:"outcome,omitempty"`

	// Response analysis
	ResponseContains    []string `json:"response_contains,omitempty" yaml:"response_contains,omitempty"`
	ResponseNotContains []string `json:"response_not_contains,omitempty" yaml:"response_not_contains,omitempty"`
	ResponseRegex       string   `json:"response_regex,omitempty" yaml:"response_regex,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName     string
	StepName     string
	Success      bool
	Error        error
	Duration     time.Duration
	ResponseText string
	IsReset      bool // True if this was a RESET_SESSION step (should not count toward pass/fail metrics)
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job       TestJob
	Results   []TestResult
	Error     error
	Duration  time.Duration
	SessionID uuid.UUID // ID of the last session used for this test
}
