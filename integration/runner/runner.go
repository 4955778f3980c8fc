package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/jwebster45206/lost-in-space/internal/storage"
	"github.com/jwebster45206/lost-in-space/pkg/command"
	"github.com/jwebster45206/lost-in-space/pkg/state"
	"github.com/jwebster45206/lost-in-space/pkg/world"
	"gopkg.in/yaml.v3"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner plays scripted test suites against local game sessions
type Runner struct {
	Store             storage.WorldStore
	Options           state.Options
	Logger            func(format string, args ...interface{})
	SessionLogger     *slog.Logger
	ErrorHandlingMode ErrorHandlingMode
	WorldOverride     string // If set, overrides the world for all test cases
}

// NewRunner creates a new test runner
func NewRunner(store storage.WorldStore) *Runner {
	return &Runner{
		Store: store,
		Options: state.Options{
			StartingOxygen: 100,
			OxygenPerMove:  state.DefaultOxygenPerMove,
		},
		Logger:            func(string, ...interface{}) {},
		SessionLogger:     slog.Default(),
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON or YAML file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	format, ok := world.FormatFor(filename)
	if !ok {
		return TestSuite{}, fmt.Errorf("unsupported test file type: %s", filename)
	}

	var suite TestSuite
	switch format {
	case world.FormatYAML:
		if err := yaml.Unmarshal(content, &suite); err != nil {
			return TestSuite{}, fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
		}
	default:
		if err := json.Unmarshal(content, &suite); err != nil {
			return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
		}
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	return expandSuite(filename, casesDir, make(map[string]bool))
}

// expandSuite tracks the sequences on the current path so a sequence that
// refers back to itself fails instead of recursing forever. The same case may
// still appear in several branches.
func expandSuite(filename, casesDir string, active map[string]bool) ([]TestJob, error) {
	key := filepath.Clean(filename)
	if active[key] {
		return nil, fmt.Errorf("sequence cycle: %s refers back to itself", filename)
	}

	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	active[key] = true
	defer delete(active, key)

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		subJobs, err := expandSuite(filepath.Join(casesDir, caseFile), casesDir, active)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}
		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	file := suite.World
	if r.WorldOverride != "" {
		file = r.WorldOverride
	}

	opts := r.Options
	if suite.StartingOxygen > 0 {
		opts.StartingOxygen = suite.StartingOxygen
	}

	loader := storage.Loader{Store: r.Store, File: file}
	session, err := state.NewSession(ctx, loader, opts, r.SessionLogger)
	if err != nil {
		result.Error = fmt.Errorf("failed to start session: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.SessionID = session.ID

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, session, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.SessionID = session.ID
	result.Duration = time.Since(start)
	return result, result.Error
}

// runStep sends one input to the session and checks expectations
// If step.Input is ResetSessionInput, the session is restarted instead
func (r *Runner) runStep(ctx context.Context, session *state.Session, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{
		StepName: step.Name,
	}

	cmd := command.Parse(step.Input)
	if step.Input == ResetSessionInput {
		cmd = command.Command{Verb: command.VerbRestart, Raw: step.Input}
		result.IsReset = true
	}

	res := session.Handle(ctx, cmd)
	result.ResponseText = res.Message

	if result.IsReset && res.Outcome != state.OutcomeOK {
		result.Error = fmt.Errorf("failed to reset session: %s", res.Message)
		result.Duration = time.Since(start)
		return result
	}

	if err := checkExpectations(step.Expectations, session, res); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

// checkExpectations validates the step expectations against the session after the command
func checkExpectations(exp Expectations, session *state.Session, res *state.Result) error {
	if exp.Location != nil {
		if session.Location != *exp.Location {
			return fmt.Errorf("expected location %s, got %s", *exp.Location, session.Location)
		}
	}

	// Inventory must match exactly, in any order. An empty list means empty.
	if exp.Inventory != nil {
		got := slices.Sorted(slices.Values(session.Player.InventoryList()))
		want := slices.Sorted(slices.Values(exp.Inventory))
		if !slices.Equal(got, want) {
			return fmt.Errorf("expected inventory %v, got %v", want, got)
		}
	}

	if exp.Turn != nil {
		if session.Turn != *exp.Turn {
			return fmt.Errorf("expected turn to be %d, got %d", *exp.Turn, session.Turn)
		}
	}

	if exp.Oxygen != nil {
		if got := session.Player.Oxygen(); got != *exp.Oxygen {
			return fmt.Errorf("expected oxygen to be %d, got %d", *exp.Oxygen, got)
		}
	}

	if exp.Phase != nil {
		if string(session.Phase) != *exp.Phase {
			return fmt.Errorf("expected phase %s, got %s", *exp.Phase, session.Phase)
		}
	}

	if exp.Outcome != nil {
		if string(res.Outcome) != *exp.Outcome {
			return fmt.Errorf("expected outcome %s, got %s", *exp.Outcome, res.Outcome)
		}
	}

	lowered := strings.ToLower(res.Message)
	for _, text := range exp.ResponseContains {
		if !strings.Contains(lowered, strings.ToLower(text)) {
			return fmt.Errorf("response %q is missing %q", res.Message, text)
		}
	}
	for _, text := range exp.ResponseNotContains {
		if strings.Contains(lowered, strings.ToLower(text)) {
			return fmt.Errorf("response %q should NOT contain %q", res.Message, text)
		}
	}

	if exp.ResponseRegex != "" {
		re, err := regexp.Compile(exp.ResponseRegex)
		if err != nil {
			return fmt.Errorf("bad response_regex %q: %w", exp.ResponseRegex, err)
		}
		if !re.MatchString(res.Message) {
			return fmt.Errorf("response %q does not match %s", res.Message, exp.ResponseRegex)
		}
	}

	return nil
}
