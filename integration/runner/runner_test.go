package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/lost-in-space/internal/storage"
	"github.com/jwebster45206/lost-in-space/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const podJSON = `{
  "title": "Escape Pod",
  "rooms": [
    {
      "name": "Hangar",
      "description": "An empty hangar.",
      "items": [{"name": "helmet", "fullName": "cracked helmet"}],
      "pointsOfInterest": [
        {"name": "helmet", "description": "A helmet with a cracked visor.", "usedDescription": "You put on the helmet.", "used": false}
      ],
      "exits": {"north": "Pod", "south": "", "east": "", "west": ""}
    },
    {
      "name": "Pod",
      "description": "A cramped escape pod.",
      "items": [],
      "pointsOfInterest": [],
      "exits": {"north": "", "south": "Hangar", "east": "", "west": ""}
    }
  ]
}`

func ptr[T any](v T) *T { return &v }

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	def, err := world.Decode([]byte(podJSON), world.FormatJSON)
	require.NoError(t, err)

	store := storage.NewMockStore()
	store.AddWorld("pod.json", def)

	r := NewRunner(store)
	r.SessionLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return r
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunSuite_Passing(t *testing.T) {
	r := newTestRunner(t)
	suite := TestSuite{
		Name:  "walk and grab",
		World: "pod.json",
		Steps: []TestStep{
			{Name: "take", Input: "get helmet", Expectations: Expectations{
				Inventory:        []string{"helmet"},
				Outcome:          ptr("ok"),
				ResponseContains: []string{"cracked helmet"},
			}},
			{Name: "move", Input: "go north", Expectations: Expectations{
				Location: ptr("Pod"),
				Oxygen:   ptr(98),
				Turn:     ptr(2),
			}},
			{Name: "reset", Input: ResetSessionInput, Expectations: Expectations{
				Location: ptr("Hangar"),
				Turn:     ptr(0),
			}},
		},
	}

	result, err := r.RunSuite(context.Background(), suite)
	require.NoError(t, err)
	require.Len(t, result.Results, 3)
	assert.True(t, result.Results[0].Success)
	assert.True(t, result.Results[2].IsReset)
	assert.NotEmpty(t, result.SessionID)
}

func TestRunSuite_FailedExpectation(t *testing.T) {
	tests := []struct {
		name      string
		mode      ErrorHandlingMode
		wantSteps int
	}{
		{name: "continue runs every step", mode: ErrorHandlingContinue, wantSteps: 2},
		{name: "exit stops at first failure", mode: ErrorHandlingExit, wantSteps: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner(t)
			r.ErrorHandlingMode = tt.mode
			suite := TestSuite{
				Name:  "wrong room",
				World: "pod.json",
				Steps: []TestStep{
					{Input: "go north", Expectations: Expectations{Location: ptr("Hangar")}},
					{Input: "go south", Expectations: Expectations{Location: ptr("Hangar")}},
				},
			}

			result, err := r.RunSuite(context.Background(), suite)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "expected location Hangar, got Pod")
			assert.Len(t, result.Results, tt.wantSteps)
		})
	}
}

func TestRunSuite_UnknownWorld(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.RunSuite(context.Background(), TestSuite{Name: "missing", World: "nowhere.json"})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrWorldNotFound)
}

func TestRunSuite_WorldOverrideAndOxygen(t *testing.T) {
	r := newTestRunner(t)
	r.WorldOverride = "pod.json"
	suite := TestSuite{
		Name:           "suffocate",
		World:          "ignored.json",
		StartingOxygen: 2,
		Steps: []TestStep{
			{Input: "go north", Expectations: Expectations{
				Oxygen:           ptr(0),
				Phase:            ptr("game_over"),
				ResponseContains: []string{"game over"},
			}},
		},
	}

	_, err := r.RunSuite(context.Background(), suite)
	require.NoError(t, err)
}

func TestCheckExpectations_Response(t *testing.T) {
	r := newTestRunner(t)
	suite := TestSuite{
		Name:  "responses",
		World: "pod.json",
		Steps: []TestStep{
			{Input: "check oxygen", Expectations: Expectations{ResponseRegex: "^Oxygen Level: [0-9]+ percent$"}},
			{Input: "look", Expectations: Expectations{ResponseNotContains: []string{"helmet"}}},
		},
	}

	result, err := r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	require.Len(t, result.Results, 2)
	assert.True(t, result.Results[0].Success)
	assert.False(t, result.Results[1].Success)
	assert.Contains(t, result.Results[1].Error.Error(), "should NOT contain")
}

func TestLoadTestSuite_Formats(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "a.json", `{"name": "json case", "world": "pod.json", "steps": [{"input": "look", "expect": {"location": "Hangar"}}]}`)
	yamlPath := writeFile(t, dir, "b.yaml", "name: yaml case\nworld: pod.json\nstarting_oxygen: 10\nsteps:\n  - input: look\n    expect:\n      location: Hangar\n")

	js, err := LoadTestSuite(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "json case", js.Name)
	require.Len(t, js.Steps, 1)
	assert.Equal(t, "Hangar", *js.Steps[0].Expectations.Location)

	ys, err := LoadTestSuite(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "yaml case", ys.Name)
	assert.Equal(t, 10, ys.StartingOxygen)
	require.Len(t, ys.Steps, 1)
	assert.Equal(t, "Hangar", *ys.Steps[0].Expectations.Location)

	_, err = LoadTestSuite(writeFile(t, dir, "c.txt", "name: nope"))
	assert.Error(t, err)
}

func TestLoadTestSuiteWithExpansion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.json", `{"name": "one", "world": "pod.json", "steps": [{"input": "look"}]}`)
	writeFile(t, dir, "two.yaml", "name: two\nworld: pod.json\nsteps:\n  - input: look\n")
	writeFile(t, dir, "inner.json", `{"name": "inner", "cases": ["two.yaml"]}`)
	seq := writeFile(t, dir, "all.json", `{"name": "all", "cases": ["one.json", "inner.json"]}`)

	jobs, err := LoadTestSuiteWithExpansion(seq, dir)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "one", jobs[0].Name)
	assert.Equal(t, "two", jobs[1].Name)

	// The same case twice is not a cycle
	twice := writeFile(t, dir, "twice.json", `{"name": "twice", "cases": ["one.json", "inner.json", "one.json"]}`)
	jobs, err = LoadTestSuiteWithExpansion(twice, dir)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)

	broken := writeFile(t, dir, "broken.json", `{"name": "broken", "cases": ["missing.json"]}`)
	_, err = LoadTestSuiteWithExpansion(broken, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
}

func TestLoadTestSuiteWithExpansion_Cycles(t *testing.T) {
	dir := t.TempDir()
	self := writeFile(t, dir, "self.json", `{"name": "self", "cases": ["self.json"]}`)
	writeFile(t, dir, "ping.yaml", "name: ping\ncases:\n  - pong.json\n")
	pong := writeFile(t, dir, "pong.json", `{"name": "pong", "cases": ["ping.yaml"]}`)

	for _, file := range []string{self, pong} {
		_, err := LoadTestSuiteWithExpansion(file, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sequence cycle")
	}
}

func TestRunSuite_EmptyInventory(t *testing.T) {
	r := newTestRunner(t)
	suite := TestSuite{
		Name:  "inventory cleared on reset",
		World: "pod.json",
		Steps: []TestStep{
			{Input: "get helmet", Expectations: Expectations{Inventory: []string{"helmet"}}},
			{Input: "look", Expectations: Expectations{Inventory: []string{}}},
		},
	}

	result, err := r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	assert.Contains(t, result.Results[1].Error.Error(), "expected inventory [], got [helmet]")

	suite.Steps[1] = TestStep{Input: ResetSessionInput, Expectations: Expectations{Inventory: []string{}}}
	_, err = r.RunSuite(context.Background(), suite)
	require.NoError(t, err)
}
