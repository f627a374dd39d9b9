package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spachava753/webmall-eval/internal/agent"
	"github.com/spachava753/webmall-eval/internal/instruction"
	"github.com/spachava753/webmall-eval/internal/models"
)

func TestSanitizeDirName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple name",
			input:    "Webmall_Cheapest_Offer_Task3",
			expected: "Webmall_Cheapest_Offer_Task3",
		},
		{
			name:     "path separators",
			input:    "suite/task 1",
			expected: "suite-task-1",
		},
		{
			name:     "consecutive special chars",
			input:    "task::??1",
			expected: "task-1",
		},
		{
			name:     "leading/trailing special chars",
			input:    "../task/",
			expected: "task",
		},
		{
			name:     "empty after sanitizing",
			input:    "///",
			expected: "task",
		},
		{
			name:     "long name truncated",
			input:    strings.Repeat("a", 120),
			expected: strings.Repeat("a", maxDirNameLength),
		},
		{
			name:     "truncation removes trailing hyphen",
			input:    strings.Repeat("a", maxDirNameLength-1) + "-b",
			expected: strings.Repeat("a", maxDirNameLength-1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeDirName(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeDirName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
			if len(result) > maxDirNameLength {
				t.Errorf("sanitizeDirName(%q) length %d exceeds max %d", tt.input, len(result), maxDirNameLength)
			}
		})
	}
}

func TestStepTiming(t *testing.T) {
	d := func(v float64) *models.StepMetadata { return &models.StepMetadata{DurationSeconds: &v} }
	steps := []models.Step{
		{Metadata: d(4)},
		{},
		{Metadata: d(1.5)},
		{Metadata: &models.StepMetadata{}},
		{Metadata: d(2.5)},
	}

	got := stepTiming(steps)
	if len(got.PerStepDurations) != 3 {
		t.Fatalf("expected 3 durations, got %v", got.PerStepDurations)
	}
	if got.TotalDuration != 8 || got.MaxStepDuration != 4 || got.MinStepDuration != 1.5 {
		t.Errorf("unexpected timing: %+v", got)
	}

	empty := stepTiming(nil)
	if empty.MinStepDuration != 0 || empty.PerStepDurations == nil {
		t.Errorf("unexpected timing without steps: %+v", empty)
	}
}

func TestClassify(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want models.ErrorType
	}{
		{"exit status", context.Background(), fmt.Errorf("%w: exit code 2", agent.ErrExitStatus), models.ErrAgentExecutionFailed},
		{"start failure", context.Background(), fmt.Errorf("%w: no such file", agent.ErrStartFailed), models.ErrAgentStartFailed},
		{"cancelled context", cancelled, errors.New("signal: killed"), models.ErrAgentCancelled},
		{"other", context.Background(), errors.New("boom"), models.ErrAgentExecutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.ctx, tt.err)
			if got.Type != tt.want {
				t.Errorf("classify() type = %s, want %s", got.Type, tt.want)
			}
			if got.Message != tt.err.Error() {
				t.Errorf("classify() message = %q", got.Message)
			}
		})
	}
}

func TestHistorySteps(t *testing.T) {
	steps := []models.Step{{}, {}}

	tests := []struct {
		name  string
		trace models.Trace
		want  int
		ok    bool
	}{
		{"value", models.TraceAvailable{History: models.History{Steps: steps}}, 2, true},
		{"pointer", &models.TraceAvailable{History: models.History{Steps: steps}}, 2, true},
		{"nil pointer", (*models.TraceAvailable)(nil), 0, false},
		{"unavailable", models.TraceUnavailable{Raw: "x"}, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := historySteps(tt.trace)
			if ok != tt.ok || len(got) != tt.want {
				t.Errorf("historySteps() = %d steps, %v; want %d, %v", len(got), ok, tt.want, tt.ok)
			}
		})
	}
}

type runtimeFunc func(ctx context.Context, req agent.Request) (*agent.Result, error)

func (f runtimeFunc) Name() string { return "func" }

func (f runtimeFunc) Run(ctx context.Context, req agent.Request) (*agent.Result, error) {
	return f(ctx, req)
}

func TestExecutePointerTrace(t *testing.T) {
	done := "http://localhost:8081/product/a"
	history := models.History{Steps: []models.Step{
		{Results: []models.Outcome{{IsDone: false}}},
		{Results: []models.Outcome{{IsDone: true, ExtractedContent: &done}}},
	}}

	rt := runtimeFunc(func(ctx context.Context, req agent.Request) (*agent.Result, error) {
		return &agent.Result{Trace: &models.TraceAvailable{History: history}}, nil
	})
	e := NewTaskExecutor(rt, instruction.NewComposer(models.Sites{}, nil), 2)

	exec := e.Execute(context.Background(), models.Task{
		ID:            "t1",
		CorrectAnswer: &models.CorrectAnswer{Answers: []string{done}},
	}, 0)

	if exec.Result.NSteps != 2 {
		t.Errorf("expected 2 steps, got %d", exec.Result.NSteps)
	}
	if exec.Result.Truncated {
		t.Error("a finished run at the step limit is not truncated")
	}
	if len(exec.Trajectory.Steps) != 2 {
		t.Errorf("expected 2 trajectory steps, got %d", len(exec.Trajectory.Steps))
	}
	if exec.Result.TaskCompletion != 1 {
		t.Errorf("expected completion 1, got %v", exec.Result.TaskCompletion)
	}
}
