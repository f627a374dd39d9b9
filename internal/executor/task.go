package executor

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/spachava753/webmall-eval/internal/agent"
	"github.com/spachava753/webmall-eval/internal/answer"
	"github.com/spachava753/webmall-eval/internal/instruction"
	"github.com/spachava753/webmall-eval/internal/metrics"
	"github.com/spachava753/webmall-eval/internal/models"
)

// Execution is everything a single task run produced.
type Execution struct {
	Result      models.TaskResult
	Timing      models.StepTiming
	Trajectory  models.Trajectory
	Instruction string
	Stdout      string
}

// TaskExecutor runs one task through composition, the agent and scoring.
type TaskExecutor struct {
	runtime  agent.Runtime
	composer *instruction.Composer
	maxSteps int
}

// NewTaskExecutor creates a new task executor.
func NewTaskExecutor(runtime agent.Runtime, composer *instruction.Composer, maxSteps int) *TaskExecutor {
	return &TaskExecutor{
		runtime:  runtime,
		composer: composer,
		maxSteps: maxSteps,
	}
}

// Execute runs task and scores the answer. Agent failures are recorded on
// the result and never returned.
func (e *TaskExecutor) Execute(ctx context.Context, task models.Task, seed int) *Execution {
	composed := e.composer.Compose(task)

	start := time.Now()
	res, err := e.runtime.Run(ctx, agent.Request{
		TaskID:      task.ID,
		Instruction: composed.Text,
		MaxSteps:    e.maxSteps,
	})
	elapsed := time.Since(start).Seconds()

	exec := &Execution{
		Instruction: composed.Text,
		Trajectory:  models.Trajectory{TaskID: task.ID, Steps: []models.TrajectoryStep{}},
		Timing:      models.StepTiming{PerStepDurations: []float64{}},
	}

	var trace models.Trace
	var usage *models.Usage
	if res != nil {
		trace = res.Trace
		usage = res.Usage
		exec.Stdout = res.Stdout
	}

	expected := answer.Expected(task)
	actual := answer.NewSet()

	var taskErr *models.TaskError
	if err != nil {
		taskErr = classify(ctx, err)
	} else {
		actual = answer.Extract(trace)
	}

	result := models.TaskResult{
		TaskID:          task.ID,
		TaskSeed:        seed,
		Category:        task.Category,
		TaskDescription: task.Task,
		ExpectedAnswers: expected.Sorted(),
		ActualAnswers:   actual.Sorted(),
		MissingAnswers:  expected.Difference(actual).Sorted(),
		ExtraAnswers:    actual.Difference(expected).Sorted(),
		Metrics:         metrics.Compute(expected, actual),
		TimeElapsed:     elapsed,
		Terminated:      err == nil,
		Error:           taskErr,
		Usage:           usage,
	}
	if exec.Stdout != "" {
		result.Result = &exec.Stdout
	}

	if steps, ok := historySteps(trace); ok {
		result.NSteps = len(steps)
		if len(steps) > 0 {
			result.Truncated = len(steps) >= e.maxSteps && !steps[len(steps)-1].Done()
		}
		exec.Timing = stepTiming(steps)
		exec.Trajectory.Steps = trajectory(steps)
	}

	exec.Result = result
	return exec
}

func historySteps(trace models.Trace) ([]models.Step, bool) {
	switch t := trace.(type) {
	case models.TraceAvailable:
		return t.History.Steps, true
	case *models.TraceAvailable:
		if t != nil {
			return t.History.Steps, true
		}
	}
	return nil, false
}

// classify maps an agent error to a task error.
func classify(ctx context.Context, err error) *models.TaskError {
	errType := models.ErrAgentExecutionFailed
	switch {
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		errType = models.ErrAgentCancelled
	case errors.Is(err, agent.ErrStartFailed):
		errType = models.ErrAgentStartFailed
	}
	return &models.TaskError{Type: errType, Message: err.Error()}
}

func stepTiming(steps []models.Step) models.StepTiming {
	timing := models.StepTiming{PerStepDurations: []float64{}}
	for _, s := range steps {
		if s.Metadata == nil || s.Metadata.DurationSeconds == nil {
			continue
		}
		d := *s.Metadata.DurationSeconds
		if len(timing.PerStepDurations) == 0 {
			timing.MinStepDuration = d
		}
		timing.PerStepDurations = append(timing.PerStepDurations, d)
		timing.TotalDuration += d
		timing.MaxStepDuration = max(timing.MaxStepDuration, d)
		timing.MinStepDuration = min(timing.MinStepDuration, d)
	}
	return timing
}

func trajectory(steps []models.Step) []models.TrajectoryStep {
	out := make([]models.TrajectoryStep, 0, len(steps))
	for _, s := range steps {
		ts := models.TrajectoryStep{Results: s.Results}
		if s.Metadata != nil {
			ts.StepNumber = s.Metadata.StepNumber
			ts.DurationSeconds = s.Metadata.DurationSeconds
		}
		if mo := s.ModelOutput; mo != nil {
			ts.Thinking = mo.Thinking
			ts.EvaluationPreviousGoal = mo.EvaluationPreviousGoal
			ts.Memory = mo.Memory
			ts.NextGoal = mo.NextGoal
			ts.Actions = mo.Actions
		}
		if s.State != nil {
			ts.URL = s.State.URL
		}
		out = append(out, ts)
	}
	return out
}

// maxDirNameLength bounds a single path component built from task ids.
const maxDirNameLength = 100

var unsafeDirChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeDirName makes s safe as a single directory name.
func sanitizeDirName(s string) string {
	s = unsafeDirChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-.")
	if len(s) > maxDirNameLength {
		s = strings.TrimRight(s[:maxDirNameLength], "-.")
	}
	if s == "" {
		return "task"
	}
	return s
}
