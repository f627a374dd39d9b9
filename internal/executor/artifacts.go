package executor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spachava753/webmall-eval/internal/models"
)

// Per-task artifact file names.
const (
	taskSummaryFile = "task_summary.json"
	summaryInfoFile = "summary_info.json"
	trajectoryFile  = "trajectory.json"
	fullResultFile  = "full_result.json"
	instructionFile = "instruction.txt"
	agentStdoutFile = "agent_stdout.txt"
)

// Study artifact file names.
const (
	configFile       = "config.json"
	resolvedFile     = "resolved_task_sets.json"
	studySummaryFile = "study_summary.json"
)

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeTaskArtifacts persists an execution into dir.
func writeTaskArtifacts(dir string, exec *Execution) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating task directory: %w", err)
	}

	r := exec.Result
	taskSummary := models.TaskSummary{
		TaskID:          r.TaskID,
		TaskSeed:        r.TaskSeed,
		Category:        r.Category,
		Metrics:         r.Metrics,
		ExpectedAnswers: r.ExpectedAnswers,
		ActualAnswers:   r.ActualAnswers,
		MissingAnswers:  r.MissingAnswers,
		ExtraAnswers:    r.ExtraAnswers,
	}
	runSummary := models.RunSummary{
		NSteps:      r.NSteps,
		TimeElapsed: r.TimeElapsed,
		Usage:       r.Usage,
		StepTiming:  exec.Timing,
		Error:       r.Error,
		Terminated:  r.Terminated,
		Truncated:   r.Truncated,
	}

	files := []struct {
		name string
		v    any
	}{
		{taskSummaryFile, taskSummary},
		{summaryInfoFile, runSummary},
		{trajectoryFile, exec.Trajectory},
		{fullResultFile, r},
	}
	for _, f := range files {
		if err := writeJSON(filepath.Join(dir, f.name), f.v); err != nil {
			return err
		}
	}

	if err := os.WriteFile(filepath.Join(dir, instructionFile), []byte(exec.Instruction), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", instructionFile, err)
	}
	if exec.Stdout != "" {
		if err := os.WriteFile(filepath.Join(dir, agentStdoutFile), []byte(exec.Stdout), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", agentStdoutFile, err)
		}
	}
	return nil
}
