package executor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/spachava753/webmall-eval/internal/agent"
	"github.com/spachava753/webmall-eval/internal/config"
	"github.com/spachava753/webmall-eval/internal/instruction"
	"github.com/spachava753/webmall-eval/internal/models"
	"github.com/spachava753/webmall-eval/internal/placeholder"
	"github.com/spachava753/webmall-eval/internal/summary"
	"github.com/spachava753/webmall-eval/internal/taskset"
)

// timestampFormat prefixes study and task directory names.
const timestampFormat = "2006-01-02_15-04-05"

// Recorder indexes finished studies.
type Recorder interface {
	RecordStudy(ctx context.Context, s models.StudySummary, results []models.TaskResult) error
}

// StudyOrchestrator coordinates the execution of all tasks in a study.
type StudyOrchestrator struct {
	cfg      models.StudyConfig
	sites    models.Sites
	runtime  agent.Runtime
	recorder Recorder
}

// NewStudyOrchestrator creates a new study orchestrator. recorder may be nil.
func NewStudyOrchestrator(cfg models.StudyConfig, sites models.Sites, runtime agent.Runtime, recorder Recorder) *StudyOrchestrator {
	return &StudyOrchestrator{
		cfg:      cfg,
		sites:    sites,
		runtime:  runtime,
		recorder: recorder,
	}
}

// ResolveTaskSets loads every configured task set and resolves it against
// sites. Any failure here is fatal for the study.
func ResolveTaskSets(ctx context.Context, cfg models.StudyConfig, sites models.Sites) (*taskset.Resolved, error) {
	suites, err := taskset.FetchAll(ctx, cfg.TaskSets)
	if err != nil {
		return nil, fmt.Errorf("loading task sets: %w", err)
	}

	r := placeholder.NewResolver(placeholder.SiteMap(sites))
	if cfg.RewriteProtocolOnLoad {
		r.Rewrite = placeholder.DirectReportRewrite()
	}

	resolved, err := taskset.Resolve(suites, cfg.ExcludedCategories, r)
	if err != nil {
		return nil, fmt.Errorf("resolving task sets: %w", err)
	}
	return resolved, nil
}

// Run executes all tasks of the study sequentially. Cancelling ctx stops
// the study after the running task; the summary of completed tasks is still
// written.
func (o *StudyOrchestrator) Run(ctx context.Context) (*models.StudySummary, error) {
	startTime := time.Now()

	resolved, err := ResolveTaskSets(ctx, o.cfg, o.sites)
	if err != nil {
		return nil, err
	}
	tasks := resolved.Tasks(o.cfg.TaskLimit)

	// Create study output directory
	timestamp := startTime.Format(timestampFormat)
	agentName := sanitizeDirName(o.cfg.Agent.Name)
	studyName := fmt.Sprintf("%s_%s-on-webmall", timestamp, agentName)
	if o.cfg.Name != nil {
		studyName = *o.cfg.Name
	}
	studyDir := filepath.Join(o.cfg.ResultsDir, studyName)

	if _, err := os.Stat(studyDir); err == nil {
		return nil, fmt.Errorf("study directory already exists: %s (will not overwrite existing results)", studyDir)
	}

	if err := os.MkdirAll(studyDir, 0755); err != nil {
		return nil, fmt.Errorf("creating study directory: %w", err)
	}

	studyConfig := struct {
		Study models.StudyConfig `json:"study"`
		Sites models.Sites       `json:"sites"`
	}{o.cfg, o.sites}
	if err := writeJSON(filepath.Join(studyDir, configFile), studyConfig); err != nil {
		return nil, err
	}

	if err := resolved.WriteFile(filepath.Join(studyDir, resolvedFile)); err != nil {
		return nil, err
	}

	slog.Info("starting study", "dir", studyDir, "agent", o.cfg.Agent.Name, "runtime", o.runtime.Name(),
		"tasks", len(tasks), "excluded", resolved.Skipped)

	executor := NewTaskExecutor(o.runtime, instruction.NewComposer(o.sites, o.cfg.CheckoutCategories), o.cfg.MaxSteps)
	results := o.runSequential(ctx, executor, tasks, studyDir, timestamp, agentName)

	notRun := len(tasks) - len(results)
	studySummary := summary.Build(summary.Meta{
		StudyID:   uuid.NewString(),
		Name:      studyName,
		Dir:       studyDir,
		Agent:     o.cfg.Agent.Name,
		Cancelled: notRun > 0,
		Skipped:   resolved.Skipped,
		NotRun:    notRun,
		StartedAt: startTime,
		EndedAt:   time.Now(),
	}, results)

	if err := writeJSON(filepath.Join(studyDir, studySummaryFile), studySummary); err != nil {
		return nil, err
	}

	if o.recorder != nil {
		// The study index is best effort; results are already on disk.
		if err := o.recorder.RecordStudy(context.WithoutCancel(ctx), studySummary, results); err != nil {
			slog.Warn("failed to index study", "study", studySummary.StudyID, "error", err)
		}
	}

	slog.Info("study finished", "dir", studyDir, "completed", len(results), "not_run", notRun,
		"task_completion", studySummary.Overall.AvgTaskCompletionRate)
	return &studySummary, nil
}

// runSequential executes tasks one at a time and returns the results of the
// tasks that ran to completion.
func (o *StudyOrchestrator) runSequential(ctx context.Context, executor *TaskExecutor, tasks []models.Task, studyDir, timestamp, agentName string) []models.TaskResult {
	results := make([]models.TaskResult, 0, len(tasks))

	for i, task := range tasks {
		if ctx.Err() != nil {
			slog.Warn("study cancelled, skipping remaining tasks", "remaining", len(tasks)-i)
			break
		}

		slog.Info("running task", "task", task.ID, "category", task.Category, "index", i+1, "total", len(tasks))
		exec := executor.Execute(ctx, task, o.cfg.TaskSeed)

		if exec.Result.Error != nil && exec.Result.Error.Type == models.ErrAgentCancelled {
			slog.Warn("task interrupted, not counting it", "task", task.ID)
			break
		}

		taskDir := filepath.Join(studyDir, fmt.Sprintf("%s_%s_on_%s_%d", timestamp, agentName, sanitizeDirName(task.ID), o.cfg.TaskSeed))
		if err := writeTaskArtifacts(taskDir, exec); err != nil {
			slog.Error("failed to write task artifacts", "task", task.ID, "error", err)
			if exec.Result.Error == nil {
				exec.Result.Error = &models.TaskError{Type: models.ErrArtifactWriteFailed, Message: err.Error()}
			}
		}

		r := exec.Result
		if r.Error != nil {
			slog.Warn("task failed", "task", task.ID, "error_type", r.Error.Type, "error", r.Error.Message)
		} else {
			slog.Info("task finished", "task", task.ID, "steps", r.NSteps, "completion", r.TaskCompletion,
				"precision", r.Precision, "recall", r.Recall, "truncated", r.Truncated)
		}
		results = append(results, r)
	}

	return results
}

// LoadStudy loads a study config file, the .env file next to it and the
// site configuration.
func LoadStudy(configPath string) (models.StudyConfig, models.Sites, error) {
	if err := config.LoadDotEnv(configPath); err != nil {
		return models.StudyConfig{}, models.Sites{}, err
	}

	cfg, err := config.LoadStudyConfig(configPath)
	if err != nil {
		return cfg, models.Sites{}, fmt.Errorf("loading study config: %w", err)
	}

	sites, err := config.LoadSites(cfg.SitesPath, os.LookupEnv)
	if err != nil {
		return cfg, sites, fmt.Errorf("loading sites: %w", err)
	}
	return cfg, sites, nil
}
