// Package summary aggregates task results into study summaries.
package summary

import (
	"time"

	"github.com/spachava753/webmall-eval/internal/models"
)

// Meta describes the study a summary is built for.
type Meta struct {
	StudyID   string
	Name      string
	Dir       string
	Agent     string
	Cancelled bool
	// Skipped counts tasks dropped by category exclusion.
	Skipped int
	// NotRun counts tasks never started because the study was cancelled.
	NotRun    int
	StartedAt time.Time
	EndedAt   time.Time
}

// Build summarizes results overall and per category.
func Build(meta Meta, results []models.TaskResult) models.StudySummary {
	overall, byCategory := Summarize(results)
	return models.StudySummary{
		StudyID:    meta.StudyID,
		Name:       meta.Name,
		Dir:        meta.Dir,
		Agent:      meta.Agent,
		Cancelled:  meta.Cancelled,
		Skipped:    meta.Skipped,
		NotRun:     meta.NotRun,
		StartedAt:  meta.StartedAt,
		EndedAt:    meta.EndedAt,
		Overall:    overall,
		ByCategory: byCategory,
	}
}

// Summarize computes the overall summary and one summary per category.
func Summarize(results []models.TaskResult) (models.Summary, map[string]models.CategorySummary) {
	groups := make(map[string][]models.TaskResult)
	for _, r := range results {
		groups[r.Category] = append(groups[r.Category], r)
	}

	byCategory := make(map[string]models.CategorySummary, len(groups))
	for category, group := range groups {
		tasks := make([]models.TaskBrief, 0, len(group))
		for _, r := range group {
			tasks = append(tasks, models.TaskBrief{
				TaskID:     r.TaskID,
				TaskSeed:   r.TaskSeed,
				Metrics:    r.Metrics,
				NSteps:     r.NSteps,
				Truncated:  r.Truncated,
				Terminated: r.Terminated,
				Error:      r.Error,
			})
		}
		byCategory[category] = models.CategorySummary{
			Summary: aggregate(group),
			Tasks:   tasks,
		}
	}

	return aggregate(results), byCategory
}

func aggregate(results []models.TaskResult) models.Summary {
	s := models.Summary{NumRuns: len(results)}
	if len(results) == 0 {
		return s
	}

	var completion, precision, recall, f1, steps, elapsed float64
	var terminated, truncated, errored int
	for _, r := range results {
		completion += r.TaskCompletion
		precision += r.Precision
		recall += r.Recall
		f1 += r.F1
		steps += float64(r.NSteps)
		elapsed += r.TimeElapsed
		if r.Terminated {
			terminated++
		}
		if r.Truncated {
			truncated++
		}
		if r.Error != nil {
			errored++
		}

		// Tasks without usage data do not count towards usage averages.
		if r.Usage == nil {
			continue
		}
		if r.Usage.TotalTokens != nil {
			s.TotalTokens += *r.Usage.TotalTokens
			s.TasksWithUsage++
		}
		if r.Usage.TotalInputTokens != nil {
			s.TotalInputTokens += *r.Usage.TotalInputTokens
		}
		if r.Usage.TotalOutputTokens != nil {
			s.TotalOutputTokens += *r.Usage.TotalOutputTokens
		}
		if r.Usage.TotalCost != nil {
			s.TotalCost += *r.Usage.TotalCost
			s.TasksWithCost++
		}
	}

	n := float64(len(results))
	s.AvgTaskCompletionRate = completion / n
	s.AvgPrecision = precision / n
	s.AvgRecall = recall / n
	s.AvgF1 = f1 / n
	s.AvgSteps = steps / n
	s.AvgTimeElapsed = elapsed / n
	s.TerminatedRate = float64(terminated) / n
	s.TruncatedRate = float64(truncated) / n
	s.ErrorRate = float64(errored) / n

	if s.TasksWithUsage > 0 {
		s.AvgTokensPerTask = float64(s.TotalTokens) / float64(s.TasksWithUsage)
	}
	if s.TasksWithCost > 0 {
		s.AvgCostPerTask = s.TotalCost / float64(s.TasksWithCost)
	}
	return s
}
