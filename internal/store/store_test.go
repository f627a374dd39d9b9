package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spachava753/webmall-eval/internal/models"
	"github.com/spachava753/webmall-eval/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "index", "studies.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func study(id string, started time.Time) models.StudySummary {
	return models.StudySummary{
		StudyID:   id,
		Name:      "study-" + id,
		Dir:       "/results/study-" + id,
		Agent:     "browser-use",
		StartedAt: started,
		EndedAt:   started.Add(10 * time.Minute),
		Overall: models.Summary{
			NumRuns:               2,
			AvgTaskCompletionRate: 0.5,
			AvgF1:                 0.75,
			TotalTokens:           3000,
			TotalCost:             0.12,
		},
	}
}

func TestRecordAndListStudies(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	results := []models.TaskResult{
		{TaskID: "t1", Category: "Webmall_Cheapest_Offer", Metrics: models.Metrics{TaskCompletion: 1, Precision: 1, Recall: 1, F1: 1}, NSteps: 4, Terminated: true},
		{TaskID: "t2", Category: "Webmall_Cheapest_Offer", NSteps: 50, Truncated: true,
			Error: &models.TaskError{Type: models.ErrAgentExecutionFailed, Message: "exit 1"}},
	}

	if err := s.RecordStudy(ctx, study("a", base), results); err != nil {
		t.Fatalf("RecordStudy: %v", err)
	}
	if err := s.RecordStudy(ctx, study("b", base.Add(time.Hour)), nil); err != nil {
		t.Fatalf("RecordStudy: %v", err)
	}

	studies, err := s.ListStudies(ctx, 0)
	if err != nil {
		t.Fatalf("ListStudies: %v", err)
	}
	if len(studies) != 2 {
		t.Fatalf("expected 2 studies, got %d", len(studies))
	}
	if studies[0].ID != "b" {
		t.Errorf("expected most recent study first, got %s", studies[0].ID)
	}

	a := studies[1]
	if a.Dir != "/results/study-a" || a.NumRuns != 2 || a.AvgTaskCompletion != 0.5 || a.TotalTokens != 3000 {
		t.Errorf("unexpected record: %+v", a)
	}
	if !a.StartedAt.Equal(base) {
		t.Errorf("expected started_at %v, got %v", base, a.StartedAt)
	}

	limited, err := s.ListStudies(ctx, 1)
	if err != nil {
		t.Fatalf("ListStudies: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 study with limit, got %d", len(limited))
	}

	tasks, err := s.TaskResults(ctx, "a")
	if err != nil {
		t.Fatalf("TaskResults: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 task results, got %d", len(tasks))
	}
	if tasks[0].TaskID != "t1" || tasks[0].F1 != 1 || tasks[0].ErrorType != "" {
		t.Errorf("unexpected first task: %+v", tasks[0])
	}
	if tasks[1].ErrorType != string(models.ErrAgentExecutionFailed) || !tasks[1].Truncated {
		t.Errorf("unexpected second task: %+v", tasks[1])
	}
}

func TestRecordStudyDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	now := time.Now().UTC()
	if err := s.RecordStudy(ctx, study("dup", now), nil); err != nil {
		t.Fatalf("RecordStudy: %v", err)
	}
	if err := s.RecordStudy(ctx, study("dup", now), nil); err == nil {
		t.Error("expected error recording a study id twice")
	}
}

func TestOpenExisting(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "studies.db")

	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.RecordStudy(ctx, study("x", time.Now().UTC()), nil); err != nil {
		t.Fatalf("RecordStudy: %v", err)
	}
	s.Close()

	reopened, err := store.Open(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()

	studies, err := reopened.ListStudies(ctx, 0)
	if err != nil {
		t.Fatalf("ListStudies: %v", err)
	}
	if len(studies) != 1 {
		t.Errorf("expected 1 study after reopening, got %d", len(studies))
	}
}
