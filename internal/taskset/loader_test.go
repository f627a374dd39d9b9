package taskset_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spachava753/webmall-eval/internal/models"
	"github.com/spachava753/webmall-eval/internal/placeholder"
	"github.com/spachava753/webmall-eval/internal/taskset"
)

var excluded = []string{"Add_To_Cart", "Checkout", "FindAndOrder"}

func testResolver() *placeholder.Resolver {
	return placeholder.NewResolver(placeholder.SiteMap(models.Sites{
		Shop1URL:    "http://shop1.example",
		Shop2URL:    "http://shop2.example",
		Shop3URL:    "http://shop3.example",
		Shop4URL:    "http://shop4.example",
		FrontendURL: "http://frontend.example",
	}))
}

func loadFixture(t *testing.T) []any {
	t.Helper()
	projectRoot := findProjectRoot(t)
	suites, err := taskset.Load(filepath.Join(projectRoot, "testdata", "task_sets.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return suites
}

func TestResolveExcludesCategories(t *testing.T) {
	suites := loadFixture(t)

	res, err := taskset.Resolve(suites, excluded, testResolver())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if res.Kept != 2 {
		t.Errorf("expected 2 kept tasks, got %d", res.Kept)
	}

	if res.Skipped != 2 {
		t.Errorf("expected 2 skipped tasks, got %d", res.Skipped)
	}

	for _, task := range res.TaskSet.Tasks() {
		for _, c := range excluded {
			if task.Category == c {
				t.Errorf("excluded task %s (category %s) in output", task.ID, task.Category)
			}
		}
	}

	// Suites are kept even when all their tasks are excluded
	if len(res.TaskSet) != 2 {
		t.Errorf("expected 2 suites, got %d", len(res.TaskSet))
	}
}

func TestResolveSubstitutesPlaceholders(t *testing.T) {
	res, err := taskset.Resolve(loadFixture(t), excluded, testResolver())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	task := res.TaskSet.Tasks()[0]
	if strings.Contains(task.Instruction, "{{URL_") || strings.Contains(task.Task, "{{URL_") {
		t.Errorf("unresolved placeholders in task %s", task.ID)
	}

	want := []string{
		"http://shop1.example/product/amd-ryzen-9-5900x/",
		"http://shop3.example/product/amd-ryzen-9-5900x-box/",
	}
	if task.CorrectAnswer == nil || strings.Join(task.CorrectAnswer.Answers, ",") != strings.Join(want, ",") {
		t.Errorf("unexpected correct answers %+v", task.CorrectAnswer)
	}

	single := res.TaskSet.Tasks()[1]
	if single.CorrectAnswer == nil || len(single.CorrectAnswer.Answers) != 1 ||
		single.CorrectAnswer.Answers[0] != "http://shop2.example/product/logitech-mx-master-3s" {
		t.Errorf("unexpected single correct answer %+v", single.CorrectAnswer)
	}
}

func TestResolveNoExclusions(t *testing.T) {
	res, err := taskset.Resolve(loadFixture(t), nil, testResolver())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if res.Kept != 4 || res.Skipped != 0 {
		t.Errorf("expected 4 kept / 0 skipped, got %d / %d", res.Kept, res.Skipped)
	}

	checkout := res.TaskSet.Tasks()[2]
	if got := models.Field(checkout.UserDetails, "house_number"); got != "12" {
		t.Errorf("expected house_number 12, got %q", got)
	}
}

func TestResolveDeterministic(t *testing.T) {
	var outputs []string
	for range 3 {
		res, err := taskset.Resolve(loadFixture(t), excluded, testResolver())
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		var buf bytes.Buffer
		if err := res.WriteJSON(&buf); err != nil {
			t.Fatalf("WriteJSON failed: %v", err)
		}
		outputs = append(outputs, buf.String())
	}

	for i := 1; i < len(outputs); i++ {
		if outputs[i] != outputs[0] {
			t.Fatalf("resolution %d differs from first", i)
		}
	}
}

func TestWriteFile(t *testing.T) {
	res, err := taskset.Resolve(loadFixture(t), nil, testResolver())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	var buf bytes.Buffer
	if err := res.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "resolved.json")
	if err := res.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != buf.String() {
		t.Error("file content differs from WriteJSON output")
	}

	if err := res.WriteFile(filepath.Join(t.TempDir(), "missing", "resolved.json")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestTasksLimit(t *testing.T) {
	res, err := taskset.Resolve(loadFixture(t), nil, testResolver())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if got := len(res.Tasks(1)); got != 1 {
		t.Errorf("expected 1 task with limit, got %d", got)
	}
	if got := len(res.Tasks(0)); got != 4 {
		t.Errorf("expected all 4 tasks without limit, got %d", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file"},
		{name: "invalid json", content: ptr("not json")},
		{name: "not a list", content: ptr(`{"tasks": []}`)},
		{name: "null", content: ptr("null")},
		{name: "suite not object", content: ptr(`["x"]`)},
		{name: "tasks not list", content: ptr(`[{"tasks": {}}]`)},
		{name: "task not object", content: ptr(`[{"tasks": [1]}]`)},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, "task_sets_"+string(rune('a'+i))+".json")
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0644); err != nil {
					t.Fatalf("writing file: %v", err)
				}
			}
			_, err := taskset.Load(path)
			if !errors.Is(err, taskset.ErrInvalidTaskSet) {
				t.Errorf("expected ErrInvalidTaskSet, got %v", err)
			}
		})
	}
}

func TestResolveRejectsBadTasks(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"missing id", `[{"tasks": [{"category": "A"}]}]`},
		{"duplicate id", `[{"tasks": [{"id": "t1"}, {"id": "t1"}]}]`},
		{"bad correct answer", `[{"tasks": [{"id": "t1", "correct_answer": 5}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suites, err := taskset.Parse([]byte(tt.json))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			_, err = taskset.Resolve(suites, nil, testResolver())
			if !errors.Is(err, taskset.ErrInvalidTaskSet) {
				t.Errorf("expected ErrInvalidTaskSet, got %v", err)
			}
		})
	}
}

func findProjectRoot(t *testing.T) string {
	t.Helper()
	// Start from current dir and walk up to find go.mod
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getting working dir: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root")
		}
		dir = parent
	}
}

func ptr[T any](v T) *T {
	return &v
}
