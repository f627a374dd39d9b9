package taskset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spachava753/webmall-eval/internal/models"
	"github.com/spachava753/webmall-eval/internal/placeholder"
)

// ErrInvalidTaskSet is returned when a task-set file is missing or does not
// have the expected structure. It is always fatal for a study.
var ErrInvalidTaskSet = errors.New("invalid task set")

// Load reads and parses a task_sets.json file.
func Load(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrInvalidTaskSet, path, err)
	}
	return Parse(data)
}

// Parse decodes task-set JSON into its generic form: a list of suite objects
// each holding a "tasks" list of objects.
func Parse(data []byte) ([]any, error) {
	var suites []any
	if err := json.Unmarshal(data, &suites); err != nil {
		return nil, fmt.Errorf("%w: parsing JSON: %w", ErrInvalidTaskSet, err)
	}
	if suites == nil {
		return nil, fmt.Errorf("%w: task set is not a list", ErrInvalidTaskSet)
	}

	for i, s := range suites {
		suite, ok := s.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: suite[%d] is %T, not an object", ErrInvalidTaskSet, i, s)
		}
		tasks, ok := suite["tasks"]
		if !ok {
			continue
		}
		list, ok := tasks.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: suite[%d].tasks is %T, not a list", ErrInvalidTaskSet, i, tasks)
		}
		for j, t := range list {
			if _, ok := t.(map[string]any); !ok {
				return nil, fmt.Errorf("%w: suite[%d].tasks[%d] is %T, not an object", ErrInvalidTaskSet, i, j, t)
			}
		}
	}

	return suites, nil
}

// Resolved is a task set after category exclusion and placeholder
// resolution.
type Resolved struct {
	// Raw keeps every field of the source file, resolved.
	Raw     []any
	TaskSet models.TaskSet
	Kept    int
	Skipped int
}

// Resolve drops every task whose category is excluded and resolves all
// string fields of the remaining tasks with r. The output only depends on
// the inputs.
func Resolve(suites []any, excluded []string, r *placeholder.Resolver) (*Resolved, error) {
	res := &Resolved{Raw: make([]any, 0, len(suites))}

	for _, s := range suites {
		suite := s.(map[string]any)

		out := make(map[string]any, len(suite))
		for k, v := range suite {
			out[k] = v
		}

		list, _ := suite["tasks"].([]any)
		tasks := make([]any, 0, len(list))
		for _, t := range list {
			task := t.(map[string]any)
			category, _ := task["category"].(string)
			if slices.Contains(excluded, category) {
				slog.Debug("skipping task", "task", task["id"], "category", category)
				res.Skipped++
				continue
			}
			tasks = append(tasks, r.Resolve(task))
		}
		out["tasks"] = tasks
		res.Kept += len(tasks)
		res.Raw = append(res.Raw, out)
	}

	// Round-trip through JSON to obtain the typed view
	data, err := json.Marshal(res.Raw)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding resolved task set: %w", ErrInvalidTaskSet, err)
	}
	if err := json.Unmarshal(data, &res.TaskSet); err != nil {
		return nil, fmt.Errorf("%w: decoding tasks: %w", ErrInvalidTaskSet, err)
	}

	if err := validate(res.TaskSet); err != nil {
		return nil, err
	}

	slog.Info("resolved task set", "kept", res.Kept, "skipped", res.Skipped, "excluded", excluded)
	return res, nil
}

// validate checks task identifiers and notes tasks without ground truth.
func validate(ts models.TaskSet) error {
	seen := make(map[string]bool)
	for i, suite := range ts {
		for j, t := range suite.Tasks {
			if t.ID == "" {
				return fmt.Errorf("%w: suite[%d].tasks[%d] has no id", ErrInvalidTaskSet, i, j)
			}
			if seen[t.ID] {
				return fmt.Errorf("%w: duplicate task id %q", ErrInvalidTaskSet, t.ID)
			}
			seen[t.ID] = true

			if t.CorrectAnswer == nil || len(t.CorrectAnswer.Answers) == 0 {
				slog.Warn("task has no expected answers, it will be scored against an empty set",
					"task", t.ID, "category", t.Category)
			}
		}
	}
	return nil
}

// WriteJSON writes the resolved task set with stable key order.
func (r *Resolved) WriteJSON(w io.Writer) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Raw); err != nil {
		return fmt.Errorf("encoding resolved task set: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFile writes the resolved task set to path.
func (r *Resolved) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := r.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// Tasks returns the resolved tasks in order, limited to the first limit
// tasks when limit is positive.
func (r *Resolved) Tasks(limit int) []models.Task {
	tasks := r.TaskSet.Tasks()
	if limit > 0 && limit < len(tasks) {
		tasks = tasks[:limit]
	}
	return tasks
}
