package models

import (
	"encoding/json"
	"fmt"
)

// TaskSet is the decoded form of a task_sets.json file.
type TaskSet []Suite

// Suite groups tasks under a name.
type Suite struct {
	Name  string `json:"name,omitempty"`
	Tasks []Task `json:"tasks"`
}

// Task is a single benchmark unit after placeholder resolution.
type Task struct {
	ID            string         `json:"id"`
	Category      string         `json:"category"`
	Instruction   string         `json:"instruction"`
	Task          string         `json:"task"`
	UserDetails   map[string]any `json:"user_details,omitempty"`
	PaymentInfo   map[string]any `json:"payment_info,omitempty"`
	CorrectAnswer *CorrectAnswer `json:"correct_answer,omitempty"`
}

// Tasks returns all tasks of the set in suite order.
func (ts TaskSet) Tasks() []Task {
	var tasks []Task
	for _, s := range ts {
		tasks = append(tasks, s.Tasks...)
	}
	return tasks
}

// CorrectAnswer holds the ground truth of a task. The file format allows a
// bare string, or an object whose "answers" field is a string or a list.
type CorrectAnswer struct {
	Answers []string
}

// UnmarshalJSON accepts every shape the task-set format allows.
func (c *CorrectAnswer) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	c.Answers = nil
	switch x := v.(type) {
	case nil:
	case string:
		c.Answers = []string{x}
	case map[string]any:
		answers, ok := x["answers"]
		if !ok {
			return nil
		}
		switch a := answers.(type) {
		case []any:
			for _, item := range a {
				c.Answers = append(c.Answers, stringify(item))
			}
		case nil:
		default:
			c.Answers = []string{stringify(a)}
		}
	default:
		return fmt.Errorf("unsupported correct_answer type %T", v)
	}
	return nil
}

// MarshalJSON writes the object form.
func (c CorrectAnswer) MarshalJSON() ([]byte, error) {
	answers := c.Answers
	if answers == nil {
		answers = []string{}
	}
	return json.Marshal(map[string]any{"answers": answers})
}

// Field returns a user_details or payment_info value as text.
func Field(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	return stringify(v)
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		// JSON numbers decode as float64; print integers without a fraction.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%v", x)
	default:
		return fmt.Sprint(x)
	}
}
