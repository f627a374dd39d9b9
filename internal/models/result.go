package models

// Metrics are the set-comparison scores of one task.
type Metrics struct {
	TaskCompletion float64 `json:"task_completion"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1             float64 `json:"f1_score"`
}

// Usage is the token and cost accounting reported by the agent. Nil fields
// mean the agent did not report the value.
type Usage struct {
	TotalInputTokens  *int64   `json:"total_input_tokens,omitempty"`
	TotalOutputTokens *int64   `json:"total_output_tokens,omitempty"`
	TotalTokens       *int64   `json:"total_tokens,omitempty"`
	TotalCost         *float64 `json:"total_cost,omitempty"`
	InputCost         *float64 `json:"input_cost,omitempty"`
	OutputCost        *float64 `json:"output_cost,omitempty"`
}

// TaskResult contains the outcome of a task execution.
type TaskResult struct {
	TaskID          string   `json:"task_id"`
	TaskSeed        int      `json:"task_seed"`
	Category        string   `json:"category"`
	TaskDescription string   `json:"task_description"`
	ExpectedAnswers []string `json:"expected_answers"`
	ActualAnswers   []string `json:"actual_answers"`
	MissingAnswers  []string `json:"missing_answers"`
	ExtraAnswers    []string `json:"extra_answers"`

	Metrics

	NSteps      int        `json:"n_steps"`
	TimeElapsed float64    `json:"time_elapsed"`
	Truncated   bool       `json:"truncated"`
	Terminated  bool       `json:"terminated"`
	Error       *TaskError `json:"error"`
	Result      *string    `json:"result"`
	Usage       *Usage     `json:"usage_info"`
}

// TaskSummary is the task_summary.json record.
type TaskSummary struct {
	TaskID   string `json:"task_id"`
	TaskSeed int    `json:"task_seed"`
	Category string `json:"category"`

	Metrics

	ExpectedAnswers []string `json:"expected_answers"`
	ActualAnswers   []string `json:"actual_answers"`
	MissingAnswers  []string `json:"missing_answers"`
	ExtraAnswers    []string `json:"extra_answers"`
}

// StepTiming summarizes per-step durations.
type StepTiming struct {
	PerStepDurations []float64 `json:"per_step_durations"`
	TotalDuration    float64   `json:"total_duration"`
	MaxStepDuration  float64   `json:"max_step_duration"`
	MinStepDuration  float64   `json:"min_step_duration"`
}

// RunSummary is the summary_info.json record.
type RunSummary struct {
	NSteps      int        `json:"n_steps"`
	TimeElapsed float64    `json:"time_elapsed"`
	Usage       *Usage     `json:"usage_info"`
	StepTiming  StepTiming `json:"step_timing"`
	Error       *TaskError `json:"error"`
	Terminated  bool       `json:"terminated"`
	Truncated   bool       `json:"truncated"`
}

// TrajectoryStep is one entry of trajectory.json.
type TrajectoryStep struct {
	StepNumber             *int             `json:"step_number,omitempty"`
	DurationSeconds        *float64         `json:"duration_seconds,omitempty"`
	Thinking               string           `json:"thinking,omitempty"`
	EvaluationPreviousGoal string           `json:"evaluation_previous_goal,omitempty"`
	Memory                 string           `json:"memory,omitempty"`
	NextGoal               string           `json:"next_goal,omitempty"`
	Actions                []map[string]any `json:"actions,omitempty"`
	Results                []Outcome        `json:"results,omitempty"`
	URL                    string           `json:"url,omitempty"`
}

// Trajectory is the trajectory.json record.
type Trajectory struct {
	TaskID string           `json:"task_id"`
	Steps  []TrajectoryStep `json:"steps"`
}
