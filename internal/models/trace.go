package models

// Trace is what an agent run leaves behind. It is either a decoded history
// (TraceAvailable) or the raw text the agent printed (TraceUnavailable).
type Trace interface {
	isTrace()
}

// TraceAvailable wraps a structured execution history.
type TraceAvailable struct {
	History History
}

// TraceUnavailable carries the textual serialization of a history that could
// not be decoded.
type TraceUnavailable struct {
	Raw string
}

func (TraceAvailable) isTrace()   {}
func (TraceUnavailable) isTrace() {}

// History is the structured output of a browsing agent.
type History struct {
	Steps []Step `json:"history"`
	Usage *Usage `json:"usage,omitempty"`
}

// Step is one agent step: the model output, the action outcomes and the page
// the browser was on.
type Step struct {
	Metadata    *StepMetadata    `json:"metadata,omitempty"`
	ModelOutput *StepModelOutput `json:"model_output,omitempty"`
	Results     []Outcome        `json:"result"`
	State       *StepState       `json:"state,omitempty"`
}

type StepMetadata struct {
	StepNumber      *int     `json:"step_number,omitempty"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
}

type StepModelOutput struct {
	Thinking               string           `json:"thinking,omitempty"`
	EvaluationPreviousGoal string           `json:"evaluation_previous_goal,omitempty"`
	Memory                 string           `json:"memory,omitempty"`
	NextGoal               string           `json:"next_goal,omitempty"`
	Actions                []map[string]any `json:"action,omitempty"`
}

type StepState struct {
	URL string `json:"url,omitempty"`
}

// Outcome is the result of a single action.
type Outcome struct {
	IsDone           bool    `json:"is_done"`
	Success          *bool   `json:"success,omitempty"`
	ExtractedContent *string `json:"extracted_content,omitempty"`
	Error            *string `json:"error,omitempty"`
}

// Done reports whether any outcome of the step is terminal.
func (s Step) Done() bool {
	for _, r := range s.Results {
		if r.IsDone {
			return true
		}
	}
	return false
}

// Outcomes flattens all step outcomes in chronological order.
func (h History) Outcomes() []Outcome {
	var out []Outcome
	for _, s := range h.Steps {
		out = append(out, s.Results...)
	}
	return out
}
