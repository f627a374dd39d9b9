package models

// ErrorType identifies the category of error that occurred while running a task.
type ErrorType string

const (
	// Agent runtime could not be started
	ErrAgentStartFailed ErrorType = "agent_start_failed"

	// Agent ran but reported failure
	ErrAgentExecutionFailed ErrorType = "agent_execution_failed"

	// Run was interrupted
	ErrAgentCancelled ErrorType = "agent_cancelled"

	// Artifacts could not be written
	ErrArtifactWriteFailed ErrorType = "artifact_write_failed"

	// Catch-all
	ErrInternalError ErrorType = "internal_error"
)

// TaskError records why a task execution failed.
type TaskError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

func (e *TaskError) Error() string {
	return string(e.Type) + ": " + e.Message
}
