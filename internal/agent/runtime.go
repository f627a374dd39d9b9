// Package agent runs the browsing agent under test and decodes what it
// leaves behind.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spachava753/webmall-eval/internal/models"
)

// Environment variables passed to every agent run.
const (
	EnvMaxSteps = "WEBMALL_MAX_STEPS"
	EnvTaskID   = "WEBMALL_TASK_ID"
)

var (
	// ErrStartFailed is returned when the agent process could not be started.
	ErrStartFailed = errors.New("agent failed to start")
	// ErrExitStatus is returned when the agent exited with a non-zero code.
	ErrExitStatus = errors.New("agent exited with error")
)

// Runtime runs the agent on a single instruction. Run blocks until the agent
// exits or ctx is cancelled. A non-nil Result is returned whenever the agent
// process started, even if Run also returns an error.
type Runtime interface {
	// Name returns the runtime name (e.g., "command", "docker").
	Name() string

	Run(ctx context.Context, req Request) (*Result, error)
}

// Request is one agent invocation.
type Request struct {
	TaskID      string
	Instruction string
	MaxSteps    int
}

// Result is what the agent produced.
type Result struct {
	Trace    models.Trace
	Usage    *models.Usage
	Stdout   string
	Stderr   string
	ExitCode int
}

// New creates the runtime described by cfg.
func New(cfg models.AgentConfig) (Runtime, error) {
	switch cfg.Runtime {
	case "", models.RuntimeCommand:
		return NewCommandRuntime(cfg), nil
	case models.RuntimeCompose:
		return NewComposeRuntime(cfg), nil
	case models.RuntimeDocker:
		return NewDockerRuntime(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported agent runtime %q", cfg.Runtime)
	}
}

// requestEnv returns the variables describing req plus the configured ones.
func requestEnv(configured map[string]string, req Request) map[string]string {
	env := make(map[string]string, len(configured)+2)
	for k, v := range configured {
		env[k] = v
	}
	env[EnvTaskID] = req.TaskID
	env[EnvMaxSteps] = strconv.Itoa(req.MaxSteps)
	return env
}
