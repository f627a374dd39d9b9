package agent

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spachava753/webmall-eval/internal/models"
)

// CommandRuntime runs the agent as a local shell command.
type CommandRuntime struct {
	command string
	workDir string
	env     map[string]string
}

// NewCommandRuntime creates a runtime running cfg.Command with sh -c.
func NewCommandRuntime(cfg models.AgentConfig) *CommandRuntime {
	return &CommandRuntime{
		command: cfg.Command,
		workDir: cfg.WorkDir,
		env:     cfg.Env,
	}
}

func (r *CommandRuntime) Name() string {
	return string(models.RuntimeCommand)
}

// Run executes the command with the instruction on stdin. The process
// inherits the current environment.
func (r *CommandRuntime) Run(ctx context.Context, req Request) (*Result, error) {
	env := os.Environ()
	env = append(env, envList(requestEnv(r.env, req))...)
	return run(ctx, "sh", []string{"-c", r.command}, r.workDir, env, req.Instruction)
}

// envList formats env as sorted KEY=VALUE entries.
func envList(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}
