package agent

import (
	"context"
	"os"

	"github.com/spachava753/webmall-eval/internal/models"
)

// ComposeRuntime runs the agent inside an already running docker compose
// service.
type ComposeRuntime struct {
	composeFile string
	service     string
	command     string
	workDir     string
	env         map[string]string
}

// NewComposeRuntime creates a runtime for cfg.Service.
func NewComposeRuntime(cfg models.AgentConfig) *ComposeRuntime {
	return &ComposeRuntime{
		composeFile: cfg.ComposeFile,
		service:     cfg.Service,
		command:     cfg.Command,
		workDir:     cfg.WorkDir,
		env:         cfg.Env,
	}
}

func (r *ComposeRuntime) Name() string {
	return string(models.RuntimeCompose)
}

// Run executes the command with docker compose exec. Only the configured and
// per-task variables are passed into the service.
func (r *ComposeRuntime) Run(ctx context.Context, req Request) (*Result, error) {
	return run(ctx, "docker", r.args(req), "", os.Environ(), req.Instruction)
}

func (r *ComposeRuntime) args(req Request) []string {
	args := []string{"compose"}
	if r.composeFile != "" {
		args = append(args, "-f", r.composeFile)
	}
	args = append(args, "exec", "-T")

	for _, kv := range envList(requestEnv(r.env, req)) {
		args = append(args, "-e", kv)
	}

	if r.workDir != "" {
		args = append(args, "-w", r.workDir)
	}

	return append(args, r.service, "sh", "-c", r.command)
}
