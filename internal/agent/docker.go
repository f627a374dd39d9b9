package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/spachava753/webmall-eval/internal/models"
)

// DockerRuntime runs the agent inside an already running container through
// the Docker Engine API. The daemon is located with the standard DOCKER_*
// environment variables.
type DockerRuntime struct {
	container string
	command   string
	workDir   string
	env       map[string]string
}

// NewDockerRuntime creates a runtime for cfg.Container.
func NewDockerRuntime(cfg models.AgentConfig) *DockerRuntime {
	return &DockerRuntime{
		container: cfg.Container,
		command:   cfg.Command,
		workDir:   cfg.WorkDir,
		env:       cfg.Env,
	}
}

func (r *DockerRuntime) Name() string {
	return string(models.RuntimeDocker)
}

// Run creates an exec instance in the container, streams the instruction to
// its stdin and waits for the output stream to close.
func (r *DockerRuntime) Run(ctx context.Context, req Request) (*Result, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("%w: creating docker client: %w", ErrStartFailed, err)
	}
	defer cli.Close()

	created, err := cli.ContainerExecCreate(ctx, r.container, r.execOptions(req))
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("running agent: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: creating exec in %s: %w", ErrStartFailed, r.container, err)
	}

	hijacked, err := cli.ContainerExecAttach(ctx, created.ID, container.ExecStartOptions{})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("running agent: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: attaching to exec %s: %w", ErrStartFailed, created.ID, err)
	}
	defer hijacked.Close()

	// The attached stream ignores ctx once established.
	stop := context.AfterFunc(ctx, hijacked.Close)
	defer stop()

	go func() {
		if _, err := io.Copy(hijacked.Conn, strings.NewReader(req.Instruction)); err != nil {
			slog.Debug("writing instruction to exec", "exec_id", created.ID, "error", err)
		}
		_ = hijacked.CloseWrite()
	}()

	var stdout, stderr bytes.Buffer
	_, copyErr := stdcopy.StdCopy(&stdout, &stderr, hijacked.Reader)
	if ctx.Err() != nil {
		return nil, fmt.Errorf("running agent: %w", ctx.Err())
	}
	if copyErr != nil {
		return nil, fmt.Errorf("reading agent output: %w", copyErr)
	}

	inspect, err := cli.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("inspecting exec %s: %w", created.ID, err)
	}

	res := newResult(stdout.String(), stderr.String(), inspect.ExitCode)
	if inspect.ExitCode != 0 {
		return res, exitError(res)
	}
	return res, nil
}

func (r *DockerRuntime) execOptions(req Request) container.ExecOptions {
	return container.ExecOptions{
		Cmd:          []string{"sh", "-c", r.command},
		Env:          envList(requestEnv(r.env, req)),
		WorkingDir:   r.workDir,
		AttachStdin:  true,
		AttachStdout: true,
		AttachStderr: true,
	}
}
