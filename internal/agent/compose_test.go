package agent

import (
	"slices"
	"testing"

	"github.com/spachava753/webmall-eval/internal/models"
)

func TestComposeArgs(t *testing.T) {
	rt := NewComposeRuntime(models.AgentConfig{
		ComposeFile: "docker-compose.yml",
		Service:     "browser-agent",
		Command:     "python run.py",
		WorkDir:     "/app",
		Env:         map[string]string{"MODEL": "gpt-4.1"},
	})

	got := rt.args(Request{TaskID: "task-1", MaxSteps: 50})
	want := []string{
		"compose", "-f", "docker-compose.yml", "exec", "-T",
		"-e", "MODEL=gpt-4.1",
		"-e", "WEBMALL_MAX_STEPS=50",
		"-e", "WEBMALL_TASK_ID=task-1",
		"-w", "/app",
		"browser-agent", "sh", "-c", "python run.py",
	}
	if !slices.Equal(got, want) {
		t.Errorf("args() =\n%v\nwant\n%v", got, want)
	}
}

func TestComposeArgsMinimal(t *testing.T) {
	rt := NewComposeRuntime(models.AgentConfig{Service: "agent", Command: "run"})

	got := rt.args(Request{TaskID: "t", MaxSteps: 1})
	want := []string{
		"compose", "exec", "-T",
		"-e", "WEBMALL_MAX_STEPS=1",
		"-e", "WEBMALL_TASK_ID=t",
		"agent", "sh", "-c", "run",
	}
	if !slices.Equal(got, want) {
		t.Errorf("args() =\n%v\nwant\n%v", got, want)
	}
}

func TestDockerExecOptions(t *testing.T) {
	rt := NewDockerRuntime(models.AgentConfig{
		Container: "webmall-agent",
		Command:   "python run.py",
		WorkDir:   "/app",
		Env:       map[string]string{"MODEL": "gpt-4.1"},
	})

	opts := rt.execOptions(Request{TaskID: "task-1", MaxSteps: 50})

	if !slices.Equal(opts.Cmd, []string{"sh", "-c", "python run.py"}) {
		t.Errorf("Cmd = %v", opts.Cmd)
	}
	wantEnv := []string{"MODEL=gpt-4.1", "WEBMALL_MAX_STEPS=50", "WEBMALL_TASK_ID=task-1"}
	if !slices.Equal(opts.Env, wantEnv) {
		t.Errorf("Env = %v, want %v", opts.Env, wantEnv)
	}
	if opts.WorkingDir != "/app" {
		t.Errorf("WorkingDir = %q", opts.WorkingDir)
	}
	if !opts.AttachStdin || !opts.AttachStdout || !opts.AttachStderr {
		t.Error("expected stdin, stdout and stderr to be attached")
	}
	if opts.Tty {
		t.Error("expected no tty so output stays multiplexed")
	}
}
