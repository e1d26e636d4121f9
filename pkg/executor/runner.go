package executor

import (
	"context"
	"errors"
	"io"
	"os"
	osexec "os/exec"
	"runtime"
	"sort"
	"sync"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after the process is signalled.
const waitDelay = 500 * time.Millisecond

// RunSpec describes how a Runner should spawn one process.
type RunSpec struct {
	Dir       string
	Env       map[string]string
	MaxBuffer int
	// Stdout and Stderr, when set, get a live copy of the output.
	Stdout io.Writer
	Stderr io.Writer
}

// RunOutput is what a Runner observed for one process.
// ExitCode is -1 when the process never exited normally.
type RunOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
	Overflow bool
}

// Runner spawns a single command. It exists so tests can replace process spawning.
type Runner interface {
	Run(ctx context.Context, command string, spec RunSpec) RunOutput
}

// ShellRunner runs commands through the platform shell.
type ShellRunner struct {
	Shell     string
	ShellArgs []string
}

// NewShellRunner returns a runner using /bin/sh -c, or cmd /C on Windows.
func NewShellRunner() *ShellRunner {
	if runtime.GOOS == "windows" {
		return &ShellRunner{Shell: "cmd", ShellArgs: []string{"/C"}}
	}
	return &ShellRunner{Shell: "/bin/sh", ShellArgs: []string{"-c"}}
}

func (r *ShellRunner) Run(ctx context.Context, command string, spec RunSpec) RunOutput {
	args := append(append([]string{}, r.ShellArgs...), command)
	cmd := osexec.CommandContext(ctx, r.Shell, args...)
	cmd.Dir = spec.Dir
	cmd.Env = buildEnv(spec.Env)
	cmd.WaitDelay = waitDelay

	stdout := newCappedBuffer(spec.MaxBuffer)
	stderr := newCappedBuffer(spec.MaxBuffer)
	cmd.Stdout = tee(stdout, spec.Stdout)
	cmd.Stderr = tee(stderr, spec.Stderr)

	err := cmd.Run()

	out := RunOutput{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
		Overflow: stdout.Overflowed() || stderr.Overflowed(),
	}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}

	var exitErr *osexec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		out.Err = err
	}
	return out
}

func tee(capture, live io.Writer) io.Writer {
	if live == nil {
		return capture
	}
	return io.MultiWriter(capture, live)
}

// buildEnv returns nil (inherit) when there are no overrides.
func buildEnv(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := os.Environ()
	for _, k := range keys {
		env = append(env, k+"="+overrides[k])
	}
	return env
}

// cappedBuffer keeps at most max bytes and records whether more were written.
type cappedBuffer struct {
	mu       sync.Mutex
	buf      []byte
	max      int
	overflow bool
}

func newCappedBuffer(max int) *cappedBuffer {
	return &cappedBuffer{max: max}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max <= 0 {
		b.buf = append(b.buf, p...)
		return len(p), nil
	}

	room := b.max - len(b.buf)
	if room <= 0 {
		b.overflow = b.overflow || len(p) > 0
		return len(p), nil
	}
	if len(p) > room {
		b.buf = append(b.buf, p[:room]...)
		b.overflow = true
		return len(p), nil
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

func (b *cappedBuffer) Overflowed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overflow
}
