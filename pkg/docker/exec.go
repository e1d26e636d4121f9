package docker

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"testfold/pkg/errs"
	"testfold/pkg/executor"
)

// engineFailureExit is what `docker exec` returns when the engine itself failed.
const engineFailureExit = 125

// ExecOptions configures a command run inside the container.
type ExecOptions struct {
	WorkDir string
	User    string
	Env     map[string]string
	// Shell runs the command; defaults to "sh".
	Shell   string
	Timeout time.Duration
}

// ExecResult is always populated, also when the inner command fails.
// DispatchError is set only when the command could not be delivered to the container
// (engine CLI missing, engine error, timeout, cancellation); an inner non-zero exit leaves it nil.
type ExecResult struct {
	Success       bool          `json:"success"`
	Stdout        string        `json:"stdout"`
	Stderr        string        `json:"stderr"`
	ExitCode      int           `json:"exitCode"`
	Duration      time.Duration `json:"duration"`
	DispatchError error         `json:"-"`
}

// Exec runs command through the container's shell. It fails with *errs.ContainerStartError
// when the container is not running; every other outcome is reported in the ExecResult.
func (m *Manager) Exec(ctx context.Context, command string, opts ExecOptions) (ExecResult, error) {
	if !m.IsContainerRunning(ctx) {
		return ExecResult{ExitCode: -1}, errs.NewContainerStartError(m.cfg.Container, "container is not running", nil)
	}

	args := []string{"exec"}
	if opts.WorkDir != "" {
		args = append(args, "-w", opts.WorkDir)
	}
	if opts.User != "" {
		args = append(args, "-u", opts.User)
	}
	for _, e := range sortedPairs(opts.Env, "=") {
		args = append(args, "-e", e)
	}
	shell := opts.Shell
	if shell == "" {
		shell = "sh"
	}
	args = append(args, m.cfg.Container, shell, "-c", command)

	res, err := m.runOnce(ctx, opts.Timeout, args...)
	out := ExecResult{
		Success:  err == nil,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: -1,
		Duration: res.Duration,
	}
	if res.ExitCode != nil {
		out.ExitCode = *res.ExitCode
	}
	if err != nil && isDispatchFailure(res, err, m.cfg.Binary) {
		out.DispatchError = err
	}

	m.log.WithFields(logrus.Fields{
		"command":  command,
		"exitCode": out.ExitCode,
		"dispatch": out.DispatchError != nil,
	}).Debug("exec finished")
	return out, nil
}

func isDispatchFailure(res executor.CommandResult, err error, binary string) bool {
	switch errs.CodeOf(err) {
	case errs.CodeCommandTimeout, errs.CodeCommandCancelled:
		return true
	case errs.CodeCommandNotFound:
		// 127 also comes back when the inner command is missing; only blame the engine CLI when it names itself.
		return res.ExitCode == nil || strings.Contains(res.Stderr, binary+":")
	}
	return res.ExitCode != nil && *res.ExitCode == engineFailureExit
}

// LogOptions selects the `docker logs` window.
type LogOptions struct {
	Tail       int
	Follow     bool
	Timestamps bool
	Since      string
	Until      string
	Timeout    time.Duration
	// Output receives the log stream as it arrives. Needed with Follow, which only ends on cancellation.
	Output io.Writer
}

// GetLogs returns the container output, or "" on any failure. Failures are logged, never returned.
// A followed stream that ends because ctx was cancelled is not a failure: what was read so far is returned.
func (m *Manager) GetLogs(ctx context.Context, opts LogOptions) string {
	args := []string{"logs"}
	if opts.Tail > 0 {
		args = append(args, "--tail", strconv.Itoa(opts.Tail))
	}
	if opts.Follow {
		args = append(args, "--follow")
	}
	if opts.Timestamps {
		args = append(args, "--timestamps")
	}
	if opts.Since != "" {
		args = append(args, "--since", opts.Since)
	}
	if opts.Until != "" {
		args = append(args, "--until", opts.Until)
	}
	args = append(args, m.cfg.Container)

	res, err := m.runWith(ctx, executor.Options{
		Timeout: opts.Timeout,
		NoRetry: opts.Follow,
		Stdout:  opts.Output,
		Stderr:  opts.Output,
	}, args...)
	if err != nil {
		if opts.Follow && errs.IsErrorCode(err, errs.CodeCommandCancelled) {
			return res.Stdout + res.Stderr
		}
		m.log.WithError(err).Warn("could not read container logs")
		return ""
	}
	return res.Stdout + res.Stderr
}
