package executor

import (
	"context"
	"errors"
	osexec "os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"testfold/pkg/errs"
	"testfold/pkg/logging"
)

// CommandResult describes the outcome of Execute. It is populated on success and failure alike.
// ExitCode is nil when no attempt produced an exit status (timeout, spawn failure).
type CommandResult struct {
	Command  string        `json:"command"`
	Success  bool          `json:"success"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode *int          `json:"exitCode"`
	Duration time.Duration `json:"duration"`
	Attempts int           `json:"attempts"`
}

// Executor runs external commands with timeout, retry and bounded output capture.
// It holds no state across calls beyond its defaults.
type Executor struct {
	defaults Options
	runner   Runner
	log      logrus.FieldLogger
}

// New creates an Executor. A nil runner uses the platform shell; a nil logger discards output.
func New(defaults Options, runner Runner, log logrus.FieldLogger) *Executor {
	if runner == nil {
		runner = NewShellRunner()
	}
	return &Executor{
		defaults: defaults.withDefaults(DefaultOptions()),
		runner:   runner,
		log:      logging.OrDiscard(log).WithField("component", "executor"),
	}
}

// Defaults returns the options applied to zero fields of every call.
func (e *Executor) Defaults() Options {
	return e.defaults
}

// Execute runs command up to Retries+1 times and never panics on process failure.
// The returned error is nil exactly when result.Success is true; otherwise it is the
// classified error of the last attempt (*errs.CommandExecutionError, *errs.CommandTimeoutError,
// *errs.CommandNotFoundError or *errs.CommandCancelledError).
//
// Timeouts race the process against a timer. The process is signalled through its context
// and is assumed to exit; termination is not verified beyond the runner's wait delay.
func (e *Executor) Execute(ctx context.Context, command string, opts Options) (CommandResult, error) {
	opts = opts.withDefaults(e.defaults)
	start := time.Now()
	schedule := newBackoff(opts)

	result := CommandResult{Command: command}
	var lastErr error

	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 {
			delay := schedule.NextBackOff()
			e.log.WithFields(logrus.Fields{
				"command": command,
				"attempt": attempt + 1,
				"delay":   delay.String(),
			}).Debug("retrying command")

			select {
			case <-ctx.Done():
				result.Duration = time.Since(start)
				return result, errs.NewCommandCancelledError(command, ctx.Err())
			case <-time.After(delay):
			}
		}

		result.Attempts = attempt + 1
		out, err := e.attempt(ctx, command, opts)
		result.Stdout = out.Stdout
		result.Stderr = out.Stderr
		result.ExitCode = exitCodePtr(out)

		if err == nil {
			result.Success = true
			result.Duration = time.Since(start)
			return result, nil
		}
		lastErr = err

		if errs.IsErrorCode(err, errs.CodeCommandCancelled) {
			break
		}
	}

	result.Duration = time.Since(start)
	e.log.WithFields(logrus.Fields{
		"command":  command,
		"attempts": result.Attempts,
		"code":     errs.CodeOf(lastErr),
	}).Debug("command failed")
	return result, lastErr
}

type attemptOutcome struct {
	out     RunOutput
	elapsed time.Duration
}

func (e *Executor) attempt(ctx context.Context, command string, opts Options) (RunOutput, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	spec := RunSpec{
		Dir:       opts.Dir,
		Env:       opts.Env,
		MaxBuffer: opts.MaxBuffer,
		Stdout:    opts.Stdout,
		Stderr:    opts.Stderr,
	}
	started := time.Now()

	done := make(chan attemptOutcome, 1)
	go func() {
		out := e.runner.Run(attemptCtx, command, spec)
		done <- attemptOutcome{out: out, elapsed: time.Since(started)}
	}()

	select {
	case res := <-done:
		return res.out, classify(ctx, command, opts, res.out, res.elapsed)
	case <-attemptCtx.Done():
		out := RunOutput{ExitCode: -1}
		// Keep whatever the process wrote if it goes down within the runner's wait delay.
		select {
		case res := <-done:
			out.Stdout, out.Stderr = res.out.Stdout, res.out.Stderr
		case <-time.After(waitDelay):
		}
		if ctx.Err() != nil {
			return out, errs.NewCommandCancelledError(command, ctx.Err())
		}
		return out, errs.NewCommandTimeoutError(command, opts.Timeout, out.Stdout, out.Stderr)
	}
}

// notFoundMarkers are shell messages for a missing executable. They are consulted only
// after the structured signals (exec.ErrNotFound, exit codes 127 and 9009) did not decide.
var notFoundMarkers = []string{
	"command not found",
	": not found",
	"executable file not found",
	"is not recognized as an internal or external command",
}

func classify(ctx context.Context, command string, opts Options, out RunOutput, elapsed time.Duration) error {
	if ctx.Err() != nil {
		return errs.NewCommandCancelledError(command, ctx.Err())
	}
	if elapsed >= opts.Timeout {
		return errs.NewCommandTimeoutError(command, opts.Timeout, out.Stdout, out.Stderr)
	}
	if out.Err == nil && out.ExitCode == 0 && !out.Overflow {
		return nil
	}

	if errors.Is(out.Err, osexec.ErrNotFound) || out.ExitCode == 127 || out.ExitCode == 9009 {
		return errs.NewCommandNotFoundError(command, out.Stderr, out.Err)
	}
	if out.ExitCode != 0 {
		lower := strings.ToLower(out.Stderr)
		for _, marker := range notFoundMarkers {
			if strings.Contains(lower, marker) {
				return errs.NewCommandNotFoundError(command, out.Stderr, out.Err)
			}
		}
	}

	execErr := errs.NewCommandExecutionError(command, exitCodePtr(out), out.Stdout, out.Stderr, out.Err)
	if out.Overflow {
		execErr.WithContext("maxBuffer", opts.MaxBuffer)
		execErr.Message = "command output exceeded maxBuffer: " + command
	}
	return execErr
}

func exitCodePtr(out RunOutput) *int {
	if out.ExitCode < 0 {
		return nil
	}
	code := out.ExitCode
	return &code
}
