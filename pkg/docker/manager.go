package docker

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/sirupsen/logrus"

	"testfold/pkg/errs"
	"testfold/pkg/executor"
	"testfold/pkg/logging"
)

// DefaultBuildTimeout bounds `docker build` when BuildOptions.Timeout is zero.
const DefaultBuildTimeout = 10 * time.Minute

// CommandExecutor is the subset of *executor.Executor the Manager needs.
type CommandExecutor interface {
	Execute(ctx context.Context, command string, opts executor.Options) (executor.CommandResult, error)
}

// Config names the image and container a Manager owns.
type Config struct {
	Image     string
	Container string
	// Binary is the engine CLI, "docker" when empty.
	Binary string
	// Platform is the host OS used for platform defaults, runtime.GOOS when empty.
	Platform string
}

// Manager drives one image and one container through the engine CLI.
// It never spawns processes itself; every engine call goes through the CommandExecutor.
// Container state is only observed through probes and never cached between calls.
type Manager struct {
	cfg  Config
	exec CommandExecutor
	log  logrus.FieldLogger
}

// NewManager creates a Manager. A nil logger discards output.
func NewManager(cfg Config, exec CommandExecutor, log logrus.FieldLogger) *Manager {
	if cfg.Binary == "" {
		cfg.Binary = "docker"
	}
	if cfg.Platform == "" {
		cfg.Platform = runtime.GOOS
	}
	return &Manager{
		cfg:  cfg,
		exec: exec,
		log: logging.OrDiscard(log).WithFields(logrus.Fields{
			"component": "docker",
			"container": cfg.Container,
			"image":     cfg.Image,
		}),
	}
}

// Config returns the manager's configuration with defaults applied.
func (m *Manager) Config() Config {
	return m.cfg
}

func (m *Manager) command(args ...string) string {
	return shellescape.QuoteCommand(append([]string{m.cfg.Binary}, args...))
}

// run is for probes and idempotent calls; they follow the executor's retry default.
func (m *Manager) run(ctx context.Context, timeout time.Duration, args ...string) (executor.CommandResult, error) {
	return m.runWith(ctx, executor.Options{Timeout: timeout}, args...)
}

// runOnce makes exactly one attempt whatever the executor's retry default. Build, run, start,
// restart and exec go through it.
func (m *Manager) runOnce(ctx context.Context, timeout time.Duration, args ...string) (executor.CommandResult, error) {
	return m.runWith(ctx, executor.Options{Timeout: timeout, NoRetry: true}, args...)
}

func (m *Manager) runWith(ctx context.Context, opts executor.Options, args ...string) (executor.CommandResult, error) {
	cmd := m.command(args...)
	m.log.WithField("command", cmd).Debug("docker")
	return m.exec.Execute(ctx, cmd, opts)
}

// IsDaemonReachable reports whether the engine daemon answers. It says nothing about the container;
// see IsContainerRunning for that.
func (m *Manager) IsDaemonReachable(ctx context.Context) bool {
	_, err := m.run(ctx, 0, "info", "--format", "{{.ServerVersion}}")
	return err == nil
}

// IsImageBuilt reports whether the configured image exists locally.
func (m *Manager) IsImageBuilt(ctx context.Context) bool {
	res, err := m.run(ctx, 0, "images", "-q", m.cfg.Image)
	return err == nil && strings.TrimSpace(res.Stdout) != ""
}

// ContainerExists reports whether a container with the configured name exists in any state.
func (m *Manager) ContainerExists(ctx context.Context) bool {
	res, err := m.run(ctx, 0, "ps", "-a", "--filter", m.nameFilter(), "--format", "{{.Names}}")
	return err == nil && hasLine(res.Stdout, m.cfg.Container)
}

// IsContainerRunning reports whether the configured container is running.
// It does not consult GetContainerStatus; the two probes may disagree during transitions.
func (m *Manager) IsContainerRunning(ctx context.Context) bool {
	res, err := m.run(ctx, 0, "ps", "--filter", m.nameFilter(), "--filter", "status=running", "--format", "{{.Names}}")
	return err == nil && hasLine(res.Stdout, m.cfg.Container)
}

// GetContainerStatus inspects the container and maps its state, StatusUnknown on any failure.
func (m *Manager) GetContainerStatus(ctx context.Context) ContainerStatus {
	res, err := m.run(ctx, 0, "inspect", "--format", "{{.State.Status}}", m.cfg.Container)
	if err != nil {
		return StatusUnknown
	}
	return ParseContainerStatus(res.Stdout)
}

// Describe returns the observed descriptor of the managed container.
func (m *Manager) Describe(ctx context.Context) ContainerDescriptor {
	return ContainerDescriptor{
		Name:   m.cfg.Container,
		Image:  m.cfg.Image,
		Status: m.GetContainerStatus(ctx),
	}
}

func (m *Manager) nameFilter() string {
	return "name=^/" + m.cfg.Container + "$"
}

func hasLine(out, want string) bool {
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == want {
			return true
		}
	}
	return false
}

// reason picks the most useful one-line explanation of a failed engine call.
func reason(res executor.CommandResult, err error) string {
	if msg := strings.TrimSpace(res.Stderr); msg != "" {
		lines := strings.Split(msg, "\n")
		return strings.TrimSpace(lines[len(lines)-1])
	}
	var coded errs.Coded
	if errors.As(err, &coded) {
		return coded.Base().Message
	}
	if err != nil {
		return err.Error()
	}
	return "unknown failure"
}
