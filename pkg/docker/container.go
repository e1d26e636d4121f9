package docker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"testfold/pkg/errs"
)

// HealthCheck is passed to `docker run` as --health-* flags.
type HealthCheck struct {
	Command     string
	Interval    time.Duration
	Timeout     time.Duration
	Retries     int
	StartPeriod time.Duration
}

// CreateOptions parameterizes `docker run`. The container always runs detached.
type CreateOptions struct {
	// Image defaults to the configured image.
	Image string
	// Ports maps host port to container port.
	Ports map[string]string
	// Volumes maps host path to container path.
	Volumes     map[string]string
	Env         map[string]string
	EnvFiles    []string
	WorkDir     string
	User        string
	Hostname    string
	Interactive bool
	TTY         bool
	AutoRemove  bool
	// Network defaults to "host" on linux and to the engine default elsewhere.
	Network     string
	HealthCheck *HealthCheck
	// Command keeps the container alive; defaults to `tail -f /dev/null`.
	Command []string
	Timeout time.Duration
}

func sortedPairs(m map[string]string, sep string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k + sep + m[k]
	}
	return out
}

// defaultNetwork is host mode on linux only; other platforms keep the engine default.
func (m *Manager) defaultNetwork() string {
	if m.cfg.Platform == "linux" {
		return "host"
	}
	return ""
}

func (m *Manager) runArgs(opts CreateOptions) []string {
	args := []string{"run", "--name", m.cfg.Container, "-d"}
	if opts.AutoRemove {
		args = append(args, "--rm")
	}
	for _, p := range sortedPairs(opts.Ports, ":") {
		args = append(args, "-p", p)
	}
	for _, v := range sortedPairs(opts.Volumes, ":") {
		args = append(args, "-v", v)
	}
	for _, e := range sortedPairs(opts.Env, "=") {
		args = append(args, "-e", e)
	}
	for _, f := range opts.EnvFiles {
		args = append(args, "--env-file", f)
	}
	if opts.WorkDir != "" {
		args = append(args, "-w", opts.WorkDir)
	}
	if opts.User != "" {
		args = append(args, "-u", opts.User)
	}
	if opts.Hostname != "" {
		args = append(args, "-h", opts.Hostname)
	}
	if opts.Interactive {
		args = append(args, "-i")
	}
	if opts.TTY {
		args = append(args, "-t")
	}

	network := opts.Network
	if network == "" {
		network = m.defaultNetwork()
	}
	if network != "" {
		args = append(args, "--network", network)
	}

	if hc := opts.HealthCheck; hc != nil && hc.Command != "" {
		args = append(args, "--health-cmd", hc.Command)
		if hc.Interval > 0 {
			args = append(args, "--health-interval", hc.Interval.String())
		}
		if hc.Timeout > 0 {
			args = append(args, "--health-timeout", hc.Timeout.String())
		}
		if hc.Retries > 0 {
			args = append(args, "--health-retries", fmt.Sprint(hc.Retries))
		}
		if hc.StartPeriod > 0 {
			args = append(args, "--health-start-period", hc.StartPeriod.String())
		}
	}

	image := opts.Image
	if image == "" {
		image = m.cfg.Image
	}
	args = append(args, image)

	command := opts.Command
	if len(command) == 0 {
		command = []string{"tail", "-f", "/dev/null"}
	}
	return append(args, command...)
}

// Create runs a new container. It fails with *errs.ContainerAlreadyExistsError when the name is taken,
// *errs.FileError when an env file cannot be read and *errs.ContainerStartError when the engine refuses.
func (m *Manager) Create(ctx context.Context, opts CreateOptions) error {
	if m.ContainerExists(ctx) {
		return errs.NewContainerAlreadyExistsError(m.cfg.Container)
	}

	for _, f := range opts.EnvFiles {
		if _, err := godotenv.Read(f); err != nil {
			return errs.NewFileError(f, "read env file", err)
		}
	}

	res, err := m.runOnce(ctx, opts.Timeout, m.runArgs(opts)...)
	if err != nil {
		return errs.NewContainerStartError(m.cfg.Container, reason(res, err), err)
	}
	m.log.Info("container created")
	return nil
}

// Start makes sure the container runs: no-op when already running, Create when it does not exist,
// `docker start` otherwise.
func (m *Manager) Start(ctx context.Context, opts CreateOptions) (SetupStatus, error) {
	if m.IsContainerRunning(ctx) {
		return SetupRunning, nil
	}
	if !m.ContainerExists(ctx) {
		if err := m.Create(ctx, opts); err != nil {
			return "", err
		}
		return SetupCreated, nil
	}

	res, err := m.runOnce(ctx, opts.Timeout, "start", m.cfg.Container)
	if err != nil {
		return "", errs.NewContainerStartError(m.cfg.Container, reason(res, err), err)
	}
	m.log.Info("container started")
	return SetupStarted, nil
}

// Stop stops a running container. Failures are logged and reported in the Outcome only.
func (m *Manager) Stop(ctx context.Context) Outcome {
	start := time.Now()
	if !m.IsContainerRunning(ctx) {
		return Outcome{Op: "stop", Skipped: true, Severity: errs.Advisory, Duration: time.Since(start)}
	}

	res, err := m.run(ctx, 0, "stop", m.cfg.Container)
	return m.advisory("stop", start, res.Stderr, err)
}

// Remove removes the container, forcing removal of a running one when force is set.
// Failures are logged and reported in the Outcome only.
func (m *Manager) Remove(ctx context.Context, force bool) Outcome {
	start := time.Now()
	if !m.ContainerExists(ctx) {
		return Outcome{Op: "remove", Skipped: true, Severity: errs.Advisory, Duration: time.Since(start)}
	}

	args := []string{"rm"}
	if force {
		args = append(args, "-f")
	}
	res, err := m.run(ctx, 0, append(args, m.cfg.Container)...)
	return m.advisory("remove", start, res.Stderr, err)
}

// Restart restarts an existing container.
func (m *Manager) Restart(ctx context.Context) error {
	if !m.ContainerExists(ctx) {
		return errs.NewContainerNotFoundError(m.cfg.Container)
	}
	res, err := m.runOnce(ctx, 0, "restart", m.cfg.Container)
	if err != nil {
		return errs.NewContainerStartError(m.cfg.Container, reason(res, err), err)
	}
	return nil
}

// Teardown stops and force-removes the container. Both steps are advisory.
func (m *Manager) Teardown(ctx context.Context) []Outcome {
	return []Outcome{m.Stop(ctx), m.Remove(ctx, true)}
}

func (m *Manager) advisory(op string, start time.Time, stderr string, err error) Outcome {
	out := Outcome{Op: op, Severity: errs.Advisory, Err: err, Duration: time.Since(start)}
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"op":     op,
			"stderr": stderr,
		}).WithError(err).Warn("container cleanup failed")
	}
	return out
}
