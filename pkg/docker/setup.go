package docker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"testfold/pkg/errs"
)

// SetupOptions configures Setup. The callbacks are optional.
type SetupOptions struct {
	Build  BuildOptions
	Create CreateOptions

	OnBuildStart    func()
	OnBuildComplete func(time.Duration)
	OnBuildError    func(error)
}

// SetupResult reports how Setup left the environment. Built is set when the image had to be built.
type SetupResult struct {
	Status   SetupStatus   `json:"status"`
	Built    bool          `json:"built"`
	Duration time.Duration `json:"duration"`
}

// Setup idempotently brings the environment up: engine reachable, image built, container running.
// Engine, build, create and start failures are fatal and returned.
func (m *Manager) Setup(ctx context.Context, opts SetupOptions) (SetupResult, error) {
	start := time.Now()
	res := SetupResult{}

	if !m.IsDaemonReachable(ctx) {
		return res, errs.NewDockerDaemonUnavailableError("docker daemon is not reachable", nil)
	}

	if !m.IsImageBuilt(ctx) {
		if opts.OnBuildStart != nil {
			opts.OnBuildStart()
		}
		buildStart := time.Now()
		if err := m.Build(ctx, opts.Build); err != nil {
			if opts.OnBuildError != nil {
				opts.OnBuildError(err)
			}
			res.Duration = time.Since(start)
			return res, err
		}
		if opts.OnBuildComplete != nil {
			opts.OnBuildComplete(time.Since(buildStart))
		}
		res.Built = true
	}

	status, err := m.Start(ctx, opts.Create)
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}
	res.Status = status

	m.log.WithFields(logrus.Fields{
		"status":   status,
		"built":    res.Built,
		"duration": res.Duration.String(),
	}).Info("environment ready")
	return res, nil
}
