package docker

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"testfold/pkg/errs"
)

// BuildOptions parameterizes `docker build`. Zero fields are omitted from the invocation.
type BuildOptions struct {
	// Tags default to the configured image.
	Tags       []string
	Dockerfile string
	// Context defaults to ".".
	Context   string
	CacheFrom []string
	BuildArgs map[string]string
	Platform  string
	Target    string
	// Timeout defaults to DefaultBuildTimeout.
	Timeout time.Duration
}

func (m *Manager) buildArgs(opts BuildOptions) []string {
	tags := opts.Tags
	if len(tags) == 0 {
		tags = []string{m.cfg.Image}
	}

	args := []string{"build"}
	for _, t := range tags {
		args = append(args, "-t", t)
	}
	if opts.Dockerfile != "" {
		args = append(args, "-f", opts.Dockerfile)
	}
	for _, c := range opts.CacheFrom {
		args = append(args, "--cache-from", c)
	}

	keys := make([]string, 0, len(opts.BuildArgs))
	for k := range opts.BuildArgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--build-arg", k+"="+opts.BuildArgs[k])
	}

	if opts.Platform != "" {
		args = append(args, "--platform", opts.Platform)
	}
	if opts.Target != "" {
		args = append(args, "--target", opts.Target)
	}
	return append(args, buildContext(opts))
}

func buildContext(opts BuildOptions) string {
	if opts.Context == "" {
		return "."
	}
	return opts.Context
}

// Build builds the image. Failure is fatal and returned as *errs.ImageBuildError.
func (m *Manager) Build(ctx context.Context, opts BuildOptions) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultBuildTimeout
	}

	start := time.Now()
	res, err := m.runOnce(ctx, timeout, m.buildArgs(opts)...)
	if err != nil {
		return errs.NewImageBuildError(buildContext(opts), reason(res, err), err)
	}

	m.log.WithFields(logrus.Fields{
		"context":  buildContext(opts),
		"duration": time.Since(start).String(),
	}).Info("image built")
	return nil
}
