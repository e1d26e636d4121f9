package config

import (
	"path/filepath"
	"strings"

	"testfold/pkg/docker"
	"testfold/pkg/executor"
	"testfold/pkg/logging"
)

// Options converts the logging section for logging.New.
func (c LoggingConfig) Options() logging.Options {
	return logging.Options{Level: c.Level, Format: c.Format, Output: c.Output}
}

// Options converts the executor section into executor defaults.
func (c ExecutorConfig) Options() executor.Options {
	return executor.Options{
		Timeout:           c.Timeout,
		Retries:           c.Retries,
		MaxBuffer:         c.MaxBuffer,
		RetryDelay:        c.RetryDelay,
		BackoffMultiplier: c.BackoffMultiplier,
		MaxRetryDelay:     c.MaxRetryDelay,
	}
}

func (c ContainerConfig) ManagerConfig() docker.Config {
	return docker.Config{
		Image:     c.Image,
		Container: c.Name,
	}
}

// BuildOptions resolves the build context and dockerfile against projectDir.
func (c ContainerConfig) BuildOptions(projectDir string) docker.BuildOptions {
	buildCtx := resolve(projectDir, c.Context)
	opts := docker.BuildOptions{
		Context:   buildCtx,
		CacheFrom: c.CacheFrom,
		BuildArgs: c.BuildArgs,
		Platform:  c.Platform,
		Target:    c.Target,
		Timeout:   c.BuildTimeout,
	}
	if c.Dockerfile != "" {
		opts.Dockerfile = resolve(buildCtx, c.Dockerfile)
	}
	return opts
}

// CreateOptions mounts projectDir at WorkDir on top of the configured volumes.
func (c ContainerConfig) CreateOptions(projectDir string) docker.CreateOptions {
	volumes := make(map[string]string, len(c.Volumes)+1)
	for host, target := range c.Volumes {
		// Bare names are engine volumes, not paths.
		if strings.HasPrefix(host, ".") {
			host = resolve(projectDir, host)
		}
		volumes[host] = target
	}
	if c.WorkDir != "" {
		volumes[projectDir] = c.WorkDir
	}

	envFiles := make([]string, len(c.EnvFiles))
	for i, f := range c.EnvFiles {
		envFiles[i] = resolve(projectDir, f)
	}

	opts := docker.CreateOptions{
		Ports:    c.Ports,
		Volumes:  volumes,
		Env:      c.Env,
		EnvFiles: envFiles,
		WorkDir:  c.WorkDir,
		User:     c.User,
		Hostname: c.Hostname,
		Network:  c.Network,
	}
	if hc := c.HealthCheck; hc != nil {
		opts.HealthCheck = &docker.HealthCheck{
			Command:     hc.Command,
			Interval:    hc.Interval,
			Timeout:     hc.Timeout,
			Retries:     hc.Retries,
			StartPeriod: hc.StartPeriod,
		}
	}
	return opts
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
