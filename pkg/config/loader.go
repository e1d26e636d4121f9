package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"testfold/pkg/errs"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir

// Load layers the built-in defaults, the user file and the project file, in that order.
// Missing files are skipped. The user layer is also skipped when the home directory is unknown.
func Load(projectDir string) (Config, error) {
	cfg := Default()

	paths := []string{ProjectConfigPath(projectDir)}
	if userPath, err := UserConfigPath(); err == nil {
		paths = append([]string{userPath}, paths...)
	}

	for _, path := range paths {
		layer, err := LoadFile(path)
		if err != nil {
			if errs.IsErrorCode(err, errs.CodeFileNotFound) {
				continue
			}
			return Config{}, err
		}
		cfg = merge(cfg, layer)
	}
	return cfg, nil
}

// UserConfigPath is ~/.config/testfold/config.yaml.
func UserConfigPath() (string, error) {
	home, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, UserConfigDir, ConfigFileName), nil
}

// ProjectConfigPath is <project>/.testfold/config.yaml.
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(projectDir, ProjectConfigDir, ConfigFileName)
}

// LoadFile reads a single config layer. A missing file yields *errs.FileNotFoundError,
// an unreadable or unparsable one *errs.FileError.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, errs.NewFileNotFoundError(path)
		}
		return Config{}, errs.NewFileError(path, "read config", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errs.NewFileError(path, "parse config", err)
	}
	return cfg, nil
}

// merge overlays the non-zero fields of overlay onto base. Maps are merged key by key.
func merge(base, overlay Config) Config {
	d, o := &base.Detector, overlay.Detector
	if o.CacheTTL != 0 {
		d.CacheTTL = o.CacheTTL
	}
	if o.CacheSize != 0 {
		d.CacheSize = o.CacheSize
	}

	e, oe := &base.Executor, overlay.Executor
	if oe.Timeout != 0 {
		e.Timeout = oe.Timeout
	}
	if oe.Retries != 0 {
		e.Retries = oe.Retries
	}
	if oe.RetryDelay != 0 {
		e.RetryDelay = oe.RetryDelay
	}
	if oe.BackoffMultiplier != 0 {
		e.BackoffMultiplier = oe.BackoffMultiplier
	}
	if oe.MaxRetryDelay != 0 {
		e.MaxRetryDelay = oe.MaxRetryDelay
	}
	if oe.MaxBuffer != 0 {
		e.MaxBuffer = oe.MaxBuffer
	}

	base.Container = mergeContainer(base.Container, overlay.Container)

	l, ol := &base.Logging, overlay.Logging
	if ol.Level != "" {
		l.Level = ol.Level
	}
	if ol.Format != "" {
		l.Format = ol.Format
	}
	if ol.Output != "" {
		l.Output = ol.Output
	}
	return base
}

func mergeContainer(base, o ContainerConfig) ContainerConfig {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&base.Image, o.Image},
		{&base.Name, o.Name},
		{&base.Dockerfile, o.Dockerfile},
		{&base.Context, o.Context},
		{&base.Platform, o.Platform},
		{&base.Target, o.Target},
		{&base.Network, o.Network},
		{&base.WorkDir, o.WorkDir},
		{&base.User, o.User},
		{&base.Hostname, o.Hostname},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}

	if o.BuildTimeout != 0 {
		base.BuildTimeout = o.BuildTimeout
	}
	if len(o.CacheFrom) > 0 {
		base.CacheFrom = o.CacheFrom
	}
	if len(o.EnvFiles) > 0 {
		base.EnvFiles = o.EnvFiles
	}
	if o.HealthCheck != nil {
		base.HealthCheck = o.HealthCheck
	}
	base.BuildArgs = mergeMap(base.BuildArgs, o.BuildArgs)
	base.Env = mergeMap(base.Env, o.Env)
	base.Ports = mergeMap(base.Ports, o.Ports)
	base.Volumes = mergeMap(base.Volumes, o.Volumes)
	return base
}

func mergeMap(base, overlay map[string]string) map[string]string {
	if len(overlay) == 0 {
		return base
	}
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
