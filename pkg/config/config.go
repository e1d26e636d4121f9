package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the merged testfold configuration. Durations are written as strings ("30s", "5m").
type Config struct {
	Detector  DetectorConfig  `yaml:"detector"`
	Executor  ExecutorConfig  `yaml:"executor"`
	Container ContainerConfig `yaml:"container"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type DetectorConfig struct {
	CacheTTL  time.Duration `yaml:"cache_ttl,omitempty"`
	CacheSize int           `yaml:"cache_size,omitempty"`
}

type ExecutorConfig struct {
	Timeout           time.Duration `yaml:"timeout,omitempty"`
	Retries           int           `yaml:"retries,omitempty"`
	RetryDelay        time.Duration `yaml:"retry_delay,omitempty"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier,omitempty"`
	MaxRetryDelay     time.Duration `yaml:"max_retry_delay,omitempty"`
	MaxBuffer         int           `yaml:"max_buffer,omitempty"`
}

// ContainerConfig describes the image and the long-running container tests execute in.
type ContainerConfig struct {
	Image        string        `yaml:"image,omitempty"`
	Name         string        `yaml:"name,omitempty"`
	Dockerfile   string        `yaml:"dockerfile,omitempty"`
	Context      string        `yaml:"context,omitempty"`
	BuildTimeout time.Duration `yaml:"build_timeout,omitempty"`
	BuildArgs    map[string]string `yaml:"build_args,omitempty"`
	CacheFrom    []string      `yaml:"cache_from,omitempty"`
	Platform     string        `yaml:"platform,omitempty"`
	Target       string        `yaml:"target,omitempty"`
	Network      string        `yaml:"network,omitempty"`
	WorkDir      string        `yaml:"workdir,omitempty"`
	User         string        `yaml:"user,omitempty"`
	Hostname     string        `yaml:"hostname,omitempty"`
	Env          map[string]string `yaml:"env,omitempty"`
	EnvFiles     []string      `yaml:"env_files,omitempty"`
	// Ports maps host port to container port.
	Ports map[string]string `yaml:"ports,omitempty"`
	// Volumes maps host path to container path. The project is always mounted at WorkDir.
	Volumes     map[string]string  `yaml:"volumes,omitempty"`
	HealthCheck *HealthCheckConfig `yaml:"healthcheck,omitempty"`
}

type HealthCheckConfig struct {
	Command     string        `yaml:"command"`
	Interval    time.Duration `yaml:"interval,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	Retries     int           `yaml:"retries,omitempty"`
	StartPeriod time.Duration `yaml:"start_period,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	// Output is "stdout", "stderr" or a file path.
	Output string `yaml:"output,omitempty"`
}

// YAML renders the configuration the way it would be written to a config file.
func (c Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
