package config

import (
	"regexp"

	"testfold/pkg/errs"
)

// containerNamePattern is what the engine accepts for --name.
var containerNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// Validate returns the first violated constraint as *errs.ValidationError.
func (c Config) Validate() error {
	switch {
	case c.Detector.CacheTTL < 0:
		return errs.NewValidationError("detector.cache_ttl", c.Detector.CacheTTL.String(), "must not be negative")
	case c.Detector.CacheSize < 0:
		return errs.NewValidationError("detector.cache_size", c.Detector.CacheSize, "must not be negative")

	case c.Executor.Timeout < 0:
		return errs.NewValidationError("executor.timeout", c.Executor.Timeout.String(), "must not be negative")
	case c.Executor.Retries < 0:
		return errs.NewValidationError("executor.retries", c.Executor.Retries, "must not be negative")
	case c.Executor.RetryDelay < 0:
		return errs.NewValidationError("executor.retry_delay", c.Executor.RetryDelay.String(), "must not be negative")
	case c.Executor.BackoffMultiplier != 0 && c.Executor.BackoffMultiplier < 1:
		return errs.NewValidationError("executor.backoff_multiplier", c.Executor.BackoffMultiplier, "must be at least 1")
	case c.Executor.MaxRetryDelay < 0:
		return errs.NewValidationError("executor.max_retry_delay", c.Executor.MaxRetryDelay.String(), "must not be negative")
	case c.Executor.MaxBuffer < 0:
		return errs.NewValidationError("executor.max_buffer", c.Executor.MaxBuffer, "must not be negative")

	case c.Container.Image == "":
		return errs.NewValidationError("container.image", c.Container.Image, "must not be empty")
	case c.Container.Name == "":
		return errs.NewValidationError("container.name", c.Container.Name, "must not be empty")
	case !containerNamePattern.MatchString(c.Container.Name):
		return errs.NewValidationError("container.name", c.Container.Name, "must match [a-zA-Z0-9][a-zA-Z0-9_.-]*")
	case c.Container.BuildTimeout < 0:
		return errs.NewValidationError("container.build_timeout", c.Container.BuildTimeout.String(), "must not be negative")
	}

	if hc := c.Container.HealthCheck; hc != nil {
		if hc.Command == "" {
			return errs.NewValidationError("container.healthcheck.command", hc.Command, "must not be empty")
		}
		if hc.Retries < 0 {
			return errs.NewValidationError("container.healthcheck.retries", hc.Retries, "must not be negative")
		}
	}
	return nil
}
