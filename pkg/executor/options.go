package executor

import (
	"io"
	"time"
)

const (
	DefaultTimeout           = 30 * time.Second
	DefaultRetries           = 0
	DefaultMaxBuffer         = 1024 * 1024
	DefaultRetryDelay        = 1 * time.Second
	DefaultBackoffMultiplier = 2.0
	DefaultMaxRetryDelay     = 30 * time.Second
)

// Options configures a single Execute call. Zero values fall back to the executor defaults.
type Options struct {
	Timeout           time.Duration
	Retries           int
	Dir               string
	Env               map[string]string
	MaxBuffer         int
	RetryDelay        time.Duration
	BackoffMultiplier float64
	MaxRetryDelay     time.Duration

	// NoRetry pins a single attempt, whatever Retries and the executor default say.
	NoRetry bool

	// Stdout and Stderr receive output while it is produced. The capture is unaffected.
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:           DefaultTimeout,
		Retries:           DefaultRetries,
		MaxBuffer:         DefaultMaxBuffer,
		RetryDelay:        DefaultRetryDelay,
		BackoffMultiplier: DefaultBackoffMultiplier,
		MaxRetryDelay:     DefaultMaxRetryDelay,
	}
}

// withDefaults fills every zero field of o from d. Env maps are merged with o winning.
func (o Options) withDefaults(d Options) Options {
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	switch {
	case o.NoRetry:
		o.Retries = 0
	case o.Retries <= 0:
		o.Retries = d.Retries
	}
	if o.Dir == "" {
		o.Dir = d.Dir
	}
	if o.MaxBuffer <= 0 {
		o.MaxBuffer = d.MaxBuffer
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = d.RetryDelay
	}
	if o.BackoffMultiplier < 1 {
		o.BackoffMultiplier = d.BackoffMultiplier
	}
	if o.MaxRetryDelay <= 0 {
		o.MaxRetryDelay = d.MaxRetryDelay
	}
	if len(d.Env) > 0 {
		env := make(map[string]string, len(d.Env)+len(o.Env))
		for k, v := range d.Env {
			env[k] = v
		}
		for k, v := range o.Env {
			env[k] = v
		}
		o.Env = env
	}
	return o
}
