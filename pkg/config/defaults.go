package config

import "time"

// Timeouts & Durations
const (
	// DefaultCacheTTL is how long a detection result stays valid
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCommandTimeout is the per-attempt timeout for local commands
	DefaultCommandTimeout = 30 * time.Second

	// DefaultRetryDelay is the delay before the first retry
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay caps the exponential retry delay
	DefaultMaxRetryDelay = 30 * time.Second

	// DefaultBuildTimeout bounds an image build
	DefaultBuildTimeout = 10 * time.Minute

	// DefaultHealthInterval is the polling interval while waiting for a healthy container
	DefaultHealthInterval = 2 * time.Second

	// DefaultTestTimeout bounds a test run inside the container
	DefaultTestTimeout = 30 * time.Minute

	// DefaultHealthWait is how long `env setup` waits for the container to become healthy
	DefaultHealthWait = 2 * time.Minute
)

// Sizes & Counts
const (
	// DefaultCacheSize is the number of project paths kept in each detector cache
	DefaultCacheSize = 256

	// DefaultRetries is the number of retries after the first attempt
	DefaultRetries = 0

	// DefaultBackoffMultiplier grows the retry delay between attempts
	DefaultBackoffMultiplier = 2.0

	// DefaultMaxBuffer caps captured stdout and stderr, each
	DefaultMaxBuffer = 1024 * 1024
)

// Container Defaults
const (
	// DefaultImage is the image tag built for the test environment
	DefaultImage = "testfold-env:latest"

	// DefaultContainerName is the name of the long-running test container
	DefaultContainerName = "testfold-env"

	// DefaultDockerfile is resolved relative to the build context
	DefaultDockerfile = "Dockerfile"

	// DefaultBuildContext is the project directory
	DefaultBuildContext = "."

	// DefaultWorkDir is where the project is mounted inside the container
	DefaultWorkDir = "/workspace"
)

// Logging Defaults
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultLogOutput = "stderr"
)

// Path Constants
const (
	// UserConfigDir is relative to the home directory
	UserConfigDir = ".config/testfold"

	// ProjectConfigDir is relative to the project root
	ProjectConfigDir = ".testfold"

	// ConfigFileName is the file looked up in both directories
	ConfigFileName = "config.yaml"
)

// Default returns the built-in configuration, the lowest layer of Load.
func Default() Config {
	return Config{
		Detector: DetectorConfig{
			CacheTTL:  DefaultCacheTTL,
			CacheSize: DefaultCacheSize,
		},
		Executor: ExecutorConfig{
			Timeout:           DefaultCommandTimeout,
			Retries:           DefaultRetries,
			RetryDelay:        DefaultRetryDelay,
			BackoffMultiplier: DefaultBackoffMultiplier,
			MaxRetryDelay:     DefaultMaxRetryDelay,
			MaxBuffer:         DefaultMaxBuffer,
		},
		Container: ContainerConfig{
			Image:        DefaultImage,
			Name:         DefaultContainerName,
			Dockerfile:   DefaultDockerfile,
			Context:      DefaultBuildContext,
			BuildTimeout: DefaultBuildTimeout,
			WorkDir:      DefaultWorkDir,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: DefaultLogOutput,
		},
	}
}
