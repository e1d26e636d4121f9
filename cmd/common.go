package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"testfold/pkg/config"
	"testfold/pkg/detector"
	"testfold/pkg/docker"
	"testfold/pkg/executor"
	"testfold/pkg/logging"
	"testfold/pkg/util"
)

// runtimeEnv is what every command needs, built once per invocation.
type runtimeEnv struct {
	project string
	cfg     config.Config
	log     *logrus.Logger
	exec    *executor.Executor
}

// projectArg returns the first positional argument, "." when absent.
func projectArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// setup validates the project path, loads and validates config, and wires the logger and executor.
func setup(projectPath string) (*runtimeEnv, error) {
	project, err := util.ValidateProjectPath(projectPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(project)
	if err != nil {
		return nil, err
	}
	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logging.New(cfg.Logging.Options())
	return &runtimeEnv{
		project: project,
		cfg:     cfg,
		log:     log,
		exec:    executor.New(cfg.Executor.Options(), nil, log),
	}, nil
}

func (e *runtimeEnv) suite() *detector.Suite {
	return detector.NewSuite(detector.SuiteOptions{
		CacheTTL:  e.cfg.Detector.CacheTTL,
		CacheSize: e.cfg.Detector.CacheSize,
		Logger:    e.log,
	})
}

func (e *runtimeEnv) manager() *docker.Manager {
	return docker.NewManager(e.cfg.Container.ManagerConfig(), e.exec, e.log)
}

func (e *runtimeEnv) setupOptions() docker.SetupOptions {
	return docker.SetupOptions{
		Build:  e.cfg.Container.BuildOptions(e.project),
		Create: e.cfg.Container.CreateOptions(e.project),
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
