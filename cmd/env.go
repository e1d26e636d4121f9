package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"testfold/cmd/ui/spinner"
	"testfold/pkg/config"
	"testfold/pkg/detector"
	"testfold/pkg/docker"
	"testfold/pkg/runtime"
	"testfold/pkg/util"
)

var (
	envProjectFlag string

	execWorkDirFlag string
	execUserFlag    string
	execEnvFlag     map[string]string
	execEnvFileFlag []string
	execTimeoutFlag time.Duration

	logsTailFlag       int
	logsFollowFlag     bool
	logsTimestampsFlag bool
	logsSinceFlag      string
	logsUntilFlag      string

	rmForceFlag bool

	envLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	envValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	envSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	envWarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage the local test container",
	Long: `Manage the image and the long-running container tests execute in.

The image and container names and the run options come from the "container"
section of the configuration.`,
}

var envSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Build the image if needed and make sure the container runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(envProjectFlag)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		res, err := bringUp(ctx, env, nil)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}
		return nil
	},
}

var envStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show engine, image and container state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(envProjectFlag)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		m := env.manager()
		status := struct {
			Engine    bool                       `json:"engine"`
			Image     bool                       `json:"imageBuilt"`
			Container docker.ContainerDescriptor `json:"container"`
			Health    docker.HealthStatus        `json:"health"`
		}{
			Engine: m.IsDaemonReachable(ctx),
		}
		if status.Engine {
			status.Image = m.IsImageBuilt(ctx)
			status.Container = m.Describe(ctx)
			status.Health = m.Health(ctx)
		} else {
			status.Container = docker.ContainerDescriptor{
				Name:   env.cfg.Container.Name,
				Image:  env.cfg.Container.Image,
				Status: docker.StatusUnknown,
			}
			status.Health = docker.HealthNone
		}

		if jsonOutput {
			return printJSON(status)
		}

		fmt.Printf("  %s %s\n", envLabelStyle.Render("Engine:   "), yesNo(status.Engine, "reachable", "unreachable"))
		fmt.Printf("  %s %s %s\n", envLabelStyle.Render("Image:    "), envValueStyle.Render(status.Container.Image),
			yesNo(status.Image, "built", "not built"))
		fmt.Printf("  %s %s %s\n", envLabelStyle.Render("Container:"), envValueStyle.Render(status.Container.Name),
			envValueStyle.Render(string(status.Container.Status)))
		if status.Health != docker.HealthNone {
			fmt.Printf("  %s %s\n", envLabelStyle.Render("Health:   "), envValueStyle.Render(string(status.Health)))
		}
		return nil
	},
}

var envExecCmd = &cobra.Command{
	Use:   "exec -- COMMAND [ARGS...]",
	Short: "Run a command inside the running container",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(envProjectFlag)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		opts, err := execOptions(env.cfg.Container)
		if err != nil {
			return err
		}

		res, err := env.manager().Exec(ctx, strings.Join(args, " "), opts)
		if err != nil {
			return err
		}
		return reportExec(res)
	},
}

var envLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the container output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(envProjectFlag)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		opts := docker.LogOptions{
			Tail:       logsTailFlag,
			Follow:     logsFollowFlag,
			Timestamps: logsTimestampsFlag,
			Since:      logsSinceFlag,
			Until:      logsUntilFlag,
		}
		if logsFollowFlag {
			// Followed logs end on interrupt, not on the executor timeout.
			opts.Timeout = 24 * time.Hour
			opts.Output = os.Stdout
			env.manager().GetLogs(ctx, opts)
			return nil
		}
		fmt.Print(env.manager().GetLogs(ctx, opts))
		return nil
	},
}

var envStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the container",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdvisory(func(ctx context.Context, m *docker.Manager) []docker.Outcome {
			return []docker.Outcome{m.Stop(ctx)}
		})
	},
}

var envRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove the container",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdvisory(func(ctx context.Context, m *docker.Manager) []docker.Outcome {
			return []docker.Outcome{m.Remove(ctx, rmForceFlag)}
		})
	},
}

var envDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop and remove the container",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdvisory(func(ctx context.Context, m *docker.Manager) []docker.Outcome {
			return m.Teardown(ctx)
		})
	},
}

var envRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the container",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(envProjectFlag)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		if err := env.manager().Restart(ctx); err != nil {
			return err
		}
		fmt.Println(envSuccessStyle.Render("✓ Container restarted"))
		return nil
	},
}

// bringUp runs Setup with build progress output and waits for the health check when one is configured.
// results are only needed when a Dockerfile has to be generated; nil runs detection on demand.
func bringUp(ctx context.Context, env *runtimeEnv, results *detector.DetectionResults) (docker.SetupResult, error) {
	m := env.manager()
	opts := env.setupOptions()

	if m.IsDaemonReachable(ctx) && !m.IsImageBuilt(ctx) {
		dockerfile, err := ensureDockerfile(env, opts.Build.Dockerfile, results)
		if err != nil {
			return docker.SetupResult{}, err
		}
		opts.Build.Dockerfile = dockerfile
	}

	var stopSpinner func()
	opts.OnBuildStart = func() {
		if interactive() {
			stopSpinner = spinner.Start(fmt.Sprintf("Building image %s...", env.cfg.Container.Image))
			return
		}
		env.log.WithField("image", env.cfg.Container.Image).Info("building image")
	}
	finishSpinner := func() {
		if stopSpinner != nil {
			stopSpinner()
			stopSpinner = nil
		}
	}
	opts.OnBuildComplete = func(d time.Duration) {
		finishSpinner()
		if interactive() {
			fmt.Println(envSuccessStyle.Render(fmt.Sprintf("✓ Image built in %s", d.Round(time.Second))))
		}
	}
	opts.OnBuildError = func(error) { finishSpinner() }

	res, err := m.Setup(ctx, opts)
	finishSpinner()
	if err != nil {
		return res, err
	}

	if env.cfg.Container.HealthCheck != nil {
		if err := m.WaitHealthy(ctx, config.DefaultHealthInterval, config.DefaultHealthWait); err != nil {
			return res, err
		}
	}

	if !jsonOutput {
		fmt.Println(envSuccessStyle.Render(fmt.Sprintf("✓ Container %s %s (%s)",
			env.cfg.Container.Name, res.Status, res.Duration.Round(time.Millisecond))))
	}
	return res, nil
}

// ensureDockerfile returns the configured Dockerfile when it exists, otherwise one generated
// from the detected language under the project config directory.
func ensureDockerfile(env *runtimeEnv, configured string, results *detector.DetectionResults) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	if results == nil {
		r := detectQuietly(env)
		results = &r
	}
	content, err := runtime.Dockerfile(results.Language.Value, results.PackageManager, env.cfg.Container.WorkDir)
	if err != nil {
		return "", err
	}

	path, err := runtime.WriteDockerfile(filepath.Join(env.project, config.ProjectConfigDir), content)
	if err != nil {
		return "", err
	}
	env.log.WithFields(logrus.Fields{
		"dockerfile": path,
		"language":   results.Language.Value,
	}).Info("generated Dockerfile")
	return path, nil
}

func execOptions(c config.ContainerConfig) (docker.ExecOptions, error) {
	env, err := util.LoadEnvFiles(execEnvFileFlag...)
	if err != nil {
		return docker.ExecOptions{}, err
	}
	for k, v := range execEnvFlag {
		env[k] = v
	}

	workDir := execWorkDirFlag
	if workDir == "" {
		workDir = c.WorkDir
	}
	user := execUserFlag
	if user == "" {
		user = c.User
	}
	return docker.ExecOptions{
		WorkDir: workDir,
		User:    user,
		Env:     env,
		Timeout: execTimeoutFlag,
	}, nil
}

// reportExec prints the command output and exits with the inner exit code on failure.
// A dispatch failure is returned as an error instead.
func reportExec(res docker.ExecResult) error {
	if res.DispatchError != nil {
		return res.DispatchError
	}
	if jsonOutput {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		fmt.Fprint(os.Stdout, res.Stdout)
		fmt.Fprint(os.Stderr, res.Stderr)
	}
	if !res.Success {
		code := res.ExitCode
		if code <= 0 {
			code = 1
		}
		os.Exit(code)
	}
	return nil
}

func runAdvisory(op func(context.Context, *docker.Manager) []docker.Outcome) error {
	env, err := setup(envProjectFlag)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	outcomes := op(ctx, env.manager())
	if jsonOutput {
		return printJSON(outcomes)
	}
	for _, o := range outcomes {
		switch {
		case o.Skipped:
			fmt.Println(mutedStyle.Render(fmt.Sprintf("- %s: nothing to do", o.Op)))
		case o.OK():
			fmt.Println(envSuccessStyle.Render(fmt.Sprintf("✓ %s", o.Op)))
		default:
			fmt.Println(envWarnStyle.Render(fmt.Sprintf("! %s failed: %v", o.Op, o.Err)))
		}
	}
	return nil
}

func yesNo(ok bool, yes, no string) string {
	if ok {
		return envSuccessStyle.Render(yes)
	}
	return envWarnStyle.Render(no)
}

func init() {
	envCmd.PersistentFlags().StringVarP(&envProjectFlag, "project", "p", ".", "Project directory (config and mounts are resolved from it)")

	envExecCmd.Flags().StringVarP(&execWorkDirFlag, "workdir", "w", "", "Working directory inside the container")
	envExecCmd.Flags().StringVarP(&execUserFlag, "user", "u", "", "User to run the command as")
	envExecCmd.Flags().StringToStringVarP(&execEnvFlag, "env", "e", nil, "Environment variables (KEY=VALUE)")
	envExecCmd.Flags().StringSliceVar(&execEnvFileFlag, "env-file", nil, "Read environment variables from a file")
	envExecCmd.Flags().DurationVar(&execTimeoutFlag, "timeout", 0, "Command timeout (default from config)")

	envLogsCmd.Flags().IntVar(&logsTailFlag, "tail", 0, "Number of lines to show from the end")
	envLogsCmd.Flags().BoolVarP(&logsFollowFlag, "follow", "f", false, "Follow log output")
	envLogsCmd.Flags().BoolVarP(&logsTimestampsFlag, "timestamps", "t", false, "Show timestamps")
	envLogsCmd.Flags().StringVar(&logsSinceFlag, "since", "", "Show logs since timestamp or relative duration")
	envLogsCmd.Flags().StringVar(&logsUntilFlag, "until", "", "Show logs before timestamp or relative duration")

	envRmCmd.Flags().BoolVarP(&rmForceFlag, "force", "f", false, "Remove a running container")

	envCmd.AddCommand(envSetupCmd, envStatusCmd, envExecCmd, envLogsCmd, envStopCmd, envRmCmd, envDownCmd, envRestartCmd)
}
