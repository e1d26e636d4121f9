package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"testfold/pkg/config"
	"testfold/pkg/detector"
	"testfold/pkg/docker"
	"testfold/pkg/errs"
)

var (
	testCommandFlag     string
	testTimeoutFlag     time.Duration
	testSkipInstallFlag bool
)

var testCmd = &cobra.Command{
	Use:   "test [PROJECT_PATH]",
	Short: "Detect the test runner and run it inside the container",
	Long: `Detects the project, brings the container up and runs the suggested test
command inside it with the project mounted at the container workdir.

The process exits with the test command's exit code.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(projectArg(args))
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		return runTests(ctx, env, detectQuietly(env))
	},
}

func runTests(ctx context.Context, env *runtimeEnv, results detector.DetectionResults) error {
	command := testCommandFlag
	if command == "" {
		command = results.TestCommand
	}
	if command == "" {
		return errs.NewDetectionError(env.project,
			fmt.Sprintf("no test command for test runner %q; pass --command", results.TestRunner.Value), nil)
	}

	if _, err := bringUp(ctx, env, &results); err != nil {
		return err
	}

	opts := docker.ExecOptions{
		WorkDir: env.cfg.Container.WorkDir,
		User:    env.cfg.Container.User,
		Timeout: testTimeoutFlag,
	}
	if opts.Timeout == 0 {
		opts.Timeout = config.DefaultTestTimeout
	}

	m := env.manager()
	if !testSkipInstallFlag && results.InstallCommand != "" {
		if !jsonOutput {
			fmt.Printf("\n%s\n", endingMsgStyle.Render("Installing dependencies: "+results.InstallCommand))
		}
		install, err := m.Exec(ctx, results.InstallCommand, opts)
		if err != nil {
			return err
		}
		if install.DispatchError != nil || !install.Success {
			return reportExec(install)
		}
	}

	if !jsonOutput {
		fmt.Printf("\n%s\n\n", endingMsgStyle.Render("Running "+command))
	}
	res, err := m.Exec(ctx, command, opts)
	if err != nil {
		return err
	}
	return reportExec(res)
}

func init() {
	testCmd.Flags().StringVarP(&testCommandFlag, "command", "c", "", "Override the detected test command")
	testCmd.Flags().BoolVar(&testSkipInstallFlag, "skip-install", false, "Do not install dependencies before running the tests")
	testCmd.Flags().DurationVar(&testTimeoutFlag, "timeout", 0, "Test command timeout, e.g. 10m (default 30m)")
}
