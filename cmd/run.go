package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"testfold/pkg/errs"
	"testfold/pkg/executor"
)

var (
	runConcurrencyFlag int
	runStopOnErrorFlag bool
	runRetriesFlag     int
	runTimeoutFlag     time.Duration
	runDirFlag         string
)

var runCmd = &cobra.Command{
	Use:   "run COMMAND [COMMAND...]",
	Short: "Run shell commands locally in bounded parallel groups",
	Long: `Runs each argument as a shell command on the host.

Commands are split into groups of --concurrency; a group finishes completely
before the next one starts. --stop-on-error prevents further groups from
starting after a failure but never interrupts the current group.

Examples:
  testfold run "npm run lint" "npm run typecheck" --concurrency 2
  testfold run "go vet ./..." "go test ./..." --stop-on-error --retries 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(runDirFlag)
		if err != nil {
			return err
		}
		if runConcurrencyFlag < 0 {
			return errs.NewValidationError("concurrency", runConcurrencyFlag, "must not be negative")
		}
		if runRetriesFlag < 0 {
			return errs.NewValidationError("retries", runRetriesFlag, "must not be negative")
		}

		ctx, cancel := signalContext()
		defer cancel()

		commands := make([]executor.ParallelCommand, len(args))
		for i, c := range args {
			commands[i] = executor.ParallelCommand{
				ID:      fmt.Sprintf("cmd-%d", i),
				Command: c,
				Options: executor.Options{
					Dir:     env.project,
					Retries: runRetriesFlag,
					NoRetry: cmd.Flags().Changed("retries") && runRetriesFlag == 0,
					Timeout: runTimeoutFlag,
				},
			}
		}

		res := env.exec.ExecuteParallel(ctx, commands, executor.ParallelOptions{
			Concurrency: runConcurrencyFlag,
			StopOnError: runStopOnErrorFlag,
		})

		if jsonOutput {
			if err := printJSON(res); err != nil {
				return err
			}
		} else {
			printParallel(commands, res)
		}

		if !res.Success {
			return fmt.Errorf("%d of %d commands failed", res.Total-res.Successful, res.Total)
		}
		return nil
	},
}

func printParallel(commands []executor.ParallelCommand, res executor.ParallelResult) {
	ids := make([]string, 0, len(res.Results))
	for id := range res.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	byID := make(map[string]string, len(commands))
	for _, c := range commands {
		byID[c.ID] = c.Command
	}

	for _, id := range ids {
		r := res.Results[id]
		mark := envSuccessStyle.Render("✓")
		if !r.Success {
			mark = errorMsgStyle.Render("✗")
		}
		fmt.Printf("%s %s %s\n", mark, byID[id], mutedStyle.Render(fmt.Sprintf("(%s, %d attempt(s))",
			r.Duration.Round(time.Millisecond), r.Attempts)))
		if !r.Success {
			if err := res.Errors[id]; err != nil {
				fmt.Printf("    %s\n", mutedStyle.Render(err.Error()))
			}
			if r.Stderr != "" {
				fmt.Printf("%s\n", r.Stderr)
			}
		}
	}

	skipped := res.Total - len(res.Results)
	summary := fmt.Sprintf("%d succeeded, %d failed", res.Successful, res.Failed)
	if skipped > 0 {
		summary += fmt.Sprintf(", %d not started", skipped)
	}
	fmt.Printf("\n%s %s\n", endingMsgStyle.Render(summary), mutedStyle.Render(res.Duration.Round(time.Millisecond).String()))
}

func init() {
	runCmd.Flags().IntVar(&runConcurrencyFlag, "concurrency", 0, "Commands per group (0 runs all at once)")
	runCmd.Flags().BoolVar(&runStopOnErrorFlag, "stop-on-error", false, "Do not start further groups after a failure")
	runCmd.Flags().IntVar(&runRetriesFlag, "retries", 0, "Retries per command after the first attempt (default from config)")
	runCmd.Flags().DurationVar(&runTimeoutFlag, "timeout", 0, "Per-attempt timeout (default from config)")
	runCmd.Flags().StringVarP(&runDirFlag, "dir", "C", ".", "Working directory for the commands")
}
