package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"testfold/cmd/steps"
	"testfold/cmd/ui/detection"
	"testfold/cmd/ui/multiInput"
	"testfold/cmd/ui/spinner"
	"testfold/pkg/detector"
)

var detectCmd = &cobra.Command{
	Use:   "detect [PROJECT_PATH]",
	Short: "Detect framework, language, test runner and database",
	Long: Logo + `
Scores the project against known frameworks, languages, test runners and
databases and suggests the command that runs its tests.

In a terminal the results are followed by a menu to run the tests in the
container. With --json or outside a terminal the results are printed as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	env, err := setup(projectArg(args))
	if err != nil {
		return err
	}

	if !interactive() {
		return printJSON(env.suite().DetectAll(env.project))
	}

	fmt.Printf("%s\n", logoStyle.Render(Logo))
	stop := spinner.Start("Detecting project...")
	results := env.suite().DetectAll(env.project)
	stop()

	fmt.Println(detection.Render(results))

	choice, err := multiInput.ShowMenu(steps.InitSteps(results.TestCommand).Steps["next_action"])
	if err != nil {
		fmt.Println(mutedStyle.Render("Nothing else to do."))
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	switch choice {
	case steps.ActionRunTests:
		return runTests(ctx, env, results)
	case steps.ActionSetup:
		_, err := bringUp(ctx, env, &results)
		return err
	}

	fmt.Printf("\n%s\n", tipMsgStyle.Render("Tip: Use --json flag for CI/automation mode"))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// detectQuietly runs detection with a spinner only in interactive mode.
func detectQuietly(env *runtimeEnv) detector.DetectionResults {
	if !interactive() {
		return env.suite().DetectAll(env.project)
	}
	stop := spinner.Start("Detecting project...")
	defer stop()
	return env.suite().DetectAll(env.project)
}
