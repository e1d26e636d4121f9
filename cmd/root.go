package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"testfold/pkg/errs"
)

const Version = "0.3.0"

var (
	jsonOutput      bool
	skipInteractive bool
	logLevelFlag    string

	logoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	tipMsgStyle    = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("190")).Italic(true)
	endingMsgStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("170")).Bold(true)
	errorMsgStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const Logo = `
 _            _    __       _     _
| |_ ___  ___| |_ / _| ___ | | __| |
| __/ _ \/ __| __| |_ / _ \| |/ _` + "`" + ` |
| ||  __/\__ \ |_|  _| (_) | | (_| |
 \__\___||___/\__|_|  \___/|_|\__,_|
`

var rootCmd = &cobra.Command{
	Use:   "testfold",
	Short: "Detect a project's test stack and run it in a container",
	Long: `testfold scores a project directory against known frameworks, languages,
test runners and databases, then brings up a local container and runs the
detected test command inside it.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitWithError(err)
	}
}

// exitWithError prints err and exits 1. Coded errors are printed as their JSON record in --json mode.
func exitWithError(err error) {
	var coded errs.Coded
	if jsonOutput && errors.As(err, &coded) {
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(coded.Base().ToJSON())
		os.Exit(1)
	}

	msg := fmt.Sprintf("Error: %v", err)
	if code := errs.CodeOf(err); code != "" && code != errs.CodeUnknown {
		msg = fmt.Sprintf("Error [%s]: %v", code, err)
	}
	fmt.Fprintln(os.Stderr, errorMsgStyle.Render(msg))
	os.Exit(1)
}

func isTerminal() bool {
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func interactive() bool {
	return !jsonOutput && !skipInteractive && isTerminal()
}

func init() {
	rootCmd.SetVersionTemplate("testfold version {{.Version}}\n")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON (disables interactive mode)")
	rootCmd.PersistentFlags().BoolVar(&skipInteractive, "no-interactive", false, "Skip interactive prompts (for CI/automation)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level (debug, info, warn, error)")
}
