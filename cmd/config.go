package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"testfold/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config [PROJECT_PATH]",
	Short: "Print the effective configuration",
	Long: `Prints the configuration after layering the built-in defaults, the user file
and the project file:

  ~/` + config.UserConfigDir + `/` + config.ConfigFileName + `
  <project>/` + config.ProjectConfigDir + `/` + config.ConfigFileName,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(projectArg(args))
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(env.cfg)
		}

		data, err := env.cfg.YAML()
		if err != nil {
			return err
		}
		fmt.Print(string(data))

		if path, err := config.UserConfigPath(); err == nil {
			fmt.Printf("\n%s\n", mutedStyle.Render("# user:    "+path))
		}
		fmt.Printf("%s\n", mutedStyle.Render("# project: "+config.ProjectConfigPath(env.project)))
		return nil
	},
}
