// Package steps provides utility for creating
// each step of the CLI flow
package steps

// A StepSchema contains the data that is used
// for an individual step of the CLI
type StepSchema struct {
	StepName string // The name of a given step
	Options  []Item // The slice of each option for a given step
	Headers  string // The title displayed at the top of a given step
}

// Steps contains a map of steps
type Steps struct {
	Steps map[string]StepSchema
}

// An Item contains the data for each option
// in a StepSchema.Options
type Item struct {
	Title, Desc string
}

// Titles of the next_action options.
const (
	ActionRunTests = "Run tests"
	ActionSetup    = "Set up environment"
	ActionExit     = "Exit"
)

// InitSteps initializes and returns the *Steps to be used in the CLI program.
// testCommand is shown in the description of the run option.
func InitSteps(testCommand string) *Steps {
	runDesc := "Bring up the container and run the detected test command"
	if testCommand != "" {
		runDesc += ": " + testCommand
	}

	return &Steps{
		map[string]StepSchema{
			"next_action": {
				StepName: "Next Action",
				Options: []Item{
					{Title: ActionRunTests, Desc: runDesc},
					{Title: ActionSetup, Desc: "Build the image and start the container without running anything"},
					{Title: ActionExit, Desc: "Leave the environment untouched"},
				},
				Headers: "What would you like to do next?",
			},
		},
	}
}
