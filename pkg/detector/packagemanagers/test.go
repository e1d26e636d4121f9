package packagemanagers

// npmDefaultTest is the placeholder npm init writes into scripts.test.
const npmDefaultTest = `echo "Error: no test specified" && exit 1`

// GetTestCommand returns the command running the given test runner with pm.
// testScript is package.json's scripts.test, preferred when it is set to something real.
// It returns "" for an unknown runner.
func GetTestCommand(runner, pm, testScript string) string {
	switch runner {
	case "Jest", "Vitest", "Mocha", "Playwright", "Cypress":
		if pm == "" {
			pm = "npm"
		}
		if testScript != "" && testScript != npmDefaultTest && runner != "Playwright" && runner != "Cypress" {
			if pm == "npm" {
				return "npm test"
			}
			return GetRunCommand(pm, "test")
		}
		return GetExecCommand(pm, jsRunnerInvocation(runner))
	case "Pytest":
		return GetPythonRunCommand(pm, "pytest")
	case "Go test":
		return "go test ./..."
	case "Cargo test":
		return "cargo test"
	case "RSpec":
		return "bundle exec rspec"
	default:
		return ""
	}
}

func jsRunnerInvocation(runner string) string {
	switch runner {
	case "Jest":
		return "jest"
	case "Vitest":
		return "vitest run"
	case "Mocha":
		return "mocha"
	case "Playwright":
		return "playwright test"
	default:
		return "cypress run"
	}
}
