package detector

import "testfold/pkg/detector/manifest"

// TestRunners is the test runner catalogue.
func TestRunners() []Profile {
	return []Profile{
		NewProfile("Vitest").
			Dependency([]string{"vitest"}, WeightDependency, "vitest in package.json").
			AnyFile(append(configFiles("vitest.config", jsExts...), configFiles("vitest.workspace", jsExts...)...), WeightConfigFile, "vitest config").
			Content([]string{"package.json"}, `"test"\s*:\s*"[^"]*vitest`, WeightScript, "test script runs vitest").
			Threshold(0.3).
			Build(),

		NewProfile("Jest").
			Dependency([]string{"jest"}, WeightDependency, "jest in package.json").
			AnyFile(append(configFiles("jest.config", jsExts...), "jest.config.json"), WeightConfigFile, "jest config").
			Content([]string{"package.json"}, `"test"\s*:\s*"[^"]*jest|"jest"\s*:\s*\{`, WeightScript, "jest configured in package.json").
			Threshold(0.3).
			Build(),

		NewProfile("Mocha").
			Dependency([]string{"mocha"}, WeightDependency, "mocha in package.json").
			AnyFile([]string{".mocharc.js", ".mocharc.cjs", ".mocharc.json", ".mocharc.yml", ".mocharc.yaml"}, WeightConfigFile, ".mocharc").
			Threshold(0.3).
			Build(),

		NewProfile("Playwright").
			Dependency([]string{"@playwright/test"}, WeightDependency, "@playwright/test in package.json").
			AnyFile(configFiles("playwright.config", jsExts...), WeightConfigFile, "playwright config").
			Threshold(0.3).
			Build(),

		NewProfile("Cypress").
			Dependency([]string{"cypress"}, WeightDependency, "cypress in package.json").
			AnyFile(append(configFiles("cypress.config", jsExts...), "cypress.json"), WeightConfigFile, "cypress config").
			File("cypress", WeightStructure, "cypress/ directory").
			Threshold(0.3).
			Build(),

		NewProfile("Pytest").
			DependencyIn(pythonManifests, manifest.ScopeBoth, []string{"pytest"}, WeightDependency, "pytest in python dependencies").
			AnyFile([]string{"pytest.ini", "conftest.py", "tests/conftest.py"}, WeightConfigFile, "pytest.ini or conftest.py").
			Content([]string{"pyproject.toml", "setup.cfg", "tox.ini"}, `(?m)^\[(tool\.pytest\.ini_options|tool:pytest|pytest)\]`, WeightContent, "pytest section in project config").
			AnyFile([]string{"**/test_*.py", "**/*_test.py"}, WeightFilePattern, "pytest-style test files").
			Threshold(0.3).
			Build(),

		NewProfile("Go test").
			File("go.mod", WeightConfigFile, "go.mod").
			AnyFile([]string{"**/*_test.go"}, WeightFilePattern, "_test.go files").
			Threshold(0.5).
			Build(),

		NewProfile("Cargo test").
			File("Cargo.toml", WeightConfigFile, "Cargo.toml").
			File("tests", WeightStructure, "tests/ directory").
			Content([]string{"src/lib.rs", "src/main.rs"}, `#\[cfg\(test\)\]`, WeightContent, "#[cfg(test)] module").
			Threshold(0.5).
			Build(),

		NewProfile("RSpec").
			Content([]string{"Gemfile"}, `(?m)^\s*gem\s+['"]rspec(-rails)?['"]`, WeightDependency, "rspec in Gemfile").
			File(".rspec", WeightConfigFile, ".rspec").
			File("spec", WeightStructure, "spec/ directory").
			Threshold(0.3).
			Build(),
	}
}
