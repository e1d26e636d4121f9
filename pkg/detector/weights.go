package detector

// Pattern weights. A profile's confidence is the sum of matched weights over the sum of all of its weights,
// so only the ratios between these values matter.
const (
	// WeightConfigFile is a tool-specific configuration file.
	// Examples: next.config.js, vitest.config.ts, pytest.ini
	// This is the strongest signal
	WeightConfigFile = 30

	// WeightDependency is a declared dependency in a manifest.
	// Examples: "next" in package.json, "pytest" in pyproject.toml
	WeightDependency = 25

	// WeightBuildTool is a build tool, wrapper or CLI entrypoint.
	// Examples: manage.py, gradlew, bin/rails
	WeightBuildTool = 25

	// WeightLockfile is a package manager lockfile or checksum file.
	WeightLockfile = 20

	// WeightFilePattern is a file naming convention found anywhere in the tree.
	// Examples: **/*_test.go, **/*.spec.ts
	WeightFilePattern = 20

	// WeightContent is a marker found inside an arbitrary file.
	// Examples: a postgres service in docker-compose.yml, [tool.pytest.ini_options]
	WeightContent = 15

	// WeightStructure is a conventional directory.
	// Weaker signal as directories can be named anything
	WeightStructure = 10

	// WeightScript is a package.json script invoking the tool.
	WeightScript = 10

	// WeightMinorIndicator is used for tie-breaking.
	WeightMinorIndicator = 5
)
