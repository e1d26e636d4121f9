package detector

// Languages is the language catalogue.
func Languages() []Profile {
	return []Profile{
		NewProfile("TypeScript").
			File("tsconfig.json", WeightConfigFile, "tsconfig.json").
			Dependency([]string{"typescript"}, WeightDependency, "typescript in package.json").
			AnyFile([]string{"**/*.ts", "**/*.tsx"}, WeightFilePattern, ".ts sources").
			Threshold(0.4).
			Build(),

		NewProfile("JavaScript").
			File("package.json", WeightConfigFile, "package.json").
			NoFile([]string{"tsconfig.json"}, WeightStructure, "no tsconfig.json").
			AnyFile([]string{"**/*.js", "**/*.mjs", "**/*.jsx"}, WeightFilePattern, ".js sources").
			Excludes("TypeScript").
			Threshold(0.5).
			Build(),

		NewProfile("Python").
			AnyFile([]string{"pyproject.toml", "requirements.txt", "setup.py", "setup.cfg", "Pipfile"}, WeightConfigFile, "python project file").
			AnyFile([]string{"poetry.lock", "uv.lock", "pdm.lock", "Pipfile.lock"}, WeightLockfile, "python lockfile").
			AnyFile([]string{"**/*.py"}, WeightFilePattern, ".py sources").
			Threshold(0.4).
			Build(),

		NewProfile("Go").
			File("go.mod", WeightConfigFile, "go.mod").
			File("go.sum", WeightLockfile, "go.sum").
			AnyFile([]string{"**/*.go"}, WeightFilePattern, ".go sources").
			Threshold(0.4).
			Build(),

		NewProfile("Rust").
			File("Cargo.toml", WeightConfigFile, "Cargo.toml").
			File("Cargo.lock", WeightLockfile, "Cargo.lock").
			AnyFile([]string{"**/*.rs"}, WeightFilePattern, ".rs sources").
			Threshold(0.4).
			Build(),

		NewProfile("Ruby").
			File("Gemfile", WeightConfigFile, "Gemfile").
			File("Gemfile.lock", WeightLockfile, "Gemfile.lock").
			File(".ruby-version", WeightMinorIndicator, ".ruby-version").
			AnyFile([]string{"**/*.rb"}, WeightFilePattern, ".rb sources").
			Threshold(0.35).
			Build(),

		NewProfile("Java").
			AnyFile([]string{"pom.xml", "build.gradle", "build.gradle.kts"}, WeightConfigFile, "maven or gradle build file").
			AnyFile([]string{"mvnw", "gradlew"}, WeightBuildTool, "build wrapper").
			AnyFile([]string{"src/main/java"}, WeightStructure, "src/main/java").
			Threshold(0.4).
			Build(),
	}
}
