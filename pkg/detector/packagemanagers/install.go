package packagemanagers

// GetInstallCommand returns the dependency install command for any package manager
// ForLanguage or DetectJS can return, or "" when pm is unknown.
func GetInstallCommand(pm string) string {
	switch pm {
	case "npm", "bun", "pnpm", "yarn", "yarn-berry", "deno":
		return GetJSInstallCommand(pm)
	case "pip", "uv", "pdm", "poetry", "pipenv":
		return GetPythonInstallCommand(pm)
	case "go":
		return "go mod download"
	case "cargo":
		return "cargo fetch"
	case "bundler":
		return "bundle install"
	case "gradlew":
		return "./gradlew dependencies"
	case "gradle":
		return "gradle dependencies"
	case "mvnw":
		return "./mvnw -q dependency:go-offline"
	case "maven":
		return "mvn -q dependency:go-offline"
	default:
		return ""
	}
}
