package packagemanagers

import "io/fs"

// DetectJava detects the JVM build tool, preferring the project wrapper when present
func DetectJava(fsys fs.FS) string {
	switch {
	case exists(fsys, "gradlew"):
		return "gradlew"
	case exists(fsys, "build.gradle") || exists(fsys, "build.gradle.kts"):
		return "gradle"
	case exists(fsys, "mvnw"):
		return "mvnw"
	default:
		return "maven"
	}
}

// ForLanguage returns the package manager for a detected language, or "" when it has none.
func ForLanguage(fsys fs.FS, language string) string {
	switch language {
	case "JavaScript", "TypeScript":
		return DetectJS(fsys)
	case "Python":
		return DetectPython(fsys)
	case "Go":
		return "go"
	case "Rust":
		return "cargo"
	case "Ruby":
		return "bundler"
	case "Java":
		return DetectJava(fsys)
	default:
		return ""
	}
}
