package runtime

// Runtime represents a language toolchain a test image is based on
type Runtime string

const (
	RuntimeNodeJS  Runtime = "nodejs" // JavaScript/TypeScript (includes npm, node, bun, pnpm, yarn)
	RuntimePython  Runtime = "python" // Python (includes pip, poetry, uv, pdm, pipenv)
	RuntimeGo      Runtime = "go"
	RuntimeRust    Runtime = "rust"
	RuntimeRuby    Runtime = "ruby"
	RuntimeJava    Runtime = "java"
	RuntimeUnknown Runtime = "unknown"
)

// GetRuntimeFromLanguage maps a detected language to its runtime
func GetRuntimeFromLanguage(language string) Runtime {
	switch language {
	case "JavaScript", "TypeScript":
		return RuntimeNodeJS
	case "Python":
		return RuntimePython
	case "Go":
		return RuntimeGo
	case "Rust":
		return RuntimeRust
	case "Ruby":
		return RuntimeRuby
	case "Java":
		return RuntimeJava
	default:
		return RuntimeUnknown
	}
}

// BaseImage returns the official image a generated Dockerfile starts from
func BaseImage(rt Runtime) string {
	switch rt {
	case RuntimeNodeJS:
		return "node:20-bookworm"
	case RuntimePython:
		return "python:3.12-bookworm"
	case RuntimeGo:
		return "golang:1.24-bookworm"
	case RuntimeRust:
		return "rust:1-bookworm"
	case RuntimeRuby:
		return "ruby:3.3-bookworm"
	case RuntimeJava:
		return "eclipse-temurin:21-jdk"
	default:
		return ""
	}
}

// PackageManagerSetup returns the commands installing pm on top of the base image.
// Package managers shipped with the base image need none.
func PackageManagerSetup(pm string) []string {
	switch pm {
	case "pnpm", "yarn", "yarn-berry":
		return []string{"corepack enable"}
	case "bun":
		return []string{"npm install -g bun"}
	case "deno":
		return []string{"npm install -g deno"}
	case "poetry", "uv", "pdm", "pipenv":
		return []string{"pip install --no-cache-dir " + pm}
	case "gradle":
		return []string{"apt-get update && apt-get install -y --no-install-recommends gradle && rm -rf /var/lib/apt/lists/*"}
	case "maven":
		return []string{"apt-get update && apt-get install -y --no-install-recommends maven && rm -rf /var/lib/apt/lists/*"}
	default:
		return nil
	}
}
