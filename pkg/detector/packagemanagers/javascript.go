package packagemanagers

import (
	"io/fs"
)

func exists(fsys fs.FS, rel string) bool {
	_, err := fs.Stat(fsys, rel)
	return err == nil
}

// DetectJS detects the JavaScript package manager used in a project
func DetectJS(fsys fs.FS) string {
	switch {
	case exists(fsys, "bun.lockb") || exists(fsys, "bun.lock"):
		return "bun"
	case exists(fsys, ".yarnrc.yml"):
		return "yarn-berry"
	case exists(fsys, "pnpm-lock.yaml"):
		return "pnpm"
	case exists(fsys, "yarn.lock"):
		return "yarn"
	case exists(fsys, "deno.json") || exists(fsys, "deno.jsonc"):
		return "deno"
	default:
		return "npm"
	}
}

// GetJSInstallCommand returns the install command for the given package manager
func GetJSInstallCommand(pm string) string {
	switch pm {
	case "bun":
		return "bun install"
	case "pnpm":
		return "pnpm install --frozen-lockfile"
	case "yarn", "yarn-berry":
		return "yarn install"
	case "deno":
		return "deno install"
	default:
		return "npm ci"
	}
}

// GetRunCommand returns a custom run command for the given package manager and script
func GetRunCommand(pm string, script string) string {
	switch pm {
	case "npm":
		return "npm run " + script
	case "yarn", "yarn-berry":
		return "yarn run " + script
	case "deno":
		return "deno task " + script
	default:
		return pm + " run " + script
	}
}

// GetExecCommand returns the command running a locally installed binary
func GetExecCommand(pm string, bin string) string {
	switch pm {
	case "bun":
		return "bunx " + bin
	case "pnpm":
		return "pnpm exec " + bin
	case "yarn", "yarn-berry":
		return "yarn " + bin
	case "deno":
		return "deno run -A npm:" + bin
	default:
		return "npx " + bin
	}
}
