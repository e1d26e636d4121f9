package packagemanagers

import (
	"io/fs"
)

// DetectPython detects the Python package manager used in a project
func DetectPython(fsys fs.FS) string {
	switch {
	case exists(fsys, "uv.lock"):
		return "uv"
	case exists(fsys, "pdm.lock"):
		return "pdm"
	case exists(fsys, "poetry.lock"):
		return "poetry"
	case exists(fsys, "Pipfile.lock") || exists(fsys, "Pipfile"):
		return "pipenv"
	default:
		return "pip"
	}
}

// GetPythonInstallCommand returns the install command for the given package manager
func GetPythonInstallCommand(pm string) string {
	switch pm {
	case "uv":
		return "uv sync"
	case "pdm":
		return "pdm install"
	case "poetry":
		return "poetry install"
	case "pipenv":
		return "pipenv install --dev"
	default:
		return "pip install -r requirements.txt"
	}
}

// GetPythonRunCommand prefixes a module invocation with the package manager's environment runner
func GetPythonRunCommand(pm string, module string) string {
	switch pm {
	case "uv", "pdm", "poetry", "pipenv":
		return pm + " run " + module
	default:
		return "python -m " + module
	}
}
