package util

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"testfold/pkg/errs"
)

// ValidateProjectPath validates and cleans a project path
// Returns the cleaned absolute path or an error
func ValidateProjectPath(projectPath string) (string, error) {
	projectPath = filepath.Clean(projectPath)

	info, err := os.Stat(projectPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errs.NewFileNotFoundError(projectPath)
		}
		return "", errs.NewFileError(projectPath, "access", err)
	}

	if !info.IsDir() {
		return "", errs.NewValidationError("path", projectPath, "must be a directory")
	}

	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return projectPath, nil // Return cleaned path if we can't get absolute
	}

	return absPath, nil
}
