package util

import (
	"github.com/joho/godotenv"

	"testfold/pkg/errs"
)

// LoadEnvFile reads and parses a .env file into a map of environment variables
func LoadEnvFile(filePath string) (map[string]string, error) {
	env, err := godotenv.Read(filePath)
	if err != nil {
		return nil, errs.NewFileError(filePath, "read env file", err)
	}
	return env, nil
}

// LoadEnvFiles merges several env files, later files winning.
func LoadEnvFiles(paths ...string) (map[string]string, error) {
	merged := map[string]string{}
	for _, p := range paths {
		env, err := LoadEnvFile(p)
		if err != nil {
			return nil, err
		}
		for k, v := range env {
			merged[k] = v
		}
	}
	return merged, nil
}
