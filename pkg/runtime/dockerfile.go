package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"testfold/pkg/errs"
)

// GeneratedDockerfile is written below the project config directory.
const GeneratedDockerfile = "Dockerfile"

// Dockerfile generates a test image for a detected language and package manager.
// The project itself is not copied: it is mounted at workDir when the container is created.
func Dockerfile(language, pm, workDir string) (string, error) {
	rt := GetRuntimeFromLanguage(language)
	base := BaseImage(rt)
	if base == "" {
		return "", errs.NewDetectionError("", fmt.Sprintf("no base image for language %q", language), nil)
	}

	var b strings.Builder
	b.WriteString("# Generated by testfold. Set container.dockerfile to use your own.\n")
	fmt.Fprintf(&b, "FROM %s\n\n", base)
	for _, cmd := range PackageManagerSetup(pm) {
		fmt.Fprintf(&b, "RUN %s\n", cmd)
	}
	fmt.Fprintf(&b, "WORKDIR %s\n\n", workDir)
	b.WriteString(`CMD ["tail", "-f", "/dev/null"]` + "\n")
	return b.String(), nil
}

// WriteDockerfile writes content to dir/GeneratedDockerfile, creating dir, and returns the path.
func WriteDockerfile(dir, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.NewFileError(dir, "create directory", err)
	}
	path := filepath.Join(dir, GeneratedDockerfile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errs.NewFileError(path, "write", err)
	}
	return path, nil
}
