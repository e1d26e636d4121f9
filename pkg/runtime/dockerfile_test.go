package runtime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testfold/pkg/errs"
)

func TestGetRuntimeFromLanguage(t *testing.T) {
	tests := map[string]Runtime{
		"TypeScript": RuntimeNodeJS,
		"JavaScript": RuntimeNodeJS,
		"Python":     RuntimePython,
		"Go":         RuntimeGo,
		"Rust":       RuntimeRust,
		"Ruby":       RuntimeRuby,
		"Java":       RuntimeJava,
		"Unknown":    RuntimeUnknown,
	}
	for lang, want := range tests {
		assert.Equal(t, want, GetRuntimeFromLanguage(lang), lang)
	}
}

func TestDockerfile(t *testing.T) {
	content, err := Dockerfile("TypeScript", "pnpm", "/workspace")
	require.NoError(t, err)

	assert.Equal(t, `# Generated by testfold. Set container.dockerfile to use your own.
FROM node:20-bookworm

RUN corepack enable
WORKDIR /workspace

CMD ["tail", "-f", "/dev/null"]
`, content)
}

func TestDockerfilePython(t *testing.T) {
	content, err := Dockerfile("Python", "poetry", "/src")
	require.NoError(t, err)
	assert.Contains(t, content, "FROM python:3.12-bookworm")
	assert.Contains(t, content, "RUN pip install --no-cache-dir poetry")
	assert.Contains(t, content, "WORKDIR /src")
}

func TestDockerfileUnknownLanguage(t *testing.T) {
	_, err := Dockerfile("Unknown", "", "/workspace")
	assert.True(t, errs.IsErrorCode(err, errs.CodeDetection))
}

func TestWriteDockerfile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".testfold")

	path, err := WriteDockerfile(dir, "FROM scratch\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, GeneratedDockerfile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "FROM scratch\n", string(data))
}
