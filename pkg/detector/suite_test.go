package detector

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func newTestSuite(fsys fs.FS) *Suite {
	return NewSuite(SuiteOptions{Open: func(string) fs.FS { return fsys }})
}

func TestDetectAll_TypeScriptVitestPostgres(t *testing.T) {
	fsys := fstest.MapFS{
		"package.json": mapFile(`{
			"name": "web",
			"scripts": {"test": "vitest run"},
			"dependencies": {"react": "^18.2.0", "pg": "^8.11.0"},
			"devDependencies": {"vite": "^5.0.0", "vitest": "^1.2.0", "typescript": "^5.3.0", "@vitejs/plugin-react": "^4.2.0"}
		}`),
		"tsconfig.json":                 mapFile("{}"),
		"vite.config.ts":                mapFile("export default {}"),
		"pnpm-lock.yaml":                mapFile("lockfileVersion: '6.0'"),
		"docker-compose.yml":            mapFile("services:\n  db:\n    image: postgres:16\n"),
		"src/App.tsx":                   mapFile(""),
		"src/App.test.tsx":              mapFile(""),
		"tests/integration/api.test.ts": mapFile(""),
		"e2e/login.spec.ts":             mapFile(""),
		"node_modules/x/index.test.js":  mapFile(""),
	}

	res := newTestSuite(fsys).DetectAll("/web")

	assert.Equal(t, "Vite + React", res.Framework.Value)
	assert.Equal(t, "TypeScript", res.Language.Value)
	assert.Equal(t, "Vitest", res.TestRunner.Value)
	assert.Equal(t, "PostgreSQL", res.Database.Value)

	assert.Equal(t, TestCounts{Unit: 1, Integration: 1, E2E: 1, Total: 3}, res.TestCounts)
	assert.Equal(t, []string{"pg", "react"}, res.Dependencies.Runtime)
	assert.Equal(t, []string{"@vitejs/plugin-react", "typescript", "vite", "vitest"}, res.Dependencies.Dev)

	assert.Equal(t, "pnpm", res.PackageManager)
	assert.Equal(t, "pnpm run test", res.TestCommand)
	assert.Equal(t, "pnpm install --frozen-lockfile", res.InstallCommand)
	assert.False(t, res.Timestamp.IsZero())
	assert.GreaterOrEqual(t, res.Duration.Nanoseconds(), int64(0))
}

func TestDetectAll_PythonPoetry(t *testing.T) {
	fsys := fstest.MapFS{
		"pyproject.toml": mapFile(`[project]
name = "api"
dependencies = ["fastapi>=0.110", "asyncpg"]

[project.optional-dependencies]
test = ["pytest>=8"]

[tool.pytest.ini_options]
testpaths = ["tests"]
`),
		"poetry.lock":                 mapFile(""),
		"main.py":                     mapFile("from fastapi import FastAPI\n\napp = FastAPI()\n"),
		"tests/test_main.py":          mapFile(""),
		"tests/integration/test_db.py": mapFile(""),
	}

	res := newTestSuite(fsys).DetectAll("/api")

	assert.Equal(t, "FastAPI", res.Framework.Value)
	assert.Equal(t, "Python", res.Language.Value)
	assert.Equal(t, "Pytest", res.TestRunner.Value)
	assert.Equal(t, "PostgreSQL", res.Database.Value)
	assert.Equal(t, TestCounts{Unit: 1, Integration: 1, Total: 2}, res.TestCounts)
	assert.Equal(t, []string{"asyncpg", "fastapi"}, res.Dependencies.Runtime)
	assert.Equal(t, []string{"pytest"}, res.Dependencies.Dev)
	assert.Equal(t, "poetry", res.PackageManager)
	assert.Equal(t, "poetry run pytest", res.TestCommand)
	assert.Equal(t, "poetry install", res.InstallCommand)
}

func TestDetectAll_GoModule(t *testing.T) {
	fsys := fstest.MapFS{
		"go.mod":          mapFile("module example.com/svc\n\ngo 1.22\n\nrequire github.com/gin-gonic/gin v1.9.1\n"),
		"main.go":         mapFile("package main\n"),
		"handler_test.go": mapFile("package main\n"),
	}

	res := newTestSuite(fsys).DetectAll("/svc")

	assert.Equal(t, "Gin", res.Framework.Value)
	assert.Equal(t, "Go", res.Language.Value)
	assert.Equal(t, "Go test", res.TestRunner.Value)
	assert.Equal(t, Unknown, res.Database.Value)
	assert.Equal(t, []string{"No database patterns matched"}, res.Database.Evidence)
	assert.Equal(t, "go", res.PackageManager)
	assert.Equal(t, "go test ./...", res.TestCommand)
	assert.Equal(t, 1, res.TestCounts.Unit)
}

func TestDetectAll_EmptyProject(t *testing.T) {
	res := newTestSuite(fstest.MapFS{}).DetectAll("/empty")

	assert.Equal(t, Unknown, res.Framework.Value)
	assert.Equal(t, Unknown, res.Language.Value)
	assert.Equal(t, Unknown, res.TestRunner.Value)
	assert.Equal(t, Unknown, res.Database.Value)
	assert.Empty(t, res.PackageManager)
	assert.Empty(t, res.TestCommand)
	assert.Empty(t, res.InstallCommand)
	assert.Zero(t, res.TestCounts.Total)
}

func TestSuite_CacheStatsAndClear(t *testing.T) {
	s := newTestSuite(fstest.MapFS{"go.mod": mapFile("module x\n")})

	s.DetectAll("/x")
	stats := s.CacheStats()
	assert.Len(t, stats, 4)
	for category, st := range stats {
		assert.Equal(t, 1, st.Size, "category %s", category)
	}

	s.ClearCache()
	for _, st := range s.CacheStats() {
		assert.Zero(t, st.Size)
	}
}
