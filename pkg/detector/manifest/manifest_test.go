package manifest

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testfold/pkg/errs"
)

func file(data string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(data), Mode: 0o644}
}

func TestLoad_PackageJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"package.json": file(`{
			"name": "web",
			"scripts": {"test": "vitest run"},
			"dependencies": {"react": "^18.2.0"},
			"devDependencies": {"vitest": "^1.0.0", "typescript": "5.3.0"}
		}`),
	}

	m, err := Load(fsys, "package.json")
	require.NoError(t, err)

	assert.Equal(t, "web", m.Name)
	assert.Equal(t, map[string]string{"react": "^18.2.0"}, m.Runtime)
	assert.Equal(t, "^1.0.0", m.Dev["vitest"])
	assert.Equal(t, "vitest run", m.Scripts["test"])
	assert.True(t, m.Has("typescript"))
	assert.False(t, m.Has("jest"))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(fstest.MapFS{}, "package.json")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"package.json", `{"dependencies": {`},
		{"pyproject.toml", "[project\nname = "},
		{"Cargo.toml", "[dependencies\nserde = 1"},
		{"go.mod", "module\nrequire (\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(fstest.MapFS{tt.name: file(tt.data)}, tt.name)
			require.Error(t, err)
			assert.True(t, errs.IsErrorCode(err, errs.CodeManifestParse), "got %v", err)
		})
	}
}

func TestLoad_PackageJSONNotAnObject(t *testing.T) {
	_, err := Load(fstest.MapFS{"package.json": file(`["next"]`)}, "package.json")
	assert.True(t, errs.IsErrorCode(err, errs.CodeManifestParse))
}

func TestLoad_Unsupported(t *testing.T) {
	assert.False(t, Supported("Gemfile"))
	_, err := Load(fstest.MapFS{"Gemfile": file("gem 'rails'")}, "Gemfile")
	assert.True(t, errs.IsErrorCode(err, errs.CodeManifestParse))
}

func TestLoad_Pyproject(t *testing.T) {
	fsys := fstest.MapFS{
		"pyproject.toml": file(`
[project]
name = "api"
dependencies = ["FastAPI>=0.110", "psycopg[binary]==3.1.18 ; python_version >= '3.10'"]

[project.optional-dependencies]
test = ["pytest>=8"]

[tool.poetry.group.dev.dependencies]
ruff = "^0.3"
`),
	}

	m, err := Load(fsys, "pyproject.toml")
	require.NoError(t, err)

	assert.Equal(t, "api", m.Name)
	assert.Equal(t, ">=0.110", m.Runtime["fastapi"])
	assert.Equal(t, "==3.1.18", m.Runtime["psycopg"])
	assert.Equal(t, ">=8", m.Dev["pytest"])
	assert.Equal(t, "^0.3", m.Dev["ruff"])
}

func TestLoad_PoetryDependencies(t *testing.T) {
	fsys := fstest.MapFS{
		"pyproject.toml": file(`
[tool.poetry]
name = "svc"

[tool.poetry.dependencies]
python = "^3.11"
Django = {version = "^5.0", extras = ["argon2"]}

[tool.poetry.dev-dependencies]
pytest-django = "^4.8"
`),
	}

	m, err := Load(fsys, "pyproject.toml")
	require.NoError(t, err)

	assert.Equal(t, "svc", m.Name)
	assert.NotContains(t, m.Runtime, "python")
	assert.Equal(t, "^5.0", m.Runtime["django"])
	assert.Equal(t, "^4.8", m.Dev["pytest-django"])
}

func TestLoad_SetupCfg(t *testing.T) {
	fsys := fstest.MapFS{
		"setup.cfg": file(`[metadata]
name = legacy

[options]
install_requires =
    flask>=2.0
    SQLAlchemy
tests_require =
    pytest

[options.extras_require]
dev =
    black
`),
	}

	m, err := Load(fsys, "setup.cfg")
	require.NoError(t, err)

	assert.Equal(t, "legacy", m.Name)
	assert.Contains(t, m.Runtime, "flask")
	assert.Contains(t, m.Runtime, "sqlalchemy")
	assert.Contains(t, m.Dev, "pytest")
	assert.Contains(t, m.Dev, "black")
}

func TestLoad_Requirements(t *testing.T) {
	fsys := fstest.MapFS{
		"requirements.txt": file("# app\n-r base.txt\nDjango==5.0.1  # pinned\npsycopg2-binary\n\n"),
		"requirements-dev.txt": file("pytest>=7\n"),
	}

	m, err := Load(fsys, "requirements.txt")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"django": "==5.0.1", "psycopg2-binary": ""}, m.Runtime)
	assert.Empty(t, m.Dev)

	dev, err := Load(fsys, "requirements-dev.txt")
	require.NoError(t, err)
	assert.Empty(t, dev.Runtime)
	assert.Equal(t, ">=7", dev.Dev["pytest"])
}

func TestLoad_GoMod(t *testing.T) {
	fsys := fstest.MapFS{
		"go.mod": file(`module example.com/svc

go 1.22

require (
	github.com/gin-gonic/gin v1.9.1
	github.com/jackc/pgx/v5 v5.5.0 // indirect
)
`),
	}

	m, err := Load(fsys, "go.mod")
	require.NoError(t, err)

	assert.Equal(t, "example.com/svc", m.Name)
	assert.Equal(t, "v1.9.1", m.Runtime["github.com/gin-gonic/gin"])
	assert.Contains(t, m.Runtime, "github.com/jackc/pgx/v5")
}

func TestLoad_Cargo(t *testing.T) {
	fsys := fstest.MapFS{
		"Cargo.toml": file(`[package]
name = "engine"

[dependencies]
axum = "0.7"
tokio = { version = "1", features = ["full"] }
local = { path = "../local" }

[dev-dependencies]
insta = "1.34"
`),
	}

	m, err := Load(fsys, "Cargo.toml")
	require.NoError(t, err)

	assert.Equal(t, "engine", m.Name)
	assert.Equal(t, "0.7", m.Runtime["axum"])
	assert.Equal(t, "1", m.Runtime["tokio"])
	assert.Equal(t, "path", m.Runtime["local"])
	assert.Equal(t, "1.34", m.Dev["insta"])
}

func TestSerialize(t *testing.T) {
	m := &Manifest{
		Runtime: map[string]string{"react": "18", "next": "14"},
		Dev:     map[string]string{},
	}

	assert.Equal(t, `{"next":"14","react":"18"}`, m.Serialize(ScopeDependencies))
	assert.Equal(t, `{}`, m.Serialize(ScopeDevDependencies))
	assert.Equal(t, `{"next":"14","react":"18"}{}`, m.Serialize(ScopeBoth))
}
