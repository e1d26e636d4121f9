package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"testfold/pkg/errs"
)

// Scope selects which dependency group of a manifest a pattern looks at.
type Scope string

const (
	ScopeDependencies    Scope = "dependencies"
	ScopeDevDependencies Scope = "devDependencies"
	ScopeBoth            Scope = "both"
)

// Manifest is the normalized dependency view of a single project manifest.
// Versions are kept as written; an empty version means "any".
type Manifest struct {
	Path    string            `json:"path"`
	Name    string            `json:"name,omitempty"`
	Runtime map[string]string `json:"dependencies"`
	Dev     map[string]string `json:"devDependencies"`
	Scripts map[string]string `json:"scripts,omitempty"`
}

// Known lists the manifests the loader understands, in the order DetectAll reads them.
var Known = []string{
	"package.json",
	"pyproject.toml",
	"setup.cfg",
	"requirements.txt",
	"requirements-dev.txt",
	"requirements-test.txt",
	"dev-requirements.txt",
	"go.mod",
	"Cargo.toml",
}

type parser func(m *Manifest, data []byte) error

func parserFor(name string) (parser, bool) {
	base := path.Base(name)
	switch {
	case base == "package.json":
		return parsePackageJSON, true
	case base == "pyproject.toml":
		return parsePyproject, true
	case base == "Cargo.toml":
		return parseCargo, true
	case base == "go.mod":
		return parseGoMod, true
	case base == "setup.cfg":
		return parseSetupCfg, true
	case strings.HasSuffix(base, ".txt") && strings.Contains(base, "requirements"):
		return parseRequirements(isDevRequirements(base)), true
	}
	return nil, false
}

// Supported reports whether name has a loader.
func Supported(name string) bool {
	_, ok := parserFor(name)
	return ok
}

// Load reads and parses the manifest at name inside fsys.
// A missing file yields an error satisfying errors.Is(err, fs.ErrNotExist);
// unparsable content yields an *errs.ManifestParseError.
func Load(fsys fs.FS, name string) (*Manifest, error) {
	parse, ok := parserFor(name)
	if !ok {
		return nil, errs.NewManifestParseError(name, "unsupported manifest type", nil)
	}

	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errs.NewFileError(name, "read", err)
	}

	m := &Manifest{
		Path:    name,
		Runtime: map[string]string{},
		Dev:     map[string]string{},
	}
	if err := parse(m, data); err != nil {
		var coded errs.Coded
		if errors.As(err, &coded) {
			return nil, err
		}
		return nil, errs.NewManifestParseError(name, err.Error(), err)
	}
	return m, nil
}

// Serialize renders the selected scope as JSON with sorted keys, e.g. {"jest":"^29.0.0"}.
// ScopeBoth renders both groups one after the other, so a pattern matches either.
func (m *Manifest) Serialize(scope Scope) string {
	switch scope {
	case ScopeDependencies:
		return encode(m.Runtime)
	case ScopeDevDependencies:
		return encode(m.Dev)
	default:
		return encode(m.Runtime) + encode(m.Dev)
	}
}

// Has reports whether dep is declared in either group.
func (m *Manifest) Has(dep string) bool {
	if _, ok := m.Runtime[dep]; ok {
		return true
	}
	_, ok := m.Dev[dep]
	return ok
}


func encode(deps map[string]string) string {
	if len(deps) == 0 {
		return "{}"
	}
	// encoding/json sorts map keys, which keeps regex matches stable.
	b, err := json.Marshal(deps)
	if err != nil {
		return fmt.Sprintf("%v", deps)
	}
	return string(b)
}
