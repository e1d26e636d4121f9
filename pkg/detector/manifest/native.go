package manifest

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
)

func parseGoMod(m *Manifest, data []byte) error {
	f, err := modfile.Parse(m.Path, data, nil)
	if err != nil {
		return err
	}
	if f.Module != nil {
		m.Name = f.Module.Mod.Path
	}
	for _, req := range f.Require {
		m.Runtime[req.Mod.Path] = req.Mod.Version
	}
	return nil
}

type cargoManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

func parseCargo(m *Manifest, data []byte) error {
	var doc cargoManifest
	if err := toml.Unmarshal(data, &doc); err != nil {
		return err
	}
	m.Name = doc.Package.Name
	for name, spec := range doc.Dependencies {
		m.Runtime[name] = cargoVersion(spec)
	}
	for name, spec := range doc.DevDependencies {
		m.Dev[name] = cargoVersion(spec)
	}
	for name, spec := range doc.BuildDependencies {
		m.Dev[name] = cargoVersion(spec)
	}
	return nil
}

func cargoVersion(spec any) string {
	switch v := spec.(type) {
	case string:
		return v
	case map[string]any:
		if ver, ok := v["version"].(string); ok {
			return ver
		}
		if _, ok := v["path"]; ok {
			return "path"
		}
		if _, ok := v["git"]; ok {
			return "git"
		}
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
