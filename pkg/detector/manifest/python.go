package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
)

// requirementName matches the distribution name at the start of a PEP 508 requirement.
var requirementName = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)(\[[^\]]*\])?\s*(.*)$`)

// devGroups are optional-dependency and dependency-group names treated as development scope.
var devGroups = map[string]bool{
	"dev":     true,
	"test":    true,
	"tests":   true,
	"testing": true,
	"lint":    true,
	"docs":    true,
}

type pyproject struct {
	Project struct {
		Name                 string              `toml:"name"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	DependencyGroups map[string][]any `toml:"dependency-groups"`
	Tool             struct {
		Poetry struct {
			Name            string         `toml:"name"`
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func parsePyproject(m *Manifest, data []byte) error {
	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return err
	}

	m.Name = doc.Project.Name
	if m.Name == "" {
		m.Name = doc.Tool.Poetry.Name
	}

	addRequirements(m.Runtime, doc.Project.Dependencies)
	for group, reqs := range doc.Project.OptionalDependencies {
		if devGroups[strings.ToLower(group)] {
			addRequirements(m.Dev, reqs)
		} else {
			addRequirements(m.Runtime, reqs)
		}
	}
	for _, entries := range doc.DependencyGroups {
		// include-group tables are skipped; only plain requirement strings count.
		for _, e := range entries {
			if s, ok := e.(string); ok {
				addRequirement(m.Dev, s)
			}
		}
	}

	for name, spec := range doc.Tool.Poetry.Dependencies {
		if strings.EqualFold(name, "python") {
			continue
		}
		m.Runtime[normalizeName(name)] = poetryVersion(spec)
	}
	for name, spec := range doc.Tool.Poetry.DevDependencies {
		m.Dev[normalizeName(name)] = poetryVersion(spec)
	}
	for _, group := range doc.Tool.Poetry.Group {
		for name, spec := range group.Dependencies {
			m.Dev[normalizeName(name)] = poetryVersion(spec)
		}
	}
	return nil
}

func poetryVersion(spec any) string {
	switch v := spec.(type) {
	case string:
		return v
	case map[string]any:
		if ver, ok := v["version"].(string); ok {
			return ver
		}
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func parseSetupCfg(m *Manifest, data []byte) error {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
		IgnoreInlineComment:        true,
	}, data)
	if err != nil {
		return err
	}

	if sec, err := cfg.GetSection("metadata"); err == nil {
		m.Name = sec.Key("name").String()
	}
	if sec, err := cfg.GetSection("options"); err == nil {
		addRequirements(m.Runtime, splitLines(sec.Key("install_requires").String()))
		addRequirements(m.Dev, splitLines(sec.Key("tests_require").String()))
	}
	if sec, err := cfg.GetSection("options.extras_require"); err == nil {
		for _, key := range sec.Keys() {
			target := m.Runtime
			if devGroups[strings.ToLower(key.Name())] {
				target = m.Dev
			}
			addRequirements(target, splitLines(key.String()))
		}
	}
	return nil
}

func isDevRequirements(base string) bool {
	lower := strings.ToLower(base)
	return strings.Contains(lower, "dev") || strings.Contains(lower, "test")
}

func parseRequirements(dev bool) parser {
	return func(m *Manifest, data []byte) error {
		target := m.Runtime
		if dev {
			target = m.Dev
		}
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if i := strings.Index(line, " #"); i >= 0 {
				line = strings.TrimSpace(line[:i])
			}
			// Options (-r, -e, --index-url) and comments carry no dependency names.
			if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
				continue
			}
			addRequirement(target, line)
		}
		return scanner.Err()
	}
}

func splitLines(value string) []string {
	var out []string
	for _, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			out = append(out, line)
		}
	}
	return out
}

func addRequirements(into map[string]string, reqs []string) {
	for _, r := range reqs {
		addRequirement(into, r)
	}
}

func addRequirement(into map[string]string, req string) {
	req = strings.TrimSpace(req)
	if i := strings.Index(req, ";"); i >= 0 {
		req = strings.TrimSpace(req[:i])
	}
	match := requirementName.FindStringSubmatch(req)
	if match == nil {
		return
	}
	into[normalizeName(match[1])] = strings.TrimSpace(match[3])
}

// normalizeName applies PEP 503 normalization so "Flask_SQLAlchemy" and "flask-sqlalchemy" compare equal.
func normalizeName(name string) string {
	name = strings.ToLower(name)
	return strings.NewReplacer("_", "-", ".", "-").Replace(name)
}
