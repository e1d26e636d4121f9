package detector

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/sirupsen/logrus"

	"testfold/pkg/detector/manifest"
)

// Pattern is one weighted signal of a Profile. It is a closed set:
// FileExists, ManifestDependency and ContentMatch.
type Pattern interface {
	weight() int
	evidence() string
	positive() bool
}

// FileExists matches when any of Paths exists (or, with Absent, when none does).
// Paths may be doublestar globs.
type FileExists struct {
	Paths    []string
	Absent   bool
	Weight   int
	Evidence string
}

// ManifestDependency matches when Match finds the serialized Scope of any of Manifests.
// Manifests defaults to package.json. Missing and malformed manifests never match.
type ManifestDependency struct {
	Manifests []string
	Scope     manifest.Scope
	Match     *regexp.Regexp
	Weight    int
	Evidence  string
}

// ContentMatch matches when Match finds the content of any of Paths.
type ContentMatch struct {
	Paths    []string
	Match    *regexp.Regexp
	Weight   int
	Evidence string
}

func (p FileExists) weight() int { return p.Weight }
func (p FileExists) evidence() string { return p.Evidence }
func (p FileExists) positive() bool { return !p.Absent }

func (p ManifestDependency) weight() int { return p.Weight }
func (p ManifestDependency) evidence() string { return p.Evidence }
func (p ManifestDependency) positive() bool { return true }

func (p ContentMatch) weight() int { return p.Weight }
func (p ContentMatch) evidence() string { return p.Evidence }
func (p ContentMatch) positive() bool { return true }

// project is the per-evaluation view of a project tree. Manifests are parsed at most once.
type project struct {
	reader    *FSReader
	manifests map[string]*manifest.Manifest
	log       logrus.FieldLogger
}

func newProject(fsys fs.FS, log logrus.FieldLogger) *project {
	return &project{
		reader:    NewFSReader(fsys),
		manifests: map[string]*manifest.Manifest{},
		log:       log,
	}
}

// manifest returns the parsed manifest or nil when it is missing or malformed.
func (p *project) manifest(name string) *manifest.Manifest {
	if m, ok := p.manifests[name]; ok {
		return m
	}
	m, err := manifest.Load(p.reader.FS(), name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.log.WithError(err).WithField("manifest", name).Warn("ignoring unreadable manifest")
		}
		m = nil
	}
	p.manifests[name] = m
	return m
}

func (p *project) matches(pat Pattern) bool {
	switch pat := pat.(type) {
	case FileExists:
		found := false
		for _, path := range pat.Paths {
			if p.reader.Exists(path) {
				found = true
				break
			}
		}
		return found != pat.Absent

	case ManifestDependency:
		if pat.Match == nil {
			return false
		}
		names := pat.Manifests
		if len(names) == 0 {
			names = []string{"package.json"}
		}
		scope := pat.Scope
		if scope == "" {
			scope = manifest.ScopeBoth
		}
		for _, name := range names {
			m := p.manifest(name)
			if m != nil && pat.Match.MatchString(m.Serialize(scope)) {
				return true
			}
		}
		return false

	case ContentMatch:
		if pat.Match == nil {
			return false
		}
		for _, path := range pat.Paths {
			content, ok := p.reader.Read(path)
			if ok && pat.Match.MatchString(content) {
				return true
			}
		}
		return false

	default:
		panic(fmt.Sprintf("detector: unhandled pattern type %T", pat))
	}
}
