package detector

import (
	"regexp"
	"strings"

	"testfold/pkg/detector/manifest"
)

// DefaultThreshold applies to profiles built without an explicit threshold.
const DefaultThreshold = 0.3

// Profile is one candidate value of a category together with the patterns that vote for it.
type Profile struct {
	Name      string
	Patterns  []Pattern
	Excludes  []string
	Threshold float64
}

// MaxWeight is the score a profile reaches when every pattern matches.
func (p Profile) MaxWeight() int {
	total := 0
	for _, pat := range p.Patterns {
		total += pat.weight()
	}
	return total
}

// ProfileBuilder provides a fluent API for declaring profiles
type ProfileBuilder struct {
	profile Profile
}

// NewProfile creates a new builder for the named profile
func NewProfile(name string) *ProfileBuilder {
	return &ProfileBuilder{profile: Profile{Name: name, Threshold: DefaultThreshold}}
}

// File adds a pattern matching when path exists
func (b *ProfileBuilder) File(path string, weight int, evidence string) *ProfileBuilder {
	return b.AnyFile([]string{path}, weight, evidence)
}

// AnyFile adds a pattern matching when any of paths exists
func (b *ProfileBuilder) AnyFile(paths []string, weight int, evidence string) *ProfileBuilder {
	return b.add(FileExists{Paths: paths, Weight: weight, Evidence: evidence})
}

// NoFile adds a pattern matching when none of paths exists
func (b *ProfileBuilder) NoFile(paths []string, weight int, evidence string) *ProfileBuilder {
	return b.add(FileExists{Paths: paths, Absent: true, Weight: weight, Evidence: evidence})
}

// Dependency adds a pattern matching any of names in either scope of package.json
func (b *ProfileBuilder) Dependency(names []string, weight int, evidence string) *ProfileBuilder {
	return b.DependencyIn(nil, manifest.ScopeBoth, names, weight, evidence)
}

// DependencyIn adds a pattern matching any of names in the given scope of any of manifests
func (b *ProfileBuilder) DependencyIn(manifests []string, scope manifest.Scope, names []string, weight int, evidence string) *ProfileBuilder {
	return b.add(ManifestDependency{
		Manifests: manifests,
		Scope:     scope,
		Match:     dependencyRegexp(names...),
		Weight:    weight,
		Evidence:  evidence,
	})
}

// Content adds a pattern matching expr against the content of any of paths
func (b *ProfileBuilder) Content(paths []string, expr string, weight int, evidence string) *ProfileBuilder {
	return b.add(ContentMatch{Paths: paths, Match: regexp.MustCompile(expr), Weight: weight, Evidence: evidence})
}

// Excludes suppresses the profile whenever one of names matched in the same evaluation
func (b *ProfileBuilder) Excludes(names ...string) *ProfileBuilder {
	b.profile.Excludes = append(b.profile.Excludes, names...)
	return b
}

// Threshold sets the minimum confidence, in [0,1]
func (b *ProfileBuilder) Threshold(t float64) *ProfileBuilder {
	b.profile.Threshold = t
	return b
}

// Build finalizes the builder and returns the Profile
func (b *ProfileBuilder) Build() Profile {
	return b.profile
}

func (b *ProfileBuilder) add(p Pattern) *ProfileBuilder {
	b.profile.Patterns = append(b.profile.Patterns, p)
	return b
}

// dependencyRegexp matches a dependency key in a serialized scope: "name": for each name.
func dependencyRegexp(names ...string) *regexp.Regexp {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return regexp.MustCompile(`"(?:` + strings.Join(quoted, "|") + `)"\s*:`)
}
