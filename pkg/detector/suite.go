package detector

import (
	"errors"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"testfold/pkg/detector/manifest"
	"testfold/pkg/detector/packagemanagers"
	"testfold/pkg/logging"
)

// SuiteOptions configures NewSuite. Every detector gets its own cache built from CacheTTL and CacheSize.
type SuiteOptions struct {
	CacheTTL  time.Duration
	CacheSize int
	Open      func(root string) fs.FS
	Logger    logrus.FieldLogger
}

// Suite runs the framework, language, test runner and database detectors together.
type Suite struct {
	Framework  *Detector
	Language   *Detector
	TestRunner *Detector
	Database   *Detector

	open func(root string) fs.FS
	log  logrus.FieldLogger
	now  func() time.Time
}

// NewSuite creates a Suite over the built-in catalogues.
func NewSuite(opts SuiteOptions) *Suite {
	if opts.Open == nil {
		opts.Open = os.DirFS
	}
	log := logging.OrDiscard(opts.Logger).WithField("component", "detector")

	build := func(c Category, profiles []Profile) *Detector {
		return NewDetector(c, profiles, Options{
			Cache:  NewCache(opts.CacheTTL, opts.CacheSize),
			Open:   opts.Open,
			Logger: log,
		})
	}

	return &Suite{
		Framework:  build(CategoryFramework, Frameworks()),
		Language:   build(CategoryLanguage, Languages()),
		TestRunner: build(CategoryTestRunner, TestRunners()),
		Database:   build(CategoryDatabase, Databases()),
		open:       opts.Open,
		log:        log,
		now:        time.Now,
	}
}

func (s *Suite) detectors() []*Detector {
	return []*Detector{s.Framework, s.Language, s.TestRunner, s.Database}
}

// DetectAll runs every detector plus the test file, dependency and package manager scans.
func (s *Suite) DetectAll(path string) DetectionResults {
	start := s.now()
	root := absPath(path)
	out := DetectionResults{Path: root}

	var g errgroup.Group
	g.Go(func() error { out.Framework = s.Framework.Detect(root); return nil })
	g.Go(func() error { out.Language = s.Language.Detect(root); return nil })
	g.Go(func() error { out.TestRunner = s.TestRunner.Detect(root); return nil })
	g.Go(func() error { out.Database = s.Database.Detect(root); return nil })
	g.Go(func() error {
		out.TestCounts = countTests(NewFSReader(s.open(root)))
		return nil
	})
	var scripts map[string]string
	g.Go(func() error {
		out.Dependencies, scripts = s.dependencies(root)
		return nil
	})
	_ = g.Wait()

	fsys := s.open(root)
	out.PackageManager = packagemanagers.ForLanguage(fsys, out.Language.Value)
	if out.PackageManager == "" && isJSRunner(out.TestRunner.Value) {
		out.PackageManager = packagemanagers.DetectJS(fsys)
	}
	out.InstallCommand = packagemanagers.GetInstallCommand(out.PackageManager)
	out.TestCommand = packagemanagers.GetTestCommand(out.TestRunner.Value, out.PackageManager, scripts["test"])

	out.Timestamp = s.now()
	out.Duration = out.Timestamp.Sub(start)

	s.log.WithFields(logrus.Fields{
		"path":       root,
		"framework":  out.Framework.Value,
		"language":   out.Language.Value,
		"testRunner": out.TestRunner.Value,
		"database":   out.Database.Value,
		"duration":   out.Duration.String(),
	}).Debug("detection complete")
	return out
}

// ClearCache drops cached results of every detector.
func (s *Suite) ClearCache() {
	for _, d := range s.detectors() {
		d.ClearCache()
	}
}

// CacheStats reports each detector's cache.
func (s *Suite) CacheStats() map[Category]CacheStats {
	out := make(map[Category]CacheStats, 4)
	for _, d := range s.detectors() {
		out[d.Category()] = d.CacheStats()
	}
	return out
}

func (s *Suite) dependencies(root string) (Dependencies, map[string]string) {
	fsys := s.open(root)
	runtime := map[string]bool{}
	dev := map[string]bool{}
	var scripts map[string]string

	for _, name := range manifest.Known {
		m, err := manifest.Load(fsys, name)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.log.WithError(err).WithField("manifest", name).Warn("ignoring unreadable manifest")
			}
			continue
		}
		for dep := range m.Runtime {
			runtime[dep] = true
		}
		for dep := range m.Dev {
			dev[dep] = true
		}
		if name == "package.json" {
			scripts = m.Scripts
		}
	}
	return Dependencies{Runtime: sortedKeys(runtime), Dev: sortedKeys(dev)}, scripts
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func isJSRunner(runner string) bool {
	switch runner {
	case "Jest", "Vitest", "Mocha", "Playwright", "Cypress":
		return true
	}
	return false
}
