package detector

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"testfold/pkg/logging"
)

// Options configures a Detector. Zero values select the defaults.
type Options struct {
	// Cache is owned by the detector; nil creates one with the default TTL and size.
	Cache *Cache
	// Open maps an absolute project root to the filesystem evaluated for it.
	Open   func(root string) fs.FS
	Logger logrus.FieldLogger
}

// Detector decides one Category for a project by scoring its profiles.
// It never fails: filesystem and parse problems lower confidence instead.
type Detector struct {
	category Category
	profiles []Profile
	cache    *Cache
	open     func(root string) fs.FS
	flight   singleflight.Group
	log      logrus.FieldLogger
}

// NewDetector creates a Detector for category over profiles, evaluated in order.
func NewDetector(category Category, profiles []Profile, opts Options) *Detector {
	if opts.Cache == nil {
		opts.Cache = NewCache(DefaultCacheTTL, DefaultCacheSize)
	}
	if opts.Open == nil {
		opts.Open = os.DirFS
	}
	return &Detector{
		category: category,
		profiles: profiles,
		cache:    opts.Cache,
		open:     opts.Open,
		log:      logging.OrDiscard(opts.Logger).WithField("category", string(category)),
	}
}

// Category returns what the detector decides.
func (d *Detector) Category() Category {
	return d.category
}

// Detect returns the best profile for path, with runners-up as alternatives,
// or Unknown with zero confidence when nothing clears its threshold.
func (d *Detector) Detect(path string) DetectionResult {
	return result(d.category, d.DetectWithScore(path))
}

// DetectWithScore returns every profile that cleared its threshold, best first.
// Results are cached per absolute path; concurrent callers for a cold path share one evaluation.
func (d *Detector) DetectWithScore(path string) []Score {
	key := absPath(path)

	if scores, ok := d.cache.Get(key); ok {
		return cloneScores(scores)
	}

	v, _, shared := d.flight.Do(key, func() (any, error) {
		if scores, ok := d.cache.Get(key); ok {
			return scores, nil
		}
		scores := d.evaluate(key)
		d.cache.Put(key, scores)
		return scores, nil
	})
	if shared {
		d.log.WithField("path", key).Debug("joined in-flight detection")
	}
	return cloneScores(v.([]Score))
}

// ClearCache drops every cached result.
func (d *Detector) ClearCache() {
	d.cache.Clear()
}

// CacheStats reports the live cache entries.
func (d *Detector) CacheStats() CacheStats {
	return d.cache.Stats()
}

func (d *Detector) evaluate(root string) []Score {
	fsys := d.open(root)
	if _, err := fs.Stat(fsys, "."); err != nil {
		d.log.WithError(err).WithField("path", root).Warn("project root is not readable")
	}
	scores := rank(d.profiles, newProject(fsys, d.log))
	d.log.WithFields(logrus.Fields{
		"path":       root,
		"candidates": len(scores),
	}).Debug("evaluated profiles")
	return scores
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

