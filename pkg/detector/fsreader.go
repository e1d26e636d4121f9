package detector

import (
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs are never descended into when scanning a project tree.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"vendor":       true,
	".next":        true,
}

// FSReader provides filesystem operations abstracted over fs.FS.
// It memoizes the tree scan, so one reader serves one evaluation and is not shared across goroutines.
type FSReader struct {
	fsys    fs.FS
	files   []string
	scanned bool
}

// NewFSReader creates a new FSReader for the given filesystem
func NewFSReader(fsys fs.FS) *FSReader {
	return &FSReader{fsys: fsys}
}

// FS returns the underlying filesystem.
func (r *FSReader) FS() fs.FS {
	return r.fsys
}

// Has checks if a file or directory exists at the given path
func (r *FSReader) Has(p string) bool {
	_, err := fs.Stat(r.fsys, p)
	return err == nil
}

// Read reads a file and returns its content. ok is false when the file is missing or unreadable.
func (r *FSReader) Read(p string) (string, bool) {
	f, err := r.fsys.Open(p)
	if err != nil {
		return "", false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Exists resolves p as a plain path, or as a doublestar glob (e.g. "**/*_test.go")
// against the scanned tree when it contains glob syntax.
func (r *FSReader) Exists(p string) bool {
	if !isGlob(p) {
		return r.Has(p)
	}
	files, _ := r.Files()
	for _, f := range files {
		if ok, _ := doublestar.Match(p, f); ok {
			return true
		}
	}
	return false
}

// Files returns every regular file in the tree, memoized after the first call.
func (r *FSReader) Files() ([]string, error) {
	if r.scanned {
		return r.files, nil
	}
	files, _, err := r.ScanTree()
	r.files = files
	r.scanned = true
	return files, err
}

// ScanTree walks the filesystem and returns all files and extension counts
func (r *FSReader) ScanTree() ([]string, map[string]int, error) {
	var files []string
	extCounts := map[string]int{}

	err := fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return err
			}
			return nil
		}

		if d.IsDir() && p != "." && skipDirs[d.Name()] {
			return fs.SkipDir
		}

		if !d.IsDir() {
			files = append(files, p)
			ext := strings.ToLower(path.Ext(p))
			if ext != "" {
				extCounts[ext]++
			}
		}
		return nil
	})

	return files, extCounts, err
}

func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
