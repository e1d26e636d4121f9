package detector

import (
	"path"
	"strings"
)

type testKind int

const (
	notATest testKind = iota
	unitTest
	integrationTest
	e2eTest
)

var jsTestExts = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".mjs": true, ".cjs": true, ".mts": true, ".cts": true,
}

// countTests classifies every test file of the scanned tree.
func countTests(r *FSReader) TestCounts {
	files, _ := r.Files()

	var counts TestCounts
	for _, f := range files {
		switch classifyTestFile(f) {
		case unitTest:
			counts.Unit++
		case integrationTest:
			counts.Integration++
		case e2eTest:
			counts.E2E++
		default:
			continue
		}
		counts.Total++
	}
	return counts
}

func classifyTestFile(p string) testKind {
	if !isTestFile(p) {
		return notATest
	}

	lower := strings.ToLower(p)
	segments := strings.Split(path.Dir(lower), "/")
	base := path.Base(lower)

	for _, seg := range segments {
		switch seg {
		case "e2e", "cypress", "playwright", "end-to-end":
			return e2eTest
		}
	}
	if strings.Contains(base, ".e2e.") || strings.Contains(base, ".cy.") {
		return e2eTest
	}

	for _, seg := range segments {
		if seg == "integration" || seg == "integration_tests" || seg == "it" {
			return integrationTest
		}
	}
	if strings.Contains(base, ".integration.") || strings.Contains(base, "_integration_test.") ||
		strings.HasSuffix(path.Base(p), "IT.java") {
		return integrationTest
	}

	return unitTest
}

func isTestFile(p string) bool {
	base := path.Base(p)
	ext := strings.ToLower(path.Ext(base))
	lower := strings.ToLower(base)

	switch ext {
	case ".go":
		return strings.HasSuffix(lower, "_test.go")
	case ".py":
		return strings.HasPrefix(lower, "test_") || strings.HasSuffix(lower, "_test.py")
	case ".rb":
		return strings.HasSuffix(lower, "_spec.rb") || strings.HasSuffix(lower, "_test.rb")
	case ".rs":
		return strings.HasPrefix(p, "tests/")
	case ".java", ".kt":
		stem := strings.TrimSuffix(base, path.Ext(base))
		return strings.HasSuffix(stem, "Test") || strings.HasSuffix(stem, "Tests") || strings.HasSuffix(stem, "IT")
	}

	if jsTestExts[ext] {
		stem := strings.TrimSuffix(lower, ext)
		return strings.HasSuffix(stem, ".test") || strings.HasSuffix(stem, ".spec") || strings.HasSuffix(stem, ".cy") ||
			strings.Contains(p, "__tests__/")
	}
	return false
}
