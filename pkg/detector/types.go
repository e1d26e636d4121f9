package detector

import "time"

// Category names what a Detector decides about a project.
type Category string

const (
	CategoryFramework  Category = "framework"
	CategoryLanguage   Category = "language"
	CategoryTestRunner Category = "test runner"
	CategoryDatabase   Category = "database"
)

// Unknown is the value reported when no profile clears its threshold.
const Unknown = "Unknown"

// DetectionResult is the outcome of one category detection.
// Confidence is in [0,1] and Evidence is non-empty whenever Confidence > 0.
type DetectionResult struct {
	Value        string        `json:"value"`
	Confidence   float64       `json:"confidence"`
	Evidence     []string      `json:"evidence"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
}

// Alternative is a runner-up profile that also cleared its threshold.
type Alternative struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Score is one ranked entry of DetectWithScore.
type Score struct {
	Value    string   `json:"value"`
	Score    float64  `json:"score"`
	Evidence []string `json:"evidence"`
}

// TestCounts classifies the test files found in a project tree.
type TestCounts struct {
	Unit        int `json:"unit"`
	Integration int `json:"integration"`
	E2E         int `json:"e2e"`
	Total       int `json:"total"`
}

// Dependencies lists declared dependency names across every known manifest.
type Dependencies struct {
	Runtime []string `json:"runtime"`
	Dev     []string `json:"dev"`
}

// DetectionResults is the combined report of DetectAll.
type DetectionResults struct {
	Path           string          `json:"path"`
	Framework      DetectionResult `json:"framework"`
	Language       DetectionResult `json:"language"`
	TestRunner     DetectionResult `json:"testRunner"`
	Database       DetectionResult `json:"database"`
	TestCounts     TestCounts      `json:"testCounts"`
	Dependencies   Dependencies    `json:"dependencies"`
	PackageManager string          `json:"packageManager,omitempty"`
	InstallCommand string          `json:"installCommand,omitempty"`
	TestCommand    string          `json:"testCommand,omitempty"`
	Duration       time.Duration   `json:"duration"`
	Timestamp      time.Time       `json:"timestamp"`
}
