package errs

// Severity tells a caller whether a failure must abort the current workflow.
type Severity string

const (
	// Fatal failures abort the calling workflow (engine unreachable, build/create/start failure).
	Fatal Severity = "fatal"
	// Advisory failures are logged and swallowed (stop, remove, log retrieval, unreadable project files).
	Advisory Severity = "advisory"
)

var advisoryCodes = map[string]bool{
	CodeManifestParse: true,
	CodeFileNotFound:  true,
}

// SeverityOf returns the severity of err. Uncoded errors are fatal.
func SeverityOf(err error) Severity {
	if err == nil {
		return Advisory
	}
	if advisoryCodes[CodeOf(err)] {
		return Advisory
	}
	return Fatal
}
