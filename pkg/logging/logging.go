package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects level, format (text or json) and output (stdout, stderr or a file path).
type Options struct {
	Level  string
	Format string
	Output string
}

// New builds a logger. An invalid level falls back to info and an unopenable output file
// to stderr; both are reported as warnings on the returned logger.
func New(cfg Options) *logrus.Logger {
	log := logrus.New()

	var warnings []func()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		warnings = append(warnings, func() {
			log.Warnf("Invalid log level '%s', using 'info' instead. Error: %v", cfg.Level, err)
		})
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
	case "stderr", "":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			warnings = append(warnings, func() {
				log.Warnf("Failed to open log file '%s', using 'stderr' instead. Error: %v", cfg.Output, err)
			})
			output = os.Stderr
		} else {
			output = file
		}
	}
	log.SetOutput(output)

	for _, warn := range warnings {
		warn()
	}
	return log
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// OrDiscard returns log, or a discarding logger when log is nil.
func OrDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return Discard()
	}
	return log
}
