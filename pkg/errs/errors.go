package errs

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Error categories. Every code is "<CATEGORY>_<###>".
const (
	CategoryDaemon     = "DAEMON"
	CategoryDocker     = "DOCKER"
	CategoryDetection  = "DETECTION"
	CategoryCommand    = "COMMAND"
	CategoryValidation = "VALIDATION"
	CategoryFile       = "FILE"
)

// Stable error codes
const (
	CodeUnknown = "DAEMON_000"

	CodeDockerDaemonUnavailable = "DOCKER_001"
	CodeImageBuild              = "DOCKER_002"
	CodeContainerStart          = "DOCKER_003"
	CodeContainerAlreadyExists  = "DOCKER_004"
	CodeContainerNotFound       = "DOCKER_005"

	CodeDetection     = "DETECTION_001"
	CodeManifestParse = "DETECTION_002"

	CodeCommandExecution = "COMMAND_001"
	CodeCommandTimeout   = "COMMAND_002"
	CodeCommandNotFound  = "COMMAND_003"
	CodeCommandCancelled = "COMMAND_004"

	CodeValidation = "VALIDATION_001"

	CodeFile         = "FILE_001"
	CodeFileNotFound = "FILE_002"
)

// DaemonError is the base of every coded error raised by testfold.
type DaemonError struct {
	Name    string         `json:"name"`
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Context map[string]any `json:"context,omitempty"`
	Cause   error          `json:"-"`
	Stack   string         `json:"stack,omitempty"`
}

// Coded is satisfied by *DaemonError and every concrete error type embedding it.
type Coded interface {
	error
	Base() *DaemonError
}

// New creates a DaemonError with the given code and message.
func New(code, message string) *DaemonError {
	return newBase("DaemonError", code, message, nil, nil)
}

// Wrap creates a DaemonError chained to cause.
func Wrap(cause error, code, message string) *DaemonError {
	return newBase("DaemonError", code, message, nil, cause)
}

func newBase(name, code, message string, ctx map[string]any, cause error) *DaemonError {
	if code == "" {
		code = CodeUnknown
	}
	if ctx == nil {
		ctx = map[string]any{}
	}
	return &DaemonError{
		Name:    name,
		Message: message,
		Code:    code,
		Context: ctx,
		Cause:   cause,
		Stack:   captureStack(3),
	}
}

func (e *DaemonError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *DaemonError) Unwrap() error {
	return e.Cause
}

// Base returns e itself so concrete types embedding *DaemonError satisfy Coded.
func (e *DaemonError) Base() *DaemonError {
	return e
}

// Category returns the category prefix of the error code.
func (e *DaemonError) Category() string {
	return Category(e.Code)
}

// WithContext adds a key to the error context and returns e for chaining.
func (e *DaemonError) WithContext(key string, value any) *DaemonError {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// Category returns the part of code before the last underscore.
func Category(code string) string {
	idx := strings.LastIndex(code, "_")
	if idx <= 0 {
		return code
	}
	return code[:idx]
}

// CodeOf returns the code of the first coded error in err's chain, or "" if none.
func CodeOf(err error) string {
	var c Coded
	if errors.As(err, &c) {
		return c.Base().Code
	}
	return ""
}

// IsErrorCode reports whether any coded error in err's chain has the given code.
func IsErrorCode(err error, code string) bool {
	for err != nil {
		if c, ok := err.(Coded); ok && c.Base().Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsErrorCategory reports whether any coded error in err's chain belongs to the category prefix.
func IsErrorCategory(err error, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "_")
	for err != nil {
		if c, ok := err.(Coded); ok && Category(c.Base().Code) == prefix {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

func captureStack(skip int) string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
