package errs

import (
	"fmt"
	"time"
)

// CommandExecutionError is returned when a command exits non-zero or cannot be run.
type CommandExecutionError struct {
	*DaemonError
	Command  string
	ExitCode *int
	Stdout   string
	Stderr   string
}

func NewCommandExecutionError(command string, exitCode *int, stdout, stderr string, cause error) *CommandExecutionError {
	msg := fmt.Sprintf("command failed: %s", command)
	if exitCode != nil {
		msg = fmt.Sprintf("command failed with exit code %d: %s", *exitCode, command)
	}
	ctx := map[string]any{
		"command": command,
		"stdout":  stdout,
		"stderr":  stderr,
	}
	if exitCode != nil {
		ctx["exitCode"] = *exitCode
	}
	return &CommandExecutionError{
		DaemonError: newBase("CommandExecutionError", CodeCommandExecution, msg, ctx, cause),
		Command:     command,
		ExitCode:    exitCode,
		Stdout:      stdout,
		Stderr:      stderr,
	}
}

// CommandTimeoutError is returned when an attempt outlives its timeout.
type CommandTimeoutError struct {
	*DaemonError
	Command string
	Timeout time.Duration
	Stdout  string
	Stderr  string
}

func NewCommandTimeoutError(command string, timeout time.Duration, stdout, stderr string) *CommandTimeoutError {
	ctx := map[string]any{
		"command":   command,
		"timeoutMs": timeout.Milliseconds(),
		"stdout":    stdout,
		"stderr":    stderr,
	}
	return &CommandTimeoutError{
		DaemonError: newBase("CommandTimeoutError", CodeCommandTimeout,
			fmt.Sprintf("command timed out after %s: %s", timeout, command), ctx, nil),
		Command: command,
		Timeout: timeout,
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

// CommandNotFoundError is returned when the executable does not exist.
type CommandNotFoundError struct {
	*DaemonError
	Command string
	Stderr  string
}

func NewCommandNotFoundError(command, stderr string, cause error) *CommandNotFoundError {
	ctx := map[string]any{"command": command, "stderr": stderr}
	return &CommandNotFoundError{
		DaemonError: newBase("CommandNotFoundError", CodeCommandNotFound,
			fmt.Sprintf("command not found: %s", command), ctx, cause),
		Command: command,
		Stderr:  stderr,
	}
}

// CommandCancelledError is returned when the caller cancels a command before it finishes.
type CommandCancelledError struct {
	*DaemonError
	Command string
}

func NewCommandCancelledError(command string, cause error) *CommandCancelledError {
	return &CommandCancelledError{
		DaemonError: newBase("CommandCancelledError", CodeCommandCancelled,
			fmt.Sprintf("command cancelled: %s", command), map[string]any{"command": command}, cause),
		Command: command,
	}
}

// DockerDaemonUnavailableError is returned when the container engine cannot be reached.
type DockerDaemonUnavailableError struct {
	*DaemonError
	Reason string
}

func NewDockerDaemonUnavailableError(reason string, cause error) *DockerDaemonUnavailableError {
	return &DockerDaemonUnavailableError{
		DaemonError: newBase("DockerDaemonUnavailableError", CodeDockerDaemonUnavailable,
			"docker daemon is not available", map[string]any{"reason": reason}, cause),
		Reason: reason,
	}
}

// ImageBuildError is returned when an image build fails.
type ImageBuildError struct {
	*DaemonError
	Path   string
	Reason string
}

func NewImageBuildError(path, reason string, cause error) *ImageBuildError {
	return &ImageBuildError{
		DaemonError: newBase("ImageBuildError", CodeImageBuild,
			fmt.Sprintf("failed to build image from %s", path),
			map[string]any{"path": path, "reason": reason}, cause),
		Path:   path,
		Reason: reason,
	}
}

// ContainerStartError is returned when a container cannot be created, started or reached.
type ContainerStartError struct {
	*DaemonError
	ContainerName string
	Reason        string
}

func NewContainerStartError(containerName, reason string, cause error) *ContainerStartError {
	return &ContainerStartError{
		DaemonError: newBase("ContainerStartError", CodeContainerStart,
			fmt.Sprintf("failed to start container %s: %s", containerName, reason),
			map[string]any{"containerName": containerName, "reason": reason}, cause),
		ContainerName: containerName,
		Reason:        reason,
	}
}

// ContainerAlreadyExistsError is returned by create when the container name is taken.
type ContainerAlreadyExistsError struct {
	*DaemonError
	ContainerName string
}

func NewContainerAlreadyExistsError(containerName string) *ContainerAlreadyExistsError {
	return &ContainerAlreadyExistsError{
		DaemonError: newBase("ContainerAlreadyExistsError", CodeContainerAlreadyExists,
			fmt.Sprintf("container %s already exists", containerName),
			map[string]any{"containerName": containerName}, nil),
		ContainerName: containerName,
	}
}

// ContainerNotFoundError is returned when an operation requires a container that does not exist.
type ContainerNotFoundError struct {
	*DaemonError
	ContainerName string
}

func NewContainerNotFoundError(containerName string) *ContainerNotFoundError {
	return &ContainerNotFoundError{
		DaemonError: newBase("ContainerNotFoundError", CodeContainerNotFound,
			fmt.Sprintf("container %s not found", containerName),
			map[string]any{"containerName": containerName}, nil),
		ContainerName: containerName,
	}
}

// DetectionError describes a detection failure that a caller chose to surface.
type DetectionError struct {
	*DaemonError
	Path   string
	Reason string
}

func NewDetectionError(path, reason string, cause error) *DetectionError {
	return &DetectionError{
		DaemonError: newBase("DetectionError", CodeDetection,
			fmt.Sprintf("detection failed for %s: %s", path, reason),
			map[string]any{"path": path, "reason": reason}, cause),
		Path:   path,
		Reason: reason,
	}
}

// ManifestParseError describes a manifest that exists but could not be parsed.
type ManifestParseError struct {
	*DaemonError
	FilePath string
	Reason   string
}

func NewManifestParseError(filePath, reason string, cause error) *ManifestParseError {
	return &ManifestParseError{
		DaemonError: newBase("ManifestParseError", CodeManifestParse,
			fmt.Sprintf("failed to parse manifest %s", filePath),
			map[string]any{"filePath": filePath, "reason": reason}, cause),
		FilePath: filePath,
		Reason:   reason,
	}
}

// ValidationError describes a value that violates a constraint.
type ValidationError struct {
	*DaemonError
	Field      string
	Value      any
	Constraint string
}

func NewValidationError(field string, value any, constraint string) *ValidationError {
	return &ValidationError{
		DaemonError: newBase("ValidationError", CodeValidation,
			fmt.Sprintf("invalid %s: %s", field, constraint),
			map[string]any{"field": field, "value": value, "constraint": constraint}, nil),
		Field:      field,
		Value:      value,
		Constraint: constraint,
	}
}

// FileError describes a failed file operation.
type FileError struct {
	*DaemonError
	FilePath  string
	Operation string
}

func NewFileError(filePath, operation string, cause error) *FileError {
	return &FileError{
		DaemonError: newBase("FileError", CodeFile,
			fmt.Sprintf("failed to %s %s", operation, filePath),
			map[string]any{"filePath": filePath, "operation": operation}, cause),
		FilePath:  filePath,
		Operation: operation,
	}
}

// FileNotFoundError describes a missing file.
type FileNotFoundError struct {
	*DaemonError
	FilePath string
}

func NewFileNotFoundError(filePath string) *FileNotFoundError {
	return &FileNotFoundError{
		DaemonError: newBase("FileNotFoundError", CodeFileNotFound,
			fmt.Sprintf("file not found: %s", filePath),
			map[string]any{"filePath": filePath, "operation": "stat"}, nil),
		FilePath: filePath,
	}
}
