package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{CodeCommandTimeout, CategoryCommand},
		{CodeContainerStart, CategoryDocker},
		{CodeValidation, CategoryValidation},
		{CodeFileNotFound, CategoryFile},
		{"NOUNDERSCORE", "NOUNDERSCORE"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Category(tt.code))
		})
	}
}

func TestConcreteErrorsCarryFixedCodes(t *testing.T) {
	code := 2
	tests := []struct {
		name string
		err  Coded
		code string
	}{
		{"execution", NewCommandExecutionError("false", &code, "", "boom", nil), CodeCommandExecution},
		{"timeout", NewCommandTimeoutError("sleep 5", 0, "", ""), CodeCommandTimeout},
		{"not found", NewCommandNotFoundError("nope", "", nil), CodeCommandNotFound},
		{"cancelled", NewCommandCancelledError("sleep 5", nil), CodeCommandCancelled},
		{"daemon", NewDockerDaemonUnavailableError("no socket", nil), CodeDockerDaemonUnavailable},
		{"build", NewImageBuildError(".", "bad FROM", nil), CodeImageBuild},
		{"start", NewContainerStartError("c1", "not running", nil), CodeContainerStart},
		{"exists", NewContainerAlreadyExistsError("c1"), CodeContainerAlreadyExists},
		{"missing container", NewContainerNotFoundError("c1"), CodeContainerNotFound},
		{"detection", NewDetectionError("/tmp", "unreadable", nil), CodeDetection},
		{"manifest", NewManifestParseError("package.json", "invalid json", nil), CodeManifestParse},
		{"validation", NewValidationError("timeout", -1, "must be >= 0"), CodeValidation},
		{"file", NewFileError("/etc/x", "read", nil), CodeFile},
		{"file missing", NewFileNotFoundError("/etc/x"), CodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Base().Code)
			assert.NotEmpty(t, tt.err.Base().Name)
			assert.NotEmpty(t, tt.err.Error())
			assert.True(t, IsErrorCode(tt.err, tt.code))
		})
	}
}

func TestCommandExecutionErrorContext(t *testing.T) {
	code := 3
	err := NewCommandExecutionError("make test", &code, "out", "err", nil)

	assert.Equal(t, "make test", err.Context["command"])
	assert.Equal(t, 3, err.Context["exitCode"])
	assert.Equal(t, "out", err.Context["stdout"])
	assert.Equal(t, "err", err.Context["stderr"])
	assert.Contains(t, err.Error(), "exit code 3")
}

func TestIsErrorCodeThroughWrapping(t *testing.T) {
	inner := NewContainerStartError("runner", "exit 1", nil)
	wrapped := fmt.Errorf("setup failed: %w", inner)

	assert.True(t, IsErrorCode(wrapped, CodeContainerStart))
	assert.False(t, IsErrorCode(wrapped, CodeImageBuild))
	assert.True(t, IsErrorCategory(wrapped, CategoryDocker))
	assert.True(t, IsErrorCategory(wrapped, "DOCKER_"))
	assert.False(t, IsErrorCategory(wrapped, CategoryCommand))
	assert.Equal(t, CodeContainerStart, CodeOf(wrapped))

	var startErr *ContainerStartError
	require.True(t, errors.As(wrapped, &startErr))
	assert.Equal(t, "runner", startErr.ContainerName)
}

func TestCauseChaining(t *testing.T) {
	root := errors.New("permission denied")
	fileErr := NewFileError("/root/.env", "read", root)
	startErr := NewContainerStartError("runner", "env file unreadable", fileErr)

	assert.ErrorIs(t, startErr, root)
	assert.True(t, IsErrorCode(startErr, CodeFile))
	assert.True(t, IsErrorCode(startErr, CodeContainerStart))
	assert.Contains(t, startErr.Error(), "permission denied")
}

func TestSeverityOf(t *testing.T) {
	assert.Equal(t, Fatal, SeverityOf(NewDockerDaemonUnavailableError("down", nil)))
	assert.Equal(t, Fatal, SeverityOf(errors.New("plain")))
	assert.Equal(t, Advisory, SeverityOf(NewManifestParseError("package.json", "bad", nil)))
	assert.Equal(t, Advisory, SeverityOf(nil))
}

func TestJSONRoundTrip(t *testing.T) {
	original := NewValidationError("retries", -2, "must be >= 0")

	restored := FromJSON(original.ToJSON())

	assert.Equal(t, original.Name, restored.Name)
	assert.Equal(t, original.Message, restored.Message)
	assert.Equal(t, original.Code, restored.Code)
	assert.Equal(t, original.Context, restored.Context)
	assert.Equal(t, original.Stack, restored.Stack)
}

func TestJSONRoundTripThroughBytes(t *testing.T) {
	cause := NewFileNotFoundError("Dockerfile")
	original := NewImageBuildError("/work", "missing Dockerfile", cause)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	restored, err := ParseJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "ImageBuildError", restored.Name)
	assert.Equal(t, original.Message, restored.Message)
	assert.Equal(t, CodeImageBuild, restored.Code)
	assert.Equal(t, "/work", restored.Context["path"])
	assert.True(t, IsErrorCode(restored, CodeFileNotFound), "coded cause should survive serialization")
}

func TestFromJSONWithPlainCause(t *testing.T) {
	rec := map[string]any{
		"name":    "DaemonError",
		"message": "wrapped",
		"code":    CodeUnknown,
		"cause":   map[string]any{"name": "Error", "message": "disk full"},
	}

	restored := FromJSON(rec)

	require.Error(t, restored.Cause)
	assert.Equal(t, "disk full", restored.Cause.Error())
	assert.Equal(t, "wrapped: disk full", restored.Error())
}

func TestFromJSONDefaults(t *testing.T) {
	restored := FromJSON(map[string]any{"message": "bare"})

	assert.Equal(t, "DaemonError", restored.Name)
	assert.Equal(t, CodeUnknown, restored.Code)
	assert.NotNil(t, restored.Context)
	assert.Nil(t, FromJSON(nil))
}

func TestWithContext(t *testing.T) {
	err := New(CodeUnknown, "boom").WithContext("attempt", 2)

	assert.Equal(t, 2, err.Context["attempt"])
	assert.Equal(t, CategoryDaemon, err.Category())
}
