package docker

import (
	"strings"
	"time"

	"testfold/pkg/errs"
)

// ContainerStatus is the engine's view of a container state.
type ContainerStatus string

const (
	StatusUnknown    ContainerStatus = "unknown"
	StatusCreated    ContainerStatus = "created"
	StatusRunning    ContainerStatus = "running"
	StatusPaused     ContainerStatus = "paused"
	StatusRestarting ContainerStatus = "restarting"
	StatusExited     ContainerStatus = "exited"
	StatusRemoving   ContainerStatus = "removing"
	StatusDead       ContainerStatus = "dead"
)

// ParseContainerStatus maps `docker inspect` state text to a ContainerStatus, StatusUnknown on a miss.
func ParseContainerStatus(s string) ContainerStatus {
	switch st := ContainerStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusCreated, StatusRunning, StatusPaused, StatusRestarting, StatusExited, StatusRemoving, StatusDead:
		return st
	default:
		return StatusUnknown
	}
}

// ContainerDescriptor is an observed snapshot; it is never cached by the Manager.
type ContainerDescriptor struct {
	Name   string          `json:"name"`
	Image  string          `json:"image"`
	Status ContainerStatus `json:"status"`
}

// SetupStatus is how Setup or Start left the container.
type SetupStatus string

const (
	SetupRunning SetupStatus = "running"
	SetupStarted SetupStatus = "started"
	SetupCreated SetupStatus = "created"
)

// Outcome reports an advisory operation (stop, remove). Failures are carried, never returned as errors.
type Outcome struct {
	Op       string        `json:"op"`
	Skipped  bool          `json:"skipped"`
	Severity errs.Severity `json:"severity"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// OK reports whether the operation succeeded or had nothing to do.
func (o Outcome) OK() bool {
	return o.Err == nil
}
