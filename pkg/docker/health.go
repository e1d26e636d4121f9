package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"testfold/pkg/errs"
)

// HealthStatus is the container health as reported by its health check.
type HealthStatus string

const (
	HealthNone      HealthStatus = "none"
	HealthStarting  HealthStatus = "starting"
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// Health returns the health check state, HealthNone when the container has no check or cannot be inspected.
func (m *Manager) Health(ctx context.Context) HealthStatus {
	res, err := m.run(ctx, 0, "inspect", "--format", "{{if .State.Health}}{{.State.Health.Status}}{{end}}", m.cfg.Container)
	if err != nil {
		return HealthNone
	}
	switch s := HealthStatus(strings.TrimSpace(res.Stdout)); s {
	case HealthStarting, HealthHealthy, HealthUnhealthy:
		return s
	default:
		return HealthNone
	}
}

// WaitHealthy polls until the container is healthy, or merely running when it has no health check.
func (m *Manager) WaitHealthy(ctx context.Context, interval, timeout time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		switch m.Health(ctx) {
		case HealthHealthy:
			return nil
		case HealthUnhealthy:
			return errs.NewContainerStartError(m.cfg.Container, "container reported unhealthy", nil)
		case HealthNone:
			if m.GetContainerStatus(ctx) == StatusRunning {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return errs.NewContainerStartError(m.cfg.Container, "cancelled while waiting for health", ctx.Err())
		case <-time.After(interval):
		}
	}

	return errs.NewContainerStartError(m.cfg.Container,
		fmt.Sprintf("timeout waiting for container to become healthy (waited %s)", timeout), nil)
}
