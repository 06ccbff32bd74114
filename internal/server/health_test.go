package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheckDependencyHealthy(t *testing.T) {
	check, _, err := checkDependency(context.Background(), pingFunc(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline, "pings are bounded")
		return nil
	}))

	assert.NoError(t, err)
	assert.Equal(t, "healthy", check.Status)
	assert.Empty(t, check.Error)
	assert.NotEmpty(t, check.ResponseTime)
}

func TestCheckDependencyUnhealthy(t *testing.T) {
	check, _, err := checkDependency(context.Background(), pingFunc(func(context.Context) error {
		return errors.New("connection refused")
	}))

	assert.Error(t, err)
	assert.Equal(t, "unhealthy", check.Status)
	assert.Equal(t, "connection refused", check.Error)
}

func TestHealthReportHealthy(t *testing.T) {
	report := &HealthReport{Status: "healthy", Timestamp: time.Now()}
	assert.True(t, report.Healthy())

	report.Status = "unhealthy"
	assert.False(t, report.Healthy())
}

func TestShutdownWithoutResources(t *testing.T) {
	assert.NoError(t, (&Server{}).Shutdown())
}
