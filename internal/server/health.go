package server

import (
	"context"
	"time"
)

// HealthTimeout bounds each dependency check.
const HealthTimeout = 5 * time.Second

// HealthCheck is the result of one dependency check.
type HealthCheck struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// HealthReport summarizes whether the service can reach its dependencies.
type HealthReport struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]HealthCheck `json:"checks"`
}

// Healthy reports whether every check passed.
func (r *HealthReport) Healthy() bool {
	return r.Status == "healthy"
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Health pings the database and reports the outcome.
//
// A failed check is logged and, when New Relic is enabled, recorded as a
// HealthCheckError custom event.
func (s *Server) Health(ctx context.Context) *HealthReport {
	report := &HealthReport{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: s.Config.Primary.Env,
		Checks:      make(map[string]HealthCheck),
	}

	logger := s.Logger.With().Str("operation", "health_check").Logger()

	check, elapsed, err := checkDependency(ctx, s.DB.Pool)
	report.Checks["database"] = check
	if err == nil {
		logger.Info().Dur("response_time", elapsed).Msg("database health check passed")
		return report
	}

	report.Status = "unhealthy"
	logger.Error().Err(err).Dur("response_time", elapsed).Msg("database health check failed")

	if app := s.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", map[string]any{
			"check_type":       "database",
			"operation":        "health_check",
			"error_type":       "database_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
	}
	return report
}

func checkDependency(ctx context.Context, p pinger) (HealthCheck, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, HealthTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	elapsed := time.Since(start)

	check := HealthCheck{Status: "healthy", ResponseTime: elapsed.String()}
	if err != nil {
		check.Status = "unhealthy"
		check.Error = err.Error()
	}
	return check, elapsed, err
}
