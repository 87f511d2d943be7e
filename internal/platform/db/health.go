package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// ClinicDBHealth is the body of the clinic-database health check.
// Report fetches block on this database, so the ping latency is the
// number an operator looks at first.
type ClinicDBHealth struct {
	Status        string `json:"status"`
	PingMillis    int64  `json:"ping_ms"`
	Error         string `json:"error,omitempty"`
	TotalConns    int32  `json:"total_conns"`
	IdleConns     int32  `json:"idle_conns"`
	AcquiredConns int32  `json:"acquired_conns"`
	MaxConns      int32  `json:"max_conns"`
}

// HealthHandler probes the clinic database with a bounded ping and
// reports pool occupancy alongside.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		started := time.Now()
		err := pool.Ping(ctx)

		stat := pool.Stat()
		h := ClinicDBHealth{
			PingMillis:    time.Since(started).Milliseconds(),
			TotalConns:    stat.TotalConns(),
			IdleConns:     stat.IdleConns(),
			AcquiredConns: stat.AcquiredConns(),
			MaxConns:      stat.MaxConns(),
		}

		if err != nil {
			h.Status = "unhealthy"
			h.Error = err.Error()
			return c.JSON(http.StatusServiceUnavailable, h)
		}

		h.Status = "healthy"
		return c.JSON(http.StatusOK, h)
	}
}
