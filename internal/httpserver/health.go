package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const readinessTimeout = time.Second

type readinessCheck struct {
	name string
	dep  Pinger
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readyHandler pings every dependency and fails when any of them is down.
func readyHandler(checks ...readinessCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		status, ready := make(gin.H, len(checks)), true
		for _, chk := range checks {
			switch {
			case chk.dep == nil:
				status[chk.name], ready = "not configured", false
			case chk.dep.Ping(ctx) != nil:
				status[chk.name], ready = "unreachable", false
			default:
				status[chk.name] = "ok"
			}
		}

		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": status})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": status})
	}
}

// newStdLogger routes net/http's internal errors into logrus.
func newStdLogger(logger *logrus.Logger) *log.Logger {
	return log.New(logger.WriterLevel(logrus.WarnLevel), "", 0)
}
