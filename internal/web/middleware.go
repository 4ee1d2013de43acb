package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// requestLogger logs one line per request. Client addresses are left out.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/gallery/",
	"/header/",
	"/healthz",
	"/favicon",
	"/privacy",
}

func tracked(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet {
		return false
	}
	// Respect Do Not Track
	if c.GetHeader("DNT") == "1" {
		return false
	}
	path := c.Request.URL.Path
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// visitorTracking records page visits in the background.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !tracked(c) {
			c.Next()
			return
		}

		ip, ua, path := c.ClientIP(), c.GetHeader("User-Agent"), c.Request.URL.Path
		ctx := context.WithoutCancel(c.Request.Context())
		go func() {
			if err := s.tracker.RecordVisit(ctx, ip, ua, path); err != nil {
				s.logger.Warn("failed to record visit", "error", err)
			}
		}()

		c.Next()
	}
}

func (s *Server) trackProjectView(c *gin.Context, slug string) {
	if s.tracker == nil || c.GetHeader("DNT") == "1" {
		return
	}
	ip := c.ClientIP()
	ctx := context.WithoutCancel(c.Request.Context())
	go func() {
		if err := s.tracker.RecordProjectView(ctx, ip, slug); err != nil {
			s.logger.Warn("failed to record project view", "slug", slug, "error", err)
		}
	}()
}
