package api

import (
	"errors"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxifleet/pkg/auth"
	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/storage"
)

const (
	headerRequestID = "X-Request-ID"
	loggerKey       = "logger"
)

func requestLogger(log logger.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		reqLog := log.With(logger.String("request_id", id))
		c.Set(loggerKey, reqLog)
		c.Header(headerRequestID, id)

		c.Next()

		reqLog.Info("http_request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.String("ip", c.ClientIP()),
			logger.Duration("latency", time.Since(start)),
		)
	}
}

// authRequired resolves the session cookie to a driver and stores it in
// the request context. Anything else is sent to the login page before the
// handler runs.
func (h *Handler) authRequired(c *gin.Context) {
	d, err := h.sessionDriver(c)
	if err != nil {
		h.fail(c, err)
		c.Abort()
		return
	}
	if d == nil {
		h.redirect(c, loginURL(c.Request.URL.RequestURI()))
		c.Abort()
		return
	}

	c.Request = c.Request.WithContext(auth.WithDriver(c.Request.Context(), d))
	c.Next()
}

// sessionDriver returns nil without error when the request carries no
// usable session.
func (h *Handler) sessionDriver(c *gin.Context) (*models.Driver, error) {
	token, err := c.Cookie(h.cookie)
	if err != nil || token == "" {
		return nil, nil
	}
	claims, err := h.tokens.Validate(token)
	if err != nil {
		requestLog(c, h.log).Debug("session rejected", logger.Error(err))
		return nil, nil
	}
	id, err := claims.DriverID()
	if err != nil {
		return nil, nil
	}

	d, err := h.svc.Driver().Identify(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return d, err
}

// requestLog returns the request-scoped logger set by requestLogger, or
// fallback outside of it.
func requestLog(c *gin.Context, fallback logger.ILogger) logger.ILogger {
	if l, ok := c.Get(loggerKey); ok {
		if log, ok := l.(logger.ILogger); ok {
			return log
		}
	}
	return fallback
}

func loginURL(next string) string {
	return URL(RouteLogin) + "?" + url.Values{"next": {next}}.Encode()
}
