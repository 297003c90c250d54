package logging

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// New returns a logger with the given prefix at the level named by level
// (debug|info|warn|error|off). Unknown names fall back to warn.
func New(prefix, level string) *log.Logger {
	l := log.New(prefix)
	l.SetHeader(`${time_rfc3339} ${level} ${prefix} ${short_file}:${line}`)
	SetLevel(l, level)
	return l
}

func SetLevel(l *log.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		l.SetLevel(log.DEBUG)
	case "info":
		l.SetLevel(log.INFO)
	case "warn", "":
		l.SetLevel(log.WARN)
	case "error":
		l.SetLevel(log.ERROR)
	case "off":
		l.SetLevel(log.OFF)
	default:
		l.SetLevel(log.WARN)
		l.Warnf("unknown loglevel: %s . fall-backed to warn", level)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Requests logs one line when a request arrives and one when its response is written.
func Requests(l *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		l.Debugf("< request @[%s] %s %s", begin.Format(time.RFC3339), r.Method, r.URL)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		l.Infof("> response status = %d (for request %s %s) in %v", rec.status, r.Method, r.URL, time.Since(begin))
	})
}

// LogHandlerFunc is the echo counterpart of Requests. It logs through the echo logger.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		meth := c.Request().Method
		path := c.Request().URL
		BEGIN := time.Now()
		c.Logger().Debugf("< request @[%s] %s %s", BEGIN.Format(time.RFC3339), meth, path)

		var err error
		defer func() {
			c.Logger().Infof(
				"> response status = %d (for request %s %s) in %v / error = %v",
				responseStatus(c, err), meth, path, time.Since(BEGIN), err,
			)
		}()

		err = next(c)
		return err
	}
}

// responseStatus is the status the client gets. An error not yet written by the
// HTTPErrorHandler is reported with the status it will be written with.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
