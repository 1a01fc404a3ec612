package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLevel(t *testing.T) {
	for _, debug := range []bool{false, true} {
		l, err := New(debug)
		if err != nil {
			t.Fatal(err)
		}
		if got := l.Core().Enabled(zapcore.DebugLevel); got != debug {
			t.Errorf("debug=%v: debug enabled = %v", debug, got)
		}
	}
}

func TestRequests(t *testing.T) {
	tests := []struct {
		path  string
		level zapcore.Level
	}{
		{"/ok", zapcore.InfoLevel},
		{"/missing", zapcore.WarnLevel},
		{"/boom", zapcore.ErrorLevel},
	}

	core, logs := observer.New(zapcore.DebugLevel)
	e := echo.New()
	e.Use(Requests(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))
			entries := logs.TakeAll()
			if len(entries) != 1 {
				t.Fatalf("got %d log entries", len(entries))
			}
			if entries[0].Level != tt.level {
				t.Errorf("level %v, want %v", entries[0].Level, tt.level)
			}
			if entries[0].ContextMap()["uri"] != tt.path {
				t.Errorf("uri %v", entries[0].ContextMap()["uri"])
			}
		})
	}
}
