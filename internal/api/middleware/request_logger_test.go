package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/yoockh/jobtrack/internal/utils"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	r := gin.New()
	r.Use(RequestLogger(log))
	r.PUT("/users/:user_id/applications/:id", func(c *gin.Context) {
		c.Set("user_id", c.Param("user_id"))
		_ = c.Error(utils.E(utils.CodeNotFound, "applications.update", "Application not found.", utils.ErrNotFound))
		c.Status(http.StatusNotFound)
	})
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPut, "/users/u1/applications/a1", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "req-1" {
		t.Fatalf("response request id = %q", got)
	}
	e := hook.LastEntry()
	if e == nil || e.Level != logrus.WarnLevel {
		t.Fatalf("entry = %+v", e)
	}
	want := logrus.Fields{
		"request_id":     "req-1",
		"route":          "/users/:user_id/applications/:id",
		"user_id":        "u1",
		"application_id": "a1",
		"error_code":     utils.CodeNotFound,
		"status":         http.StatusNotFound,
	}
	for k, v := range want {
		if e.Data[k] != v {
			t.Errorf("%s = %v, want %v", k, e.Data[k], v)
		}
	}

	hook.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	e = hook.LastEntry()
	if e == nil || e.Level != logrus.DebugLevel {
		t.Fatalf("ping entry = %+v", e)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatal("a request id should be generated")
	}
	if _, ok := e.Data["error_code"]; ok {
		t.Fatal("no error_code expected on success")
	}
}
