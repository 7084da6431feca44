package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/verdantbooks/receiptor/internal/config"
	"github.com/verdantbooks/receiptor/internal/ocr"
	"github.com/verdantbooks/receiptor/internal/svcctx"
)

func configOCR(enabled bool) config.OCRCfg {
	return config.OCRCfg{Enabled: enabled, Languages: []string{"eng"}}
}

func TestNew(t *testing.T) {
	srv, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if srv.Addr() != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", srv.Addr())
	}
	if srv.Pipeline() == nil {
		t.Error("Pipeline() = nil")
	}
	if srv.Registry() == nil {
		t.Error("Registry() = nil")
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true before Start")
	}
}

func TestNewOverridesAddr(t *testing.T) {
	srv, err := New(Config{Host: "0.0.0.0", Port: "3000"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if srv.Addr() != "0.0.0.0:3000" {
		t.Errorf("Addr() = %q, want 0.0.0.0:3000", srv.Addr())
	}
}

func TestRoutesBeforeStart(t *testing.T) {
	srv, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	t.Run("health is always available", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		srv.httpServer.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET /health = %d, want 200", rec.Code)
		}
	})

	t.Run("process requires initialization", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/receipts/process", nil)
		srv.httpServer.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("POST /api/receipts/process = %d, want 503 before Start", rec.Code)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		srv.httpServer.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET /nope = %d, want 404", rec.Code)
		}
	})
}

func TestWithServices(t *testing.T) {
	srv, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	srv.services = &svcctx.Services{
		Pipeline: srv.pipeline,
		Registry: srv.registry,
		Engine:   srv.engine,
		Logger:   srv.logger,
	}

	var seen *svcctx.Services
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = svcctx.ServicesFrom(r.Context())
	})
	rec := httptest.NewRecorder()
	srv.withServices(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == nil {
		t.Fatal("services not injected into request context")
	}
	if seen.Pipeline != srv.pipeline {
		t.Error("injected pipeline differs from server pipeline")
	}
}

func TestBuildEngine(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		engine := buildEngine(configOCR(false))
		if _, ok := engine.(ocr.Disabled); !ok {
			t.Errorf("engine = %T, want ocr.Disabled", engine)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		engine := buildEngine(configOCR(true))
		if engine.Name() != "tesseract" {
			t.Errorf("engine name = %q, want tesseract", engine.Name())
		}
	})
}
