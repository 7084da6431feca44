package ocr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestAssetSource(t *testing.T) {
	t.Run("fetch downloads and caches", func(t *testing.T) {
		var hits atomic.Int64
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			if r.URL.Path != "/eng.traineddata" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte("traineddata-bytes"))
		}))
		defer ts.Close()

		cacheDir := t.TempDir()
		src := NewAssetSource("", ts.URL, cacheDir)

		dir, err := src.Fetch(context.Background(), []string{"eng"})
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if dir != cacheDir {
			t.Errorf("Fetch() dir = %q, want %q", dir, cacheDir)
		}

		data, err := os.ReadFile(filepath.Join(cacheDir, "eng.traineddata"))
		if err != nil {
			t.Fatalf("cached file missing: %v", err)
		}
		if string(data) != "traineddata-bytes" {
			t.Errorf("cached content = %q", data)
		}

		// Second fetch must hit the cache, not the server.
		if _, err := src.Fetch(context.Background(), []string{"eng"}); err != nil {
			t.Fatalf("second Fetch() error = %v", err)
		}
		if hits.Load() != 1 {
			t.Errorf("server hits = %d, want 1", hits.Load())
		}
	})

	t.Run("transient failure is retried once", func(t *testing.T) {
		var hits atomic.Int64
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte("ok"))
		}))
		defer ts.Close()

		src := NewAssetSource("", ts.URL, t.TempDir())
		if _, err := src.Fetch(context.Background(), []string{"eng"}); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if hits.Load() != 2 {
			t.Errorf("server hits = %d, want 2", hits.Load())
		}
	})

	t.Run("persistent failure surfaces error", func(t *testing.T) {
		var hits atomic.Int64
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		src := NewAssetSource("", ts.URL, t.TempDir())
		if _, err := src.Fetch(context.Background(), []string{"xyz"}); err == nil {
			t.Fatal("Fetch() error = nil, want failure")
		}
		if hits.Load() != 2 {
			t.Errorf("server hits = %d, want 2 (one retry, no loop)", hits.Load())
		}
	})

	t.Run("has local checks prefix", func(t *testing.T) {
		prefix := t.TempDir()
		src := NewAssetSource(prefix, "", "")

		if src.HasLocal([]string{"eng"}) {
			t.Error("HasLocal() = true with empty prefix dir")
		}

		if err := os.WriteFile(filepath.Join(prefix, "eng.traineddata"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if !src.HasLocal([]string{"eng"}) {
			t.Error("HasLocal() = false with asset present")
		}
		if src.HasLocal([]string{"eng", "deu"}) {
			t.Error("HasLocal() = true with one asset missing")
		}
	})

	t.Run("empty prefix assumes system default", func(t *testing.T) {
		src := NewAssetSource("", "", "")
		if !src.HasLocal([]string{"eng"}) {
			t.Error("HasLocal() = false with empty prefix")
		}
	})
}

func TestDisabledEngine(t *testing.T) {
	text, err := Disabled{}.Recognize(context.Background(), []byte("anything"))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if text != "" {
		t.Errorf("Recognize() = %q, want empty transcript", text)
	}
	if got := (Disabled{}).Name(); got != "disabled" {
		t.Errorf("Name() = %q", got)
	}
}
