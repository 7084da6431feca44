package ocr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
)

// DefaultAssetURL serves the fast traineddata variants, which are
// accurate enough for receipt text and much smaller than the best set.
const DefaultAssetURL = "https://raw.githubusercontent.com/tesseract-ocr/tessdata_fast/main"

// AssetSource resolves Tesseract language assets in fixed priority
// order: the configured prefix first, then a cached download. The
// download is attempted once per Resolve call (with a single retry on
// transient failure), never in a loop.
type AssetSource struct {
	// Prefix is the primary tessdata directory. Empty means the
	// system-default location compiled into Tesseract.
	Prefix string
	// BaseURL is the remote location of <lang>.traineddata files.
	BaseURL string
	// CacheDir is the writable scratch location for fetched assets.
	CacheDir string

	client *http.Client
}

// NewAssetSource creates an asset source with defaults applied.
func NewAssetSource(prefix, baseURL, cacheDir string) *AssetSource {
	if baseURL == "" {
		baseURL = DefaultAssetURL
	}
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "receiptor-tessdata")
	}
	return &AssetSource{
		Prefix:   prefix,
		BaseURL:  baseURL,
		CacheDir: cacheDir,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// HasLocal reports whether every requested language is present under
// the configured prefix. An empty prefix defers to the system default
// and is assumed present until recognition proves otherwise.
func (s *AssetSource) HasLocal(languages []string) bool {
	if s.Prefix == "" {
		return true
	}
	for _, lang := range languages {
		if _, err := os.Stat(filepath.Join(s.Prefix, lang+".traineddata")); err != nil {
			return false
		}
	}
	return true
}

// Fetch downloads the traineddata files for the given languages into
// the cache directory and returns the directory to use as the tessdata
// prefix. Files already cached are not fetched again.
func (s *AssetSource) Fetch(ctx context.Context, languages []string) (string, error) {
	if err := os.MkdirAll(s.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create tessdata cache dir: %w", err)
	}
	for _, lang := range languages {
		dest := filepath.Join(s.CacheDir, lang+".traineddata")
		if _, err := os.Stat(dest); err == nil {
			continue
		}
		if err := s.download(ctx, lang, dest); err != nil {
			return "", err
		}
	}
	return s.CacheDir, nil
}

func (s *AssetSource) download(ctx context.Context, lang, dest string) error {
	url := s.BaseURL + "/" + lang + ".traineddata"
	return retry.Do(
		func() error {
			return s.downloadOnce(ctx, url, dest)
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
	)
}

func (s *AssetSource) downloadOnce(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create asset request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	// Write to a temp file first so a partial download never poisons
	// the cache.
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".traineddata-*")
	if err != nil {
		return fmt.Errorf("create temp asset file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close asset file: %w", err)
	}
	return os.Rename(tmp.Name(), dest)
}
