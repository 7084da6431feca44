package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractConfig configures the Tesseract-backed engine.
type TesseractConfig struct {
	// Languages are traineddata codes, e.g. "eng". Defaults to English.
	Languages []string
	// TessdataPrefix is the primary asset directory; empty uses the
	// system default.
	TessdataPrefix string
	// AssetURL is the remote traineddata source for the cached
	// fallback. Defaults to DefaultAssetURL.
	AssetURL string
	// CacheDir is the writable scratch location for fetched assets.
	CacheDir string
}

// Tesseract recognizes text via gosseract. Each invocation creates one
// client, uses it for exactly one image, and tears it down on every
// exit path so worker resources never leak across requests.
type Tesseract struct {
	languages []string
	assets    *AssetSource

	// newClient is swapped in tests.
	newClient func() *gosseract.Client
}

// NewTesseract creates the Tesseract engine.
func NewTesseract(cfg TesseractConfig) *Tesseract {
	langs := cfg.Languages
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	return &Tesseract{
		languages: langs,
		assets:    NewAssetSource(cfg.TessdataPrefix, cfg.AssetURL, cfg.CacheDir),
		newClient: gosseract.NewClient,
	}
}

func (t *Tesseract) Name() string { return "tesseract" }

// Recognize extracts text from a normalized image. Asset resolution
// order: the configured prefix (or system default) first; on failure,
// fetch the traineddata to the cache and retry once from the cached
// copy. A configured prefix that is missing the traineddata skips the
// primary attempt outright. If both attempts fail the transcript
// extraction is unavailable, which callers may recover from with an
// empty transcript.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	primaryErr := fmt.Errorf("traineddata missing under %q", t.assets.Prefix)
	if t.assets.HasLocal(t.languages) {
		var text string
		text, primaryErr = t.recognizeOnce(ctx, t.assets.Prefix, image)
		if primaryErr == nil {
			return text, nil
		}
	}

	cacheDir, fetchErr := t.assets.Fetch(ctx, t.languages)
	if fetchErr != nil {
		return "", &UnavailableError{Err: fmt.Errorf("primary: %v; asset fetch: %w", primaryErr, fetchErr)}
	}

	text, retryErr := t.recognizeOnce(ctx, cacheDir, image)
	if retryErr != nil {
		return "", &UnavailableError{Err: fmt.Errorf("primary: %v; cached: %w", primaryErr, retryErr)}
	}
	return text, nil
}

func (t *Tesseract) recognizeOnce(ctx context.Context, prefix string, image []byte) (string, error) {
	client := t.newClient()
	defer client.Close()

	if prefix != "" {
		if err := client.SetTessdataPrefix(prefix); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

var _ Engine = (*Tesseract)(nil)
