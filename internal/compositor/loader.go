package compositor

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"framecraft-backend/internal/models"
)

//go:embed assets/*.png
var frameAssets embed.FS

// EmbeddedLoader serves the frame artwork bundled into the binary. This is
// the default asset source.
type EmbeddedLoader struct{}

func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

func (l *EmbeddedLoader) LoadFrame(_ context.Context, frame models.FrameTemplate) (image.Image, error) {
	data, err := frameAssets.ReadFile("assets/" + frame.AssetName)
	if err != nil {
		return nil, fmt.Errorf("%w: read frame %s: %v", ErrAssetLoad, frame.ID, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode frame %s: %v", ErrAssetLoad, frame.ID, err)
	}
	return img, nil
}

// HTTPLoader fetches frame artwork from an asset origin. Non-2xx responses
// (a 404 included) surface as ErrAssetLoad so callers can distinguish a
// missing asset from an unusable canvas.
type HTTPLoader struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPLoader(baseURL string) *HTTPLoader {
	return &HTTPLoader{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (l *HTTPLoader) LoadFrame(ctx context.Context, frame models.FrameTemplate) (image.Image, error) {
	url := l.baseURL + "/" + frame.AssetName
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %v", ErrAssetLoad, frame.ID, err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch frame %s: %v", ErrAssetLoad, frame.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch frame %s: status %d", ErrAssetLoad, frame.ID, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read frame %s: %v", ErrAssetLoad, frame.ID, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode frame %s: %v", ErrAssetLoad, frame.ID, err)
	}
	return img, nil
}
