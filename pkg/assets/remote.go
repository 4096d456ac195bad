// remote.go — Bounded HTTP fetch of the shared fallback texture.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxTextureBytes caps the size of a fetched texture.
const maxTextureBytes = 16 << 20

func (s *Store) fetchImage(ctx context.Context, uri string) (image.Image, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid URI %q: %w", uri, err)
	}
	if scheme := strings.ToLower(parsed.Scheme); scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q in %q (only http/https allowed)", scheme, uri)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %q: %w", uri, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d fetching %q", resp.StatusCode, uri)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTextureBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response from %q: %w", uri, err)
	}
	if len(data) > maxTextureBytes {
		return nil, fmt.Errorf("texture at %q exceeds %d bytes", uri, maxTextureBytes)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture from %q: %w", uri, err)
	}
	return img, nil
}
