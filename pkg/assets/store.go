// Package assets resolves background images, fonts and the shared fallback
// texture, serving every read through an in-memory insert-once cache.
package assets

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // decoders for background photos
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/image/font/opentype"
	_ "golang.org/x/image/webp"

	postererrors "github.com/xob0t/GoPoster/pkg/errors"
)

// DefaultFetchTimeout bounds the remote texture fetch.
const DefaultFetchTimeout = 3 * time.Second

// backgroundExts are tried in order when a reference has no extension.
var backgroundExts = []string{".jpg", ".jpeg", ".png", ".webp"}

// Store is the single shared asset source. Safe for concurrent use.
type Store struct {
	assetsDir  string
	fontsDir   string
	textureURL string
	timeout    time.Duration
	client     *http.Client
	log        zerolog.Logger

	images *Cache[image.Image]
	fonts  *Cache[*opentype.Font]
	remote *Cache[image.Image]
}

// Option configures a Store.
type Option func(*Store)

// WithAssetsDir sets the root holding the backgrounds/ directory.
func WithAssetsDir(dir string) Option {
	return func(s *Store) {
		s.assetsDir = dir
	}
}

// WithFontsDir sets the directory searched for TTF/OTF files.
func WithFontsDir(dir string) Option {
	return func(s *Store) {
		s.fontsDir = dir
	}
}

// WithFallbackTextureURL sets the shared remote texture. Empty disables it.
func WithFallbackTextureURL(url string) Option {
	return func(s *Store) {
		s.textureURL = url
	}
}

// WithFetchTimeout bounds the remote texture fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithHTTPClient sets the client used for the remote texture.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets the logger used for soft asset failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// New creates a Store.
func New(opts ...Option) *Store {
	s := &Store{
		timeout: DefaultFetchTimeout,
		client:  http.DefaultClient,
		log:     zerolog.Nop(),
		images:  NewCache[image.Image](),
		fonts:   NewCache[*opentype.Font](),
		remote:  NewCache[image.Image](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BackgroundKey is the cache key of a theme background.
func BackgroundKey(themeID, ref string) string {
	if ref == "" {
		return "background:" + themeID
	}
	return "background:" + themeID + ":" + ref
}

// Background loads the background photo for a theme. ref overrides the
// default name (the theme id) and may carry its own extension. A miss is an
// *errors.AssetMissingError.
func (s *Store) Background(themeID, ref string) (image.Image, error) {
	key := BackgroundKey(themeID, ref)
	return s.images.Get(key, func() (image.Image, error) {
		img, err := s.loadBackground(themeID, ref)
		if err != nil {
			s.log.Warn().Err(err).Str("asset", key).Msg("background unavailable")
			return nil, postererrors.NewAssetMissingError(key, err)
		}
		return img, nil
	})
}

func (s *Store) loadBackground(themeID, ref string) (image.Image, error) {
	if s.assetsDir == "" {
		return nil, fmt.Errorf("no assets directory configured")
	}
	name := ref
	if name == "" {
		name = themeID
	}
	clean, err := sanitize(name)
	if err != nil {
		return nil, err
	}

	root := filepath.Join(s.assetsDir, "backgrounds")
	candidates := []string{filepath.Join(root, clean)}
	if filepath.Ext(clean) == "" {
		candidates = candidates[:0]
		for _, ext := range backgroundExts {
			candidates = append(candidates, filepath.Join(root, clean+ext))
		}
	}

	var lastErr error
	for _, path := range candidates {
		img, err := decodeFile(path)
		if err == nil {
			return img, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// sanitize rejects absolute paths and traversal outside the asset root.
func sanitize(name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("absolute asset path %q rejected", name)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal in %q rejected", name)
	}
	return cleaned, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// FallbackTexture returns the shared remote texture, fetching it once with
// the configured timeout. The fetch outlives the caller's cancellation since
// its result is shared. Any failure is cached and reported as an
// *errors.AssetMissingError.
func (s *Store) FallbackTexture(ctx context.Context) (image.Image, error) {
	const key = "texture:remote"
	return s.remote.Get(key, func() (image.Image, error) {
		if s.textureURL == "" {
			return nil, postererrors.NewAssetMissingError(key, fmt.Errorf("no fallback texture URL configured"))
		}
		img, err := s.fetchImage(context.WithoutCancel(ctx), s.textureURL)
		if err != nil {
			s.log.Warn().Err(err).Str("asset", key).Dur("timeout", s.timeout).Msg("fallback texture unavailable")
			return nil, postererrors.NewAssetMissingError(key, err)
		}
		return img, nil
	})
}
