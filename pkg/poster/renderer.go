// renderer.go - Render pipeline service. Built once with its collaborators
// (catalog, presets, asset store, synthesizer, composer, rasterizer) and
// then used concurrently: each call is a stateless
// content + options -> image bytes transformation.
package poster

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/xob0t/GoPoster/internal/logger"
	"github.com/xob0t/GoPoster/pkg/assets"
	"github.com/xob0t/GoPoster/pkg/background"
	"github.com/xob0t/GoPoster/pkg/compose"
	"github.com/xob0t/GoPoster/pkg/effects"
	postererrors "github.com/xob0t/GoPoster/pkg/errors"
	"github.com/xob0t/GoPoster/pkg/generator"
	"github.com/xob0t/GoPoster/pkg/layout"
	"github.com/xob0t/GoPoster/pkg/raster"
	"github.com/xob0t/GoPoster/pkg/scene"
	"github.com/xob0t/GoPoster/pkg/textmetrics"
	"github.com/xob0t/GoPoster/pkg/theme"
)

// Renderer renders posters. Safe for concurrent use.
type Renderer struct {
	catalog  *theme.Catalog
	presets  *layout.Presets
	store    *assets.Store
	metrics  *textmetrics.Metrics
	resolver *layout.Resolver
	synth    *background.Synthesizer
	composer *compose.Composer
	raster   *raster.Rasterizer
	strict   bool
	log      zerolog.Logger
}

type settings struct {
	catalog    *theme.Catalog
	presets    *layout.Presets
	metrics    *textmetrics.Metrics
	assetsDir  string
	fontsDir   string
	textureURL string
	timeout    time.Duration
	client     *http.Client
	strict     bool
	log        zerolog.Logger
}

// Option configures a Renderer.
type Option func(*settings)

// WithCatalog replaces the built-in theme catalog.
func WithCatalog(c *theme.Catalog) Option {
	return func(s *settings) {
		s.catalog = c
	}
}

// WithPresets replaces the built-in layout presets.
func WithPresets(p *layout.Presets) Option {
	return func(s *settings) {
		s.presets = p
	}
}

// WithMetrics replaces the default text metrics.
func WithMetrics(m *textmetrics.Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// WithAssetsDir sets the directory holding backgrounds/.
func WithAssetsDir(dir string) Option {
	return func(s *settings) {
		s.assetsDir = dir
	}
}

// WithFontsDir sets the directory searched for font files.
func WithFontsDir(dir string) Option {
	return func(s *settings) {
		s.fontsDir = dir
	}
}

// WithFallbackTextureURL sets the shared remote texture.
func WithFallbackTextureURL(url string) Option {
	return func(s *settings) {
		s.textureURL = url
	}
}

// WithFetchTimeout bounds the remote texture fetch. Default 3s.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithHTTPClient sets the client used for the remote texture.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		s.client = c
	}
}

// WithStrictDimensions rejects out-of-range custom sizes instead of
// clamping them.
func WithStrictDimensions(strict bool) Option {
	return func(s *settings) {
		s.strict = strict
	}
}

// WithLogger sets the logger shared by every pipeline stage.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) {
		s.log = l
	}
}

// New builds a Renderer and its collaborators.
func New(opts ...Option) (*Renderer, error) {
	s := settings{
		timeout: assets.DefaultFetchTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	if s.catalog == nil {
		cat, err := theme.Builtin(theme.WithLogger(logger.Component(s.log, "theme")))
		if err != nil {
			return nil, fmt.Errorf("load built-in themes: %w", err)
		}
		s.catalog = cat
	}
	if s.presets == nil {
		ps, err := layout.BuiltinPresets()
		if err != nil {
			return nil, fmt.Errorf("load built-in layouts: %w", err)
		}
		s.presets = ps
	}
	if s.metrics == nil {
		s.metrics = textmetrics.Default()
	}

	store := assets.New(
		assets.WithAssetsDir(s.assetsDir),
		assets.WithFontsDir(s.fontsDir),
		assets.WithFallbackTextureURL(s.textureURL),
		assets.WithFetchTimeout(s.timeout),
		assets.WithHTTPClient(s.client),
		assets.WithLogger(logger.Component(s.log, "assets")),
	)

	return &Renderer{
		catalog:  s.catalog,
		presets:  s.presets,
		store:    store,
		metrics:  s.metrics,
		resolver: layout.NewResolver(logger.Component(s.log, "layout")),
		synth:    background.New(store, background.WithLogger(logger.Component(s.log, "background"))),
		composer: compose.New(
			compose.WithFonts(store),
			compose.WithMetrics(s.metrics),
			compose.WithLogger(logger.Component(s.log, "compose")),
		),
		raster: raster.New(store, raster.WithLogger(logger.Component(s.log, "raster"))),
		strict: s.strict,
		log:    s.log,
	}, nil
}

// Catalog returns the theme catalog.
func (r *Renderer) Catalog() *theme.Catalog { return r.catalog }

// Presets returns the layout presets.
func (r *Renderer) Presets() *layout.Presets { return r.presets }

// Render validates content and options, then runs the pipeline:
// metrics, layout, background, composition, rasterization and encoding.
func (r *Renderer) Render(ctx context.Context, c Content, o Options) (*Result, error) {
	start := time.Now()
	doc, cfg, err := r.document(ctx, c, o)
	if err != nil {
		return nil, err
	}

	data, err := r.raster.Rasterize(ctx, doc, raster.Params{
		Width:    cfg.canvas.Width,
		Height:   cfg.canvas.Height,
		Format:   cfg.format,
		Quality:  cfg.quality,
		Optimize: cfg.optimize,
	})
	if err != nil {
		return nil, err
	}

	r.log.Debug().
		Str("theme", cfg.theme.ID).
		Str("layout", cfg.preset.ID).
		Str("format", string(cfg.format)).
		Int("width", cfg.canvas.Width).
		Int("height", cfg.canvas.Height).
		Int("bytes", len(data)).
		Dur("took", time.Since(start)).
		Msg("poster rendered")

	return &Result{
		Bytes:    data,
		Format:   string(cfg.format),
		MIMEType: generator.MIMEType(cfg.format),
		Width:    cfg.canvas.Width,
		Height:   cfg.canvas.Height,
		ByteSize: len(data),
		Theme:    cfg.theme.ID,
		Layout:   cfg.preset.ID,
	}, nil
}

// RenderSVG runs the same pipeline up to composition and returns the
// vector document as SVG markup.
func (r *Renderer) RenderSVG(ctx context.Context, c Content, o Options) ([]byte, error) {
	doc, _, err := r.document(ctx, c, o)
	if err != nil {
		return nil, err
	}
	out, err := doc.SVG()
	if err != nil {
		return nil, postererrors.NewRenderError("svg", err)
	}
	return out, nil
}

// RenderBatch renders jobs on at most workers goroutines (GOMAXPROCS when
// workers <= 0). Jobs are independent; one failure never stops the others.
// Results are returned in input order.
func (r *Renderer) RenderBatch(ctx context.Context, jobs []Job, workers int) []BatchResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]BatchResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := r.Render(ctx, job.Content, job.Options)
			if err != nil {
				r.log.Warn().Err(err).Str("job", job.Name).Msg("batch job failed")
			}
			results[i] = BatchResult{Job: job, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// document runs every stage before rasterization.
func (r *Renderer) document(ctx context.Context, c Content, o Options) (*scene.Document, config, error) {
	if err := ValidateContent(c); err != nil {
		return nil, config{}, err
	}
	if err := ValidateOptions(o); err != nil {
		return nil, config{}, err
	}
	cfg, err := r.buildConfig(c, o)
	if err != nil {
		return nil, config{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, cfg, postererrors.NewRenderError("compose", err)
	}

	resolved := r.resolver.Resolve(cfg.preset.Sections, cfg.canvas, cfg.grid, cfg.preset.Align)
	base, source := r.synth.Synthesize(ctx, cfg.canvas.Width, cfg.canvas.Height, cfg.theme)
	r.log.Debug().Str("theme", cfg.theme.ID).Str("source", string(source)).Msg("background synthesized")

	doc := r.composer.Compose(compose.Request{
		Title:      c.Title,
		Body:       c.Body,
		Theme:      cfg.theme,
		Layout:     resolved,
		Padding:    cfg.preset.PaddingFor(cfg.canvas),
		Align:      cfg.align,
		TitleFont:  cfg.titleFont,
		BodyFont:   cfg.bodyFont,
		Scale:      compose.ScaleFor(cfg.canvas),
		Effects:    effects.Generate(cfg.effects, cfg.theme),
		Background: base,
		Branding:   c.Branding,
	})
	return doc, cfg, nil
}
