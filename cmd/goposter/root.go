package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xob0t/GoPoster/internal/logger"
	"github.com/xob0t/GoPoster/pkg/poster"
	"github.com/xob0t/GoPoster/pkg/theme"
)

type rootFlags struct {
	logLevel     string
	human        bool
	assetsDir    string
	fontsDir     string
	textureURL   string
	fetchTimeout time.Duration
	themesFile   string
	strict       bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "goposter",
		Short:         "GoPoster renders text posters from themes and layout presets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.BoolVar(&flags.human, "human", false, "Human-readable console logs instead of JSON")
	pf.StringVar(&flags.assetsDir, "assets", "", "Assets directory holding backgrounds/")
	pf.StringVar(&flags.fontsDir, "fonts", "", "Directory searched for font files")
	pf.StringVar(&flags.textureURL, "fallback-texture", "", "URL of the shared remote background texture")
	pf.DurationVar(&flags.fetchTimeout, "fetch-timeout", 3*time.Second, "Timeout for the remote texture fetch")
	pf.StringVar(&flags.themesFile, "themes", "", "YAML theme catalog replacing the built-in one")
	pf.BoolVar(&flags.strict, "strict", false, "Reject out-of-range sizes instead of clamping them")

	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newBatchCmd(flags))
	cmd.AddCommand(newThemesCmd(flags))
	cmd.AddCommand(newInitCmd())

	return cmd
}

// newRenderer builds the render service from the persistent flags. Bundle
// directories, when given, take precedence over --assets and --fonts.
func newRenderer(cmd *cobra.Command, flags *rootFlags, assetsDir, fontsDir string) (*poster.Renderer, error) {
	log, err := logger.New(logger.Options{
		Level:         flags.logLevel,
		HumanReadable: flags.human,
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", flags.logLevel, err)
	}

	if assetsDir == "" {
		assetsDir = flags.assetsDir
	}
	if fontsDir == "" {
		fontsDir = flags.fontsDir
	}

	opts := []poster.Option{
		poster.WithLogger(log),
		poster.WithAssetsDir(assetsDir),
		poster.WithFontsDir(fontsDir),
		poster.WithFallbackTextureURL(flags.textureURL),
		poster.WithFetchTimeout(flags.fetchTimeout),
		poster.WithStrictDimensions(flags.strict),
	}
	if flags.themesFile != "" {
		cat, err := theme.Load(flags.themesFile, theme.WithLogger(logger.Component(log, "theme")))
		if err != nil {
			return nil, err
		}
		opts = append(opts, poster.WithCatalog(cat))
	}
	return poster.New(opts...)
}
