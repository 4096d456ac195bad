package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xob0t/GoPoster/pkg/generator"
	"github.com/xob0t/GoPoster/pkg/poster"
)

type renderOptions struct {
	output     string
	title      string
	body       string
	category   string
	theme      string
	layout     string
	resolution string
	width      int
	height     int
	format     string
	quality    int
	columns    int
	svg        bool
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [job file or " + poster.BundleExt + " bundle]",
		Short: "Render one poster",
		Long: `Render one poster from a job file (YAML or JSON), a ` + poster.BundleExt + ` bundle
carrying its own backgrounds and fonts, or inline --title/--body text.
Flags override the values in the job.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default <job name>.<format>)")
	f.StringVar(&opts.title, "title", "", "Poster title")
	f.StringVar(&opts.body, "body", "", "Poster body text")
	f.StringVar(&opts.category, "category", "", "Content category (poem, quote, article, story, list)")
	f.StringVar(&opts.theme, "theme", "", "Theme name")
	f.StringVar(&opts.layout, "layout", "", "Layout preset")
	f.StringVar(&opts.resolution, "resolution", "", "Resolution preset ("+strings.Join(poster.ResolutionNames(), ", ")+")")
	f.IntVarP(&opts.width, "width", "W", 0, "Custom width in pixels")
	f.IntVarP(&opts.height, "height", "H", 0, "Custom height in pixels")
	f.StringVar(&opts.format, "format", "", "Output format (png, jpeg, webp, avif, bmp)")
	f.IntVar(&opts.quality, "quality", 0, "Lossy quality 1-100 (default 90)")
	f.IntVar(&opts.columns, "columns", 0, "Override the layout's column count")
	f.BoolVar(&opts.svg, "svg", false, "Write the vector document as SVG instead of a raster image")

	return cmd
}

func runRender(cmd *cobra.Command, root *rootFlags, opts *renderOptions, args []string) error {
	job, assetsDir, fontsDir, cleanup, err := loadRenderJob(args)
	if err != nil {
		return err
	}
	defer cleanup()

	opts.apply(job)
	if strings.TrimSpace(job.Content.Body) == "" {
		return fmt.Errorf("nothing to render: pass a job file or --body")
	}

	r, err := newRenderer(cmd, root, assetsDir, fontsDir)
	if err != nil {
		return err
	}
	for _, w := range r.JobWarnings(*job) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}

	if opts.svg {
		out := outputPath(opts.output, job, "svg")
		data, err := r.RenderSVG(cmd.Context(), job.Content, job.Options)
		if err != nil {
			return err
		}
		return writeOutput(cmd, out, data)
	}

	res, err := r.Render(cmd.Context(), job.Content, job.Options)
	if err != nil {
		return err
	}
	return writeOutput(cmd, outputPath(opts.output, job, res.Format), res.Bytes)
}

// loadRenderJob reads the job named by args, or starts an empty one for
// inline content.
func loadRenderJob(args []string) (job *poster.Job, assetsDir, fontsDir string, cleanup func(), err error) {
	cleanup = func() {}
	if len(args) == 0 {
		return &poster.Job{Name: "poster"}, "", "", cleanup, nil
	}

	path := args[0]
	if strings.EqualFold(filepath.Ext(path), poster.BundleExt) {
		b, done, err := poster.LoadBundle(path)
		if err != nil {
			return nil, "", "", cleanup, fmt.Errorf("load bundle: %w", err)
		}
		return &b.Job, b.AssetsDir, b.FontsDir, done, nil
	}

	job, err = poster.LoadJob(path)
	if err != nil {
		return nil, "", "", cleanup, err
	}
	return job, "", "", cleanup, nil
}

// apply overrides job fields with the flags that were set. An output file
// extension picks the format when neither the flag nor the job does.
func (o *renderOptions) apply(job *poster.Job) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&job.Content.Title, o.title)
	set(&job.Content.Body, o.body)
	set(&job.Content.Category, o.category)
	set(&job.Options.Theme, o.theme)
	set(&job.Options.Layout, o.layout)
	set(&job.Options.Format, o.format)

	if o.resolution != "" {
		job.Options.Resolution = poster.Resolution{Preset: o.resolution}
	}
	if o.width > 0 || o.height > 0 {
		job.Options.Resolution = poster.Resolution{Width: o.width, Height: o.height}
	}
	if o.quality > 0 {
		job.Options.Quality = o.quality
	}
	if o.columns > 0 {
		job.Options.Columns = o.columns
	}

	if job.Options.Format == "" && o.output != "" && !o.svg {
		if f, err := generator.FormatFromPath(o.output); err == nil && filepath.Ext(o.output) != "" {
			job.Options.Format = string(f)
		}
	}
}

func outputPath(flag string, job *poster.Job, format string) string {
	switch {
	case flag != "":
		return flag
	case job.Output != "":
		return job.Output
	default:
		return job.Name + "." + format
	}
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Done: %s (%d bytes)\n", path, len(data))
	return nil
}
