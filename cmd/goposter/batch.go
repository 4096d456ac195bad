package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xob0t/GoPoster/pkg/poster"
)

type batchOptions struct {
	outDir  string
	workers int
}

func newBatchCmd(root *rootFlags) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <batch file>",
		Short: "Render every job in a batch file concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "dir", "d", ".", "Output directory for jobs without an explicit output")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Concurrent renders (default GOMAXPROCS)")

	return cmd
}

func runBatch(cmd *cobra.Command, root *rootFlags, opts *batchOptions, path string) error {
	jobs, err := poster.LoadJobs(path)
	if err != nil {
		return err
	}

	r, err := newRenderer(cmd, root, "", "")
	if err != nil {
		return err
	}
	for _, job := range jobs {
		for _, w := range r.JobWarnings(job) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s: %s\n", job.Name, w)
		}
	}

	failed := 0
	for _, res := range r.RenderBatch(cmd.Context(), jobs, opts.workers) {
		if res.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed: %s: %v\n", res.Job.Name, res.Err)
			continue
		}
		out := res.Job.Output
		if out == "" {
			out = filepath.Join(opts.outDir, res.Job.Name+"."+res.Result.Format)
		}
		if err := writeOutput(cmd, out, res.Result.Bytes); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
	}
	return nil
}
