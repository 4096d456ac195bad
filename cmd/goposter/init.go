package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xob0t/GoPoster/pkg/poster"
)

type initOptions struct {
	jobOut   string
	batchOut string
	force    bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample job and batch file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.jobOut, "job", "job.yaml", "Output path for the sample job")
	cmd.Flags().StringVar(&opts.batchOut, "batch", "batch.yaml", "Output path for the sample batch")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	files := []struct {
		path, content string
	}{
		{opts.jobOut, poster.ExampleJob()},
		{opts.batchOut, poster.ExampleBatch()},
	}
	for _, f := range files {
		if !opts.force {
			if _, err := os.Stat(f.path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", f.path)
			}
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s, %s\n", opts.jobOut, opts.batchOut)
	fmt.Fprintf(cmd.OutOrStdout(), "Run: goposter render %s -o poster.png\n", opts.jobOut)
	return nil
}
