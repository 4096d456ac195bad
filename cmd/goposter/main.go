// GoPoster — Poster-card rendering.
//
// Usage:
//
//	goposter render <job.yaml|job.json|bundle.gsposter> [-o poster.png] [options]
//	goposter batch <batch.yaml> [-d out/] [--workers N]
//	goposter themes [name]
//	goposter init
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
