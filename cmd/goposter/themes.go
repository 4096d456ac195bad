package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xob0t/GoPoster/pkg/poster"
)

func newThemesCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "themes [name]",
		Short: "List themes, or print one theme as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd, root, "", "")
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return showTheme(cmd, r, args[0])
			}
			return listThemes(cmd, r)
		},
	}
}

func listThemes(cmd *cobra.Command, r *poster.Renderer) error {
	cat := r.Catalog()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "THEME\tNAME\tBACKGROUND\tLAYOUT")
	for _, id := range cat.IDs() {
		t, _ := cat.Get(id)
		name := t.Name
		if id == cat.DefaultID() {
			name += " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, name, t.Background.Type, t.Layout)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout())
	tw = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tTHEME\tLAYOUT\tALIGN")
	for _, name := range cat.Categories() {
		c, _ := cat.Category(name)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, c.Theme, c.Layout, c.Align)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nLayouts: %s\n", strings.Join(r.Presets().IDs(), ", "))
	fmt.Fprintf(cmd.OutOrStdout(), "Resolutions: %s\n", strings.Join(poster.ResolutionNames(), ", "))
	return nil
}

func showTheme(cmd *cobra.Command, r *poster.Renderer, name string) error {
	t, ok := r.Catalog().Get(name)
	if !ok {
		return fmt.Errorf("unknown theme %q (known: %s)", name, strings.Join(r.Catalog().IDs(), ", "))
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	return enc.Close()
}
