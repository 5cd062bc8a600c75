package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/matgraph/nodes"
)

func newNodesCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List the node types available to documents",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tNODE\tDESCRIPTION")
			n := 0
			for _, e := range nodes.All() {
				if category != "" && !strings.EqualFold(e.Category, category) {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Category, e.Name, e.Description)
				n++
			}
			if n == 0 {
				return fmt.Errorf("no node types in category %q", category)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list this category, e.g. Math or Texture")
	return cmd
}
