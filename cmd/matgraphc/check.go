package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/gogpu/matgraph"
)

func newCheckCmd(a *app) *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "check [flags] <graph>...",
		Short: "Validate and compile graphs without writing output",
		Long: "Check loads, validates and compiles every graph and reports each\n" +
			"failure with its error kind. Every graph is checked even when an\n" +
			"earlier one fails.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			opts, err := a.compileOptions()
			if err != nil {
				return err
			}
			var mu sync.Mutex
			each := func(j *job) error {
				mu.Lock()
				defer mu.Unlock()
				_, err := fmt.Fprintf(a.stdout, "ok   %s (%d resources)\n", j.path, len(j.result.Info.Resources))
				return err
			}
			_, err = compileAll(cmd.Context(), paths, a.jobs(jobs), true, opts, each)
			if err != nil {
				failed := unjoin(err)
				for _, e := range failed {
					if kind := matgraph.KindOf(e); kind != matgraph.KindInternal {
						fmt.Fprintf(a.stdout, "FAIL %v [%s]\n", e, kind)
					} else {
						fmt.Fprintf(a.stdout, "FAIL %v\n", e)
					}
				}
				return fmt.Errorf("%d of %d graphs failed", len(failed), len(paths))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "graphs checked in parallel (default from config)")
	return cmd
}

// unjoin splits an errors.Join result into its parts.
func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
