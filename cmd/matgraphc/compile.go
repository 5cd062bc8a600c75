package main

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
)

func newCompileCmd(a *app) *cobra.Command {
	var (
		outDir       string
		withManifest bool
		jobs         int
	)
	cmd := &cobra.Command{
		Use:   "compile [flags] <graph>...",
		Short: "Compile graph documents to HLSL",
		Long: "Compile one or more graph documents.\n\n" +
			"Without --out the generated source is written to standard output,\n" +
			"one graph after another in argument order. With --out every graph\n" +
			"produces <name>.hlsl and, with --manifest, <name>.manifest.yaml.",
		Example: "  matgraphc compile brick.yaml\n" +
			"  matgraphc compile -o build --manifest materials/*.yaml",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			if withManifest && outDir == "" {
				return errors.New("--manifest requires --out")
			}
			opts, err := a.compileOptions()
			if err != nil {
				return err
			}

			var mu sync.Mutex
			each := func(j *job) error {
				if outDir == "" {
					return nil
				}
				written, err := writeOutputs(outDir, j, withManifest)
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				for _, path := range written {
					a.log.Debug("wrote output", "graph", j.path, "path", path)
				}
				return nil
			}

			results, err := compileAll(cmd.Context(), paths, a.jobs(jobs), false, opts, each)
			if err != nil {
				return err
			}
			if outDir != "" {
				return nil
			}
			return printSources(a.stdout, results)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&outDir, "out", "o", "", "output directory")
	f.BoolVar(&withManifest, "manifest", false, "also write the resource manifest")
	f.IntVarP(&jobs, "jobs", "j", 0, "graphs compiled in parallel (default from config)")
	return cmd
}

// printSources writes each source to w. Several sources are preceded by
// a comment naming their document.
func printSources(w io.Writer, results []*job) error {
	for i, j := range results {
		if len(results) > 1 {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "// %s\n", j.path); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, j.result.Source); err != nil {
			return err
		}
	}
	return nil
}
