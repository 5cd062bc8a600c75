package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/matgraph"
	"github.com/gogpu/matgraph/document"
)

// job is one graph file compiled by the command line.
type job struct {
	path   string
	doc    *document.Document
	result *matgraph.Result
}

// compileFile loads, builds and compiles the graph at path.
func compileFile(ctx context.Context, path string, opts *matgraph.CompileOptions) (*job, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	g, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res, err := matgraph.Compile(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &job{path: path, doc: doc, result: res}, nil
}

// compileAll compiles paths with at most limit graphs in flight. Results
// are returned in input order; each is called as soon as a graph
// compiles.
//
// With keepGoing, every graph is attempted and the failures are joined.
// Otherwise the first failure cancels the remaining work.
func compileAll(ctx context.Context, paths []string, limit int, keepGoing bool, opts *matgraph.CompileOptions, each func(*job) error) ([]*job, error) {
	results := make([]*job, len(paths))
	errs := make([]error, len(paths))

	g, gctx := &errgroup.Group{}, ctx
	if !keepGoing {
		g, gctx = errgroup.WithContext(ctx)
	}
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			j, err := compileFile(gctx, path, opts)
			if err == nil && each != nil {
				err = each(j)
			}
			if err != nil {
				if keepGoing {
					errs[i] = err
					return nil
				}
				return err
			}
			results[i] = j
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, errors.Join(errs...)
}

// outputBase strips the document extensions from path: brick.matgraph.yaml
// becomes brick.
func outputBase(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			base = base[:len(base)-len(ext)]
			break
		}
	}
	return strings.TrimSuffix(base, ".matgraph")
}

// writeOutputs writes the source and, optionally, the manifest of j into
// dir and returns the written paths.
func writeOutputs(dir string, j *job, withManifest bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	base := outputBase(j.path)
	source := filepath.Join(dir, base+".hlsl")
	if err := os.WriteFile(source, []byte(j.result.Source), 0o644); err != nil {
		return nil, err
	}
	written := []string{source}

	if withManifest {
		data, err := encodeManifest(newManifest(j, filepath.Base(source)))
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, base+".manifest.yaml")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
