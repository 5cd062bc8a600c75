// Package matgraph compiles material node graphs to HLSL pixel shaders.
//
// A material graph is a DAG of typed nodes: inputs, constant buffer
// properties, texture samples, math and intrinsic calls, and a single
// output. Compilation runs two stages:
//
//  1. Resolve: infer the concrete type of every pin (package resolve)
//  2. Generate: emit HLSL source and a resource manifest (package hlsl)
//
// Example usage:
//
//	doc, err := document.Load("brick.matgraph.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g, err := doc.Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := matgraph.Compile(ctx, g, matgraph.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(res.Source)
//
// Every compile is traced with OpenTelemetry (spans matgraph.compile,
// matgraph.resolve and matgraph.generate) and counted in Prometheus
// metrics under the matgraph_compiler_ prefix.
package matgraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/hlsl"
	"github.com/gogpu/matgraph/resolve"
)

// CompileOptions configures graph compilation.
type CompileOptions struct {
	// HLSL configures code generation. Nil uses hlsl.DefaultOptions().
	HLSL *hlsl.Options

	// Logger receives stage diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns sensible default options.
func DefaultOptions() *CompileOptions {
	return &CompileOptions{
		HLSL: hlsl.DefaultOptions(),
	}
}

// Result is the output of a successful compile.
type Result struct {
	// Source is the generated HLSL.
	Source string

	// Info carries the entry point, profile, resource manifest and
	// operation statistics.
	Info *hlsl.TranslationInfo

	// Resolve summarizes type resolution.
	Resolve *resolve.Result
}

// Compile resolves the pin types of g and generates HLSL from it.
//
// Resolution commits types to g, so a graph must not be compiled by two
// goroutines at once. Errors keep their structured type; use KindOf or
// errors.As to inspect them. No partial result is returned on error.
func Compile(ctx context.Context, g *graph.Graph, opts *CompileOptions) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	start := time.Now()
	ctx, span := tracer.Start(ctx, "matgraph.compile")
	defer span.End()

	res, err := compile(ctx, g, opts.HLSL, log)
	elapsed := time.Since(start)
	recordCompile(elapsed, res, err)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("matgraph.error_kind", KindOf(err).String()))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("matgraph.profile", res.Info.Profile),
		attribute.Int("matgraph.resources", len(res.Info.Resources)),
	)
	span.SetStatus(codes.Ok, "")
	log.InfoContext(ctx, "compiled material graph",
		"profile", res.Info.Profile,
		"entry_point", res.Info.EntryPoint,
		"resources", len(res.Info.Resources),
		"bytes", len(res.Source),
		"duration", elapsed,
	)
	return res, nil
}

func compile(ctx context.Context, g *graph.Graph, hopts *hlsl.Options, log *slog.Logger) (*Result, error) {
	if g == nil {
		return nil, errors.New("matgraph: graph is nil")
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("matgraph.nodes", g.NodeCount()))

	rr, err := resolveStage(ctx, g, log)
	if err != nil {
		return nil, err
	}
	source, info, err := generateStage(ctx, g, hopts, log)
	if err != nil {
		return nil, err
	}
	return &Result{Source: source, Info: info, Resolve: rr}, nil
}

func resolveStage(ctx context.Context, g *graph.Graph, log *slog.Logger) (*resolve.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "matgraph.resolve")
	defer span.End()

	rr, err := resolve.Resolve(g)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("resolve: %w", err)
	}
	span.SetAttributes(
		attribute.Int("matgraph.pins", rr.Pins),
		attribute.Int("matgraph.visits", rr.Visits),
	)
	log.DebugContext(ctx, "resolved pin types",
		"nodes", g.NodeCount(),
		"pins", rr.Pins,
		"changed", rr.Changed,
		"visits", rr.Visits,
		"unresolved", len(rr.Unresolved),
		"skipped", len(rr.Skipped),
	)
	return rr, nil
}

func generateStage(ctx context.Context, g *graph.Graph, hopts *hlsl.Options, log *slog.Logger) (string, *hlsl.TranslationInfo, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	ctx, span := tracer.Start(ctx, "matgraph.generate")
	defer span.End()

	source, info, err := hlsl.Compile(g, hopts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", nil, err
	}
	span.SetAttributes(
		attribute.Int("matgraph.operations", info.Operations),
		attribute.Int("matgraph.eliminated", info.Eliminated),
	)
	log.DebugContext(ctx, "generated hlsl",
		"operations", info.Operations,
		"materialized", info.Materialized,
		"inlined", info.Inlined,
		"eliminated", info.Eliminated,
		"helpers", len(info.HelperFunctions),
	)
	return source, info, nil
}
