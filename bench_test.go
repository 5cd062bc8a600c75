package matgraph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"testing"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/hlsl"
	"github.com/gogpu/matgraph/nodes"
	"github.com/gogpu/matgraph/resolve"
	"github.com/gogpu/matgraph/types"
)

// chainGraph builds a graph of n stages. Each stage multiplies the running
// color by a property, adds the sine of an input, and every fourth stage
// feeds a saturate that fans out to the next two stages.
func chainGraph(tb testing.TB, n int) *graph.Graph {
	tb.Helper()
	g := graph.New()
	add := func(name string, p nodes.Params) *graph.Node {
		spec, err := nodes.Build(name, p)
		if err != nil {
			tb.Fatalf("Build(%s): %v", name, err)
		}
		return g.AddNode(spec)
	}
	connect := func(from *graph.Node, out string, to *graph.Node, in string) {
		if err := g.Connect(g.PinByName(from.ID, out).ID, g.PinByName(to.ID, in).ID); err != nil {
			tb.Fatalf("Connect: %v", err)
		}
	}

	acc := add("Input", nodes.Params{Name: "color", Type: types.Float4})
	accPin := "Value"
	for i := range n {
		prop := add("Property", nodes.Params{Name: fmt.Sprintf("scale%d", i), Type: types.Float})
		in := add("Input", nodes.Params{Name: fmt.Sprintf("phase%d", i%8), Type: types.Float4})
		mul := add("Multiply", nodes.Params{})
		sin := add("Sin", nodes.Params{})
		sum := add("Add", nodes.Params{})
		connect(acc, accPin, mul, "A")
		connect(prop, "Value", mul, "B")
		connect(in, "Value", sin, "X")
		connect(mul, "Result", sum, "A")
		connect(sin, "Result", sum, "B")
		acc, accPin = sum, "Result"
		if i%4 == 3 {
			sat := add("Saturate", nodes.Params{})
			connect(acc, accPin, sat, "X")
			acc, accPin = sat, "Result"
		}
	}
	out := add("Output", nodes.Params{})
	connect(acc, accPin, out, "Color")
	return g
}

var graphsBySize = []struct {
	name   string
	stages int
}{
	{"Small", 4},
	{"Medium", 32},
	{"Large", 256},
}

func quietOptions() *CompileOptions {
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

// BenchmarkCompile benchmarks the full pipeline on chain graphs.
func BenchmarkCompile(b *testing.B) {
	ctx := context.Background()
	opts := quietOptions()
	for _, sc := range graphsBySize {
		b.Run(sc.name, func(b *testing.B) {
			g := chainGraph(b, sc.stages)
			b.ReportAllocs()
			b.ResetTimer()

			var result *Result
			for i := 0; i < b.N; i++ {
				var err error
				result, err = Compile(ctx, g, opts)
				if err != nil {
					b.Fatalf("compile failed: %v", err)
				}
			}
			runtime.KeepAlive(result)
		})
	}
}

// BenchmarkResolve benchmarks type resolution alone.
func BenchmarkResolve(b *testing.B) {
	for _, sc := range graphsBySize {
		b.Run(sc.name, func(b *testing.B) {
			g := chainGraph(b, sc.stages)
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := resolve.Resolve(g); err != nil {
					b.Fatalf("resolve failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkGenerate benchmarks HLSL generation on resolved graphs, with
// and without single-use inlining.
func BenchmarkGenerate(b *testing.B) {
	for _, inline := range []bool{true, false} {
		for _, sc := range graphsBySize {
			b.Run(fmt.Sprintf("%s/inline=%v", sc.name, inline), func(b *testing.B) {
				g := chainGraph(b, sc.stages)
				if _, err := resolve.Resolve(g); err != nil {
					b.Fatalf("resolve failed: %v", err)
				}
				opts := hlsl.DefaultOptions()
				opts.InlineSingleUse = inline
				b.ReportAllocs()
				b.ResetTimer()

				var source string
				for i := 0; i < b.N; i++ {
					var err error
					source, _, err = hlsl.Compile(g, opts)
					if err != nil {
						b.Fatalf("generate failed: %v", err)
					}
				}
				b.SetBytes(int64(len(source)))
				runtime.KeepAlive(source)
			})
		}
	}
}

func TestChainGraphCompiles(t *testing.T) {
	res, err := Compile(context.Background(), chainGraph(t, 8), quietOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if res.Info.Eliminated != 0 {
		t.Errorf("Eliminated = %d, want 0 for a fully connected chain", res.Info.Eliminated)
	}
	if len(res.Info.Resources) != 1 || len(res.Info.Resources[0].Fields) != 8 {
		t.Errorf("Resources = %+v, want one constant buffer with 8 fields", res.Info.Resources)
	}
}
