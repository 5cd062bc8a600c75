package matgraph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/hlsl"
	"github.com/gogpu/matgraph/nodes"
	"github.com/gogpu/matgraph/resolve"
	"github.com/gogpu/matgraph/types"
)

// testGraph wraps a graph with catalog helpers.
type testGraph struct {
	t *testing.T
	g *graph.Graph
}

func newTestGraph(t *testing.T) *testGraph {
	return &testGraph{t: t, g: graph.New()}
}

func (tg *testGraph) add(name string, p nodes.Params) *graph.Node {
	tg.t.Helper()
	spec, err := nodes.Build(name, p)
	if err != nil {
		tg.t.Fatalf("Build(%s): %v", name, err)
	}
	return tg.g.AddNode(spec)
}

func (tg *testGraph) connect(from *graph.Node, out string, to *graph.Node, in string) {
	tg.t.Helper()
	if err := tg.g.Connect(tg.g.PinByName(from.ID, out).ID, tg.g.PinByName(to.ID, in).ID); err != nil {
		tg.t.Fatalf("Connect: %v", err)
	}
}

// tinted is an albedo texture multiplied by a tint property.
func tinted(t *testing.T) *graph.Graph {
	tg := newTestGraph(t)
	uv := tg.add("Input", nodes.Params{Name: "uv", Type: types.Float2})
	tex := tg.add("TextureSample", nodes.Params{Resource: "albedo"})
	tint := tg.add("Property", nodes.Params{Name: "tint", Type: types.Float4, Value: []float64{1}})
	mul := tg.add("Multiply", nodes.Params{})
	out := tg.add("Output", nodes.Params{})
	tg.connect(uv, "Value", tex, "UV")
	tg.connect(tex, "Color", mul, "A")
	tg.connect(tint, "Value", mul, "B")
	tg.connect(mul, "Result", out, "Color")
	return tg.g
}

func TestCompile(t *testing.T) {
	res, err := Compile(context.Background(), tinted(t), nil)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	for _, want := range []string{
		"cbuffer Material : register(b0, space0) {",
		"Texture2D<float4> albedo : register(t0, space0);",
		"SamplerState albedoSampler : register(s0, space0);",
		"return albedo.Sample(albedoSampler, input.uv) * tint;",
	} {
		if !strings.Contains(res.Source, want) {
			t.Errorf("source does not contain %q\n\nGot:\n%s", want, res.Source)
		}
	}
	if res.Info.Profile != "ps_5_1" {
		t.Errorf("Profile = %q, want ps_5_1", res.Info.Profile)
	}
	if len(res.Info.Resources) != 3 {
		t.Errorf("manifest has %d resources, want 3", len(res.Info.Resources))
	}
	if res.Resolve == nil || res.Resolve.Pins == 0 || len(res.Resolve.Unresolved) != 0 {
		t.Errorf("unexpected resolve result %+v", res.Resolve)
	}
}

func TestCompile_Options(t *testing.T) {
	opts := DefaultOptions()
	opts.HLSL.ShaderModel = hlsl.ShaderModel5_0
	opts.HLSL.EntryPoint = "PSMain"

	res, err := Compile(context.Background(), tinted(t), opts)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !strings.Contains(res.Source, "float4 PSMain(PixelInput input) : SV_TARGET") {
		t.Errorf("entry point not renamed:\n%s", res.Source)
	}
	if !strings.Contains(res.Source, "register(t0);") {
		t.Errorf("SM 5.0 output carries register spaces:\n%s", res.Source)
	}
}

type teleport struct{}

func (teleport) KindName() string { return "Teleport" }

func TestCompile_ErrorKinds(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *graph.Graph
		ctx   func() context.Context
		want  ErrorKind
	}{
		{
			name: "type mismatch",
			build: func(t *testing.T) *graph.Graph {
				tg := newTestGraph(t)
				a := tg.add("Input", nodes.Params{Name: "mask", Type: types.Bool})
				b := tg.add("Input", nodes.Params{Name: "level", Type: types.Float})
				add := tg.add("Add", nodes.Params{})
				out := tg.add("Output", nodes.Params{})
				tg.connect(a, "Value", add, "A")
				tg.connect(b, "Value", add, "B")
				tg.connect(add, "Result", out, "Color")
				return tg.g
			},
			want: KindTypeMismatch,
		},
		{
			name: "slot conflict",
			build: func(t *testing.T) *graph.Graph {
				tg := newTestGraph(t)
				zero := 0
				a := tg.add("TextureSample", nodes.Params{Resource: "a", Slot: &zero})
				b := tg.add("TextureSample", nodes.Params{Resource: "b", Slot: &zero})
				mul := tg.add("Multiply", nodes.Params{})
				out := tg.add("Output", nodes.Params{})
				tg.connect(a, "Color", mul, "A")
				tg.connect(b, "Color", mul, "B")
				tg.connect(mul, "Result", out, "Color")
				return tg.g
			},
			want: KindSlotConflict,
		},
		{
			name: "unsupported node kind",
			build: func(t *testing.T) *graph.Graph {
				tg := newTestGraph(t)
				n := tg.g.AddNode(graph.NodeSpec{
					Name:    "warp",
					Kind:    teleport{},
					Outputs: []graph.PinSpec{{Name: "Value", Kind: graph.Output, Type: types.Float4}},
				})
				out := tg.add("Output", nodes.Params{})
				tg.connect(n, "Value", out, "Color")
				return tg.g
			},
			want: KindUnsupportedNodeKind,
		},
		{
			name: "two outputs",
			build: func(t *testing.T) *graph.Graph {
				g := tinted(t)
				spec, err := nodes.Build("Output", nodes.Params{})
				if err != nil {
					t.Fatal(err)
				}
				g.AddNode(spec)
				return g
			},
			want: KindInvalidConnection,
		},
		{
			name:  "nil graph",
			build: func(*testing.T) *graph.Graph { return nil },
			want:  KindInternal,
		},
		{
			name:  "canceled",
			build: tinted,
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			want: KindInternal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}
			res, err := Compile(ctx, tt.build(t), nil)
			if err == nil {
				t.Fatalf("expected error, got source:\n%s", res.Source)
			}
			if res != nil {
				t.Error("failed compile returned a result")
			}
			if got := KindOf(err); got != tt.want {
				t.Errorf("KindOf(%v) = %s, want %s", err, got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{&graph.Error{Kind: graph.ErrGraphCycle}, KindGraphCycle},
		{fmt.Errorf("resolve: %w", &graph.Error{Kind: graph.ErrGraphCycle}), KindGraphCycle},
		{&graph.Error{Kind: graph.ErrInvalidConnection}, KindInvalidConnection},
		{&graph.Error{Kind: graph.ErrPinNotFound}, KindInvalidConnection},
		{&graph.Error{Kind: graph.ErrNodeNotRemovable}, KindInternal},
		{fmt.Errorf("resolve: %w", &resolve.Error{Kind: resolve.ErrTypeMismatch}), KindTypeMismatch},
		{&resolve.Error{Kind: resolve.ErrResolverDefect}, KindInternal},
		{fmt.Errorf("hlsl: %w", &hlsl.Error{Kind: hlsl.ErrSlotConflict}), KindSlotConflict},
		{&hlsl.Error{Kind: hlsl.ErrUnsupportedNodeKind}, KindUnsupportedNodeKind},
		{&hlsl.Error{Kind: hlsl.ErrUnresolvedType}, KindTypeMismatch},
		{&hlsl.Error{Kind: hlsl.ErrInternalError}, KindInternal},
		{errors.New("disk on fire"), KindInternal},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestErrorKind_String(t *testing.T) {
	if got := KindSlotConflict.String(); got != "SlotConflict" {
		t.Errorf("String() = %q", got)
	}
	if got := ErrorKind(200).String(); got != "Unknown" {
		t.Errorf("String() = %q", got)
	}
}

func TestCompile_Metrics(t *testing.T) {
	ok := testutil.ToFloat64(compilesTotal.WithLabelValues("ok"))
	failed := testutil.ToFloat64(compileErrorsTotal.WithLabelValues("Internal"))
	inlined := testutil.ToFloat64(operationsTotal.WithLabelValues("inlined"))

	res, err := Compile(context.Background(), tinted(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Compile(context.Background(), nil, nil); err == nil {
		t.Fatal("nil graph compiled")
	}

	if got := testutil.ToFloat64(compilesTotal.WithLabelValues("ok")); got != ok+1 {
		t.Errorf("compiles_total{ok} = %v, want %v", got, ok+1)
	}
	if got := testutil.ToFloat64(compileErrorsTotal.WithLabelValues("Internal")); got != failed+1 {
		t.Errorf("errors_total{Internal} = %v, want %v", got, failed+1)
	}
	want := inlined + float64(res.Info.Inlined)
	if got := testutil.ToFloat64(operationsTotal.WithLabelValues("inlined")); got != want {
		t.Errorf("operations_total{inlined} = %v, want %v", got, want)
	}
}

func TestCompile_Logging(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := Compile(context.Background(), tinted(t), opts); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`msg="resolved pin types"`,
		`msg="generated hlsl"`,
		`msg="compiled material graph"`,
		"profile=ps_5_1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log does not contain %q\n\nGot:\n%s", want, out)
		}
	}
}

func TestCompile_ErrorsAreNotLogged(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if _, err := Compile(context.Background(), nil, opts); err == nil {
		t.Fatal("nil graph compiled")
	}
	if buf.Len() != 0 {
		t.Errorf("failed compile logged:\n%s", buf.String())
	}
}
