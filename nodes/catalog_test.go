package nodes

import (
	"slices"
	"testing"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/resolve"
	"github.com/gogpu/matgraph/types"
)

func TestCatalog_EntriesBuild(t *testing.T) {
	params := map[string]Params{
		"TextureSample": {Resource: "albedo"},
		"StorageLoad":   {Resource: "counts"},
		"StorageStore":  {Resource: "counts"},
		"Swizzle":       {Mask: "xy"},
	}
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			spec, err := Build(name, params[name])
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if spec.Type != name {
				t.Errorf("Type = %q, want %q", spec.Type, name)
			}
			if spec.Name == "" {
				t.Error("empty display name")
			}
			if spec.Kind == nil {
				t.Error("nil kind")
			}
		})
	}
}

func TestCatalog_Names(t *testing.T) {
	names := Names()
	if !slices.IsSorted(names) {
		t.Errorf("Names not sorted: %v", names)
	}
	for _, want := range []string{"Add", "Subtract", "Multiply", "Divide", "Clip", "Lit", "All", "Any", "Output"} {
		if _, ok := Lookup(want); !ok {
			t.Errorf("missing entry %q", want)
		}
	}
	if len(All()) != len(names) {
		t.Errorf("All returned %d entries, Names %d", len(All()), len(names))
	}
}

func TestBuild_Unknown(t *testing.T) {
	_, err := Build("Teleport", Params{})
	if err == nil {
		t.Fatal("expected error for unknown node")
	}
}

func TestBuild_NameOverride(t *testing.T) {
	spec, err := Build("Input", Params{Name: "uv", Type: types.Float2})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Name != "uv" {
		t.Errorf("Name = %q, want uv", spec.Name)
	}
}

func TestBinaryOperators(t *testing.T) {
	for _, name := range []string{"Add", "Subtract", "Multiply", "Divide"} {
		t.Run(name, func(t *testing.T) {
			spec, err := Build(name, Params{})
			if err != nil {
				t.Fatal(err)
			}
			if len(spec.Inputs) != 2 || len(spec.Outputs) != 1 {
				t.Fatalf("pins = %d in, %d out; want 2, 1", len(spec.Inputs), len(spec.Outputs))
			}
			for _, p := range spec.Inputs {
				if !p.Flags.Has(graph.FlagInferType) || !p.Type.IsUnknown() {
					t.Errorf("input %q should be inferred", p.Name)
				}
			}
			if spec.OverwriteMode {
				t.Error("operators must mirror the joined type")
			}
		})
	}
}

func TestSpecialNodes(t *testing.T) {
	clip, _ := Build("Clip", Params{})
	if _, ok := clip.Kind.(graph.VoidEffect); !ok || len(clip.Inputs) != 1 || len(clip.Outputs) != 0 {
		t.Errorf("Clip = %+v, want one input and no outputs", clip)
	}

	lit, _ := Build("Lit", Params{})
	if len(lit.Inputs) != 3 || !lit.OverwriteMode || lit.Overwrite != types.Float4 {
		t.Errorf("Lit = %+v, want three inputs overwritten to float4", lit)
	}
	for _, p := range lit.Inputs {
		if p.Type != types.Float {
			t.Errorf("Lit input %q = %s, want float", p.Name, p.Type)
		}
	}

	for _, name := range []string{"All", "Any"} {
		spec, _ := Build(name, Params{})
		if len(spec.Inputs) != 1 || !spec.Inputs[0].Flags.Has(graph.FlagInferType) || spec.Overwrite != types.Bool {
			t.Errorf("%s = %+v, want one inferred input reduced to bool", name, spec)
		}
	}

	output, _ := Build("Output", Params{})
	if !output.Static {
		t.Error("Output must be static")
	}
}

func TestBRDF(t *testing.T) {
	spec, err := Build("BRDF", Params{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := spec.Kind.(graph.OutputNode); !ok || !spec.Static || len(spec.Outputs) != 0 {
		t.Fatalf("BRDF = %+v, want a static output node", spec)
	}
	want := []struct {
		name string
		typ  types.PinType
		def  types.Value
	}{
		{"BaseColor", types.Float4, types.Vector(types.KindFloat, 1, 1, 1, 1)},
		{"Normal", types.Float3, types.Vector(types.KindFloat, 0, 0, 1)},
		{"Roughness", types.Float, types.Scalar(types.KindFloat, 0.4)},
		{"Metallic", types.Float, types.Value{}},
		{"Reflectance", types.Float, types.Scalar(types.KindFloat, 0.5)},
		{"AO", types.Float, types.Scalar(types.KindFloat, 1)},
		{"Emissive", types.Float3, types.Value{}},
	}
	if len(spec.Inputs) != len(want) {
		t.Fatalf("BRDF has %d inputs, want %d", len(spec.Inputs), len(want))
	}
	for i, w := range want {
		p := spec.Inputs[i]
		if p.Name != w.name || p.Type != w.typ {
			t.Errorf("input %d = %s %s, want %s %s", i, p.Type, p.Name, w.typ, w.name)
		}
		if p.Default != w.def {
			t.Errorf("%s default = %s, want %s", p.Name, p.Default, w.def)
		}
	}

	// Each call returns its own pins.
	again, _ := Build("BRDF", Params{})
	again.Inputs[0].Name = "Changed"
	if spec.Inputs[0].Name != "BaseColor" {
		t.Error("BRDF entries share their pin slice")
	}
}

func TestConstant_Params(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		want    types.Value
		wantErr bool
	}{
		{"default float", Params{}, types.Zero(types.Float), false},
		{"arity from value", Params{Value: []float64{1, 2}}, types.Vector(types.KindFloat, 1, 2), false},
		{"scalar broadcast", Params{Type: types.Float3, Value: []float64{0.5}}, types.Vector(types.KindFloat, 0.5, 0.5, 0.5), false},
		{"int truncation", Params{Type: types.Int, Value: []float64{2.7}}, types.Scalar(types.KindInt, 2), false},
		{"arity mismatch", Params{Type: types.Float3, Value: []float64{1, 2}}, types.Value{}, true},
		{"too many", Params{Value: []float64{1, 2, 3, 4, 5}}, types.Value{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Build("Constant", tt.params)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := spec.Outputs[0].Default; got != tt.want {
				t.Errorf("value = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParams_Errors(t *testing.T) {
	tests := []struct {
		node   string
		params Params
	}{
		{"TextureSample", Params{}},
		{"TextureSample", Params{Resource: "a", Dimension: "1d"}},
		{"StorageLoad", Params{Resource: "a", View: "ring"}},
		{"StorageStore", Params{}},
		{"Swizzle", Params{Mask: "xq"}},
		{"Swizzle", Params{Mask: "xyzwx"}},
		{"Swizzle", Params{Mask: "xg"}},
	}
	for _, tt := range tests {
		if _, err := Build(tt.node, tt.params); err == nil {
			t.Errorf("%s %+v: expected error", tt.node, tt.params)
		}
	}
}

func TestResolvedCatalogGraph(t *testing.T) {
	g := graph.New()
	add := func(name string, p Params) *graph.Node {
		t.Helper()
		spec, err := Build(name, p)
		if err != nil {
			t.Fatal(err)
		}
		return g.AddNode(spec)
	}
	connect := func(from *graph.Node, out string, to *graph.Node, in string) {
		t.Helper()
		if err := g.Connect(g.PinByName(from.ID, out).ID, g.PinByName(to.ID, in).ID); err != nil {
			t.Fatal(err)
		}
	}

	uv := add("Input", Params{Name: "uv", Type: types.Float2})
	tex := add("TextureSample", Params{Resource: "albedo"})
	tint := add("Property", Params{Name: "tint", Type: types.Float4})
	mul := add("Multiply", Params{})
	length := add("Length", Params{})
	out := add("Output", Params{})

	connect(uv, "Value", tex, "UV")
	connect(tex, "Color", mul, "A")
	connect(tint, "Value", mul, "B")
	connect(mul, "Result", out, "Color")
	connect(mul, "Result", length, "X")

	if _, err := resolve.Resolve(g); err != nil {
		t.Fatal(err)
	}
	if got := g.PinByName(mul.ID, "Result").Type; got != types.Float4 {
		t.Errorf("Multiply result = %s, want float4", got)
	}
	if got := g.PinByName(length.ID, "Result").Type; got != types.Float {
		t.Errorf("Length result = %s, want float", got)
	}
}
