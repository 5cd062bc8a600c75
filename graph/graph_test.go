package graph

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/matgraph/types"
)

func binarySpec(name string) NodeSpec {
	return NodeSpec{
		Name: name,
		Kind: Operator{Symbol: "+"},
		Inputs: []PinSpec{
			{Name: "Left", Flags: FlagInferType, Default: types.Scalar(types.KindFloat, 0)},
			{Name: "Right", Flags: FlagInferType, Default: types.Scalar(types.KindFloat, 0)},
		},
		Outputs: []PinSpec{{Name: "Out", Flags: FlagInferType}},
	}
}

func sourceSpec(name string) NodeSpec {
	return NodeSpec{
		Name:    name,
		Kind:    InputNode{},
		Outputs: []PinSpec{{Name: "Value", Type: types.Float4}},
	}
}

func mustConnect(t *testing.T, g *Graph, out, in PinID) {
	t.Helper()
	if err := g.Connect(out, in); err != nil {
		t.Fatalf("Connect(%d, %d): %v", out, in, err)
	}
}

func errorKind(t *testing.T, err error) ErrorKind {
	t.Helper()
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *graph.Error, got %T (%v)", err, err)
	}
	return gerr.Kind
}

func TestGraph_UniqueIDMonotonic(t *testing.T) {
	g := New()
	prev := g.UniqueID()
	for i := 0; i < 100; i++ {
		id := g.UniqueID()
		if id <= prev {
			t.Fatalf("UniqueID() = %d after %d, want increasing", id, prev)
		}
		prev = id
	}
}

func TestGraph_AddNodeAllocatesPins(t *testing.T) {
	g := New()
	n := g.AddNode(binarySpec("Add"))

	if len(n.Inputs) != 2 || len(n.Outputs) != 1 {
		t.Fatalf("pins = %d in / %d out, want 2 / 1", len(n.Inputs), len(n.Outputs))
	}
	for _, pid := range append(slices.Clone(n.Inputs), n.Outputs...) {
		p := g.Pin(pid)
		if p == nil {
			t.Fatalf("pin %d not registered", pid)
		}
		if p.Node != n.ID {
			t.Errorf("pin %d owner = %d, want %d", pid, p.Node, n.ID)
		}
	}
	if g.Pin(n.Outputs[0]).Kind != Output {
		t.Error("output pin kind not set")
	}
	if g.PinByName(n.ID, "Right") == nil {
		t.Error("PinByName(Right) = nil")
	}
}

func TestGraph_IDsNeverReused(t *testing.T) {
	g := New()
	a := g.AddNode(binarySpec("A"))
	if err := g.RemoveNode(a.ID); err != nil {
		t.Fatal(err)
	}
	b := g.AddNode(binarySpec("B"))
	if b.ID <= a.ID {
		t.Errorf("new node id %d reuses or precedes removed id %d", b.ID, a.ID)
	}
	if g.Node(a.ID) != nil {
		t.Error("removed node still reachable by id")
	}
	if g.Pin(a.Inputs[0]) != nil {
		t.Error("removed pin still reachable by id")
	}
}

func TestGraph_RemoveNodeCascades(t *testing.T) {
	g := New()
	src := g.AddNode(sourceSpec("A"))
	add := g.AddNode(binarySpec("Add"))
	mustConnect(t, g, src.Outputs[0], add.Inputs[0])
	mustConnect(t, g, src.Outputs[0], add.Inputs[1])

	if err := g.RemoveNode(src.ID); err != nil {
		t.Fatal(err)
	}
	if n := len(g.Connections()); n != 0 {
		t.Errorf("connections after removal = %d, want 0", n)
	}
	if _, ok := g.Source(add.Inputs[0]); ok {
		t.Error("input still has a source")
	}
}

func TestGraph_RemoveNodeErrors(t *testing.T) {
	g := New()
	out := g.AddNode(NodeSpec{Name: "Output", Kind: OutputNode{}, Static: true})

	if err := g.RemoveNode(out.ID); errorKind(t, err) != ErrNodeNotRemovable {
		t.Errorf("remove static node: %v", err)
	}
	if err := g.RemoveNode(999); errorKind(t, err) != ErrNodeNotFound {
		t.Errorf("remove missing node: %v", err)
	}
}

func TestGraph_ConnectErrors(t *testing.T) {
	g := New()
	a := g.AddNode(sourceSpec("A"))
	b := g.AddNode(sourceSpec("B"))
	add := g.AddNode(binarySpec("Add"))
	mustConnect(t, g, a.Outputs[0], add.Inputs[0])

	tests := []struct {
		name    string
		out, in PinID
		want    ErrorKind
	}{
		{"input to input", add.Inputs[1], add.Inputs[0], ErrInvalidConnection},
		{"output to output", a.Outputs[0], b.Outputs[0], ErrInvalidConnection},
		{"double source", b.Outputs[0], add.Inputs[0], ErrInvalidConnection},
		{"self", add.Outputs[0], add.Inputs[1], ErrInvalidConnection},
		{"missing pin", 12345, add.Inputs[1], ErrPinNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := g.Connections()
			err := g.Connect(tt.out, tt.in)
			if err == nil {
				t.Fatal("Connect succeeded, want error")
			}
			if got := errorKind(t, err); got != tt.want {
				t.Errorf("kind = %v, want %v", got, tt.want)
			}
			if !slices.Equal(before, g.Connections()) {
				t.Error("connection set changed on failure")
			}
		})
	}
}

func TestGraph_ConnectRejectsCycle(t *testing.T) {
	g := New()
	a := g.AddNode(binarySpec("A"))
	b := g.AddNode(binarySpec("B"))
	c := g.AddNode(binarySpec("C"))

	// C feeds B feeds A.
	mustConnect(t, g, c.Outputs[0], b.Inputs[0])
	mustConnect(t, g, b.Outputs[0], a.Inputs[0])

	before := g.Connections()
	err := g.Connect(a.Outputs[0], c.Inputs[0])
	if err == nil {
		t.Fatal("cycle accepted")
	}
	if got := errorKind(t, err); got != ErrInvalidConnection {
		t.Errorf("kind = %v, want InvalidConnection", got)
	}
	if !slices.Equal(before, g.Connections()) {
		t.Error("connection set changed after rejected cycle")
	}
}

func TestGraph_Disconnect(t *testing.T) {
	g := New()
	a := g.AddNode(sourceSpec("A"))
	add := g.AddNode(binarySpec("Add"))
	mustConnect(t, g, a.Outputs[0], add.Inputs[0])

	if err := g.Disconnect(add.Inputs[0]); err != nil {
		t.Fatal(err)
	}
	if len(g.Consumers(a.Outputs[0])) != 0 {
		t.Error("consumer remains after Disconnect")
	}
	if err := g.Disconnect(add.Inputs[0]); err == nil {
		t.Error("second Disconnect succeeded")
	}
	mustConnect(t, g, a.Outputs[0], add.Inputs[0])
}

func TestGraph_TopologicalOrder(t *testing.T) {
	g := New()
	out := g.AddNode(NodeSpec{Name: "Output", Kind: OutputNode{}, Static: true,
		Inputs: []PinSpec{{Name: "Color", Type: types.Float4}}})
	add := g.AddNode(binarySpec("Add"))
	b := g.AddNode(sourceSpec("B"))
	a := g.AddNode(sourceSpec("A"))
	lonely := g.AddNode(sourceSpec("Lonely"))

	mustConnect(t, g, a.Outputs[0], add.Inputs[0])
	mustConnect(t, g, b.Outputs[0], add.Inputs[1])
	mustConnect(t, g, add.Outputs[0], out.Inputs[0])

	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatal(err)
	}

	// b and lonely are ready from the start along with a; ties go to the
	// lowest id, and the output only becomes ready after add.
	want := []NodeID{b.ID, a.ID, add.ID, out.ID, lonely.ID}
	if lonely.ID < out.ID {
		t.Fatal("test assumes lonely is created after output")
	}
	if !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}

	position := make(map[NodeID]int)
	for i, id := range order {
		position[id] = i
	}
	for _, c := range g.Connections() {
		if position[c.SourceNode] >= position[c.TargetNode] {
			t.Errorf("node %d precedes its source %d", c.TargetNode, c.SourceNode)
		}
	}

	again, _ := g.TopologicalOrder()
	if !slices.Equal(order, again) {
		t.Error("order not deterministic")
	}
}

func TestGraph_Live(t *testing.T) {
	g := New()
	out := g.AddNode(NodeSpec{Name: "Output", Kind: OutputNode{}, Static: true,
		Inputs: []PinSpec{{Name: "Color", Type: types.Float4}}})
	a := g.AddNode(sourceSpec("A"))
	add := g.AddNode(binarySpec("Add"))
	dead := g.AddNode(binarySpec("Dead"))
	store := g.AddNode(NodeSpec{Name: "Store", Kind: StorageStore{Buffer: "history"},
		Inputs: []PinSpec{{Name: "Value", Type: types.Float4}}})
	b := g.AddNode(sourceSpec("B"))

	mustConnect(t, g, a.Outputs[0], add.Inputs[0])
	mustConnect(t, g, a.Outputs[0], dead.Inputs[0])
	mustConnect(t, g, add.Outputs[0], out.Inputs[0])
	mustConnect(t, g, b.Outputs[0], store.Inputs[0])

	live := g.Live()
	for _, n := range []*Node{out, a, add, store, b} {
		if !live[n.ID] {
			t.Errorf("%s is not live", n.Name)
		}
	}
	if live[dead.ID] {
		t.Error("Dead is live")
	}
}

func TestGraph_TopologicalOrderReportsCycle(t *testing.T) {
	g := New()
	a := g.AddNode(binarySpec("A"))
	b := g.AddNode(binarySpec("B"))
	mustConnect(t, g, a.Outputs[0], b.Inputs[0])

	// Bypass Connect, as a corrupted document would.
	c := Connection{SourceNode: b.ID, Source: b.Outputs[0], TargetNode: a.ID, Target: a.Inputs[0]}
	g.links = append(g.links, c)
	g.sources[c.Target] = c

	_, err := g.TopologicalOrder()
	if err == nil {
		t.Fatal("cycle not detected")
	}
	var gerr *Error
	if !errors.As(err, &gerr) || !gerr.IsGraphCycle() {
		t.Fatalf("err = %v, want GraphCycle", err)
	}
	if len(gerr.Nodes) != 2 {
		t.Errorf("cycle nodes = %v, want 2 nodes", gerr.Nodes)
	}
	if err := g.Validate(); err == nil {
		t.Error("Validate accepted a cyclic graph")
	}
}

func TestGraph_LongChainNoRecursion(t *testing.T) {
	g := New()
	prev := g.AddNode(sourceSpec("Start"))
	for i := 0; i < 5000; i++ {
		n := g.AddNode(binarySpec("Step"))
		mustConnect(t, g, prev.Outputs[0], n.Inputs[0])
		prev = n
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 5001 {
		t.Errorf("order length = %d, want 5001", len(order))
	}
}

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrInvalidConnection, "InvalidConnection"},
		{ErrGraphCycle, "GraphCycle"},
		{ErrNodeNotFound, "NodeNotFound"},
		{ErrPinNotFound, "PinNotFound"},
		{ErrNodeNotRemovable, "NodeNotRemovable"},
		{ErrorKind(200), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
