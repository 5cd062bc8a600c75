// Package resolve assigns concrete pin types across a material graph.
//
// Resolution seeds every fixed or locked pin, then visits nodes in
// topological order, joining the types flowing into each node's inferable
// inputs and writing the result to its inferable outputs. Nodes are
// re-queued when an upstream output changes. Because graphs are acyclic
// one pass reaches the fixed point; a second verification pass that still
// changes something is reported as ErrResolverDefect.
//
// Only live nodes, those feeding an Output node or a side effect, can fail
// resolution. A dead node whose types do not agree is skipped and its
// outputs stay Unknown.
//
// Types are committed to the graph only when resolution succeeds.
package resolve

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/matgraph/graph"
	"github.com/gogpu/matgraph/types"
)

// Result summarizes a resolution.
type Result struct {
	// Pins is the number of pins with a concrete type.
	Pins int

	// Changed is the number of pins whose committed type differs from
	// the type they carried before.
	Changed int

	// Visits counts node visits, including the verification pass.
	Visits int

	// Unresolved lists pins still Unknown, in ascending id order.
	Unresolved []graph.PinID

	// Skipped lists dead nodes that failed to resolve, in ascending id
	// order.
	Skipped []graph.NodeID
}

type resolver struct {
	g       *graph.Graph
	types   map[graph.PinID]types.PinType
	fixed   map[graph.PinID]bool
	live    map[graph.NodeID]bool
	skipped map[graph.NodeID]bool
	visits  int
}

// Resolve computes and commits the type of every pin in g.
func Resolve(g *graph.Graph) (*Result, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	r := &resolver{
		g:       g,
		types:   make(map[graph.PinID]types.PinType),
		fixed:   make(map[graph.PinID]bool),
		live:    g.Live(),
		skipped: make(map[graph.NodeID]bool),
	}
	r.seed(order)

	queue := slices.Clone(order)
	queued := make(map[graph.NodeID]bool, len(order))
	for _, id := range order {
		queued[id] = true
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		queued[id] = false
		if r.skipped[id] {
			continue
		}

		changed, err := r.visit(g.Node(id))
		if err != nil {
			if r.live[id] {
				return nil, err
			}
			changed = r.skip(g.Node(id))
		}
		for _, pid := range changed {
			for _, c := range g.Consumers(pid) {
				if !queued[c.TargetNode] {
					queued[c.TargetNode] = true
					queue = append(queue, c.TargetNode)
				}
			}
		}
	}

	for _, id := range order {
		if r.skipped[id] {
			continue
		}
		changed, err := r.visit(g.Node(id))
		if err != nil {
			return nil, err
		}
		if len(changed) > 0 {
			return nil, &Error{
				Kind:    ErrResolverDefect,
				Message: fmt.Sprintf("node %d output types changed after the fixed point", id),
				Node:    id,
			}
		}
	}

	return r.commit(order), nil
}

// skip gives up on a dead node: its inferred outputs go back to Unknown.
// It returns the outputs whose type changed.
func (r *resolver) skip(n *graph.Node) []graph.PinID {
	r.skipped[n.ID] = true
	var changed []graph.PinID
	for _, pid := range n.Outputs {
		if r.fixed[pid] || r.types[pid].IsUnknown() {
			continue
		}
		r.types[pid] = types.Unknown
		changed = append(changed, pid)
	}
	return changed
}

func (r *resolver) seed(order []graph.NodeID) {
	for _, id := range order {
		n := r.g.Node(id)
		for _, pid := range append(slices.Clone(n.Inputs), n.Outputs...) {
			p := r.g.Pin(pid)
			switch {
			case p.Fixed():
				r.types[pid] = p.Declared
				r.fixed[pid] = true
			case p.Locked():
				r.types[pid] = p.Type
				r.fixed[pid] = true
			default:
				r.types[pid] = types.Unknown
			}
		}
	}
}

// incoming returns the type flowing into an input pin: the source output
// type when connected, otherwise the default literal's type.
func (r *resolver) incoming(p *graph.Pin) (t types.PinType, source *graph.Pin) {
	if c, ok := r.g.Source(p.ID); ok {
		return r.types[c.Source], r.g.Pin(c.Source)
	}
	if !p.Default.IsZero() {
		return p.Default.Type, nil
	}
	return p.Declared, nil
}

// visit recomputes the types of one node and returns the output pins
// whose type changed.
func (r *resolver) visit(n *graph.Node) ([]graph.PinID, error) {
	r.visits++

	var (
		joined types.PinType
		first  *graph.Pin
		firstT types.PinType
	)
	for _, pid := range n.Inputs {
		p := r.g.Pin(pid)
		in, source := r.incoming(p)

		if r.fixed[pid] {
			own := r.types[pid]
			if source != nil && !in.IsUnknown() && !types.Assignable(own, in) {
				return nil, mismatch(n.ID, source, p, in, own,
					"%s cannot feed %s input %q of node %q", in, own, p.Name, n.Name)
			}
			if !p.Flags.Has(graph.FlagInferType) {
				continue
			}
			// A locked inferable pin keeps contributing its first type.
			in = own
		} else if source != nil && !types.Broadcastable(in, p.Broadcast) {
			return nil, mismatch(n.ID, source, p, in, p.Declared,
				"input %q of node %q accepts %d components or a scalar", p.Name, n.Name, p.Broadcast)
		}
		if in.IsUnknown() {
			continue
		}
		if first == nil {
			joined, first, firstT = in, p, in
			continue
		}
		j, ok := types.Join(joined, in)
		if !ok {
			return nil, mismatch(n.ID, first, p, firstT, in,
				"cannot promote inputs of node %q", n.Name)
		}
		joined = j
	}

	for _, pid := range n.Inputs {
		if r.fixed[pid] {
			continue
		}
		in, _ := r.incoming(r.g.Pin(pid))
		switch {
		case in.IsUnknown():
			r.types[pid] = joined
		case in.IsScalar() && !joined.IsScalar():
			r.types[pid] = in
		default:
			r.types[pid] = joined
		}
	}

	var changed []graph.PinID
	for i, pid := range n.Outputs {
		if r.fixed[pid] {
			continue
		}
		t, err := r.output(n, i, joined)
		if err != nil {
			return nil, err
		}
		if r.types[pid] != t {
			r.types[pid] = t
			changed = append(changed, pid)
		}
	}
	return changed, nil
}

// output computes the type of the i-th output of n given the joined
// input type.
func (r *resolver) output(n *graph.Node, i int, joined types.PinType) (types.PinType, error) {
	if n.OverwriteMode {
		return n.Overwrite, nil
	}
	if joined.IsUnknown() {
		return types.Unknown, nil
	}

	switch k := n.Kind.(type) {
	case graph.FunctionCall:
		if k.Reduce {
			return joined.Scalar(), nil
		}
	case graph.Swizzle:
		for _, c := range strings.ToLower(k.Mask) {
			if componentIndex(c) >= int(joined.Arity) {
				in, out := r.g.Pin(n.Inputs[0]), r.g.Pin(n.Outputs[i])
				return types.Unknown, mismatch(n.ID, in, out, joined, types.Unknown,
					"swizzle %q reads past the components of %s", k.Mask, joined)
			}
		}
		return joined.WithArity(uint8(len(k.Mask))), nil
	case graph.Split:
		if i >= int(joined.Arity) && len(r.g.Consumers(n.Outputs[i])) > 0 {
			in, out := r.g.Pin(n.Inputs[0]), r.g.Pin(n.Outputs[i])
			return types.Unknown, mismatch(n.ID, in, out, joined, joined.Scalar(),
				"component %d of %s is used but does not exist", i, joined)
		}
		return joined.Scalar(), nil
	}
	return joined, nil
}

func componentIndex(c rune) int {
	switch c {
	case 'x', 'r':
		return 0
	case 'y', 'g':
		return 1
	case 'z', 'b':
		return 2
	case 'w', 'a':
		return 3
	default:
		return types.MaxArity
	}
}

func (r *resolver) commit(order []graph.NodeID) *Result {
	res := &Result{Visits: r.visits}
	for _, id := range order {
		n := r.g.Node(id)
		for _, pid := range append(slices.Clone(n.Inputs), n.Outputs...) {
			p := r.g.Pin(pid)
			t := r.types[pid]
			if p.Type != t {
				p.Type = t
				res.Changed++
			}
			if t.IsUnknown() {
				res.Unresolved = append(res.Unresolved, pid)
			} else {
				res.Pins++
			}
		}
	}
	slices.Sort(res.Unresolved)
	for id := range r.skipped {
		res.Skipped = append(res.Skipped, id)
	}
	slices.Sort(res.Skipped)
	return res
}
