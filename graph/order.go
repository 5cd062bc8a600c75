package graph

import (
	"container/heap"
	"fmt"
	"slices"
)

type color uint8

const (
	white color = iota // unvisited
	gray               // on the current path
	black              // finished
)

// TopologicalOrder returns node ids such that every node follows all nodes
// feeding its inputs. Among nodes that are ready at the same time the
// lowest id comes first, so the order is reproducible.
//
// A cycle is reported as ErrGraphCycle.
func (g *Graph) TopologicalOrder() ([]NodeID, error) {
	if cycle := g.findCycle(); cycle != nil {
		return nil, &Error{
			Kind:    ErrGraphCycle,
			Message: fmt.Sprintf("cycle through %d nodes", len(cycle)),
			Nodes:   cycle,
		}
	}

	indegree := make(map[NodeID]int)
	successors := make(map[NodeID][]NodeID)
	for _, c := range g.links {
		indegree[c.TargetNode]++
		successors[c.SourceNode] = append(successors[c.SourceNode], c.TargetNode)
	}

	ready := &idHeap{}
	for _, n := range g.nodes {
		if n != nil && indegree[n.ID] == 0 {
			*ready = append(*ready, n.ID)
		}
	}
	heap.Init(ready)

	order := make([]NodeID, 0, g.NodeCount())
	for ready.Len() > 0 {
		id := heap.Pop(ready).(NodeID)
		order = append(order, id)
		for _, next := range successors[id] {
			indegree[next]--
			if indegree[next] == 0 {
				heap.Push(ready, next)
			}
		}
	}

	if len(order) != g.NodeCount() {
		return nil, NewError(ErrGraphCycle, "topological order incomplete")
	}
	return order, nil
}

// findCycle runs an iterative three-color depth-first search along input
// edges and returns the nodes of the first cycle found, or nil.
func (g *Graph) findCycle() []NodeID {
	colors := make(map[NodeID]color)
	parent := make(map[NodeID]NodeID)

	type frame struct {
		id   NodeID
		next int
	}

	for _, root := range g.nodes {
		if root == nil || colors[root.ID] != white {
			continue
		}

		stack := []frame{{id: root.ID}}
		colors[root.ID] = gray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			n := g.nodes[top.id]

			if top.next >= len(n.Inputs) {
				colors[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}

			pid := n.Inputs[top.next]
			top.next++
			c, ok := g.sources[pid]
			if !ok {
				continue
			}

			switch colors[c.SourceNode] {
			case white:
				parent[c.SourceNode] = top.id
				colors[c.SourceNode] = gray
				stack = append(stack, frame{id: c.SourceNode})
			case gray:
				cycle := []NodeID{c.SourceNode}
				for at := top.id; at != c.SourceNode; at = parent[at] {
					cycle = append(cycle, at)
				}
				slices.Reverse(cycle)
				return cycle
			}
		}
	}
	return nil
}

// Validate re-checks the graph invariants. Graphs built through Connect
// always pass; this guards graphs assembled from external state.
func (g *Graph) Validate() error {
	seen := make(map[PinID]bool)
	for _, c := range g.links {
		src, dst := g.Pin(c.Source), g.Pin(c.Target)
		if src == nil || dst == nil {
			return connectionError(c.Source, c.Target, "connection references a removed pin")
		}
		if src.Kind != Output || dst.Kind != Input {
			return connectionError(c.Source, c.Target, "connection direction is %s to %s", src.Kind, dst.Kind)
		}
		if src.Node != c.SourceNode || dst.Node != c.TargetNode {
			return connectionError(c.Source, c.Target, "connection node ids disagree with pin owners")
		}
		if src.Node == dst.Node {
			return connectionError(c.Source, c.Target, "node %d feeds itself", src.Node)
		}
		if seen[c.Target] {
			return connectionError(c.Source, c.Target, "input pin %q has more than one source", dst.Name)
		}
		seen[c.Target] = true
	}
	_, err := g.TopologicalOrder()
	return err
}

// Live returns the nodes whose results reach an Output node or a node
// with side effects. Nodes without outputs are kept for their effect.
func (g *Graph) Live() map[NodeID]bool {
	live := make(map[NodeID]bool)
	var stack []NodeID
	for _, n := range g.nodes {
		if n != nil && (n.IsTerminal() || HasSideEffect(n.Kind) || len(n.Outputs) == 0) {
			live[n.ID] = true
			stack = append(stack, n.ID)
		}
	}
	for len(stack) > 0 {
		n := g.Node(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		for _, pid := range n.Inputs {
			c, ok := g.Source(pid)
			if !ok || live[c.SourceNode] {
				continue
			}
			live[c.SourceNode] = true
			stack = append(stack, c.SourceNode)
		}
	}
	return live
}

// idHeap is a min-heap of node ids.
type idHeap []NodeID

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *idHeap) Push(x any) { *h = append(*h, x.(NodeID)) }

func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
