package graph

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes graph errors.
type ErrorKind uint8

const (
	// ErrInvalidConnection indicates a rejected Connect: wrong pin kinds,
	// an input that already has a source, or an edge that closes a cycle.
	ErrInvalidConnection ErrorKind = iota

	// ErrGraphCycle indicates the connection set contains a cycle.
	ErrGraphCycle

	// ErrNodeNotFound indicates a node id that is not in the graph.
	ErrNodeNotFound

	// ErrPinNotFound indicates a pin id that is not in the graph.
	ErrPinNotFound

	// ErrNodeNotRemovable indicates an attempt to remove a static node.
	ErrNodeNotRemovable
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidConnection:
		return "InvalidConnection"
	case ErrGraphCycle:
		return "GraphCycle"
	case ErrNodeNotFound:
		return "NodeNotFound"
	case ErrPinNotFound:
		return "PinNotFound"
	case ErrNodeNotRemovable:
		return "NodeNotRemovable"
	default:
		return "Unknown"
	}
}

// Error is a graph error with the ids it concerns.
type Error struct {
	Kind    ErrorKind
	Message string

	// Nodes lists the node ids involved, e.g. the nodes of a cycle.
	Nodes []NodeID

	// Pins lists the pin ids involved, source first.
	Pins []PinID
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "graph %s: %s", e.Kind, e.Message)
	if len(e.Pins) > 0 {
		fmt.Fprintf(&b, " (pins %v)", e.Pins)
	}
	if len(e.Nodes) > 0 {
		fmt.Fprintf(&b, " (nodes %v)", e.Nodes)
	}
	return b.String()
}

// NewError creates a graph error without context ids.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func connectionError(out, in PinID, format string, args ...any) *Error {
	return &Error{
		Kind:    ErrInvalidConnection,
		Message: fmt.Sprintf(format, args...),
		Pins:    []PinID{out, in},
	}
}

// IsInvalidConnection returns true if the error is ErrInvalidConnection.
func (e *Error) IsInvalidConnection() bool {
	return e.Kind == ErrInvalidConnection
}

// IsGraphCycle returns true if the error is ErrGraphCycle.
func (e *Error) IsGraphCycle() bool {
	return e.Kind == ErrGraphCycle
}
