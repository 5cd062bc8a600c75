// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"

	"github.com/gogpu/matgraph/graph"
)

// ErrorKind categorizes HLSL compilation errors.
type ErrorKind uint8

const (
	// ErrSlotConflict indicates two resources claiming one register, or
	// one resource requested at two registers.
	ErrSlotConflict ErrorKind = iota

	// ErrUnsupportedNodeKind indicates a node kind with no emission template.
	ErrUnsupportedNodeKind

	// ErrUnresolvedType indicates a live pin without a concrete type.
	ErrUnresolvedType

	// ErrInvalidGraph indicates a graph the generator cannot lower, such as
	// one with several terminal nodes.
	ErrInvalidGraph

	// ErrInternalError indicates an internal compiler error.
	ErrInternalError
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrSlotConflict:
		return "SlotConflict"
	case ErrUnsupportedNodeKind:
		return "UnsupportedNodeKind"
	case ErrUnresolvedType:
		return "UnresolvedType"
	case ErrInvalidGraph:
		return "InvalidGraph"
	case ErrInternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Error represents an HLSL compilation error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string

	// Node is the node being lowered, when known.
	Node graph.NodeID

	// Names lists the resources involved in a SlotConflict.
	Names []string

	// Register is the contested register of a SlotConflict.
	Register string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Node != 0 {
		return fmt.Sprintf("hlsl %s at node %d: %s", e.Kind, e.Node, e.Message)
	}
	return fmt.Sprintf("hlsl %s: %s", e.Kind, e.Message)
}

// NewError creates a new HLSL error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// nodeError creates an error attached to a node.
func nodeError(kind ErrorKind, node graph.NodeID, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Node:    node,
	}
}

// IsSlotConflict returns true if the error is ErrSlotConflict.
func (e *Error) IsSlotConflict() bool {
	return e.Kind == ErrSlotConflict
}

// IsUnsupportedNodeKind returns true if the error is ErrUnsupportedNodeKind.
func (e *Error) IsUnsupportedNodeKind() bool {
	return e.Kind == ErrUnsupportedNodeKind
}

// IsInternalError returns true if the error is ErrInternalError.
func (e *Error) IsInternalError() bool {
	return e.Kind == ErrInternalError
}
