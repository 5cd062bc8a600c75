// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrSlotConflict, "SlotConflict"},
		{ErrUnsupportedNodeKind, "UnsupportedNodeKind"},
		{ErrUnresolvedType, "UnresolvedType"},
		{ErrInvalidGraph, "InvalidGraph"},
		{ErrInternalError, "InternalError"},
		{ErrorKind(255), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestError_Message(t *testing.T) {
	err := nodeError(ErrUnsupportedNodeKind, 7, "node %q", "warp")
	if got := err.Error(); !strings.Contains(got, "node 7") || !strings.Contains(got, "UnsupportedNodeKind") {
		t.Errorf("Error() = %q", got)
	}
	if !err.IsUnsupportedNodeKind() || err.IsSlotConflict() {
		t.Error("predicates disagree with kind")
	}

	plain := NewError(ErrInternalError, "boom")
	if got := plain.Error(); got != "hlsl InternalError: boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	wrapped := fmt.Errorf("hlsl: %w", &Error{Kind: ErrSlotConflict, Names: []string{"a", "b"}})

	var e *Error
	if !errors.As(wrapped, &e) {
		t.Fatal("errors.As failed")
	}
	if !e.IsSlotConflict() || len(e.Names) != 2 {
		t.Errorf("unexpected error %+v", e)
	}
}
