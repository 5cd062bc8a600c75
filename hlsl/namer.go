// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"
)

// namer generates unique identifiers for HLSL output.
// Names are compared case-insensitively because several HLSL keywords
// are matched that way.
type namer struct {
	// usedNames holds every name handed out, lowercased.
	usedNames map[string]struct{}

	// counter feeds the numeric suffixes.
	counter uint32
}

// newNamer creates a namer with the generator's own names reserved.
func newNamer(reserved ...string) *namer {
	n := &namer{
		usedNames: make(map[string]struct{}),
	}
	for _, name := range reserved {
		n.reserve(name)
	}
	return n
}

// call generates a unique name based on the given base.
// It sanitizes and escapes the base and adds a numeric suffix if needed.
func (n *namer) call(base string) string {
	escaped := Escape(Sanitize(base))
	if n.claim(escaped) {
		return escaped
	}
	for {
		n.counter++
		candidate := fmt.Sprintf("%s_%d", escaped, n.counter)
		if n.claim(candidate) {
			return candidate
		}
	}
}

// local returns the next tmpN name. Locals share the namer so a node
// called "tmp3" cannot shadow one.
func (n *namer) local(index int) string {
	name := fmt.Sprintf("%s%d", LocalPrefix, index)
	if n.claim(name) {
		return name
	}
	return n.call(name)
}

func (n *namer) claim(name string) bool {
	lower := strings.ToLower(name)
	if _, used := n.usedNames[lower]; used {
		return false
	}
	n.usedNames[lower] = struct{}{}
	return true
}

// isUsed checks if a name has already been used (case-insensitive).
func (n *namer) isUsed(name string) bool {
	_, used := n.usedNames[strings.ToLower(name)]
	return used
}

// reserve marks a name as used without returning it.
func (n *namer) reserve(name string) {
	n.usedNames[strings.ToLower(name)] = struct{}{}
}
