// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package emit provides an indentation-aware text writer for generated
// shader source.
//
// Scoped blocks write an opening brace, indent their body and always write
// the closing brace, optionally followed by a semicolon:
//
//	w := emit.New()
//	_ = w.Declaration("struct PixelInput", func() error {
//	    w.WriteLine("float4 position : SV_POSITION;")
//	    return nil
//	})
//
// produces
//
//	struct PixelInput {
//	    float4 position : SV_POSITION;
//	};
package emit

import (
	"fmt"
	"strings"
)

// Terminator is written after the closing brace of a block.
type Terminator uint8

const (
	// NoTerminator closes a block with "}" (function bodies, branches).
	NoTerminator Terminator = iota

	// Semicolon closes a block with "};" (struct and buffer declarations).
	Semicolon
)

// DefaultIndent is one indentation level.
const DefaultIndent = "    "

// Writer accumulates source text line by line.
type Writer struct {
	out    strings.Builder
	indent int
	unit   string
}

// New creates a writer indenting with four spaces.
func New() *Writer {
	return &Writer{unit: DefaultIndent}
}

// NewWithIndent creates a writer using unit for each indentation level.
func NewWithIndent(unit string) *Writer {
	return &Writer{unit: unit}
}

// WriteLine formats one line at the current indentation.
func (w *Writer) WriteLine(format string, args ...any) {
	w.writeIndent()
	fmt.Fprintf(&w.out, format, args...)
	w.out.WriteByte('\n')
}

// WriteRaw writes line verbatim at the current indentation.
func (w *Writer) WriteRaw(line string) {
	w.writeIndent()
	w.out.WriteString(line)
	w.out.WriteByte('\n')
}

// Blank writes an empty line without indentation.
func (w *Writer) Blank() {
	w.out.WriteByte('\n')
}

func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString(w.unit)
	}
}

// Indent increases the indentation level.
func (w *Writer) Indent() {
	w.indent++
}

// Dedent decreases the indentation level, stopping at zero.
func (w *Writer) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// Level returns the current indentation level.
func (w *Writer) Level() int {
	return w.indent
}

// Begin writes header followed by an opening brace and indents. The
// returned function closes the block; calling it more than once has no
// further effect, so it is safe to both defer it and call it early.
func (w *Writer) Begin(header string, term Terminator) func() {
	if header == "" {
		w.WriteLine("{")
	} else {
		w.WriteRaw(header + " {")
	}
	w.Indent()

	closed := false
	return func() {
		if closed {
			return
		}
		closed = true
		w.Dedent()
		if term == Semicolon {
			w.WriteLine("};")
		} else {
			w.WriteLine("}")
		}
	}
}

// Block writes a brace block around body. The block is closed even when
// body returns an error or panics.
func (w *Writer) Block(header string, body func() error) error {
	end := w.Begin(header, NoTerminator)
	defer end()
	return body()
}

// Declaration is Block with a trailing semicolon.
func (w *Writer) Declaration(header string, body func() error) error {
	end := w.Begin(header, Semicolon)
	defer end()
	return body()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.out.Len()
}

// String returns the accumulated text.
func (w *Writer) String() string {
	return w.out.String()
}
