// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emit

import (
	"errors"
	"strings"
	"testing"
)

func TestWriter_Indentation(t *testing.T) {
	w := New()

	if w.Level() != 0 {
		t.Errorf("initial indent = %d, want 0", w.Level())
	}

	w.Indent()
	w.Indent()
	if w.Level() != 2 {
		t.Errorf("after two Indent, level = %d, want 2", w.Level())
	}

	w.Dedent()
	w.Dedent()
	w.Dedent()
	if w.Level() != 0 {
		t.Errorf("Dedent below zero should stay at 0, got %d", w.Level())
	}
}

func TestWriter_WriteLine(t *testing.T) {
	w := New()
	w.WriteLine("first")
	w.Indent()
	w.WriteLine("x = %d;", 3)
	w.WriteLine("y = %s;", "a % b")
	w.WriteRaw("z = 100 % n;")

	want := "first\n    x = 3;\n    y = a % b;\n    z = 100 % n;\n"
	if got := w.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWriter_Blocks(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer) error
		want  string
	}{
		{
			name: "brace block",
			write: func(w *Writer) error {
				return w.Block("void main()", func() error {
					w.WriteLine("clip(a);")
					return nil
				})
			},
			want: "void main() {\n    clip(a);\n}\n",
		},
		{
			name: "declaration",
			write: func(w *Writer) error {
				return w.Declaration("struct S", func() error {
					w.WriteLine("float4 color;")
					return nil
				})
			},
			want: "struct S {\n    float4 color;\n};\n",
		},
		{
			name: "nested",
			write: func(w *Writer) error {
				return w.Block("", func() error {
					return w.Declaration("struct Inner", func() error {
						w.WriteLine("int a;")
						return nil
					})
				})
			},
			want: "{\n    struct Inner {\n        int a;\n    };\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			if err := tt.write(w); err != nil {
				t.Fatal(err)
			}
			if got := w.String(); got != tt.want {
				t.Errorf("output =\n%s\nwant\n%s", got, tt.want)
			}
			if w.Level() != 0 {
				t.Errorf("level after block = %d, want 0", w.Level())
			}
		})
	}
}

func TestWriter_BlockClosesOnError(t *testing.T) {
	w := New()
	errBody := errors.New("body failed")

	err := w.Declaration("cbuffer B : register(b0)", func() error {
		w.WriteLine("float a;")
		return errBody
	})
	if !errors.Is(err, errBody) {
		t.Fatalf("err = %v, want body error", err)
	}
	if !strings.HasSuffix(w.String(), "};\n") {
		t.Errorf("block not closed after error:\n%s", w.String())
	}
	if w.Level() != 0 {
		t.Errorf("indent leaked: %d", w.Level())
	}
}

func TestWriter_BlockClosesOnPanic(t *testing.T) {
	w := New()
	func() {
		defer func() { _ = recover() }()
		_ = w.Block("void f()", func() error {
			panic("boom")
		})
	}()
	if !strings.HasSuffix(w.String(), "}\n") || w.Level() != 0 {
		t.Errorf("block not closed after panic: level %d\n%s", w.Level(), w.String())
	}
}

func TestWriter_BeginEarlyReturn(t *testing.T) {
	w := New()
	write := func(stop bool) {
		end := w.Begin("if (x)", NoTerminator)
		defer end()
		if stop {
			return
		}
		w.WriteLine("y = 1;")
		end()
		w.WriteLine("after();")
	}

	write(true)
	write(false)

	want := "if (x) {\n}\nif (x) {\n    y = 1;\n}\nafter();\n"
	if got := w.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWriter_CustomIndent(t *testing.T) {
	w := NewWithIndent("\t")
	_ = w.Block("f()", func() error {
		w.WriteLine("x;")
		return nil
	})
	if got := w.String(); got != "f() {\n\tx;\n}\n" {
		t.Errorf("output = %q", got)
	}
}
