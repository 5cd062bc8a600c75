// Package document reads and writes material graph files.
//
// A document lists nodes by catalog type and parameters, and connections
// by (node id, pin name). It is the on-disk form of a graph.Graph: Build
// turns a document into a graph and FromGraph turns a graph back into a
// document. Editor positions and pin default overrides survive the round
// trip.
//
// Documents are YAML by default; files with a .json extension are JSON.
//
//	doc, err := document.Load("brick.matgraph.yaml")
//	if err != nil {
//		return err
//	}
//	g, err := doc.Build()
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/matgraph/nodes"
	"github.com/gogpu/matgraph/types"
)

// Version is the document format version written by Encode.
const Version = 1

// Document is a serialized material graph.
type Document struct {
	Version int `yaml:"version" json:"version" validate:"omitempty,eq=1"`

	// ID identifies the graph across renames. Save assigns one when it
	// is nil.
	ID uuid.UUID `yaml:"id" json:"id"`

	Name        string       `yaml:"name" json:"name" validate:"required"`
	Nodes       []Node       `yaml:"nodes" json:"nodes" validate:"required,min=1,dive"`
	Connections []Connection `yaml:"connections,omitempty" json:"connections,omitempty" validate:"dive"`
}

// Node is one node of a document.
type Node struct {
	ID     uint32       `yaml:"id" json:"id" validate:"required"`
	Type   string       `yaml:"type" json:"type" validate:"required"`
	Params nodes.Params `yaml:"params,omitempty" json:"params,omitempty"`

	Position *Position `yaml:"position,omitempty" json:"position,omitempty"`

	// Defaults overrides the default value of unconnected inputs, keyed
	// by pin name.
	Defaults map[string]Literal `yaml:"defaults,omitempty" json:"defaults,omitempty" validate:"dive"`
}

// Position is the editor location of a node.
type Position struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Literal is a typed pin default. A single component broadcasts to the
// arity of Type.
type Literal struct {
	Type  types.PinType `yaml:"type,omitempty" json:"type,omitempty"`
	Value []float64     `yaml:"value,flow" json:"value" validate:"min=1,max=4"`
}

// value converts the literal to a types.Value. An untyped literal is a
// float of its own arity.
func (l Literal) value() types.Value {
	t := l.Type
	if t.IsUnknown() {
		t = types.New(types.KindFloat, uint8(len(l.Value)))
	}
	return types.Vector(t.Kind, l.Value...).Convert(t)
}

func literalOf(v types.Value) Literal {
	return Literal{Type: v.Type, Value: v.Values()}
}

// Endpoint names a pin of a document node.
type Endpoint struct {
	Node uint32 `yaml:"node" json:"node" validate:"required"`
	Pin  string `yaml:"pin" json:"pin" validate:"required"`
}

// Connection links an output pin to an input pin.
type Connection struct {
	From Endpoint `yaml:"from" json:"from"`
	To   Endpoint `yaml:"to" json:"to"`
}

// Format is a document encoding.
type Format uint8

const (
	FormatYAML Format = iota
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Decode reads a document. Unknown fields are rejected. The document is
// not validated; call Validate or use Load.
func Decode(r io.Reader, format Format) (*Document, error) {
	doc := &Document{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("document: decode json: %w", err)
		}
	default:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("document: empty input")
			}
			return nil, fmt.Errorf("document: decode yaml: %w", err)
		}
	}
	return doc, nil
}

// Encode writes a document.
func Encode(w io.Writer, doc *Document, format Format) error {
	if doc.Version == 0 {
		doc.Version = Version
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("document: encode json: %w", err)
		}
		return nil
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("document: encode yaml: %w", err)
		}
		return enc.Close()
	}
}

// Load reads and validates the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	doc, err := Decode(bytes.NewReader(data), FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := Validate(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes doc to path in the format implied by its extension,
// assigning an ID first if the document has none.
func Save(path string, doc *Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	var buf bytes.Buffer
	if err := Encode(&buf, doc, FormatOf(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	return nil
}
