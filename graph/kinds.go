package graph

// Kind is the kind-specific part of a node. The compiler and the resolver
// switch over the kinds defined in this file; any other implementation is
// reported as unsupported at compile time.
type Kind interface {
	KindName() string
}

// AutoSlot requests automatic register assignment.
const AutoSlot = -1

// Operator is an infix binary operator, or a prefix operator when the node
// has a single input.
type Operator struct {
	Symbol string
}

// FunctionCall calls an intrinsic with the node inputs as positional
// arguments. Reduce makes the output the scalar of the joined input kind.
type FunctionCall struct {
	Func   string
	Reduce bool
}

// VoidEffect calls a function for its side effect only.
type VoidEffect struct {
	Func string
}

// Method calls a helper function that is defined outside the graph.
// Parameters follow the node input order. Definition, when set, is
// emitted once ahead of the entry point.
type Method struct {
	Name       string
	Definition string
}

// Constant yields the default value of its output pin.
type Constant struct{}

// InputNode reads a member of the pixel input structure.
type InputNode struct {
	// Semantic is the HLSL semantic, e.g. "TEXCOORD0". Empty assigns one.
	Semantic string
}

// Property reads a field of a constant buffer.
type Property struct {
	Buffer string
	Slot   int
}

// TextureDimension selects the texture object type.
type TextureDimension uint8

const (
	Texture2D TextureDimension = iota
	TextureCube
	Texture3D
)

// String returns the HLSL object type name.
func (d TextureDimension) String() string {
	switch d {
	case TextureCube:
		return "TextureCube"
	case Texture3D:
		return "Texture3D"
	default:
		return "Texture2D"
	}
}

// TextureSample samples a texture through a sampler state.
type TextureSample struct {
	Texture     string
	Sampler     string
	TextureSlot int
	SamplerSlot int
	Dimension   TextureDimension
}

// ViewType is the wrapper of an unordered access view.
type ViewType uint8

const (
	RWBuffer ViewType = iota
	RWStructuredBuffer
	RWTexture2D
)

// String returns the HLSL object type name.
func (v ViewType) String() string {
	switch v {
	case RWStructuredBuffer:
		return "RWStructuredBuffer"
	case RWTexture2D:
		return "RWTexture2D"
	default:
		return "RWBuffer"
	}
}

// StorageLoad reads an element of an unordered access view.
type StorageLoad struct {
	Buffer string
	View   ViewType
	Slot   int
}

// StorageStore writes an element of an unordered access view.
type StorageStore struct {
	Buffer string
	View   ViewType
	Slot   int
}

// Swizzle selects and reorders components, e.g. "xyz" or "wzyx".
type Swizzle struct {
	Mask string
}

// Split exposes each component of its input as a scalar output.
type Split struct{}

// OutputNode is the terminal node. Each input pin becomes a shader output.
type OutputNode struct{}

func (Operator) KindName() string      { return "Operator" }
func (FunctionCall) KindName() string  { return "FunctionCall" }
func (VoidEffect) KindName() string    { return "VoidEffect" }
func (Method) KindName() string        { return "Method" }
func (Constant) KindName() string      { return "Constant" }
func (InputNode) KindName() string     { return "Input" }
func (Property) KindName() string      { return "Property" }
func (TextureSample) KindName() string { return "TextureSample" }
func (StorageLoad) KindName() string   { return "StorageLoad" }
func (StorageStore) KindName() string  { return "StorageStore" }
func (Swizzle) KindName() string       { return "Swizzle" }
func (Split) KindName() string         { return "Split" }
func (OutputNode) KindName() string    { return "Output" }

// HasSideEffect reports whether nodes of kind k must be emitted even when
// nothing consumes them.
func HasSideEffect(k Kind) bool {
	switch k.(type) {
	case VoidEffect, StorageStore:
		return true
	}
	return false
}
