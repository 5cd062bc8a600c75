package graph

import "github.com/gogpu/matgraph/types"

// PinID identifies a pin. Ids come from the graph-wide counter shared with
// nodes and are never reused.
type PinID uint32

// PinKind is the direction of a pin.
type PinKind uint8

const (
	Input PinKind = iota
	Output
)

// String returns "input" or "output".
func (k PinKind) String() string {
	if k == Output {
		return "output"
	}
	return "input"
}

// PinFlags control how the resolver treats a pin.
type PinFlags uint8

const (
	// FlagInferType allows propagation to overwrite the pin type.
	FlagInferType PinFlags = 1 << iota

	// FlagLockType pins the type once it has been set.
	FlagLockType

	// FlagColorEdit is an editor hint; ignored by compilation.
	FlagColorEdit

	// FlagSlider is an editor hint; ignored by compilation.
	FlagSlider
)

// Has returns true if all bits of flag are set.
func (f PinFlags) Has(flag PinFlags) bool {
	return f&flag == flag
}

// PinSpec describes a pin before it is registered in a graph.
type PinSpec struct {
	Name string
	Kind PinKind

	// Type is the declared type. Unknown makes the pin eligible for inference.
	Type types.PinType

	Flags PinFlags

	// Broadcast limits accepted arities: 0 or 1 accept anything, n accepts
	// n-component values or scalars.
	Broadcast uint8

	// Default is used when the input is unconnected.
	Default types.Value
}

// Pin is a typed input or output slot on a node.
type Pin struct {
	ID   PinID
	Node NodeID
	Name string
	Kind PinKind

	// Declared is the type the node definition gives the pin.
	Declared types.PinType

	// Type is the resolved type, Unknown until resolution.
	Type types.PinType

	Flags     PinFlags
	Broadcast uint8
	Default   types.Value
}

// Fixed reports whether the pin type is hard-coded by its node.
func (p *Pin) Fixed() bool {
	return !p.Declared.IsUnknown() && !p.Flags.Has(FlagInferType)
}

// Infers reports whether the resolver may assign the pin type.
func (p *Pin) Infers() bool {
	return !p.Fixed()
}

// Locked reports whether the pin carries a lock and already has a type.
func (p *Pin) Locked() bool {
	return p.Flags.Has(FlagLockType) && !p.Type.IsUnknown()
}

// Spec returns the definition the pin was created from.
func (p *Pin) Spec() PinSpec {
	return PinSpec{
		Name:      p.Name,
		Kind:      p.Kind,
		Type:      p.Declared,
		Flags:     p.Flags,
		Broadcast: p.Broadcast,
		Default:   p.Default,
	}
}
