// Package types defines the pin type lattice used by material graphs.
//
// A PinType is a scalar kind paired with a component count (1 to 4).
// Types combine through Join, which applies numeric promotion and
// scalar-to-vector broadcast; no other implicit conversion exists.
package types

import (
	"fmt"
	"strings"
)

// ScalarKind represents scalar component kinds, ordered by promotion rank.
type ScalarKind uint8

const (
	KindUnknown ScalarKind = iota // Not yet inferred
	KindBool                      // Boolean
	KindInt                       // 32-bit signed integer
	KindUInt                      // 32-bit unsigned integer
	KindHalf                      // 16-bit float
	KindFloat                     // 32-bit float
	KindDouble                    // 64-bit float
)

// String returns the shading-language spelling of the kind.
func (k ScalarKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUInt:
		return "uint"
	case KindHalf:
		return "half"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether the kind takes part in numeric promotion.
func (k ScalarKind) IsNumeric() bool {
	return k >= KindInt && k <= KindDouble
}

// IsFloat reports whether the kind is a floating-point kind.
func (k ScalarKind) IsFloat() bool {
	return k == KindHalf || k == KindFloat || k == KindDouble
}

// MaxArity is the widest vector supported by pins.
const MaxArity = 4

// PinType is a scalar kind with an arity of 1 to 4.
// The zero value is Unknown.
type PinType struct {
	Kind  ScalarKind
	Arity uint8
}

// Unknown is the type of a pin before inference.
var Unknown = PinType{}

// Common pin types.
var (
	Bool    = PinType{Kind: KindBool, Arity: 1}
	Int     = PinType{Kind: KindInt, Arity: 1}
	UInt    = PinType{Kind: KindUInt, Arity: 1}
	Half    = PinType{Kind: KindHalf, Arity: 1}
	Float   = PinType{Kind: KindFloat, Arity: 1}
	Float2  = PinType{Kind: KindFloat, Arity: 2}
	Float3  = PinType{Kind: KindFloat, Arity: 3}
	Float4  = PinType{Kind: KindFloat, Arity: 4}
	Double  = PinType{Kind: KindDouble, Arity: 1}
	Int2    = PinType{Kind: KindInt, Arity: 2}
	UInt2   = PinType{Kind: KindUInt, Arity: 2}
	Half4   = PinType{Kind: KindHalf, Arity: 4}
	Double4 = PinType{Kind: KindDouble, Arity: 4}
)

// New returns a PinType of the given kind and arity.
// Out-of-range arities or an unknown kind yield Unknown.
func New(kind ScalarKind, arity uint8) PinType {
	if kind == KindUnknown || arity < 1 || arity > MaxArity {
		return Unknown
	}
	return PinType{Kind: kind, Arity: arity}
}

// IsUnknown reports whether the type has not been resolved.
func (t PinType) IsUnknown() bool {
	return t.Kind == KindUnknown || t.Arity == 0
}

// IsScalar reports whether the type has a single component.
func (t PinType) IsScalar() bool {
	return !t.IsUnknown() && t.Arity == 1
}

// Scalar returns the single-component type of the same kind.
func (t PinType) Scalar() PinType {
	return New(t.Kind, 1)
}

// WithArity returns the type of the same kind with n components.
func (t PinType) WithArity(n uint8) PinType {
	return New(t.Kind, n)
}

// String returns the shading-language spelling, e.g. "float4" or "bool".
func (t PinType) String() string {
	if t.IsUnknown() {
		return "unknown"
	}
	if t.Arity == 1 {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s%d", t.Kind, t.Arity)
}

// MarshalText implements encoding.TextMarshaler.
func (t PinType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *PinType) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Parse converts a spelling such as "float3" or "uint" into a PinType.
// The empty string and "unknown" parse to Unknown.
func Parse(s string) (PinType, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "unknown" {
		return Unknown, nil
	}

	kinds := []ScalarKind{KindBool, KindUInt, KindInt, KindHalf, KindFloat, KindDouble}
	for _, k := range kinds {
		name := k.String()
		if !strings.HasPrefix(s, name) {
			continue
		}
		rest := s[len(name):]
		switch rest {
		case "", "1":
			return New(k, 1), nil
		case "2", "3", "4":
			return New(k, rest[0]-'0'), nil
		}
	}
	return Unknown, fmt.Errorf("types: unknown pin type %q", s)
}

// Join returns the promotion of a and b.
//
// Unknown joins to the other operand. Bool only joins with Bool; numeric
// kinds promote to the higher rank. Arities must match, except that a
// scalar broadcasts to the other operand's arity.
func Join(a, b PinType) (PinType, bool) {
	if a.IsUnknown() {
		return b, true
	}
	if b.IsUnknown() {
		return a, true
	}

	kind, ok := joinKind(a.Kind, b.Kind)
	if !ok {
		return Unknown, false
	}

	switch {
	case a.Arity == b.Arity:
		return New(kind, a.Arity), true
	case a.Arity == 1:
		return New(kind, b.Arity), true
	case b.Arity == 1:
		return New(kind, a.Arity), true
	default:
		return Unknown, false
	}
}

func joinKind(a, b ScalarKind) (ScalarKind, bool) {
	if a == b {
		return a, true
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return KindUnknown, false
	}
	return max(a, b), true
}

// Assignable reports whether a value of type src may feed a pin of fixed
// type dst without an explicit conversion node.
func Assignable(dst, src PinType) bool {
	if dst.IsUnknown() || src.IsUnknown() {
		return false
	}
	if src.Arity != dst.Arity && src.Arity != 1 {
		return false
	}
	if dst.Kind == KindBool || src.Kind == KindBool {
		return dst.Kind == src.Kind
	}
	return true
}

// Broadcastable reports whether t may feed a pin with the given broadcast
// arity. Zero and one accept any arity; larger values accept exactly that
// arity or a scalar.
func Broadcastable(t PinType, broadcast uint8) bool {
	if broadcast <= 1 || t.IsUnknown() {
		return true
	}
	return t.Arity == 1 || t.Arity == broadcast
}
