package types

import "fmt"

// Value is a literal of a concrete PinType. Only the first Type.Arity
// components are meaningful; booleans are stored as 0 or 1.
type Value struct {
	Type       PinType
	Components [MaxArity]float64
}

// Scalar returns a single-component literal.
func Scalar(kind ScalarKind, v float64) Value {
	return Value{Type: New(kind, 1), Components: [MaxArity]float64{v}}
}

// Vector returns a literal with one component per argument.
func Vector(kind ScalarKind, components ...float64) Value {
	if len(components) == 0 || len(components) > MaxArity {
		return Value{}
	}
	v := Value{Type: New(kind, uint8(len(components)))}
	copy(v.Components[:], components)
	return v
}

// Zero returns the zero literal of t.
func Zero(t PinType) Value {
	return Value{Type: t}
}

// IsZero reports whether the literal carries no type.
func (v Value) IsZero() bool {
	return v.Type.IsUnknown()
}

// Values returns the meaningful components.
func (v Value) Values() []float64 {
	if v.Type.IsUnknown() {
		return nil
	}
	out := make([]float64, v.Type.Arity)
	copy(out, v.Components[:v.Type.Arity])
	return out
}

// Convert returns the literal converted to t. A scalar broadcasts to every
// component; wider values are truncated and missing components are zero.
// Components are rounded toward zero for integer kinds and collapsed to
// 0 or 1 for Bool.
func (v Value) Convert(t PinType) Value {
	out := Value{Type: t}
	if t.IsUnknown() {
		return out
	}
	for i := uint8(0); i < t.Arity; i++ {
		var c float64
		switch {
		case v.Type.Arity == 1:
			c = v.Components[0]
		case i < v.Type.Arity:
			c = v.Components[i]
		}
		out.Components[i] = convertComponent(c, t.Kind)
	}
	return out
}

func convertComponent(c float64, kind ScalarKind) float64 {
	switch kind {
	case KindBool:
		if c != 0 {
			return 1
		}
		return 0
	case KindInt:
		return float64(int64(c))
	case KindUInt:
		if c < 0 {
			return 0
		}
		return float64(uint64(c))
	default:
		return c
	}
}

// String returns a compact debug representation such as "float2(1, 0.5)".
func (v Value) String() string {
	if v.Type.IsUnknown() {
		return "<none>"
	}
	s := v.Type.String() + "("
	for i, c := range v.Values() {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%g", c)
	}
	return s + ")"
}
