// Package value defines the computed and used CSS values consumed by the
// layout engine. Computed values come from the external style system as
// [Value]; the layout passes convert them to used values ([Float] or
// [MaybeFloat]) by resolving percentages and "auto".
package value

import "math"

// Fl is the numeric type used for all device-unit geometry.
type Fl = float64

// Inf is the positive infinity, used for degenerate intrinsic ratios.
var Inf = Fl(math.Inf(1))

// Float implements MaybeFloat
type Float Fl

func (f Float) V() Float { return f }

// MaybeFloat is a Float or the special value Auto.
type MaybeFloat interface {
	V() Float
}

type autoType struct{}

func (autoType) V() Float { return 0 }

// AutoF is the "auto" used value. Compare with == / != .
var AutoF MaybeFloat = autoType{}

func Min(x, y Float) Float {
	if x < y {
		return x
	}
	return y
}

func Max(x, y Float) Float {
	if x > y {
		return x
	}
	return y
}

// Is returns true for a concrete (non-auto, non-nil) value.
func Is(m MaybeFloat) bool {
	_, ok := m.(Float)
	return ok
}

// Unit is the unit of a Dimension.
type Unit uint8

const (
	// No unit, for pure numbers such as intrinsic ratios.
	Scalar Unit = iota + 1
	Perc        // percentage, relative to a containing block dimension
	Px          // device pixel
	Pt          // point, 1/72 inch
	Em          // relative to the font size
)

func (u Unit) String() string {
	switch u {
	case Scalar:
		return ""
	case Perc:
		return "%"
	case Px:
		return "px"
	case Pt:
		return "pt"
	case Em:
		return "em"
	default:
		return "<invalid unit>"
	}
}

// Dimension is a number with a unit.
type Dimension struct {
	Value Float
	Unit  Unit
}

func NewDim(v Float, u Unit) Dimension { return Dimension{Value: v, Unit: u} }

// Color is a device RGBA color, components in [0, 1].
type Color struct {
	R, G, B, A Fl
	Valid      bool
}

// Value is a computed CSS value: either a keyword (including "auto"),
// a dimension (length in device units, percentage or bare number),
// or a color. The zero value means "not set".
type Value struct {
	String string
	Dimension
	Color Color
}

// SToV tags a keyword as a Value.
func SToV(s string) Value { return Value{String: s} }

// FToV tags a device-unit length as a Value.
func FToV(f Fl) Value { return Value{Dimension: Dimension{Value: Float(f), Unit: Px}} }

// PercToV tags a percentage as a Value.
func PercToV(f Fl) Value { return Value{Dimension: Dimension{Value: Float(f), Unit: Perc}} }

// ColorToV tags a color as a Value.
func ColorToV(c Color) Value { return Value{Color: c} }

func (v Value) IsNone() bool {
	return v == Value{}
}

func (v Value) IsAuto() bool { return v.String == "auto" }

// ToMaybeFloat returns the used value of a device-unit length,
// mapping "auto" and unset values to AutoF. It must not be called on
// percentages.
func (v Value) ToMaybeFloat() MaybeFloat {
	if v.IsNone() || v.IsAuto() {
		return AutoF
	}
	return v.Value
}

// ResolvePercentage returns the used value for a length or percentage,
// resolving percentages against referTo. Keywords other than "auto" and
// unset values resolve to AutoF as well.
func ResolvePercentage(v Value, referTo Float) MaybeFloat {
	switch {
	case v.IsNone(), v.IsAuto():
		return AutoF
	case v.Unit == Perc:
		return referTo * v.Value / 100
	case v.Unit == Px, v.Unit == Scalar:
		return v.Value
	default:
		// The style system resolves font-relative units before
		// handing values to layout.
		return AutoF
	}
}
