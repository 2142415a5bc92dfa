package value

import (
	"testing"

	tu "frameflow/utils/testutils"
)

func TestResolvePercentage(t *testing.T) {
	tu.AssertEqual(t, ResolvePercentage(PercToV(50), 200), MaybeFloat(Float(100)))
	tu.AssertEqual(t, ResolvePercentage(FToV(30), 200), MaybeFloat(Float(30)))
	tu.AssertEqual(t, ResolvePercentage(SToV("auto"), 200), AutoF)
	tu.AssertEqual(t, ResolvePercentage(Value{}, 200), AutoF)
	// Font relative units must be resolved upstream.
	tu.AssertEqual(t, ResolvePercentage(Value{Dimension: NewDim(2, Em)}, 200), AutoF)
}

func TestMaybeFloat(t *testing.T) {
	tu.AssertEqual(t, Is(AutoF), false)
	tu.AssertEqual(t, Is(Float(0)), true)
	tu.AssertEqual(t, AutoF == AutoF, true)
	tu.AssertEqual(t, MaybeFloat(Float(3)) == AutoF, false)
	tu.AssertEqual(t, AutoF.V(), Float(0))
}

func TestToMaybeFloat(t *testing.T) {
	tu.AssertEqual(t, FToV(12).ToMaybeFloat(), MaybeFloat(Float(12)))
	tu.AssertEqual(t, SToV("auto").ToMaybeFloat(), AutoF)
	tu.AssertEqual(t, Value{}.ToMaybeFloat(), AutoF)
}
