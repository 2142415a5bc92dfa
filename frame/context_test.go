package frame

import (
	"testing"

	pr "frameflow/css/value"
	tu "frameflow/utils/testutils"
)

func TestFormattingContextProgress(t *testing.T) {
	ctx := newFormattingContext(100)

	// The first box always fits, whatever its width.
	tu.AssertEqual(t, ctx.CanAdd(1000, false), true)
	ctx.Add(1000)
	tu.AssertEqual(t, ctx.CanAdd(1, false), false)

	ctx.Breakpoint()
	ctx.Newline()
	tu.AssertEqual(t, ctx.remainingWidth, pr.Float(100))
	tu.AssertEqual(t, ctx.lineEmpty, true)
}

func TestFormattingContextCarry(t *testing.T) {
	ctx := newFormattingContext(100)
	ctx.Add(40)
	ctx.Breakpoint()
	ctx.Add(30)
	// 30 units are committed past the breakpoint: they move onto the
	// new line and keep it non-empty.
	ctx.Newline()
	tu.AssertEqual(t, ctx.remainingWidth, pr.Float(70))
	tu.AssertEqual(t, ctx.lineEmpty, false)
}

func TestFormattingContextReserve(t *testing.T) {
	ctx := newFormattingContext(100)
	ctx.Add(50)
	ctx.Breakpoint()
	ctx.Reserve(20)
	tu.AssertEqual(t, ctx.CanAdd(40, true), true)
	tu.AssertEqual(t, ctx.CanAdd(40, false), false)
}

func TestFormattingContextCopy(t *testing.T) {
	ctx := newFormattingContext(100)
	ctx.Add(60)
	nested := ctx.Copy()
	nested.Add(100)
	nested.Newline()
	tu.AssertEqual(t, ctx.remainingWidth, pr.Float(40))
	tu.AssertEqual(t, ctx.lineEmpty, false)
}

func TestNormalizeTextCollapsing(t *testing.T) {
	for _, test := range []struct {
		input, whiteSpace, expected string
	}{
		{"hello   world", "normal", "hello world"},
		{"hello\t\tworld", "normal", "hello world"},
		{"hello \r\n world", "normal", "hello world"},
		{"hello \n\n world", "normal", "hello world"},
		{"  a  b  ", "normal", " a b "},
		{"hello \n world", "pre-line", "hello\nworld"},
		{"hello\tworld", "nowrap", "hello world"},
	} {
		tu.AssertEqual(t, NormalizeText(test.input, test.whiteSpace), test.expected)
	}
}

func TestNormalizeTextPreserving(t *testing.T) {
	// Preformatted spaces become no-break spaces so they survive
	// collapsing; pre-wrap adds a break opportunity after space runs.
	tu.AssertEqual(t, NormalizeText("a  b", "pre"), "a\u00a0\u00a0b")
	tu.AssertEqual(t, NormalizeText("a\nb", "pre"), "a\nb")
	tu.AssertEqual(t, NormalizeText("a  b", "pre-wrap"), "a\u00a0\u00a0\u200bb")
	tu.AssertEqual(t, NormalizeText("a\r\nb", "pre"), "a\nb")
}

func TestSplitTextUnits(t *testing.T) {
	units := splitTextUnits("aaaa bbbb cccc")
	tu.AssertEqual(t, units, []textUnit{
		{text: "aaaa ", soft: true},
		{text: "bbbb ", soft: true},
		{text: "cccc"},
	})

	units = splitTextUnits("a\nb")
	tu.AssertEqual(t, units, []textUnit{
		{text: "a", hard: true},
		{text: "b"},
	})

	// A space run ends one unit; no-break spaces end none at all.
	units = splitTextUnits("a  b\u00a0c")
	tu.AssertEqual(t, units, []textUnit{
		{text: "a  ", soft: true},
		{text: "b\u00a0c"},
	})

	units = splitTextUnits("a\u200bb")
	tu.AssertEqual(t, units, []textUnit{
		{text: "a\u200b", soft: true},
		{text: "b"},
	})
}
