package frame

import (
	"strings"

	"frameflow/content"
	pr "frameflow/css/value"
)

// Characters with special meaning after white-space normalization: a
// zero width space is a bare break opportunity, a no-break space is a
// preserved space without one.
const (
	zeroWidthSpace = '\u200b'
	noBreakSpace   = '\u00a0'
)

// TextBox is a leaf inline box holding one run of normalized text.
// Measurement is delegated to the render device through a TextMeasurer.
// Text is the part of the run carried by this fragment after the last
// flow pass; the full source run is kept aside so reflow starts over.
type TextBox struct {
	BoxFields

	Text string

	source   string
	measurer TextMeasurer
}

// NewTextBox builds a text box for a non-empty run of text. Empty text
// must be filtered out by the builder beforehand.
func NewTextBox(style StyleAccessor, node *content.Node, text string, measurer TextMeasurer) *TextBox {
	if text == "" {
		panic("NewTextBox called with empty text")
	}
	out := TextBox{BoxFields: newBoxFields(style, node), Text: text, source: text, measurer: measurer}
	out.self = &out
	out.InlineLevel = true
	return &out
}

// textUnit is one unbreakable run: a word with its trailing space, or a
// run ended by a forced break.
type textUnit struct {
	text string
	soft bool // a break opportunity follows
	hard bool // a forced line break follows
}

// splitTextUnits cuts normalized text into unbreakable units. A unit
// ends after a space or zero width space (soft) or at a newline (hard,
// the newline itself is dropped). No-break spaces do not end units.
func splitTextUnits(text string) []textUnit {
	var units []textUnit
	var current strings.Builder
	flush := func(soft, hard bool) {
		units = append(units, textUnit{text: current.String(), soft: soft, hard: hard})
		current.Reset()
	}
	runes := []rune(text)
	for i, r := range runes {
		switch r {
		case '\n':
			flush(false, true)
		case zeroWidthSpace:
			current.WriteRune(r)
			flush(true, false)
		case ' ':
			current.WriteRune(r)
			// A space run ends a unit only at its last space.
			if i+1 == len(runes) || runes[i+1] != ' ' {
				flush(true, false)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		flush(false, false)
	}
	return units
}

// setTextMetrics fills width and line metrics from the measured text.
func (b *TextBox) setTextMetrics(ascent, descent pr.Float) {
	b.BorderEdgeWidth = b.measurer.TextWidth(b.Text)
	b.BorderEdgeHeight = ascent - descent
	b.LineAscent, b.ContentAscent = ascent, ascent
	b.LineDescent, b.ContentDescent = descent, descent
	b.Baseline = ascent
	b.StripNext = strings.HasSuffix(b.Text, " ")
	b.FlowDirty = false
}

// newFragment builds a continuation text box sharing element, style and
// measurement with the original.
func (b *TextBox) newFragment() *TextBox {
	out := TextBox{BoxFields: newBoxFields(b.Style, b.Node), measurer: b.measurer}
	out.self = &out
	out.InlineLevel = true
	out.Parent = b.Parent
	out.ContainingBlock = b.ContainingBlock
	out.OpenBorder = false
	return &out
}

// FlowInline measures the text and splits it into fragments at line
// break positions dictated by a copy of the ambient context.
func (b *TextBox) FlowInline(ambient *FormattingContext) {
	ctx := ambient.Copy()
	b.Continuation = nil
	ascent, descent := b.measurer.Metrics()

	type fragment struct {
		text       string
		soft, hard bool
	}
	var fragments []fragment
	var current strings.Builder
	currentSoft := false
	for _, unit := range splitTextUnits(b.source) {
		width := b.measurer.TextWidth(unit.text)
		if !ctx.CanAdd(width, false) {
			if current.Len() == 0 {
				// Overflow before any content: the caller wraps
				// before this box instead of splitting it.
				ctx.Newline()
			} else {
				fragments = append(fragments, fragment{current.String(), currentSoft, false})
				current.Reset()
				currentSoft = false
				ctx.Newline()
			}
		}
		ctx.Add(width)
		current.WriteString(unit.text)
		currentSoft = unit.soft
		if unit.soft {
			ctx.Breakpoint()
		}
		if unit.hard {
			fragments = append(fragments, fragment{current.String(), currentSoft, true})
			current.Reset()
			currentSoft = false
			ctx.Newline()
		}
	}
	if current.Len() > 0 {
		fragments = append(fragments, fragment{current.String(), currentSoft, false})
	}

	box := b
	for i, frag := range fragments {
		if i > 0 {
			next := b.newFragment()
			box.CloseBorder = false
			box.Continuation = next
			box = next
		}
		box.Text = frag.text
		box.SoftBreak, box.LineBreak = frag.soft, frag.hard
		box.setTextMetrics(ascent, descent)
	}
	if len(fragments) == 0 {
		// Text reduced to forced breaks only.
		b.Text = ""
		b.setTextMetrics(ascent, descent)
	}
	b.FlowDirty = false
}

// LStrip drops leading collapsible spaces at the start of a line and
// re-measures.
func (b *TextBox) LStrip() {
	stripped := strings.TrimLeft(b.Text, " ")
	if stripped == b.Text {
		return
	}
	b.Text = stripped
	if stripped == "" {
		b.BorderEdgeWidth = 0
		return
	}
	b.BorderEdgeWidth = b.measurer.TextWidth(stripped)
}

func (b *TextBox) drawSelf(x, y pr.Float, dev RenderDevice) {
	if b.Text == "" {
		return
	}
	dev.DrawText(x, y-b.Baseline, b.self, b.Text)
}
