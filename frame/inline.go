package frame

import (
	"fmt"

	"frameflow/content"
	pr "frameflow/css/value"
	"frameflow/logger"
)

// FormattingContext is the running state of one inline formatting
// context flow pass: how much of the current line is left, what has
// been committed past the last break opportunity, and whether the next
// box must strip leading white space.
type FormattingContext struct {
	remainingWidth pr.Float
	// nextLineWidth is the width every new line starts from. Always
	// the containing block width here: float exclusions are out of
	// scope.
	nextLineWidth pr.Float
	// reservedWidth is withheld from fitting checks near the end of an
	// element, so its trailing edge decoration does not force a
	// spurious wrap.
	reservedWidth pr.Float
	// nextLineCarry is the width committed since the last break
	// opportunity. On a wrap it moves to the new line.
	nextLineCarry pr.Float
	lineEmpty     bool
	stripNext     bool
}

func newFormattingContext(width pr.Float) *FormattingContext {
	return &FormattingContext{
		remainingWidth: width,
		nextLineWidth:  width,
		lineEmpty:      true,
	}
}

// Reserve withholds width from subsequent CanAdd checks.
func (c *FormattingContext) Reserve(width pr.Float) { c.reservedWidth += width }

// CanAdd reports whether a box of the given width fits on the current
// line. A box always fits on an empty line, whatever its width, so
// that layout makes progress.
func (c *FormattingContext) CanAdd(width pr.Float, ignoreReserve bool) bool {
	if c.lineEmpty {
		return true
	}
	reserved := c.reservedWidth
	if ignoreReserve {
		reserved = 0
	}
	return width+reserved <= c.remainingWidth
}

// Add commits a box of the given width to the current line.
func (c *FormattingContext) Add(width pr.Float) {
	c.remainingWidth -= width
	c.nextLineCarry += width
	c.lineEmpty = false
}

// Breakpoint records a break opportunity: a later wrap will not carry
// the width committed so far onto the new line.
func (c *FormattingContext) Breakpoint() { c.nextLineCarry = 0 }

// Newline starts a new line. Width committed past the last breakpoint
// carries over and keeps the new line non-empty.
func (c *FormattingContext) Newline() {
	c.remainingWidth = c.nextLineWidth - c.nextLineCarry
	c.lineEmpty = c.nextLineCarry > 0
	c.nextLineCarry = 0
}

// Copy clones the context for a nested flowInline pass, so speculative
// tracking inside an element does not leak back to the caller. The
// lineEmpty state is carried into the copy.
func (c *FormattingContext) Copy() *FormattingContext {
	out := *c
	return &out
}

// lineBox accumulates the boxes of one visual line and their vertical
// metrics. Transient: discarded once the block's flow pass completes.
type lineBox struct {
	ascent, descent pr.Float // descent <= 0
	lineHeight      pr.Float
	declaredHeight  pr.Float
	boxes           []Box
}

func newLineBox(declaredHeight pr.Float) *lineBox {
	return &lineBox{declaredHeight: declaredHeight}
}

func (l *lineBox) isEmpty() bool { return len(l.boxes) == 0 }

func (l *lineBox) add(box Box) {
	f := box.Box()
	l.ascent = pr.Max(l.ascent, f.LineAscent)
	l.descent = pr.Min(l.descent, f.LineDescent)
	l.boxes = append(l.boxes, box)
}

// close settles the line height once no more boxes will be added.
func (l *lineBox) close() {
	l.lineHeight = pr.Max(l.declaredHeight, l.ascent-l.descent)
}

// position places the line's boxes left to right starting at (x, y),
// offsets from the parent's border edge. Extra line height beyond the
// content is distributed as half-leading above and below.
// http://www.w3.org/TR/CSS21/visudet.html#line-height
func (l *lineBox) position(x, y pr.Float) {
	halfLeading := (l.lineHeight - (l.ascent - l.descent)) / 2
	baseline := l.ascent + halfLeading
	cx := x
	for _, box := range l.boxes {
		f := box.Box()
		cx += f.MarginLeft
		var top pr.Float
		switch va := f.keyword("vertical-align"); va {
		case "", "baseline":
			top = baseline - f.Baseline + f.MarginTop
		case "top":
			top = f.MarginTop
		default:
			logger.WarningLogger.Printf("unsupported vertical-align %q on %s, falling back to baseline", va, f.String())
			top = baseline - f.Baseline + f.MarginTop
		}
		f.Position(cx, y+top)
		cx += f.BorderEdgeWidth + f.MarginRight
	}
}

// declaredLineHeight resolves the line-height property to a device
// length, or 0 when lines size themselves from their content.
func (b *BlockBox) declaredLineHeight() pr.Float {
	v := b.GetComputedProperty("line-height")
	if v.IsNone() || v.String == "normal" {
		return 0
	}
	return v.Value
}

// stripsLines reports whether the white-space property of the box asks
// for collapsing at line starts.
func stripsLines(whiteSpace string) bool {
	switch whiteSpace {
	case "", "normal", "nowrap", "pre-line":
		return true
	}
	return false
}

// nextFragment advances along a continuation chain.
func nextFragment(f *BoxFields) InlineLevelBox {
	if f.Continuation == nil {
		return nil
	}
	return f.Continuation
}

// flowForInlineContext flows the children as an inline formatting
// context: flow each inline-level child, walk the resulting fragment
// chains, and break them into line boxes.
// http://www.w3.org/TR/CSS21/visuren.html#inline-formatting
func (b *BlockBox) flowForInlineContext(childCB *ContainingBlock) {
	stripLines := stripsLines(b.keyword("white-space"))
	ctx := newFormattingContext(childCB.Width)
	declared := b.declaredLineHeight()

	line := newLineBox(declared)
	var lines []*lineBox
	// buffer holds boxes committed to the context but not yet to the
	// line: everything since the last break opportunity wraps as one
	// unit.
	var buffer []Box
	b.FlowedChildren = b.FlowedChildren[:0]

	flush := func() {
		for _, box := range buffer {
			line.add(box)
		}
		buffer = buffer[:0]
	}
	closeLine := func() {
		line.close()
		lines = append(lines, line)
		line = newLineBox(declared)
	}

	for _, child := range b.Children {
		il, ok := child.(InlineLevelBox)
		if !ok {
			panic(fmt.Sprintf("block-level %s in inline context of %s", child.Box().String(), b.String()))
		}
		cf := child.Box()
		cf.ContainingBlock = childCB
		if cf.FlowDirty {
			il.FlowInline(ctx)
		}
		for piece := il; piece != nil; {
			pf := piece.Box()
			if (stripLines && line.isEmpty() && len(buffer) == 0) || ctx.stripNext {
				piece.LStrip()
			}
			if pf.BorderEdgeWidth == 0 && len(pf.FlowedChildren) == 0 {
				// Fragment emptied by white-space stripping.
				piece = nextFragment(pf)
				continue
			}
			b.FlowedChildren = append(b.FlowedChildren, piece)
			ctx.stripNext = pf.StripNext

			width := pf.MarginLeft + pf.BorderEdgeWidth + pf.MarginRight
			if !ctx.CanAdd(width, false) {
				ctx.Newline()
				closeLine()
			}
			ctx.Add(width)
			buffer = append(buffer, piece)
			if pf.SoftBreak {
				flush()
				ctx.Breakpoint()
			}
			if pf.LineBreak {
				flush()
				closeLine()
				ctx.Newline()
			}
			piece = nextFragment(pf)
		}
	}
	flush()
	if !line.isEmpty() {
		line.close()
		lines = append(lines, line)
	}

	var contentHeight pr.Float
	for _, l := range lines {
		contentHeight += l.lineHeight
	}
	if !pr.Is(childCB.Height) {
		childCB.Height = contentHeight
	}

	y := b.ContentTop
	for _, l := range lines {
		l.position(b.ContentLeft, y)
		y += l.lineHeight
	}
}

// InlineBox is a non-replaced inline-level box. When its content
// overflows a line it forks into a continuation chain; each fragment
// has independent geometry but shares the element and style.
type InlineBox struct {
	BoxFields
}

func NewInlineBox(style StyleAccessor, node *content.Node) *InlineBox {
	out := InlineBox{BoxFields: newBoxFields(style, node)}
	out.self = &out
	out.InlineLevel = true
	return &out
}

// initFragment resets the accumulator fields of a fragment before
// children are committed into it.
func initFragment(f *BoxFields) {
	f.BorderEdgeWidth = f.ContentLeft
	f.FlowedChildren = f.FlowedChildren[:0]
	f.LineAscent, f.LineDescent = 0, 0
	f.ContentAscent, f.ContentDescent = 0, 0
	f.SoftBreak, f.LineBreak, f.StripNext = false, false, false
}

// finish settles a fragment's vertical metrics and aligns its committed
// children on the fragment baseline.
func finish(f *BoxFields) {
	f.BorderEdgeHeight = f.ContentTop + f.ContentBottom + f.LineAscent - f.LineDescent
	f.Baseline = f.ContentTop + f.ContentAscent
	for _, child := range f.FlowedChildren {
		cf := child.Box()
		cf.BorderEdgeTop = f.Baseline - cf.Baseline
	}
	f.FlowDirty = false
}

// commit moves a buffered run of child fragments into the current
// fragment, accumulating width and line metrics.
func commit(frame *BoxFields, buffer []Box) {
	for _, piece := range buffer {
		pf := piece.Box()
		pf.BorderEdgeLeft = frame.BorderEdgeWidth + pf.MarginLeft
		frame.BorderEdgeWidth += pf.MarginLeft + pf.BorderEdgeWidth + pf.MarginRight
		frame.LineAscent = pr.Max(frame.LineAscent, pf.LineAscent)
		frame.LineDescent = pr.Min(frame.LineDescent, pf.LineDescent)
		frame.ContentAscent = pr.Max(frame.ContentAscent, pf.ContentAscent)
		frame.ContentDescent = pr.Min(frame.ContentDescent, pf.ContentDescent)
		frame.FlowedChildren = append(frame.FlowedChildren, piece)
		frame.StripNext = pf.StripNext
		frame.SoftBreak = pf.SoftBreak
	}
}

// fork closes the current fragment and opens a continuation to receive
// further content. The trailing margin moves to the continuation; the
// closed fragment no longer draws a right border.
func (b *InlineBox) fork(frame *BoxFields) *BoxFields {
	cont := &InlineBox{BoxFields: newBoxFields(b.Style, b.Node)}
	cont.self = cont
	cont.InlineLevel = true
	cont.Parent = b.Parent
	cont.ContainingBlock = b.ContainingBlock
	cont.OpenBorder = false
	cont.MarginRight = frame.MarginRight
	cont.MarginTop, cont.MarginBottom = b.MarginTop, b.MarginBottom
	cont.ContentTop, cont.ContentBottom = b.ContentTop, b.ContentBottom

	frame.MarginRight = 0
	frame.CloseBorder = false
	frame.ContentRight = 0
	finish(frame)

	initFragment(&cont.BoxFields)
	frame.Continuation = cont
	return &cont.BoxFields
}

// FlowInline sizes the box against a copy of the ambient context,
// splitting into continuations where its content overflows lines.
func (b *InlineBox) FlowInline(ambient *FormattingContext) {
	ctx := ambient.Copy()
	b.Continuation = nil
	b.OpenBorder, b.CloseBorder = true, true
	b.resolveEdges(b.ContainingBlock.Width)
	contentRight := b.ContentRight

	frame := &b.BoxFields
	initFragment(frame)
	ctx.Reserve(b.MarginRight + contentRight)

	var buffer []Box
	ignoreReserve := true
	last := len(b.Children) - 1
	for i, child := range b.Children {
		il, ok := child.(InlineLevelBox)
		if !ok {
			panic(fmt.Sprintf("block-level %s inside inline %s", child.Box().String(), b.String()))
		}
		cf := child.Box()
		cf.ContainingBlock = b.ContainingBlock
		if cf.FlowDirty {
			il.FlowInline(ctx)
		}
		for piece := il; piece != nil; {
			pf := piece.Box()
			if i == last && pf.Continuation == nil {
				// Last logical content: the trailing edge reservation
				// now applies.
				ignoreReserve = false
			}
			width := pf.MarginLeft + pf.BorderEdgeWidth + pf.MarginRight
			if !ctx.CanAdd(width, ignoreReserve) {
				if len(frame.FlowedChildren) == 0 && len(buffer) == 0 {
					// Nothing placed yet: do not split, let the caller
					// wrap before the whole element.
					ctx.Newline()
				} else {
					// The buffer stays pending: content committed past
					// the last break opportunity moves to the new
					// fragment along with the context carry.
					frame = b.fork(frame)
					ctx.Newline()
				}
			}
			ctx.Add(width)
			buffer = append(buffer, piece)
			if pf.SoftBreak {
				commit(frame, buffer)
				buffer = buffer[:0]
				ctx.Breakpoint()
			}
			if pf.LineBreak {
				commit(frame, buffer)
				buffer = buffer[:0]
				frame.LineBreak = true
				frame = b.fork(frame)
				ctx.Newline()
			}
			piece = nextFragment(pf)
		}
	}
	if len(buffer) > 0 {
		commit(frame, buffer)
	}
	// The trailing edge belongs to the closing fragment, whichever one
	// is current when the loop ends.
	frame.ContentRight = contentRight
	frame.BorderEdgeWidth += contentRight
	finish(frame)
	b.FlowDirty = false
}
