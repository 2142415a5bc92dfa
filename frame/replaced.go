package frame

import (
	"frameflow/content"
	pr "frameflow/css/value"
)

// ReplacedBox sizes and draws the content of a replaced element. It is
// never a direct child of anything: it hangs as the continuation of an
// [InlineReplacedBox] shell, so the ordinary continuation machinery
// gives a break opportunity before the content.
type ReplacedBox struct {
	BoxFields

	Drawable Drawable

	// Intrinsic dimensions, fixed at construction. Each may be AutoF.
	IntrinsicWidth, IntrinsicHeight pr.MaybeFloat
	IntrinsicRatio                  pr.MaybeFloat

	// Device fallbacks when no intrinsic dimension applies: the CSS
	// defaults of 300px by 150px in device units.
	defaultWidth, defaultHeight pr.Float
}

// InlineReplacedBox is the box built for a replaced element: a zero
// size shell whose whole content lives in its delegate continuation.
type InlineReplacedBox struct {
	BoxFields

	delegate *ReplacedBox
}

// NewInlineReplacedBox builds the box pair for a replaced element with
// the given intrinsic dimensions (any of which may be AutoF).
func NewInlineReplacedBox(style StyleAccessor, node *content.Node, drawable Drawable,
	width, height, ratio pr.MaybeFloat, dev RenderDevice) *InlineReplacedBox {
	out := InlineReplacedBox{BoxFields: newBoxFields(style, node)}
	out.self = &out
	out.InlineLevel = true

	delegate := ReplacedBox{
		BoxFields:       newBoxFields(style, node),
		Drawable:        drawable,
		IntrinsicWidth:  width,
		IntrinsicHeight: height,
		IntrinsicRatio:  ratio,
	}
	delegate.self = &delegate
	delegate.InlineLevel = true
	delegate.defaultWidth = dev.DimensionToDeviceUnits(pr.NewDim(300, pr.Px), &delegate)
	delegate.defaultHeight = dev.DimensionToDeviceUnits(pr.NewDim(150, pr.Px), &delegate)
	out.delegate = &delegate
	return &out
}

// Delegate exposes the sizing fragment, mainly for tests.
func (b *InlineReplacedBox) Delegate() *ReplacedBox { return b.delegate }

// FlowInline resets the shell to zero size and flows the delegate as
// its continuation.
func (b *InlineReplacedBox) FlowInline(ctx *FormattingContext) {
	b.BorderEdgeWidth, b.BorderEdgeHeight = 0, 0
	b.LineAscent, b.LineDescent = 0, 0
	b.ContentAscent, b.ContentDescent = 0, 0
	b.Baseline = 0
	b.SoftBreak, b.LineBreak, b.StripNext = false, false, false

	b.delegate.Parent = b.Parent
	b.delegate.ContainingBlock = b.ContainingBlock
	b.delegate.FlowInline(ctx)
	b.Continuation = b.delegate
	b.FlowDirty = false
}

// FlowInline resolves the used dimensions of the replaced content.
// http://www.w3.org/TR/CSS21/visudet.html#inline-replaced-width
// http://www.w3.org/TR/CSS21/visudet.html#inline-replaced-height
func (b *ReplacedBox) FlowInline(*FormattingContext) {
	cb := b.ContainingBlock
	b.resolveEdges(cb.Width)

	width := b.usedLength("width", cb.Width)
	var height pr.MaybeFloat = pr.AutoF
	heightValue := b.GetComputedProperty("height")
	if heightValue.Unit == pr.Perc {
		if pr.Is(cb.Height) {
			height = pr.ResolvePercentage(heightValue, cb.Height.V())
		}
	} else {
		height = heightValue.ToMaybeFloat()
	}
	widthAuto := width == pr.AutoF
	heightAuto := height == pr.AutoF

	contentWidth := width
	if widthAuto {
		if heightAuto {
			if pr.Is(b.IntrinsicWidth) {
				contentWidth = b.IntrinsicWidth
			} else if pr.Is(b.IntrinsicHeight) && pr.Is(b.IntrinsicRatio) {
				contentWidth = b.IntrinsicHeight.V() * b.IntrinsicRatio.V()
			}
		} else if pr.Is(b.IntrinsicRatio) {
			contentWidth = height.V() * b.IntrinsicRatio.V()
		}
		if contentWidth == pr.AutoF {
			contentWidth = b.defaultWidth
		}
	}

	contentHeight := height
	if heightAuto {
		if widthAuto {
			if pr.Is(b.IntrinsicHeight) {
				contentHeight = b.IntrinsicHeight
			} else if pr.Is(b.IntrinsicWidth) && pr.Is(b.IntrinsicRatio) {
				contentHeight = b.IntrinsicWidth.V() / b.IntrinsicRatio.V()
			}
		} else if pr.Is(b.IntrinsicRatio) {
			contentHeight = contentWidth.V() / b.IntrinsicRatio.V()
		}
		if contentHeight == pr.AutoF {
			contentHeight = b.defaultHeight
		}
	}

	b.BorderEdgeWidth = b.ContentLeft + contentWidth.V() + b.ContentRight
	b.BorderEdgeHeight = b.ContentTop + contentHeight.V() + b.ContentBottom

	// Replaced content sits on the baseline: the whole margin box
	// counts as ascent. Other vertical alignments are not supported
	// for replaced content.
	b.LineAscent = b.BorderEdgeHeight + b.MarginTop + b.MarginBottom
	b.ContentAscent = b.LineAscent
	b.LineDescent, b.ContentDescent = 0, 0
	b.Baseline = b.ContentAscent
	// A break opportunity also exists after replaced content.
	b.SoftBreak = true
	b.LineBreak, b.StripNext = false, false
	b.FlowDirty = false
}

// ContentWidth returns the used width of the replaced content itself.
func (b *ReplacedBox) ContentWidth() pr.Float {
	return b.BorderEdgeWidth - b.ContentLeft - b.ContentRight
}

// ContentHeight returns the used height of the replaced content.
func (b *ReplacedBox) ContentHeight() pr.Float {
	return b.BorderEdgeHeight - b.ContentTop - b.ContentBottom
}

func (b *ReplacedBox) drawSelf(x, y pr.Float, dev RenderDevice) {
	b.BoxFields.drawSelf(x, y, dev)
	if b.Drawable != nil {
		b.Drawable.Draw(dev, x+b.ContentLeft, y-b.ContentTop, b.ContentWidth(), b.ContentHeight())
	}
}
