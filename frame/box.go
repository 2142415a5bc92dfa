// Package frame implements a CSS box layout engine for a subset of the
// CSS 2.1 visual formatting model: block flow with margin collapsing,
// inline formatting contexts with line breaking and box splitting,
// replaced elements, and incremental reflow driven by dirty flags.
//
// The package consumes three external collaborators, described by the
// interfaces below: a style system resolving computed property values,
// a content tree of elements, and a render device which measures text
// and receives draw calls.
package frame

import (
	"fmt"
	"image"

	"frameflow/content"
	pr "frameflow/css/value"
)

// StyleAccessor resolves the computed value of a CSS property for a box.
// Inherited properties may be resolved by walking the box's ancestors.
// The engine caches lookups per box; see [BoxFields.PurgeStyleCache].
type StyleAccessor interface {
	GetComputedProperty(name string, box Box) pr.Value
}

// StyleResolver provides the computed style for elements of a content
// tree, and the empty declaration set used by generated (anonymous)
// boxes.
type StyleResolver interface {
	StyleFor(node *content.Node) StyleAccessor
	AnonymousStyle() StyleAccessor
}

// RenderDevice is the sink for draw calls and the authority on text
// metrics and unit conversion. Draw coordinates are in canvas space,
// with the Y axis pointing up: (x1, y1) is the top-left corner of a
// rectangle and y2 <= y1.
type RenderDevice interface {
	DrawBackground(x1, y1, x2, y2 pr.Float, box Box)
	DrawHorizontalBorder(x1, y1, x2, y2 pr.Float, side string, box Box)
	DrawVerticalBorder(x1, y1, x2, y2 pr.Float, side string, box Box)
	DrawText(x, baselineY pr.Float, box Box, text string)
	DrawRasterImage(img image.Image, x, y, width, height pr.Float)

	// CreateTextFrame builds a text box for one run of normalized text,
	// backed by the device's font measurement. A nil return drops the
	// text from layout.
	CreateTextFrame(style StyleAccessor, node *content.Node, text string) *TextBox

	// DimensionToDeviceUnits resolves a CSS length (px, pt, em, ...)
	// to device units. Font relative units are resolved against the
	// computed font size of the given box.
	DimensionToDeviceUnits(d pr.Dimension, box Box) pr.Float
}

// Drawable is the content of a replaced element: it knows its intrinsic
// dimensions and how to paint itself into a resolved rectangle.
type Drawable interface {
	// IntrinsicSize returns the natural width, height (device units)
	// and width/height ratio of the content. Each may be AutoF when
	// unknown.
	IntrinsicSize() (width, height, ratio pr.MaybeFloat)
	Draw(dev RenderDevice, x, y, width, height pr.Float)
}

// ReplacedElementFactory builds the box for one kind of replaced
// element (keyed by tag name in the builder's registry). A nil return
// declines the element, which is then skipped entirely.
type ReplacedElementFactory interface {
	CreateFrame(display string, style StyleAccessor, node *content.Node, dev RenderDevice) Box
}

// TextMeasurer is the per-text-box handle into the render device's font
// machinery. Measurement is lazy: it must only be called once the box
// is linked into a tree, so that inherited font properties resolve.
type TextMeasurer interface {
	TextWidth(text string) pr.Float
	// Metrics returns the font ascent and descent, with descent <= 0.
	Metrics() (ascent, descent pr.Float)
}

// ContainingBlock is the rectangle a box's children are laid out
// against. Height is AutoF until the content height is known.
type ContainingBlock struct {
	Width  pr.Float
	Height pr.MaybeFloat
}

// Bounds is an axis-aligned rectangle in canvas coordinates (Y up).
type Bounds struct {
	Left, Top, Right, Bottom pr.Float
}

// Box is one node of the layout tree.
type Box interface {
	// Box returns the fields shared by all box kinds.
	Box() *BoxFields

	// Flow lays out the box and its descendants. The caller must have
	// set ContainingBlock beforehand. On return the geometry fields
	// are consistent and FlowDirty is false.
	Flow()
}

// InlineLevelBox is a box which participates in an inline formatting
// context. Inline-level boxes cannot flow themselves: an ancestor block
// drives them through FlowInline.
type InlineLevelBox interface {
	Box

	// FlowInline sizes the box against the given formatting context
	// state, possibly splitting it into a continuation chain.
	FlowInline(ctx *FormattingContext)

	// LStrip removes leading collapsible white space, at the start of
	// a line.
	LStrip()
}

// BoxFields holds the state common to all box kinds.
type BoxFields struct {
	// self points back to the concrete box, for dispatch from shared
	// methods.
	self Box

	Node  *content.Node
	Style StyleAccessor

	Parent Box
	// Children is the source structure, as built from the content
	// tree. FlowedChildren is the rendering order produced by the last
	// flow pass; in inline context it may contain continuation
	// fragments absent from Children.
	Children       []Box
	FlowedChildren []Box

	// ContainingBlock must be set by the flow context owner before the
	// box is flowed.
	ContainingBlock *ContainingBlock

	styleCache map[string]pr.Value

	// Box geometry, in device units, written by the flow and position
	// passes. BorderEdgeLeft/Top are offsets of the border-edge box
	// from the parent's border-edge top-left corner, x growing right
	// and y growing down. The Content* fields are the border+padding
	// thickness on each side.
	MarginTop, MarginRight, MarginBottom, MarginLeft     pr.Float
	ContentTop, ContentRight, ContentBottom, ContentLeft pr.Float
	BorderEdgeLeft, BorderEdgeTop                        pr.Float
	BorderEdgeWidth, BorderEdgeHeight                    pr.Float

	// BoundingBox is the box rectangle united with all flowed
	// descendants, in canvas coordinates (Y up). Set by
	// ResolveBoundingBox.
	BoundingBox Bounds

	// OpenBorder and CloseBorder are false on the open (resp. close)
	// edge of a continuation fragment, so a split box does not draw
	// its left or right border twice.
	OpenBorder, CloseBorder bool

	FlowDirty bool
	// InlineLevel is a kind-level trait: whether the box takes part in
	// line layout rather than block stacking.
	InlineLevel bool
	// InlineContext reports whether the box's own children flow as an
	// inline formatting context. It starts true and the builder flips
	// it when a block-level child appears.
	InlineContext bool

	// Line metrics, meaningful on inline-level boxes after FlowInline.
	// Descents are signed, negative going down. Baseline is the
	// distance from the border-edge top to the alignment baseline.
	LineAscent, LineDescent       pr.Float
	ContentAscent, ContentDescent pr.Float
	Baseline                      pr.Float

	// SoftBreak marks a break opportunity after the box; LineBreak a
	// forced break. StripNext asks the next box on the line to strip
	// its leading white space.
	SoftBreak, LineBreak, StripNext bool

	// Continuation is the next fragment of a box split across line
	// breaks. Rebuilt from scratch on every flow pass.
	Continuation InlineLevelBox
}

func newBoxFields(style StyleAccessor, node *content.Node) BoxFields {
	return BoxFields{
		Style:         style,
		Node:          node,
		FlowDirty:     true,
		OpenBorder:    true,
		CloseBorder:   true,
		InlineContext: true,
	}
}

func (b *BoxFields) Box() *BoxFields { return b }

// Flow panics: only concrete block-level boxes establish flow.
func (b *BoxFields) Flow() {
	panic(fmt.Sprintf("flow is not implemented for %T", b.self))
}

// LStrip is a no-op for boxes without leading text.
func (b *BoxFields) LStrip() {}

// GetComputedProperty returns the computed value of a property for this
// box, memoized until PurgeStyleCache removes the entry.
func (b *BoxFields) GetComputedProperty(name string) pr.Value {
	if v, has := b.styleCache[name]; has {
		return v
	}
	v := b.Style.GetComputedProperty(name, b.self)
	if b.styleCache == nil {
		b.styleCache = make(map[string]pr.Value)
	}
	b.styleCache[name] = v
	return v
}

// PurgeStyleCache removes the named properties from the cache of this
// box and, recursively, of its source children.
func (b *BoxFields) PurgeStyleCache(names []string) {
	for _, name := range names {
		delete(b.styleCache, name)
	}
	for _, child := range b.Children {
		child.Box().PurgeStyleCache(names)
	}
}

// MarkFlowDirty invalidates the layout of this box and all its source
// descendants. Idempotent.
func (b *BoxFields) MarkFlowDirty() {
	b.FlowDirty = true
	for _, child := range b.Children {
		child.Box().MarkFlowDirty()
	}
}

// FlowMaster returns the box whose Flow call lays this box out. Inline
// level boxes are flowed by an ancestor block context.
func (b *BoxFields) FlowMaster() Box {
	if !b.InlineLevel || b.Parent == nil {
		return b.self
	}
	return b.Parent.Box().FlowMaster()
}

// Position sets the box offsets from the parent's border edge, applying
// relative positioning offsets on top.
// http://www.w3.org/TR/CSS21/visuren.html#relative-positioning
func (b *BoxFields) Position(x, y pr.Float) {
	b.BorderEdgeLeft, b.BorderEdgeTop = x, y
	if b.keyword("position") == "relative" {
		cb := b.ContainingBlock
		if left := pr.ResolvePercentage(b.GetComputedProperty("left"), cb.Width); left != pr.AutoF {
			b.BorderEdgeLeft += left.V()
		}
		var refHeight pr.Float
		if pr.Is(cb.Height) {
			refHeight = cb.Height.V()
		}
		if top := pr.ResolvePercentage(b.GetComputedProperty("top"), refHeight); top != pr.AutoF {
			b.BorderEdgeTop += top.V()
		}
	}
}

// keyword returns the computed keyword value of a property.
func (b *BoxFields) keyword(name string) string {
	return b.GetComputedProperty(name).String
}

// usedLength resolves a length or percentage property against referTo.
func (b *BoxFields) usedLength(name string, referTo pr.Float) pr.MaybeFloat {
	return pr.ResolvePercentage(b.GetComputedProperty(name), referTo)
}

// usedOrZero is usedLength with "auto" and unset mapped to 0, for
// properties where auto is not a meaningful used value (paddings).
func (b *BoxFields) usedOrZero(name string, referTo pr.Float) pr.Float {
	if v, ok := b.usedLength(name, referTo).(pr.Float); ok {
		return v
	}
	return 0
}

// borderWidth returns the computed border width for one side, in device
// units. Border widths are never percentages.
func (b *BoxFields) borderWidth(side string) pr.Float {
	return b.GetComputedProperty("border-" + side + "-width").Value
}

// resolveEdges computes the margin and content-edge (border+padding)
// thicknesses from the computed style. Auto margins resolve to 0;
// block-level width resolution overrides them afterwards.
// http://www.w3.org/TR/CSS21/box.html#margin-properties
func (b *BoxFields) resolveEdges(cbWidth pr.Float) {
	b.ContentLeft = b.borderWidth("left") + b.usedOrZero("padding-left", cbWidth)
	b.ContentRight = b.borderWidth("right") + b.usedOrZero("padding-right", cbWidth)
	b.ContentTop = b.borderWidth("top") + b.usedOrZero("padding-top", cbWidth)
	b.ContentBottom = b.borderWidth("bottom") + b.usedOrZero("padding-bottom", cbWidth)
	b.MarginLeft = b.usedOrZero("margin-left", cbWidth)
	b.MarginRight = b.usedOrZero("margin-right", cbWidth)
	b.MarginTop = b.usedOrZero("margin-top", cbWidth)
	b.MarginBottom = b.usedOrZero("margin-bottom", cbWidth)
}

// ElementTag returns the tag of the backing element, or "" for
// anonymous boxes.
func (b *BoxFields) ElementTag() string { return b.Node.Tag() }

func (b *BoxFields) String() string {
	return fmt.Sprintf("<%T %s>", b.self, b.Node.Tag())
}
