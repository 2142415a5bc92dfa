package frame

import (
	pr "frameflow/css/value"
)

// selfDrawer is the per-kind hook emitting the box's own draw calls.
// BoxFields provides the default (background and borders); text and
// replaced boxes override it.
type selfDrawer interface {
	drawSelf(x, y pr.Float, dev RenderDevice)
}

// drawSelf emits the background and border draw calls for the border
// edge box at canvas position (x, y), Y up. Open and close edges of
// continuation fragments skip their vertical border.
func (b *BoxFields) drawSelf(x, y pr.Float, dev RenderDevice) {
	if c := b.GetComputedProperty("background-color").Color; c.Valid && c.A > 0 {
		dev.DrawBackground(x, y, x+b.BorderEdgeWidth, y-b.BorderEdgeHeight, b.self)
	}
	if w := b.borderWidth("top"); w > 0 {
		dev.DrawHorizontalBorder(x, y, x+b.BorderEdgeWidth, y-w, "top", b.self)
	}
	if w := b.borderWidth("bottom"); w > 0 {
		dev.DrawHorizontalBorder(x, y-b.BorderEdgeHeight+w, x+b.BorderEdgeWidth, y-b.BorderEdgeHeight, "bottom", b.self)
	}
	if w := b.borderWidth("left"); w > 0 && b.OpenBorder {
		dev.DrawVerticalBorder(x, y, x+w, y-b.BorderEdgeHeight, "left", b.self)
	}
	if w := b.borderWidth("right"); w > 0 && b.CloseBorder {
		dev.DrawVerticalBorder(x+b.BorderEdgeWidth-w, y, x+b.BorderEdgeWidth, y-b.BorderEdgeHeight, "right", b.self)
	}
}

// DrawNoCull draws the box and all flowed descendants without any
// visibility test. (x, y) is the canvas position of the border-edge
// top-left corner, Y up.
func (b *BoxFields) DrawNoCull(x, y pr.Float, dev RenderDevice) {
	b.self.(selfDrawer).drawSelf(x, y, dev)
	for _, child := range b.FlowedChildren {
		cf := child.Box()
		cf.DrawNoCull(x+cf.BorderEdgeLeft, y-cf.BorderEdgeTop, dev)
	}
}

// DrawCull draws the box against a cull rectangle (canvas coordinates,
// Y up): subtrees entirely outside are skipped, subtrees entirely
// inside switch to the unculled walk.
func (b *BoxFields) DrawCull(x, y pr.Float, dev RenderDevice, left, top, right, bottom pr.Float) {
	boxRight := x + b.BorderEdgeWidth
	boxBottom := y - b.BorderEdgeHeight
	if boxRight < left || x > right || boxBottom > top || y < bottom {
		return
	}
	if x >= left && boxRight <= right && y <= top && boxBottom >= bottom {
		b.DrawNoCull(x, y, dev)
		return
	}
	b.self.(selfDrawer).drawSelf(x, y, dev)
	for _, child := range b.FlowedChildren {
		cf := child.Box()
		cf.DrawCull(x+cf.BorderEdgeLeft, y-cf.BorderEdgeTop, dev, left, top, right, bottom)
	}
}

// ResolveBoundingBox computes the bounding box of the box and all its
// flowed descendants, in canvas coordinates (Y up). (x, y) is the
// canvas position of the border-edge top-left corner. Must run after
// the tree is flowed and positioned.
func (b *BoxFields) ResolveBoundingBox(x, y pr.Float) {
	b.BoundingBox = Bounds{Left: x, Top: y, Right: x + b.BorderEdgeWidth, Bottom: y - b.BorderEdgeHeight}
	for _, child := range b.FlowedChildren {
		cf := child.Box()
		cf.ResolveBoundingBox(x+cf.BorderEdgeLeft, y-cf.BorderEdgeTop)
		b.BoundingBox.Left = pr.Min(b.BoundingBox.Left, cf.BoundingBox.Left)
		b.BoundingBox.Right = pr.Max(b.BoundingBox.Right, cf.BoundingBox.Right)
		b.BoundingBox.Top = pr.Max(b.BoundingBox.Top, cf.BoundingBox.Top)
		b.BoundingBox.Bottom = pr.Min(b.BoundingBox.Bottom, cf.BoundingBox.Bottom)
	}
}

// FramesForPoint hit-tests the canvas point (x, y) against the resolved
// bounding boxes, returning the box and all matching descendants in
// tree order.
func (b *BoxFields) FramesForPoint(x, y pr.Float) []Box {
	bb := b.BoundingBox
	if x < bb.Left || x > bb.Right || y > bb.Top || y < bb.Bottom {
		return nil
	}
	out := []Box{b.self}
	for _, child := range b.Children {
		out = append(out, child.Box().FramesForPoint(x, y)...)
	}
	return out
}
