package frame

import (
	"fmt"

	"frameflow/content"
	pr "frameflow/css/value"
)

// BlockBox is a block-level box. Its children are stacked vertically
// (block context) or flowed into line boxes (inline context), depending
// on the InlineContext flag settled at tree-build time.
type BlockBox struct {
	BoxFields
}

func NewBlockBox(style StyleAccessor, node *content.Node) *BlockBox {
	out := BlockBox{BoxFields: newBoxFields(style, node)}
	out.self = &out
	return &out
}

// IsAnonymousBlock reports whether the box was generated by the builder
// with no backing element.
func (b *BlockBox) IsAnonymousBlock() bool { return b.Node.IsAnonymous() }

// createContainingBlock resolves the box's horizontal box model and
// returns the containing block for its children.
// http://www.w3.org/TR/CSS21/visudet.html#blockwidth
func (b *BlockBox) createContainingBlock() *ContainingBlock {
	cb := b.ContainingBlock
	if cb == nil {
		panic(fmt.Sprintf("flow called on %s with no containing block", b.String()))
	}
	cbWidth := cb.Width

	b.resolveEdges(cbWidth)

	marginLeft := b.usedLength("margin-left", cbWidth)
	marginRight := b.usedLength("margin-right", cbWidth)
	autoLeft := marginLeft == pr.AutoF
	autoRight := marginRight == pr.AutoF
	if autoLeft {
		marginLeft = pr.Float(0)
	}
	if autoRight {
		marginRight = pr.Float(0)
	}

	nonContentWidth := marginLeft.V() + b.ContentLeft + b.ContentRight + marginRight.V()
	remainingWidth := cbWidth - nonContentWidth

	var contentWidth pr.Float
	if width := b.usedLength("width", cbWidth); width == pr.AutoF {
		// Auto width absorbs all remaining space; auto margins stay 0.
		contentWidth = remainingWidth
	} else {
		contentWidth = width.V()
		if !autoLeft && !autoRight {
			// Over-constrained: the margin on the trailing side of the
			// writing direction gives way.
			if b.keyword("direction") == "rtl" {
				autoLeft = true
			} else {
				autoRight = true
			}
		}
		// The slack adds to the tentative values, which are already
		// part of nonContentWidth.
		slack := remainingWidth - contentWidth
		switch {
		case autoLeft && autoRight:
			marginLeft = marginLeft.V() + slack/2
			marginRight = marginRight.V() + slack/2
		case autoLeft:
			marginLeft = marginLeft.V() + slack
		case autoRight:
			marginRight = marginRight.V() + slack
		}
	}
	b.MarginLeft = marginLeft.V()
	b.MarginRight = marginRight.V()

	// The border edge width is needed before children flow: their
	// containing block derives from it.
	b.BorderEdgeWidth = b.ContentLeft + contentWidth + b.ContentRight

	// http://www.w3.org/TR/CSS21/visudet.html#the-height-property
	var contentHeight pr.MaybeFloat = pr.AutoF
	heightValue := b.GetComputedProperty("height")
	if heightValue.Unit == pr.Perc {
		if pr.Is(cb.Height) {
			contentHeight = pr.ResolvePercentage(heightValue, cb.Height.V())
		}
	} else {
		contentHeight = heightValue.ToMaybeFloat()
	}

	return &ContainingBlock{Width: contentWidth, Height: contentHeight}
}

// Flow lays out the box: resolve the box model, flow the children in
// the appropriate context, then finalize the height.
func (b *BlockBox) Flow() {
	childCB := b.createContainingBlock()
	if b.InlineContext {
		b.flowForInlineContext(childCB)
	} else {
		b.flowForBlockContext(childCB)
	}
	b.BorderEdgeHeight = b.ContentTop + childCB.Height.V() + b.ContentBottom
	b.FlowDirty = false
}

// blockPositionIterator folds vertical stacking with margin collapsing
// over a run of block siblings. Adjoining vertical margins contribute
// max(previous bottom, next top), not the sum.
// http://www.w3.org/TR/CSS21/box.html#collapsing-margins
type blockPositionIterator struct {
	y              pr.Float
	marginCollapse pr.Float
}

// next advances past one child and returns the child's top offset
// within the parent's content box.
func (it *blockPositionIterator) next(child *BoxFields) pr.Float {
	it.y += pr.Max(child.MarginTop-it.marginCollapse, 0)
	top := it.y
	it.y += child.BorderEdgeHeight + child.MarginBottom
	it.marginCollapse = child.MarginBottom
	return top
}

// startCollapse is the margin the first child's top margin collapses
// with: the box's own top margin, but only when no top border or
// padding separates them.
func (b *BlockBox) startCollapse() pr.Float {
	if b.ContentTop == 0 {
		return b.MarginTop
	}
	return 0
}

// flowForBlockContext stacks the children vertically. Two passes: the
// first flows each child and accumulates the content height, the second
// re-runs the same deterministic iterator to assign positions.
func (b *BlockBox) flowForBlockContext(childCB *ContainingBlock) {
	it := blockPositionIterator{marginCollapse: b.startCollapse()}
	for _, child := range b.Children {
		cf := child.Box()
		cf.ContainingBlock = childCB
		if cf.FlowDirty {
			child.Flow()
		}
		it.next(cf)
	}
	if !pr.Is(childCB.Height) {
		childCB.Height = it.y
	}
	if b.ContentBottom == 0 {
		// The last child's bottom margin collapses out of the box.
		b.MarginBottom = pr.Max(pr.Max(b.MarginBottom, it.marginCollapse), 0)
	}

	it = blockPositionIterator{marginCollapse: b.startCollapse()}
	for _, child := range b.Children {
		cf := child.Box()
		top := it.next(cf)
		cf.Position(b.ContentLeft+cf.MarginLeft, b.ContentTop+top)
	}

	// Block context never reorders or splits children.
	b.FlowedChildren = b.Children
}
