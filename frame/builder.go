package frame

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"frameflow/content"
	"frameflow/logger"
)

var (
	breakRuns = regexp.MustCompile("[ \t]*\n[ \t]*")
	spaceRuns = regexp.MustCompile(" +")
)

// NormalizeText applies the white-space processing model to one raw
// text run, for the given computed white-space value. The result is
// empty when the run contributes nothing to layout. Stripping of
// leading spaces against a preceding sibling is deferred to flow time,
// since it depends on adjacency after anonymous box insertion.
// http://www.w3.org/TR/CSS21/text.html#white-space-model
func NormalizeText(text, whiteSpace string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	switch whiteSpace {
	case "", "normal", "nowrap", "pre-line":
		text = breakRuns.ReplaceAllString(text, "\n")
	case "pre", "pre-wrap":
		if whiteSpace == "pre-wrap" {
			// Keep a break opportunity after each run of spaces.
			text = spaceRuns.ReplaceAllString(text, "$0"+string(zeroWidthSpace))
		}
		text = strings.ReplaceAll(text, " ", string(noBreakSpace))
	}
	switch whiteSpace {
	case "", "normal", "nowrap":
		text = strings.ReplaceAll(text, "\n", " ")
	}
	switch whiteSpace {
	case "", "normal", "nowrap", "pre-line":
		text = strings.ReplaceAll(text, "\t", " ")
		text = spaceRuns.ReplaceAllString(text, " ")
	}
	return text
}

// FrameBuilder turns a content tree plus resolved styles into a box
// tree, and patches it when elements change. Replaced elements are
// delegated to the factory registered for their tag.
type FrameBuilder struct {
	styles    StyleResolver
	device    RenderDevice
	factories map[string]ReplacedElementFactory
}

func NewFrameBuilder(styles StyleResolver, device RenderDevice, factories map[string]ReplacedElementFactory) *FrameBuilder {
	return &FrameBuilder{styles: styles, device: device, factories: factories}
}

// CreateFrame builds the box for one element, without its children.
// Returns nil when the element produces no box (display none,
// unsupported display, declined replaced element, or empty text).
func (fb *FrameBuilder) CreateFrame(node *content.Node, parent Box) Box {
	style := fb.styles.StyleFor(node)

	// A probe box resolves display: property lookup needs a box, since
	// inherited properties walk the ancestor chain.
	probe := NewBlockBox(style, node)
	probe.Parent = parent
	display := probe.GetComputedProperty("display").String
	if display == "" {
		display = "inline"
	}
	if display == "none" {
		node.SetFrame(nil)
		return nil
	}

	if display == "inline" && node.Text() != "" && len(node.Children()) == 0 {
		return fb.createTextBox(style, node, node.Text(), probe.keyword("white-space"), parent)
	}

	if factory, has := fb.factories[node.Tag()]; has {
		box := factory.CreateFrame(display, style, node, fb.device)
		if box == nil {
			return nil
		}
		box.Box().Parent = parent
		return box
	}

	var box Box
	switch display {
	case "inline":
		box = NewInlineBox(style, node)
	case "block":
		box = NewBlockBox(style, node)
	default:
		logger.WarningLogger.Printf("unsupported display value %q on <%s>", display, node.Tag())
		return nil
	}
	box.Box().Parent = parent
	return box
}

func (fb *FrameBuilder) createTextBox(style StyleAccessor, node *content.Node, text, whiteSpace string, parent Box) Box {
	normalized := NormalizeText(text, whiteSpace)
	if normalized == "" {
		return nil
	}
	box := fb.device.CreateTextFrame(style, node, normalized)
	if box == nil {
		return nil
	}
	box.Parent = parent
	return box
}

// BuildFrame builds the box subtree for an element: create the box,
// recurse into content children, then fold the built children in with
// anonymous box insertion where block and inline content mix.
// http://www.w3.org/TR/CSS21/visuren.html#anonymous-block-level
func (fb *FrameBuilder) BuildFrame(node *content.Node, parent Box) Box {
	box := fb.CreateFrame(node, parent)
	if box == nil {
		// Pruning is total: children of a dropped element are never
		// visited.
		return nil
	}
	node.SetFrame(box.Box())
	if _, isText := box.(*TextBox); isText {
		return box
	}

	var built []Box
	if text := node.Text(); text != "" {
		// Direct text of a non-text box becomes an anonymous leading
		// text child.
		anon := fb.createTextBox(fb.styles.AnonymousStyle(), content.NewAnonymous(text),
			text, box.Box().keyword("white-space"), box)
		if anon != nil {
			built = append(built, anon)
		}
	}
	for _, childNode := range node.Children() {
		if child := fb.BuildFrame(childNode, box); child != nil {
			built = append(built, child)
		}
	}
	for _, child := range built {
		fb.addChild(box, child)
	}
	return box
}

// isCollapsibleWhitespace reports whether a built child amounts to
// nothing in block layout: collapsible white space text, or an empty
// non-replaced inline element.
func isCollapsibleWhitespace(box Box) bool {
	switch b := box.(type) {
	case *TextBox:
		return stripsLines(b.keyword("white-space")) && strings.Trim(b.Text, " ") == ""
	case *InlineBox:
		return len(b.Children) == 0 && b.Node.Text() == ""
	}
	return false
}

func allCollapsibleWhitespace(boxes []Box) bool {
	for _, b := range boxes {
		if !isCollapsibleWhitespace(b) {
			return false
		}
	}
	return true
}

func (fb *FrameBuilder) newAnonymousBlock(parent Box) *BlockBox {
	anon := NewBlockBox(fb.styles.AnonymousStyle(), content.NewAnonymous(""))
	anon.Parent = parent
	return anon
}

// addChild appends one built child to a parent box, inserting or
// reusing anonymous block wrappers so block-level and inline-level
// children never end up siblings in the same formatting context.
func (fb *FrameBuilder) addChild(parent, child Box) {
	pf := parent.Box()
	cf := child.Box()

	if cf.InlineLevel && !pf.InlineContext {
		// Inline content inside a block context.
		if isCollapsibleWhitespace(child) {
			return
		}
		if n := len(pf.Children); n > 0 {
			if anon, ok := pf.Children[n-1].(*BlockBox); ok && anon.IsAnonymousBlock() && anon.InlineContext {
				cf.Parent = anon
				anon.Children = append(anon.Children, child)
				return
			}
		}
		anon := fb.newAnonymousBlock(parent)
		cf.Parent = anon
		anon.Children = append(anon.Children, child)
		pf.Children = append(pf.Children, anon)
		return
	}

	if !cf.InlineLevel && pf.InlineContext {
		// First block-level child: the parent switches to block
		// context, and the inline children seen so far are wrapped
		// retroactively (or dropped, if pure white space).
		pf.InlineContext = false
		if len(pf.Children) > 0 {
			if allCollapsibleWhitespace(pf.Children) {
				pf.Children = nil
			} else {
				anon := fb.newAnonymousBlock(parent)
				anon.Children = pf.Children
				for _, moved := range anon.Children {
					moved.Box().Parent = anon
				}
				pf.Children = []Box{anon}
			}
		}
	}

	cf.Parent = parent
	pf.Children = append(pf.Children, child)
}

// RebuildFrame rebuilds the box subtree of one element after a content
// or style mutation, splices it in place of the old one and dirties the
// ancestor chain so the next flow pass relayouts the affected context.
func (fb *FrameBuilder) RebuildFrame(node *content.Node) Box {
	old, _ := node.Frame().(*BoxFields)
	var parent Box
	if old != nil {
		parent = old.Parent
	}
	fresh := fb.BuildFrame(node, parent)
	logger.ProgressLogger.Printf("rebuilt frame subtree for <%s>", node.Tag())
	if old != nil && parent != nil {
		pf := parent.Box()
		for i, child := range pf.Children {
			if child.Box() == old {
				if fresh == nil {
					pf.Children = append(pf.Children[:i], pf.Children[i+1:]...)
				} else {
					pf.Children[i] = fresh
				}
				break
			}
		}
		for ancestor := parent; ancestor != nil; ancestor = ancestor.Box().Parent {
			ancestor.Box().FlowDirty = true
		}
	}
	return fresh
}
