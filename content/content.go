// Package content adapts a parsed HTML document to the element interface
// consumed by the layout engine: ordered element children, aggregated text
// content, attributes, and a settable back-reference to the layout frame
// built for each element.
package content

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// FrameRef is the part of a layout frame the content tree needs to know
// about, so that content or style mutation can invalidate the frame built
// for an element.
type FrameRef interface {
	MarkFlowDirty()
}

// Node is one element of the content tree. Nodes wrap elements of an
// [html.Node] document, or are synthetic ("anonymous") when the layout
// engine generates boxes with no backing element.
type Node struct {
	node *html.Node // nil for anonymous nodes

	parent   *Node
	children []*Node

	text  string
	attrs map[string]string

	frame FrameRef
}

// NewTree wraps an html document (or element subtree) into a content tree.
// Text child nodes are aggregated into their parent's Text; only element
// nodes produce content nodes.
func NewTree(root *html.Node) *Node {
	if root.Type == html.DocumentNode {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				return NewTree(c)
			}
		}
		return nil
	}
	out := &Node{node: root}
	out.attrs = make(map[string]string, len(root.Attr))
	for _, a := range root.Attr {
		out.attrs[a.Key] = a.Val
	}
	var text strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			child := NewTree(c)
			child.parent = out
			out.children = append(out.children, child)
		case html.TextNode:
			text.WriteString(c.Data)
		}
	}
	out.text = text.String()
	return out
}

// Parse reads an HTML document and returns the content tree rooted at its
// first element.
func Parse(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return NewTree(doc), nil
}

// NewAnonymous returns a synthetic node carrying only text, used for
// generated boxes with no backing element.
func NewAnonymous(text string) *Node {
	return &Node{text: text}
}

// IsAnonymous reports whether the node has no backing document element.
func (n *Node) IsAnonymous() bool { return n == nil || n.node == nil }

// Tag returns the element tag name, or "" for anonymous nodes.
func (n *Node) Tag() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// Children returns the ordered element children.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	return n.children
}

func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Text returns the concatenation of the node's direct text content,
// before any white-space processing.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return n.text
}

// Attr returns the value of the named attribute, or "".
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	return n.attrs[name]
}

// Frame returns the layout frame currently built for this element, if any.
func (n *Node) Frame() FrameRef {
	if n == nil {
		return nil
	}
	return n.frame
}

// SetFrame records (or clears, with nil) the layout frame built for this
// element.
func (n *Node) SetFrame(f FrameRef) {
	if n != nil {
		n.frame = f
	}
}
