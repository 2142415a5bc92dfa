package content

import (
	"strings"
	"testing"

	tu "frameflow/utils/testutils"
)

type dirtyFlag struct{ dirty bool }

func (d *dirtyFlag) MarkFlowDirty() { d.dirty = true }

func TestParseTree(t *testing.T) {
	root, err := Parse(strings.NewReader(`<div a="1">hi<span>x</span></div>`))
	if err != nil {
		t.Fatal(err)
	}
	tu.AssertEqual(t, root.Tag(), "html")
	tu.AssertEqual(t, len(root.Children()), 2) // head, body

	body := root.Children()[1]
	tu.AssertEqual(t, body.Tag(), "body")
	div := body.Children()[0]
	tu.AssertEqual(t, div.Tag(), "div")
	tu.AssertEqual(t, div.Attr("a"), "1")
	tu.AssertEqual(t, div.Text(), "hi")
	tu.AssertEqual(t, div.Parent(), body)

	span := div.Children()[0]
	tu.AssertEqual(t, span.Tag(), "span")
	tu.AssertEqual(t, span.Text(), "x")
}

func TestAnonymousNode(t *testing.T) {
	node := NewAnonymous("some text")
	tu.AssertEqual(t, node.IsAnonymous(), true)
	tu.AssertEqual(t, node.Tag(), "")
	tu.AssertEqual(t, node.Text(), "some text")
}

func TestFrameBackReference(t *testing.T) {
	node := NewAnonymous("")
	tu.AssertEqual(t, node.Frame(), FrameRef(nil))
	ref := &dirtyFlag{}
	node.SetFrame(ref)
	node.Frame().MarkFlowDirty()
	tu.AssertEqual(t, ref.dirty, true)
}
