package images

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
	"testing"

	"frameflow/backend"
	"frameflow/content"
	pr "frameflow/css/value"
	"frameflow/frame"
	"frameflow/style"
	tu "frameflow/utils/testutils"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRasterIntrinsicSize(t *testing.T) {
	raster, err := NewRaster(encodePNG(t, 4, 2))
	if err != nil {
		t.Fatal(err)
	}
	width, height, ratio := raster.IntrinsicSize()
	tu.AssertEqual(t, width, pr.MaybeFloat(pr.Float(4)))
	tu.AssertEqual(t, height, pr.MaybeFloat(pr.Float(2)))
	tu.AssertEqual(t, ratio, pr.MaybeFloat(pr.Float(2)))
}

func TestRasterInvalidContent(t *testing.T) {
	if _, err := NewRaster([]byte("not an image")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRasterDraw(t *testing.T) {
	raster, err := NewRaster(encodePNG(t, 4, 2))
	if err != nil {
		t.Fatal(err)
	}
	rec := backend.NewRecorder()
	raster.Draw(rec, 10, 100, 40, 20)
	tu.AssertEqual(t, rec.Ops, []backend.Op{
		{Kind: "image", X1: 10, Y1: 100, X2: 50, Y2: 80},
	})
}

func imgNode(t *testing.T, attrs string) *content.Node {
	t.Helper()
	doc, err := content.Parse(strings.NewReader(fmt.Sprintf("<img %s>", attrs)))
	if err != nil {
		t.Fatal(err)
	}
	var find func(n *content.Node) *content.Node
	find = func(n *content.Node) *content.Node {
		if n.Tag() == "img" {
			return n
		}
		for _, c := range n.Children() {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	node := find(doc)
	if node == nil {
		t.Fatal("no img element parsed")
	}
	return node
}

func TestFactoryBuildsReplacedBox(t *testing.T) {
	factory := Factory{Load: func(src string) ([]byte, error) {
		tu.AssertEqual(t, src, "a.png")
		return encodePNG(t, 4, 2), nil
	}}
	node := imgNode(t, `src="a.png"`)
	rec := backend.NewRecorder()

	box := factory.CreateFrame("inline", style.Map{}, node, rec)
	if box == nil {
		t.Fatal("factory declined a valid image")
	}
	replaced := box.(*frame.InlineReplacedBox)
	replaced.Box().ContainingBlock = &frame.ContainingBlock{Width: 400, Height: pr.AutoF}
	replaced.FlowInline(nil)
	tu.AssertEqual(t, replaced.Delegate().ContentWidth(), pr.Float(4))
	tu.AssertEqual(t, replaced.Delegate().ContentHeight(), pr.Float(2))
}

func TestFactorySizeAttributes(t *testing.T) {
	factory := Factory{Load: func(string) ([]byte, error) {
		return encodePNG(t, 4, 2), nil
	}}
	node := imgNode(t, `src="a.png" width="8" height="6"`)
	rec := backend.NewRecorder()

	box := factory.CreateFrame("inline", style.Map{}, node, rec).(*frame.InlineReplacedBox)
	tu.AssertEqual(t, box.Delegate().IntrinsicWidth, pr.MaybeFloat(pr.Float(8)))
	tu.AssertEqual(t, box.Delegate().IntrinsicHeight, pr.MaybeFloat(pr.Float(6)))
}

func TestFactoryDeclines(t *testing.T) {
	factory := Factory{Load: func(string) ([]byte, error) {
		return nil, fmt.Errorf("not found")
	}}
	rec := backend.NewRecorder()
	tu.AssertEqual(t, factory.CreateFrame("inline", style.Map{}, imgNode(t, `src="a.png"`), rec), frame.Box(nil))
	tu.AssertEqual(t, factory.CreateFrame("inline", style.Map{}, imgNode(t, ``), rec), frame.Box(nil))
	// Unsupported display modes are declined as well.
	tu.AssertEqual(t, factory.CreateFrame("block", style.Map{}, imgNode(t, `src="a.png"`), rec), frame.Box(nil))
}
