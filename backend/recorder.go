// Package backend provides a render device which records the draw
// calls emitted by a layout pass, with deterministic fixed-advance text
// metrics. It is the reference device for tests and headless use;
// production text shaping lives in the text package.
package backend

import (
	"image"

	"frameflow/content"
	pr "frameflow/css/value"
	"frameflow/frame"
	"frameflow/logger"
)

// Op is one recorded draw call.
type Op struct {
	Kind           string // "background", "border", "text", "image"
	X1, Y1, X2, Y2 pr.Float
	Side           string // for borders
	Text           string // for text
	Tag            string // element tag of the emitting box
}

// Recorder implements [frame.RenderDevice] by appending every draw
// call to Ops. Text is measured with a fixed advance per rune.
type Recorder struct {
	Ops []Op

	// Fixed font metrics, in device units.
	CharWidth pr.Float
	Ascent    pr.Float
	Descent   pr.Float // <= 0
}

func NewRecorder() *Recorder {
	return &Recorder{CharWidth: 10, Ascent: 8, Descent: -2}
}

// Reset drops the recorded draw calls.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

func (r *Recorder) DrawBackground(x1, y1, x2, y2 pr.Float, box frame.Box) {
	r.Ops = append(r.Ops, Op{Kind: "background", X1: x1, Y1: y1, X2: x2, Y2: y2, Tag: box.Box().ElementTag()})
}

func (r *Recorder) DrawHorizontalBorder(x1, y1, x2, y2 pr.Float, side string, box frame.Box) {
	r.Ops = append(r.Ops, Op{Kind: "border", X1: x1, Y1: y1, X2: x2, Y2: y2, Side: side, Tag: box.Box().ElementTag()})
}

func (r *Recorder) DrawVerticalBorder(x1, y1, x2, y2 pr.Float, side string, box frame.Box) {
	r.Ops = append(r.Ops, Op{Kind: "border", X1: x1, Y1: y1, X2: x2, Y2: y2, Side: side, Tag: box.Box().ElementTag()})
}

func (r *Recorder) DrawText(x, baselineY pr.Float, box frame.Box, text string) {
	r.Ops = append(r.Ops, Op{Kind: "text", X1: x, Y1: baselineY, Text: text, Tag: box.Box().ElementTag()})
}

func (r *Recorder) DrawRasterImage(img image.Image, x, y, width, height pr.Float) {
	r.Ops = append(r.Ops, Op{Kind: "image", X1: x, Y1: y, X2: x + width, Y2: y - height})
}

func (r *Recorder) CreateTextFrame(style frame.StyleAccessor, node *content.Node, text string) *frame.TextBox {
	return frame.NewTextBox(style, node, text, fixedMeasurer{r})
}

// DimensionToDeviceUnits maps CSS lengths to device units at 96dpi.
func (r *Recorder) DimensionToDeviceUnits(d pr.Dimension, box frame.Box) pr.Float {
	switch d.Unit {
	case pr.Px, pr.Scalar:
		return d.Value
	case pr.Pt:
		return d.Value * 96 / 72
	case pr.Em:
		return d.Value * box.Box().GetComputedProperty("font-size").Value
	default:
		logger.WarningLogger.Printf("cannot resolve %v%s to device units", d.Value, d.Unit)
		return 0
	}
}

// fixedMeasurer gives every rune the same advance; zero width spaces
// measure zero.
type fixedMeasurer struct {
	r *Recorder
}

func (m fixedMeasurer) TextWidth(text string) pr.Float {
	var w pr.Float
	for _, c := range text {
		if c == '\u200b' {
			continue
		}
		w += m.r.CharWidth
	}
	return w
}

func (m fixedMeasurer) Metrics() (ascent, descent pr.Float) {
	return m.r.Ascent, m.r.Descent
}
