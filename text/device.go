// Package text implements the render device's text side on top of
// pango: font selection through fontconfig, text measurement, and font
// metrics for line layout. Drawing is forwarded to an optional Painter,
// so the same device serves both measurement-only and rendering use.
package text

import (
	"image"
	"strings"

	"github.com/benoitkugler/textlayout/language"
	"github.com/benoitkugler/textprocessing/pango"
	"github.com/benoitkugler/textprocessing/pango/fcfonts"

	"frameflow/content"
	pr "frameflow/css/value"
	"frameflow/frame"
)

func PangoUnitsFromFloat(v pr.Fl) int32 { return int32(v*pango.Scale + 0.5) }

func PangoUnitsToFloat(v pango.Unit) pr.Fl { return pr.Fl(v) / pango.Scale }

// Painter receives the draw calls of a layout pass. A nil Painter makes
// the device measurement-only.
type Painter interface {
	DrawBackground(x1, y1, x2, y2 pr.Float, box frame.Box)
	DrawHorizontalBorder(x1, y1, x2, y2 pr.Float, side string, box frame.Box)
	DrawVerticalBorder(x1, y1, x2, y2 pr.Float, side string, box frame.Box)
	DrawText(x, baselineY pr.Float, box frame.Box, text string)
	DrawRasterImage(img image.Image, x, y, width, height pr.Float)
}

// Device implements [frame.RenderDevice] with pango text measurement.
type Device struct {
	fontmap *fcfonts.FontMap
	painter Painter
	lang    pango.Language
}

// NewDevice builds a device from a fontconfig font map, typically
// fcfonts.NewFontMap(fontconfig.Standard, fontset). The language tag
// ("en", "fr", ...) selects language-specific font metrics; "" uses the
// pango default.
func NewDevice(fontmap *fcfonts.FontMap, painter Painter, lang string) *Device {
	out := &Device{fontmap: fontmap, painter: painter}
	if lang != "" {
		out.lang = language.NewLanguage(lang)
	} else {
		out.lang = pango.DefaultLanguage()
	}
	return out
}

func (d *Device) DrawBackground(x1, y1, x2, y2 pr.Float, box frame.Box) {
	if d.painter != nil {
		d.painter.DrawBackground(x1, y1, x2, y2, box)
	}
}

func (d *Device) DrawHorizontalBorder(x1, y1, x2, y2 pr.Float, side string, box frame.Box) {
	if d.painter != nil {
		d.painter.DrawHorizontalBorder(x1, y1, x2, y2, side, box)
	}
}

func (d *Device) DrawVerticalBorder(x1, y1, x2, y2 pr.Float, side string, box frame.Box) {
	if d.painter != nil {
		d.painter.DrawVerticalBorder(x1, y1, x2, y2, side, box)
	}
}

func (d *Device) DrawText(x, baselineY pr.Float, box frame.Box, text string) {
	if d.painter != nil {
		d.painter.DrawText(x, baselineY, box, text)
	}
}

func (d *Device) DrawRasterImage(img image.Image, x, y, width, height pr.Float) {
	if d.painter != nil {
		d.painter.DrawRasterImage(img, x, y, width, height)
	}
}

// CreateTextFrame builds a text box measured with this device's fonts.
// The measurement is lazy: the font description resolves when the box
// is first measured, once it is linked under its parent.
func (d *Device) CreateTextFrame(style frame.StyleAccessor, node *content.Node, text string) *frame.TextBox {
	measurer := &pangoMeasurer{dev: d}
	box := frame.NewTextBox(style, node, text, measurer)
	measurer.box = box
	return box
}

// DimensionToDeviceUnits resolves CSS lengths at 96dpi, with em against
// the computed font size of the box.
func (d *Device) DimensionToDeviceUnits(dim pr.Dimension, box frame.Box) pr.Float {
	switch dim.Unit {
	case pr.Px, pr.Scalar:
		return dim.Value
	case pr.Pt:
		return dim.Value * 96 / 72
	case pr.Em:
		return dim.Value * box.Box().GetComputedProperty("font-size").Value
	default:
		return 0
	}
}

// fontDescription builds the pango font description from the computed
// font properties of a box.
func fontDescription(box frame.Box) pango.FontDescription {
	f := box.Box()
	desc := pango.NewFontDescription()
	desc.SetFamily(f.GetComputedProperty("font-family").String)

	// Same numbering as the pango enum: normal, oblique, italic.
	var style uint8
	switch strings.ToLower(f.GetComputedProperty("font-style").String) {
	case "oblique":
		style = 1
	case "italic":
		style = 2
	}
	desc.SetStyle(pango.Style(style))

	weight := f.GetComputedProperty("font-weight")
	switch {
	case weight.String == "bold":
		desc.SetWeight(pango.Weight(700))
	case weight.Value != 0:
		desc.SetWeight(pango.Weight(weight.Value))
	default:
		desc.SetWeight(pango.Weight(400))
	}

	desc.SetAbsoluteSize(PangoUnitsFromFloat(pr.Fl(f.GetComputedProperty("font-size").Value)))
	return desc
}

// pangoMeasurer measures one text box. The pango context and layout are
// built on first use and cached for the box's lifetime.
type pangoMeasurer struct {
	dev *Device
	box *frame.TextBox

	layout  *pango.Layout
	ascent  pr.Float
	descent pr.Float
}

func (m *pangoMeasurer) ensureLayout() {
	if m.layout != nil {
		return
	}
	pc := pango.NewContext(m.dev.fontmap)
	pc.SetRoundGlyphPositions(false)
	pc.SetLanguage(m.dev.lang)
	desc := fontDescription(m.box)
	m.layout = pango.NewLayout(pc)
	m.layout.SetFontDescription(&desc)

	metrics := pc.GetMetrics(&desc, m.dev.lang)
	m.ascent = pr.Float(PangoUnitsToFloat(metrics.Ascent))
	m.descent = -pr.Float(PangoUnitsToFloat(metrics.Descent))
}

func (m *pangoMeasurer) TextWidth(text string) pr.Float {
	if text == "" {
		return 0
	}
	m.ensureLayout()
	m.layout.SetText(text)
	line := m.layout.GetLine(0)
	var logicalExtents pango.Rectangle
	line.GetExtents(nil, &logicalExtents)
	return pr.Float(PangoUnitsToFloat(logicalExtents.Width))
}

func (m *pangoMeasurer) Metrics() (ascent, descent pr.Float) {
	m.ensureLayout()
	return m.ascent, m.descent
}
