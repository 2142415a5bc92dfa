// Package images provides the replaced-element side of layout for
// raster images: decoding intrinsic dimensions from encoded content and
// building the boxes for img-like elements.
package images

import (
	"bytes"
	"image"
	"strconv"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"frameflow/content"
	pr "frameflow/css/value"
	"frameflow/frame"
	"frameflow/logger"
)

// Loader fetches the encoded content of an image source reference (a
// URL or path from the src attribute).
type Loader func(src string) ([]byte, error)

// Raster is a decoded raster image implementing [frame.Drawable].
type Raster struct {
	encoded []byte
	decoded image.Image // lazy

	intrinsicWidth  pr.Float
	intrinsicHeight pr.Float
	intrinsicRatio  pr.Float
}

// NewRaster reads the intrinsic dimensions of an encoded image. The
// pixels are only decoded when the image is first drawn.
func NewRaster(encoded []byte) (*Raster, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	out := &Raster{
		encoded:         encoded,
		intrinsicWidth:  pr.Float(config.Width),
		intrinsicHeight: pr.Float(config.Height),
	}
	out.intrinsicRatio = pr.Float(pr.Inf)
	if out.intrinsicHeight != 0 {
		out.intrinsicRatio = out.intrinsicWidth / out.intrinsicHeight
	}
	return out, nil
}

func (r *Raster) IntrinsicSize() (width, height, ratio pr.MaybeFloat) {
	return r.intrinsicWidth, r.intrinsicHeight, r.intrinsicRatio
}

func (r *Raster) Draw(dev frame.RenderDevice, x, y, width, height pr.Float) {
	if r.decoded == nil {
		img, _, err := image.Decode(bytes.NewReader(r.encoded))
		if err != nil {
			logger.WarningLogger.Printf("cannot decode image content: %s", err)
			return
		}
		r.decoded = img
	}
	dev.DrawRasterImage(r.decoded, x, y, width, height)
}

// Factory builds boxes for img-like elements, loading their src through
// a Loader. It implements [frame.ReplacedElementFactory].
type Factory struct {
	Load Loader
}

// sizeAttribute reads a width or height attribute as an intrinsic size
// hint, in CSS pixels.
func sizeAttribute(node *content.Node, name string, dev frame.RenderDevice, box frame.Box) pr.MaybeFloat {
	raw := node.Attr(name)
	if raw == "" {
		return pr.AutoF
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		logger.WarningLogger.Printf("invalid %s attribute %q on <%s>", name, raw, node.Tag())
		return pr.AutoF
	}
	return dev.DimensionToDeviceUnits(pr.NewDim(pr.Float(v), pr.Px), box)
}

// CreateFrame builds the box for one replaced element, or nil to skip
// the element when its content cannot be used.
func (f Factory) CreateFrame(display string, style frame.StyleAccessor, node *content.Node, dev frame.RenderDevice) frame.Box {
	if display != "inline" {
		logger.WarningLogger.Printf("unsupported display %q for replaced <%s>", display, node.Tag())
		return nil
	}
	src := node.Attr("src")
	if src == "" {
		src = node.Attr("data") // object elements
	}
	if src == "" || f.Load == nil {
		return nil
	}
	encoded, err := f.Load(src)
	if err != nil {
		logger.WarningLogger.Printf("cannot load %q: %s", src, err)
		return nil
	}
	raster, err := NewRaster(encoded)
	if err != nil {
		logger.WarningLogger.Printf("cannot read image %q: %s", src, err)
		return nil
	}

	width, height, ratio := raster.IntrinsicSize()
	box := frame.NewInlineReplacedBox(style, node, raster, width, height, ratio, dev)
	// width/height attributes override the decoded intrinsic size.
	if w := sizeAttribute(node, "width", dev, box); w != pr.AutoF {
		box.Delegate().IntrinsicWidth = w
	}
	if h := sizeAttribute(node, "height", dev, box); h != pr.AutoF {
		box.Delegate().IntrinsicHeight = h
	}
	return box
}

// DefaultFactories registers the factory for the usual raster image
// tags.
func DefaultFactories(load Loader) map[string]frame.ReplacedElementFactory {
	f := Factory{Load: load}
	return map[string]frame.ReplacedElementFactory{
		"img":    f,
		"embed":  f,
		"object": f,
	}
}
