// Package style provides a simple computed-style source for the layout
// engine: per-element property maps with CSS inheritance and initial
// values. A full cascade (selectors, specificity, shorthand expansion)
// is expected to sit upstream and fill the maps.
package style

import (
	"fmt"

	"github.com/mazznoer/csscolorparser"

	"frameflow/content"
	pr "frameflow/css/value"
	"frameflow/frame"
	"frameflow/utils"
)

// inheritedProperties lists the supported properties which inherit from
// the parent element when not set.
// http://www.w3.org/TR/CSS21/propidx.html
var inheritedProperties = utils.NewSet(
	"color",
	"direction",
	"font-family",
	"font-size",
	"font-style",
	"font-weight",
	"line-height",
	"white-space",
	"visibility",
)

// initialValues holds the initial value of the properties whose zero
// Value would not be a usable default.
var initialValues = map[string]pr.Value{
	"display":        pr.SToV("inline"),
	"direction":      pr.SToV("ltr"),
	"white-space":    pr.SToV("normal"),
	"position":       pr.SToV("static"),
	"vertical-align": pr.SToV("baseline"),
	"line-height":    pr.SToV("normal"),
	"font-family":    pr.SToV("serif"),
	"font-style":     pr.SToV("normal"),
	"font-weight":    pr.SToV("normal"),
	"font-size":      pr.FToV(16),
	"color":          pr.ColorToV(pr.Color{A: 1, Valid: true}),
}

// Map is the computed style of one element: property name to value.
// Missing entries fall back to the parent element for inherited
// properties, then to the property's initial value.
type Map map[string]pr.Value

func (m Map) GetComputedProperty(name string, box frame.Box) pr.Value {
	if v, has := m[name]; has {
		return v
	}
	if inheritedProperties.Has(name) {
		if parent := box.Box().Parent; parent != nil {
			return parent.Box().GetComputedProperty(name)
		}
	}
	return initialValues[name]
}

// Resolver maps content nodes to their computed style. It implements
// [frame.StyleResolver].
type Resolver struct {
	Styles map[*content.Node]Map
}

func NewResolver() *Resolver {
	return &Resolver{Styles: make(map[*content.Node]Map)}
}

func (r *Resolver) StyleFor(node *content.Node) frame.StyleAccessor {
	if m, has := r.Styles[node]; has {
		return m
	}
	return Map{}
}

// AnonymousStyle is the empty declaration set of generated boxes: they
// inherit what inherits and use initial values for the rest.
func (r *Resolver) AnonymousStyle() frame.StyleAccessor { return Map{} }

// ParseColor parses any CSS color notation (named, hex, rgb(),
// hsl(), ...) into a device color.
func ParseColor(s string) (pr.Color, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return pr.Color{}, fmt.Errorf("invalid color %q: %s", s, err)
	}
	return pr.Color{R: c.R, G: c.G, B: c.B, A: c.A, Valid: true}, nil
}

// MustColor is ParseColor for statically known notations.
func MustColor(s string) pr.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
