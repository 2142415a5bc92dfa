package style

import (
	"testing"

	"frameflow/content"
	pr "frameflow/css/value"
	"frameflow/frame"
	tu "frameflow/utils/testutils"
)

func TestInheritance(t *testing.T) {
	parent := frame.NewBlockBox(Map{
		"color":     pr.ColorToV(MustColor("#ff0000")),
		"font-size": pr.FToV(20),
		"width":     pr.FToV(100),
	}, content.NewAnonymous(""))
	child := frame.NewInlineBox(Map{}, content.NewAnonymous(""))
	child.Parent = parent

	// Inherited properties fall back to the parent.
	tu.AssertEqual(t, child.GetComputedProperty("font-size"), pr.FToV(20))
	tu.AssertEqual(t, child.GetComputedProperty("color"), pr.ColorToV(pr.Color{R: 1, A: 1, Valid: true}))
	// Non-inherited ones do not.
	tu.AssertEqual(t, child.GetComputedProperty("width"), pr.Value{})
}

func TestInitialValues(t *testing.T) {
	box := frame.NewBlockBox(Map{}, content.NewAnonymous(""))
	tu.AssertEqual(t, box.GetComputedProperty("display"), pr.SToV("inline"))
	tu.AssertEqual(t, box.GetComputedProperty("white-space"), pr.SToV("normal"))
	tu.AssertEqual(t, box.GetComputedProperty("direction"), pr.SToV("ltr"))
	tu.AssertEqual(t, box.GetComputedProperty("vertical-align"), pr.SToV("baseline"))
	tu.AssertEqual(t, box.GetComputedProperty("font-size"), pr.FToV(16))
}

func TestStyleCachePurge(t *testing.T) {
	m := Map{"width": pr.FToV(100)}
	box := frame.NewBlockBox(m, content.NewAnonymous(""))
	tu.AssertEqual(t, box.GetComputedProperty("width"), pr.FToV(100))

	// The cache keeps serving the old value until purged.
	m["width"] = pr.FToV(50)
	tu.AssertEqual(t, box.GetComputedProperty("width"), pr.FToV(100))
	box.PurgeStyleCache([]string{"width"})
	tu.AssertEqual(t, box.GetComputedProperty("width"), pr.FToV(50))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("rgb(255, 0, 0)")
	if err != nil {
		t.Fatal(err)
	}
	tu.AssertEqual(t, c, pr.Color{R: 1, A: 1, Valid: true})

	if _, err := ParseColor("not-a-color"); err == nil {
		t.Fatal("expected an error")
	}
}
