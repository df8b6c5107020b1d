package graphics

import "math"

// Epsilon is the tolerance used when comparing float geometry.
const Epsilon = 0.0001

// FloatEqual reports whether two float64 values are within Epsilon.
func FloatEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// Offset represents a 2D point or vector in pixel coordinates.
type Offset struct {
	X float64
	Y float64
}

// Equal reports whether both components match within Epsilon.
func (o Offset) Equal(other Offset) bool {
	return FloatEqual(o.X, other.X) && FloatEqual(o.Y, other.Y)
}

// Size represents width and height dimensions in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Equal reports whether both dimensions match within Epsilon.
func (s Size) Equal(other Size) bool {
	return FloatEqual(s.Width, other.Width) && FloatEqual(s.Height, other.Height)
}

// Rect represents a rectangle using left, top, right, bottom coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Size returns the size of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Equal reports whether all four edges match within Epsilon.
func (r Rect) Equal(other Rect) bool {
	return FloatEqual(r.Left, other.Left) &&
		FloatEqual(r.Top, other.Top) &&
		FloatEqual(r.Right, other.Right) &&
		FloatEqual(r.Bottom, other.Bottom)
}

// Radius represents corner radii for rounded rectangles.
type Radius struct {
	X float64
	Y float64
}

// CircularRadius creates a circular radius with equal X/Y values.
func CircularRadius(value float64) Radius {
	return Radius{X: value, Y: value}
}

// Equal reports whether both radii match within Epsilon.
func (r Radius) Equal(other Radius) bool {
	return FloatEqual(r.X, other.X) && FloatEqual(r.Y, other.Y)
}

// EdgeInsets represents padding or border widths on four sides.
type EdgeInsets struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// EdgeInsetsAll returns insets with the same value on every side.
func EdgeInsetsAll(v float64) EdgeInsets {
	return EdgeInsets{Left: v, Top: v, Right: v, Bottom: v}
}

// Equal reports whether all four sides match within Epsilon.
func (e EdgeInsets) Equal(other EdgeInsets) bool {
	return FloatEqual(e.Left, other.Left) &&
		FloatEqual(e.Top, other.Top) &&
		FloatEqual(e.Right, other.Right) &&
		FloatEqual(e.Bottom, other.Bottom)
}
