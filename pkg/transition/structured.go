package transition

import (
	"image"
	"image/color"

	"github.com/go-drift/tween/pkg/graphics"
)

// StepColor steps each ARGB channel of a packed color.
func StepColor(current, target graphics.Color, gradient, linearSpeed float64) (graphics.Color, bool) {
	cur, tgt := current.Channels(), target.Channels()
	var out [4]uint8
	done := true
	for i := range cur {
		v, ok := Integer(cur[i], tgt[i], gradient, linearSpeed)
		out[i] = v
		done = done && ok
	}
	return graphics.ColorFromChannels(out), done
}

// StepRGBA steps each channel of a standard library color.
func StepRGBA(current, target color.RGBA, gradient, linearSpeed float64) (color.RGBA, bool) {
	r, dr := Integer(current.R, target.R, gradient, linearSpeed)
	g, dg := Integer(current.G, target.G, gradient, linearSpeed)
	b, db := Integer(current.B, target.B, gradient, linearSpeed)
	a, da := Integer(current.A, target.A, gradient, linearSpeed)
	return color.RGBA{R: r, G: g, B: b, A: a}, dr && dg && db && da
}

// StepOffset steps X and Y.
func StepOffset(current, target graphics.Offset, gradient, linearSpeed float64) (graphics.Offset, bool) {
	x, dx := Float(current.X, target.X, gradient, linearSpeed)
	y, dy := Float(current.Y, target.Y, gradient, linearSpeed)
	return graphics.Offset{X: x, Y: y}, dx && dy
}

// StepSize steps Width and Height.
func StepSize(current, target graphics.Size, gradient, linearSpeed float64) (graphics.Size, bool) {
	w, dw := Float(current.Width, target.Width, gradient, linearSpeed)
	h, dh := Float(current.Height, target.Height, gradient, linearSpeed)
	return graphics.Size{Width: w, Height: h}, dw && dh
}

// StepRect steps the four edges independently.
func StepRect(current, target graphics.Rect, gradient, linearSpeed float64) (graphics.Rect, bool) {
	l, dl := Float(current.Left, target.Left, gradient, linearSpeed)
	t, dt := Float(current.Top, target.Top, gradient, linearSpeed)
	r, dr := Float(current.Right, target.Right, gradient, linearSpeed)
	b, db := Float(current.Bottom, target.Bottom, gradient, linearSpeed)
	return graphics.Rect{Left: l, Top: t, Right: r, Bottom: b}, dl && dt && dr && db
}

// StepRadius steps X and Y radii.
func StepRadius(current, target graphics.Radius, gradient, linearSpeed float64) (graphics.Radius, bool) {
	x, dx := Float(current.X, target.X, gradient, linearSpeed)
	y, dy := Float(current.Y, target.Y, gradient, linearSpeed)
	return graphics.Radius{X: x, Y: y}, dx && dy
}

// StepEdgeInsets steps the four sides independently.
func StepEdgeInsets(current, target graphics.EdgeInsets, gradient, linearSpeed float64) (graphics.EdgeInsets, bool) {
	l, dl := Float(current.Left, target.Left, gradient, linearSpeed)
	t, dt := Float(current.Top, target.Top, gradient, linearSpeed)
	r, dr := Float(current.Right, target.Right, gradient, linearSpeed)
	b, db := Float(current.Bottom, target.Bottom, gradient, linearSpeed)
	return graphics.EdgeInsets{Left: l, Top: t, Right: r, Bottom: b}, dl && dt && dr && db
}

// StepPoint steps an integer point.
func StepPoint(current, target image.Point, gradient, linearSpeed float64) (image.Point, bool) {
	x, dx := Integer(current.X, target.X, gradient, linearSpeed)
	y, dy := Integer(current.Y, target.Y, gradient, linearSpeed)
	return image.Point{X: x, Y: y}, dx && dy
}

// StepRectangle steps both corners of an integer rectangle.
func StepRectangle(current, target image.Rectangle, gradient, linearSpeed float64) (image.Rectangle, bool) {
	minP, dmin := StepPoint(current.Min, target.Min, gradient, linearSpeed)
	maxP, dmax := StepPoint(current.Max, target.Max, gradient, linearSpeed)
	return image.Rectangle{Min: minP, Max: maxP}, dmin && dmax
}

// StepShadow steps the color per channel and the geometry as floats.
func StepShadow(current, target graphics.Shadow, gradient, linearSpeed float64) (graphics.Shadow, bool) {
	c, dc := StepColor(current.Color, target.Color, gradient, linearSpeed)
	o, do := StepOffset(current.Offset, target.Offset, gradient, linearSpeed)
	b, db := Float(current.Blur, target.Blur, gradient, linearSpeed)
	s, ds := Float(current.Spread, target.Spread, gradient, linearSpeed)
	return graphics.Shadow{Color: c, Offset: o, Blur: b, Spread: s}, dc && do && db && ds
}
