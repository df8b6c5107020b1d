package graphics

// Shadow is a drop shadow cast by a box. Every field animates.
//
// Spread grows the shadow outward before blurring; Blur is the blur radius.
type Shadow struct {
	Color  Color
	Offset Offset
	Blur   float64
	Spread float64
}

// Equal reports whether s and o match within Epsilon.
func (s Shadow) Equal(o Shadow) bool {
	return s.Color == o.Color &&
		s.Offset.Equal(o.Offset) &&
		FloatEqual(s.Blur, o.Blur) &&
		FloatEqual(s.Spread, o.Spread)
}

// ShadowElevation returns a Material-style elevation shadow.
// Level is clamped to 0-5; level 0 is no shadow, in color's transparent form,
// so cards can animate from flat to raised.
func ShadowElevation(level int, color Color) Shadow {
	level = min(max(level, 0), 5)
	if level == 0 {
		return Shadow{Color: color.WithAlpha(0)}
	}
	// Material Design elevation values (approximate)
	offsets := []float64{1, 2, 4, 6, 8}
	blurs := []float64{3, 6, 10, 14, 18}
	spreads := []float64{0, 0, 1, 2, 3}

	return Shadow{
		Color:  color,
		Offset: Offset{Y: offsets[level-1]},
		Blur:   blurs[level-1],
		Spread: spreads[level-1],
	}
}
