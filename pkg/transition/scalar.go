package transition

import (
	"math"
	"reflect"

	"golang.org/x/exp/constraints"
)

// Epsilon is the arrival tolerance for float channels.
const Epsilon = 0.0001

// Scalar moves current toward target by one tick and returns the new value.
//
// A gradient of 1 or more snaps to target. Otherwise the step is
// (target-current)*gradient, but never smaller than linearSpeed. Once the
// remaining distance is within max(linearSpeed, eps) the result is exactly
// target.
func Scalar(current, target, gradient, linearSpeed, eps float64) float64 {
	dist := target - current
	snap := math.Max(linearSpeed, eps)
	if gradient >= 1 || math.Abs(dist) <= snap {
		return target
	}
	delta := dist * gradient
	if math.Abs(delta) < linearSpeed {
		delta = math.Copysign(linearSpeed, dist)
	}
	next := current + delta
	if math.Abs(target-next) <= snap {
		return target
	}
	return next
}

// Float steps a float channel with Epsilon as the arrival tolerance.
func Float[T constraints.Float](current, target T, gradient, linearSpeed float64) (T, bool) {
	if current == target {
		return target, true
	}
	next := Scalar(float64(current), float64(target), gradient, linearSpeed, Epsilon)
	if next == float64(target) {
		return target, true
	}
	v := T(next)
	if v == current {
		// The step is below T's resolution at this magnitude.
		v = nextToward(current, target)
	}
	return v, v == target
}

// nextToward returns the closest T after from in the direction of to.
func nextToward[T constraints.Float](from, to T) T {
	if n := T(math.Nextafter(float64(from), float64(to))); n != from {
		return n
	}
	return T(math.Nextafter32(float32(from), float32(to)))
}

// FloatEqual compares two float channels within Epsilon.
func FloatEqual[T constraints.Float](a, b T) bool {
	return math.Abs(float64(a)-float64(b)) <= Epsilon
}

// floatExact bounds the integers a float64 holds without rounding.
const floatExact = 1 << 53

// Integer steps an integral channel. The math runs in float64 and the result
// is clamped to T's range before truncation. The minimum step is one unit, so
// truncation can never hold the value in place. Values beyond 2^53 are
// stepped on their exact distance instead.
func Integer[T constraints.Integer](current, target T, gradient, linearSpeed float64) (T, bool) {
	if current == target {
		return target, true
	}
	speed := math.Max(linearSpeed, 1)
	if !fitsFloat(current) || !fitsFloat(target) {
		return stepWide(current, target, gradient, speed)
	}
	next := Scalar(float64(current), float64(target), gradient, speed, 0)
	if next == float64(target) {
		return target, true
	}
	v := clampInt[T](next)
	return v, v == target
}

func fitsFloat[T constraints.Integer](v T) bool {
	f := float64(v)
	return -floatExact < f && f < floatExact
}

// stepWide applies the Scalar rules to integers too large for float64. The
// distance is an exact uint64 and only the step size goes through float64.
func stepWide[T constraints.Integer](current, target T, gradient, speed float64) (T, bool) {
	up := target > current
	var dist uint64
	if up {
		dist = uint64(target) - uint64(current)
	} else {
		dist = uint64(current) - uint64(target)
	}
	span := float64(dist)
	if gradient >= 1 || span <= speed {
		return target, true
	}
	delta := math.Max(span*gradient, speed)
	if delta >= span {
		return target, true
	}
	step := uint64(delta)
	if step >= dist || float64(dist-step) <= speed {
		return target, true
	}
	if up {
		return T(uint64(current) + step), false
	}
	return T(uint64(current) - step), false
}

// Exact compares two values with ==.
func Exact[T comparable](a, b T) bool {
	return a == b
}

// FloatStrategy returns the strategy for a float type.
func FloatStrategy[T constraints.Float]() Strategy[T] {
	return Strategy[T]{Step: Float[T], Equal: FloatEqual[T]}
}

// IntegerStrategy returns the strategy for an integer type.
func IntegerStrategy[T constraints.Integer]() Strategy[T] {
	return Strategy[T]{Step: Integer[T], Equal: Exact[T]}
}

func clampInt[T constraints.Integer](v float64) T {
	minT, maxT := intBounds[T]()
	if v <= float64(minT) {
		return minT
	}
	if v >= float64(maxT) {
		return maxT
	}
	return T(v)
}

// intBounds returns the smallest and largest values of an integer type.
func intBounds[T constraints.Integer]() (T, T) {
	bits := reflect.TypeFor[T]().Bits()
	ones := ^T(0)
	if ones < 0 {
		minT := ones << (bits - 1)
		return minT, ^minT
	}
	return 0, ones
}
