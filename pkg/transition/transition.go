// Package transition holds the per-type strategies that move a value one
// tick closer to its target.
//
// Every strategy follows the same model. Each tick the value covers a fixed
// fraction (the gradient) of the remaining distance, which gives a decelerating
// ease-out. A linear speed sets the minimum step per tick, so the last small
// residual is closed in a bounded number of ticks instead of creeping forever.
// Structured values (colors, offsets, rectangles, pixel buffers) apply the
// scalar rule to each channel independently and are at the target only when
// every channel is.
//
// Strategies are looked up by the static Go type of the value:
//
//	s, ok := transition.Lookup[graphics.Color]()
//	next, done := s.Step(current, target, 0.25, 1)
//
// Widgets that animate their own value types call [Register] once, usually
// from an init function.
package transition

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Func computes the value one tick closer to target. done reports whether
// next is the target.
type Func[T any] func(current, target T, gradient, linearSpeed float64) (next T, done bool)

// Strategy bundles the step function for a type with the comparison used to
// detect arrival and outside interference.
type Strategy[T any] struct {
	// Step advances a value by one tick.
	Step Func[T]
	// Equal reports whether two values are the same for animation purposes.
	// Float families compare within Epsilon, integral families exactly.
	Equal func(a, b T) bool
	// Clone copies a value that shares memory with its source, so a cached
	// copy is not changed by later in-place writes. Nil for value types.
	Clone func(T) T
}

// Copy returns v, or a deep copy when the strategy knows how to make one.
func (s Strategy[T]) Copy(v T) T {
	if s.Clone == nil {
		return v
	}
	return s.Clone(v)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[reflect.Type]any)
)

// Register installs the strategy for T, replacing any previous one.
// Equal defaults to reflect.DeepEqual when nil.
func Register[T any](s Strategy[T]) {
	if s.Step == nil {
		panic(fmt.Sprintf("transition: Register[%v] with nil Step", reflect.TypeFor[T]()))
	}
	if s.Equal == nil {
		s.Equal = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	}
	registryMu.Lock()
	registry[reflect.TypeFor[T]()] = s
	registryMu.Unlock()
}

// Lookup returns the registered strategy for T.
func Lookup[T any]() (Strategy[T], bool) {
	registryMu.RLock()
	v, ok := registry[reflect.TypeFor[T]()]
	registryMu.RUnlock()
	if !ok {
		return Strategy[T]{}, false
	}
	return v.(Strategy[T]), true
}

// Registered returns the names of all registered value types, for diagnostics.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for t := range registry {
		names = append(names, t.String())
	}
	slices.Sort(names)
	return names
}
