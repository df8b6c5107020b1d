package animation

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-drift/tween/pkg/errors"
	"github.com/go-drift/tween/pkg/transition"
)

// SlotKey identifies one animatable location: an owner and one of its
// members. Two slots with the same key share a registry entry, whatever
// their values.
type SlotKey struct {
	Owner  any
	Member string
}

// Key returns k, so a SlotKey can be passed anywhere a Keyed is expected.
func (k SlotKey) Key() SlotKey { return k }

func (k SlotKey) String() string {
	return fmt.Sprintf("%T.%s", k.Owner, k.Member)
}

// Keyed is implemented by anything that names a slot.
type Keyed interface {
	Key() SlotKey
}

// Slot is a typed, non-owning handle to a value the scheduler may animate.
//
// Get and Set are called from the scheduler's tick goroutine (or its workers
// when parallel dispatch is on). The owner is responsible for making them
// safe against its own readers; see [GuardedSlot]. Set should return
// [errors.ErrOwnerGone] once the owner has been torn down. A panic in Get or
// Set is recovered and treated as a write failure.
type Slot[T any] struct {
	// Owner is the object holding the value. It must be comparable and is
	// normally a pointer.
	Owner any
	// Member names the value on its owner, e.g. "BackColor".
	Member string
	// Get reads the current value.
	Get func() T
	// Set writes a new value.
	Set func(T) error
	// Strategy overrides the registered transition strategy for T.
	Strategy *transition.Strategy[T]
}

// NewSlot builds a slot from accessor functions.
func NewSlot[T any](owner any, member string, get func() T, set func(T) error) Slot[T] {
	return Slot[T]{Owner: owner, Member: member, Get: get, Set: set}
}

// FieldSlot builds a slot over a plain field. Reads and writes are not
// synchronized; use it only when the owner never reads the field while an
// animation is running on another goroutine.
func FieldSlot[T any](owner any, member string, field *T) Slot[T] {
	return NewSlot(owner, member,
		func() T { return *field },
		func(v T) error {
			*field = v
			return nil
		})
}

// GuardedSlot builds a slot over a field protected by lock. The owner takes
// the same lock when it reads the field.
func GuardedSlot[T any](owner any, member string, lock sync.Locker, field *T) Slot[T] {
	return NewSlot(owner, member,
		func() T {
			lock.Lock()
			defer lock.Unlock()
			return *field
		},
		func(v T) error {
			lock.Lock()
			defer lock.Unlock()
			*field = v
			return nil
		})
}

// WithStrategy returns a copy of the slot that uses s instead of the
// registered strategy.
func (s Slot[T]) WithStrategy(st transition.Strategy[T]) Slot[T] {
	s.Strategy = &st
	return s
}

// Key returns the slot identity.
func (s Slot[T]) Key() SlotKey {
	return SlotKey{Owner: s.Owner, Member: s.Member}
}

func (s Slot[T]) String() string {
	return s.Key().String()
}

func (s Slot[T]) validate() error {
	if s.Get == nil || s.Set == nil {
		return fmt.Errorf("%w: %s has no accessor", errors.ErrInvalidSlot, s)
	}
	if s.Owner == nil {
		return fmt.Errorf("%w: %s has no owner", errors.ErrInvalidSlot, s)
	}
	if !reflect.TypeOf(s.Owner).Comparable() {
		return fmt.Errorf("%w: owner %T is not comparable", errors.ErrInvalidSlot, s.Owner)
	}
	return nil
}

func (s Slot[T]) strategy() (transition.Strategy[T], error) {
	if s.Strategy != nil {
		st := *s.Strategy
		if st.Step == nil {
			return st, fmt.Errorf("%w: %s override has nil Step", errors.ErrNoStrategy, s)
		}
		if st.Equal == nil {
			st.Equal = func(a, b T) bool { return reflect.DeepEqual(a, b) }
		}
		return st, nil
	}
	st, ok := transition.Lookup[T]()
	if !ok {
		return st, fmt.Errorf("%w: %v", errors.ErrNoStrategy, reflect.TypeFor[T]())
	}
	return st, nil
}

// get calls Get, turning a panic into an error.
func (s Slot[T]) get() (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &errors.PanicError{Op: s.String() + ".Get", Value: r, StackTrace: errors.CaptureStack()}
		}
	}()
	return s.Get(), nil
}

// set calls Set, turning a panic into an error.
func (s Slot[T]) set(v T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &errors.PanicError{Op: s.String() + ".Set", Value: r, StackTrace: errors.CaptureStack()}
		}
	}()
	return s.Set(v)
}
