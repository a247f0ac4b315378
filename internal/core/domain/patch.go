package domain

// Patch is an explicit "update or leave untouched" value for one output
// channel. An unset patch means the previous value stands; downstream
// consumers must not recompute anything for it.
type Patch[T any] struct {
	value T
	set   bool
}

// Update returns a set patch carrying v.
func Update[T any](v T) Patch[T] {
	return Patch[T]{value: v, set: true}
}

// NoUpdate returns an unset patch.
func NoUpdate[T any]() Patch[T] {
	return Patch[T]{}
}

// IsSet reports whether the patch carries a value.
func (p Patch[T]) IsSet() bool { return p.set }

// Get returns the carried value and whether it is set.
func (p Patch[T]) Get() (T, bool) { return p.value, p.set }

// Value returns the carried value, or the zero value when unset.
func (p Patch[T]) Value() T { return p.value }
