package ot

// Option represents an optional value, e.g., a sub-table which may be absent.
// An absent value is distinct from a present zero value.
type Option[T any] struct {
	value T
	ok    bool
}

// Some constructs an Option with a value.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None constructs an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// IsSome reports whether the option contains a value.
func (o Option[T]) IsSome() bool {
	return o.ok
}

// IsNone reports whether the option is empty.
func (o Option[T]) IsNone() bool {
	return !o.ok
}

// Unwrap returns the value and a boolean indicating presence.
func (o Option[T]) Unwrap() (T, bool) {
	return o.value, o.ok
}

// Or returns the contained value or a default.
func (o Option[T]) Or(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// Ptr returns a pointer to the contained value, or nil. Modifications through the
// pointer change the value held by the option.
func (o *Option[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	return &o.value
}
