package tags

import "fmt"

// Field is an optional tag value.
type Field[T any] struct {
	value T
	ok    bool
}

// Some returns a present field holding value.
func Some[T any](value T) Field[T] {
	return Field[T]{value: value, ok: true}
}

// None returns an absent field.
func None[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether it is present.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.ok
}

// Present reports whether the field holds a value.
func (f Field[T]) Present() bool {
	return f.ok
}

// OrElse returns the value, or fallback when absent.
func (f Field[T]) OrElse(fallback T) T {
	if !f.ok {
		return fallback
	}
	return f.value
}

func (f Field[T]) String() string {
	if !f.ok {
		return "<none>"
	}
	return fmt.Sprint(f.value)
}
