package model

import "sync/atomic"

// FieldID identifies a field for the lifetime of its generator. Zero is never
// issued and marks a field that has not been assigned an identity yet.
type FieldID uint64

// IDGenerator hands out identifiers. Implementations must never repeat a value.
type IDGenerator interface {
	Next() FieldID
}

// IDFunc adapts a plain function into an IDGenerator.
type IDFunc func() FieldID

// Next implements IDGenerator.
func (fn IDFunc) Next() FieldID {
	return fn()
}

// Counter is a monotonic IDGenerator safe to share between editors.
type Counter struct {
	last atomic.Uint64
}

// NewCounter returns a counter whose first identifier is 1.
func NewCounter() *Counter {
	return &Counter{}
}

// Next implements IDGenerator.
func (c *Counter) Next() FieldID {
	return FieldID(c.last.Add(1))
}
