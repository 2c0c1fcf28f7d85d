package transform

import (
	"iter"
	"slices"
)

// Chain is an ordered, mutable sequence of transforms.
//
// Entries are stored in insertion order, which is the reverse of evaluation
// order; this keeps Add O(1). The zero value is an empty chain ready to use.
// A Chain must not be shared between goroutines without synchronization.
type Chain struct {
	entries []Transform
}

// NewChain builds a chain whose evaluation order matches ts.
func NewChain(ts ...Transform) *Chain {
	c := &Chain{}
	for _, t := range slices.Backward(ts) {
		c.Add(t.Kind, t.Value)
	}
	return c
}

// Add inserts a transform at the front of the chain.
func (c *Chain) Add(kind Kind, value float64) {
	c.entries = append(c.entries, Transform{Kind: kind, Value: value})
}

// Remove deletes the first entry (front to back) whose kind matches.
// It is a no-op when no entry matches.
func (c *Chain) Remove(kind Kind) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].Kind == kind {
			c.entries = slices.Delete(c.entries, i, i+1)
			return
		}
	}
}

// Clear removes every entry.
func (c *Chain) Clear() {
	clear(c.entries)
	c.entries = c.entries[:0]
}

// Len returns the number of entries.
func (c *Chain) Len() int { return len(c.entries) }

// All yields the transforms in evaluation order (front to back).
func (c *Chain) All() iter.Seq[Transform] {
	return func(yield func(Transform) bool) {
		for _, t := range slices.Backward(c.entries) {
			if !yield(t) {
				return
			}
		}
	}
}

// Transforms returns a copy of the chain in evaluation order.
func (c *Chain) Transforms() []Transform {
	return slices.Collect(c.All())
}
