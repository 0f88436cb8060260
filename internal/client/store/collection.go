package store

import "github.com/dmitrijs2005/medscribe/internal/client/models"

// Collection is an ordered list of records keyed by ID, plus the server-side
// total. It is not synchronized; slices guard it with their own lock.
type Collection[T models.Identifiable] struct {
	items []T
	total int
}

// Replace swaps in a freshly fetched list.
func (c *Collection[T]) Replace(items []T, total int) {
	c.items = append([]T(nil), items...)
	c.total = total
}

// Prepend puts a newly created record at the head.
func (c *Collection[T]) Prepend(item T) {
	c.items = append([]T{item}, c.items...)
	c.total++
}

// Update replaces the record with the same ID in place. It reports whether
// one was found; the list is unchanged otherwise.
func (c *Collection[T]) Update(item T) bool {
	for i := range c.items {
		if c.items[i].Key() == item.Key() {
			c.items[i] = item
			return true
		}
	}
	return false
}

// Remove drops the record with the given ID.
func (c *Collection[T]) Remove(id int64) bool {
	for i := range c.items {
		if c.items[i].Key() == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			c.total--
			return true
		}
	}
	return false
}

func (c *Collection[T]) Get(id int64) (T, bool) {
	for _, it := range c.items {
		if it.Key() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Items returns a copy of the records in order.
func (c *Collection[T]) Items() []T {
	return append([]T(nil), c.items...)
}

func (c *Collection[T]) Len() int   { return len(c.items) }
func (c *Collection[T]) Total() int { return c.total }
