package store

import "gorm.io/gorm"

// Cond is one exact-match metadata predicate.
type Cond struct {
	Column string
	Value  any
}

// Filter is a conjunction of exact-match predicates. An empty filter leaves
// the query unconstrained. Columns are always drawn from the fixed set the
// search facade enumerates, never from user input.
type Filter []Cond

func (f Filter) apply(q *gorm.DB) *gorm.DB {
	for _, c := range f {
		q = q.Where(c.Column+" = ?", c.Value)
	}

	return q
}
