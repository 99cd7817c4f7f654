// Package filter selects entries of a statistics report.
package filter

import (
	"github.com/vburojevic/aiidastats/internal/domain"
)

// Filter determines if a count entry should be included
type Filter interface {
	// Match returns true if the entry passes the filter
	Match(nc domain.NodeCount) bool
}

// Chain combines multiple filters (all must pass)
type Chain struct {
	filters []Filter
}

// NewChain creates a filter chain from multiple filters
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Match returns true only if all filters pass
func (c *Chain) Match(nc domain.NodeCount) bool {
	for _, f := range c.filters {
		if !f.Match(nc) {
			return false
		}
	}
	return true
}

// Add appends a filter to the chain
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Len reports how many filters the chain holds
func (c *Chain) Len() int {
	return len(c.filters)
}

// Apply returns the entries of counts that pass f, preserving order.
func Apply(counts []domain.NodeCount, f Filter) []domain.NodeCount {
	out := make([]domain.NodeCount, 0, len(counts))
	for _, nc := range counts {
		if f == nil || f.Match(nc) {
			out = append(out, nc)
		}
	}
	return out
}
