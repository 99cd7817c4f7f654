// Package stats counts AiiDA nodes by their projected fields.
package stats

import (
	"github.com/vburojevic/aiidastats/internal/domain"
)

// Count groups records by value and counts occurrences. Entries are
// returned in first-seen order.
func Count(records []domain.Record) []domain.NodeCount {
	index := make(map[string]int, len(records))
	var counts []domain.NodeCount

	for _, rec := range records {
		key := rec.Key()
		if i, ok := index[key]; ok {
			counts[i].Count++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, domain.NodeCount{Record: rec, Count: 1})
	}

	if counts == nil {
		counts = []domain.NodeCount{}
	}
	return counts
}
