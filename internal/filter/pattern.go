package filter

import (
	"regexp"
	"strings"

	"github.com/vburojevic/aiidastats/internal/domain"
)

// RegexFilter keeps entries where any non-null field matches a pattern
type RegexFilter struct {
	pattern *regexp.Regexp
}

// NewRegexFilter creates a regex filter from a pattern string
func NewRegexFilter(pattern string) (*RegexFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexFilter{pattern: re}, nil
}

// Match returns true if a field of the record matches the pattern
func (f *RegexFilter) Match(nc domain.NodeCount) bool {
	if f.pattern == nil {
		return true
	}
	for _, v := range nc.Record {
		if v != nil && f.pattern.MatchString(*v) {
			return true
		}
	}
	return false
}

// ExcludeTypeFilter drops entries by their first field, the node type. A
// trailing * matches by prefix.
type ExcludeTypeFilter struct {
	types []string
}

// NewExcludeTypeFilter creates an exclusion filter for node types
func NewExcludeTypeFilter(types []string) *ExcludeTypeFilter {
	return &ExcludeTypeFilter{types: types}
}

// Match returns true if the entry's node type is NOT excluded
func (f *ExcludeTypeFilter) Match(nc domain.NodeCount) bool {
	if len(f.types) == 0 || len(nc.Record) == 0 || nc.Record[0] == nil {
		return true
	}
	nodeType := *nc.Record[0]
	for _, t := range f.types {
		if prefix, ok := strings.CutSuffix(t, "*"); ok {
			if strings.HasPrefix(nodeType, prefix) {
				return false
			}
		} else if nodeType == t {
			return false
		}
	}
	return true
}

// MinCountFilter keeps entries counted at least min times
type MinCountFilter struct {
	min int
}

// NewMinCountFilter creates a count threshold filter
func NewMinCountFilter(min int) *MinCountFilter {
	return &MinCountFilter{min: min}
}

func (f *MinCountFilter) Match(nc domain.NodeCount) bool {
	return nc.Count >= f.min
}
