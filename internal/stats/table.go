// Package stats accumulates visit counts keyed by client address and OS label.
package stats

import (
	"sort"

	"github.com/therealutkarshpriyadarshi/nginxstats/pkg/types"
)

// Entry is one row of the aggregated table
type Entry struct {
	Key   types.StatKey
	Count int
}

// Table counts occurrences of each (address, OS) key. It is not safe for
// concurrent use; a run owns exactly one table.
type Table struct {
	counts map[types.StatKey]int
	total  int
}

// New creates an empty table
func New() *Table {
	return &Table{
		counts: make(map[types.StatKey]int),
	}
}

// Add increments the count for key by one
func (t *Table) Add(key types.StatKey) {
	t.counts[key]++
	t.total++
}

// Count returns the count recorded for key
func (t *Table) Count(key types.StatKey) int {
	return t.counts[key]
}

// Len returns the number of distinct keys
func (t *Table) Len() int {
	return len(t.counts)
}

// Total returns the sum of all counts
func (t *Table) Total() int {
	return t.total
}

// Entries returns every row sorted by address, then OS label
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.counts))
	for key, count := range t.counts {
		entries = append(entries, Entry{Key: key, Count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key.Less(entries[j].Key)
	})

	return entries
}
