package stats

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/therealutkarshpriyadarshi/nginxstats/pkg/types"
)

func TestTable_Add(t *testing.T) {
	table := New()
	key := types.StatKey{Address: "188.41.16.190", OS: "Windows"}

	table.Add(key)
	table.Add(key)
	table.Add(types.StatKey{Address: "188.41.16.190", OS: "Linux"})

	if got := table.Count(key); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
	if got := table.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if got := table.Total(); got != 3 {
		t.Errorf("Total() = %d, want 3", got)
	}
	if got := table.Count(types.StatKey{Address: "0.0.0.0", OS: "Other"}); got != 0 {
		t.Errorf("Count() of unseen key = %d, want 0", got)
	}
}

func TestTable_EntriesSorted(t *testing.T) {
	table := New()
	for _, key := range []types.StatKey{
		{Address: "9.9.9.9", OS: "Windows"},
		{Address: "10.0.0.1", OS: "Other"},
		{Address: "10.0.0.1", OS: "Linux"},
		{Address: "9.9.9.9", OS: "Windows"},
		{Address: "10.0.0.1", OS: "Macintosh"},
		{Address: "1.2.3.4", OS: "Windows"},
	} {
		table.Add(key)
	}

	want := []Entry{
		{Key: types.StatKey{Address: "1.2.3.4", OS: "Windows"}, Count: 1},
		{Key: types.StatKey{Address: "10.0.0.1", OS: "Linux"}, Count: 1},
		{Key: types.StatKey{Address: "10.0.0.1", OS: "Macintosh"}, Count: 1},
		{Key: types.StatKey{Address: "10.0.0.1", OS: "Other"}, Count: 1},
		{Key: types.StatKey{Address: "9.9.9.9", OS: "Windows"}, Count: 2},
	}

	got := table.Entries()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	for i := 1; i < len(got); i++ {
		if got[i].Key.Less(got[i-1].Key) {
			t.Errorf("entry %d (%v) sorts before entry %d (%v)", i, got[i].Key, i-1, got[i-1].Key)
		}
	}
}

func TestTable_Empty(t *testing.T) {
	table := New()
	if got := table.Entries(); len(got) != 0 {
		t.Errorf("Entries() on empty table = %v, want none", got)
	}
	if table.Total() != 0 {
		t.Errorf("Total() = %d, want 0", table.Total())
	}
}
