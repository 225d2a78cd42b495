package diff

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/qepting91/collage-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var collageFields = []string{"updated", "num_torrents"}

func collage(id, updated string, n int) *domain.Collage {
	return &domain.Collage{
		ID:          id,
		Name:        "collage " + id,
		URL:         "collages.php?id=" + id,
		Updated:     updated,
		NumTorrents: n,
	}
}

func keys[T Record](records []T) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Key())
	}
	return out
}

func TestComputeScenario(t *testing.T) {
	old := []*domain.Collage{collage("1", "jan 1", 5)}
	cur := []*domain.Collage{collage("1", "jan 2", 5), collage("2", "jan 2", 3)}

	res := Compute(old, cur, collageFields)

	assert.Equal(t, []string{"2"}, keys(res.Added))
	assert.Empty(t, res.Removed)
	require.Len(t, res.Modified, 1)
	assert.Same(t, old[0], res.Modified[0].Old)
	assert.Same(t, cur[0], res.Modified[0].New)
	assert.Equal(t, "jan 1", res.Modified[0].Old.Updated)
	assert.Equal(t, "jan 2", res.Modified[0].New.Updated)
}

func TestComputeAddedOnly(t *testing.T) {
	a := []*domain.Collage{collage("1", "x", 1), collage("2", "x", 2)}
	b := []*domain.Collage{collage("3", "x", 3), collage("4", "x", 4)}

	res := Compute(a, append(append([]*domain.Collage{}, a...), b...), nil)

	diff := cmp.Diff([]string{"3", "4"}, keys(res.Added), cmpopts.SortSlices(func(x, y string) bool { return x < y }))
	assert.Empty(t, diff)
	assert.Empty(t, res.Removed)
	assert.Empty(t, res.Modified)
}

func TestComputeIdentical(t *testing.T) {
	set := []*domain.Collage{collage("1", "a", 1), collage("2", "b", 2), collage("3", "c", 3)}

	for _, fields := range [][]string{nil, collageFields, {"name", "url", "category"}} {
		res := Compute(set, set, fields)
		assert.True(t, res.Empty(), "fields %v", fields)
	}
}

func TestComputeRemoved(t *testing.T) {
	old := []*domain.Collage{collage("1", "a", 1), collage("2", "b", 2)}
	cur := []*domain.Collage{collage("2", "b", 2)}

	res := Compute(old, cur, collageFields)

	assert.Equal(t, []string{"1"}, keys(res.Removed))
	assert.Empty(t, res.Added)
	assert.Empty(t, res.Modified)
}

func TestComputeDirtyFieldPolicy(t *testing.T) {
	tcs := []struct {
		name     string
		mutate   func(c *domain.Collage)
		modified bool
	}{
		{"updated", func(c *domain.Collage) { c.Updated = "later" }, true},
		{"count", func(c *domain.Collage) { c.NumTorrents++ }, true},
		{"name", func(c *domain.Collage) { c.Name = "renamed" }, false},
		{"subscribers", func(c *domain.Collage) { c.Subscribers = 99 }, false},
		{"torrents", func(c *domain.Collage) {
			c.Torrents = []domain.Torrent{{ID: "t1", Name: "new item"}}
		}, false},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			before := collage("1", "jan 1", 5)
			after := collage("1", "jan 1", 5)
			tc.mutate(after)

			res := Compute([]*domain.Collage{before}, []*domain.Collage{after}, collageFields)
			assert.Equal(t, tc.modified, len(res.Modified) == 1)
			assert.Empty(t, res.Added)
			assert.Empty(t, res.Removed)
		})
	}
}

func TestComputeEmitsOnePerRecord(t *testing.T) {
	old := []*domain.Collage{collage("1", "jan 1", 5)}
	cur := []*domain.Collage{collage("1", "jan 2", 6)}

	res := Compute(old, cur, collageFields)
	assert.Len(t, res.Modified, 1)
}

func TestComputeDuplicateKeysLastWins(t *testing.T) {
	old := []*domain.Collage{collage("1", "a", 1)}
	cur := []*domain.Collage{collage("1", "b", 1), collage("1", "a", 1)}

	res := Compute(old, cur, collageFields)
	assert.True(t, res.Empty())
}

func TestComputeExtraFields(t *testing.T) {
	before := collage("1", "a", 1)
	before.Extra = map[string]json.RawMessage{"owner": json.RawMessage(`"bob"`)}
	same := collage("1", "a", 1)
	same.Extra = map[string]json.RawMessage{"owner": json.RawMessage(`"bob"`)}
	other := collage("1", "a", 1)
	other.Extra = map[string]json.RawMessage{"owner": json.RawMessage(`"alice"`)}
	missing := collage("1", "a", 1)

	fields := []string{"owner"}
	assert.True(t, Compute([]*domain.Collage{before}, []*domain.Collage{same}, fields).Empty())
	assert.Len(t, Compute([]*domain.Collage{before}, []*domain.Collage{other}, fields).Modified, 1)
	assert.Len(t, Compute([]*domain.Collage{before}, []*domain.Collage{missing}, fields).Modified, 1)
	assert.True(t, Compute([]*domain.Collage{missing}, []*domain.Collage{collage("1", "a", 1)}, fields).Empty())
}

func TestComputeTorrents(t *testing.T) {
	item := func(id, name string, year int, artists ...string) domain.Torrent {
		tr := domain.Torrent{ID: id, Name: name, Year: year}
		for _, a := range artists {
			tr.MusicInfo.Artists = append(tr.MusicInfo.Artists, domain.Artist{Name: a})
		}
		return tr
	}
	old := []domain.Torrent{
		item("1", "First", 2001, "A"),
		item("2", "Second", 2002, "B"),
		item("3", "Third", 2003),
	}
	cur := []domain.Torrent{
		item("1", "First", 2001, "A"),
		item("2", "Second", 2002, "B", "C"),
		item("3", "Third", 2003, []string{}...),
		item("4", "Fourth", 2004),
	}

	res := Compute(old, cur, []string{"name", "year", "artists"})

	assert.Equal(t, []string{"4"}, keys(res.Added))
	assert.Empty(t, res.Removed)
	require.Len(t, res.Modified, 1)
	assert.Equal(t, "2", res.Modified[0].New.ID)
}

func TestComputeNeverNil(t *testing.T) {
	res := Compute[*domain.Collage](nil, nil, nil)
	assert.NotNil(t, res.Added)
	assert.NotNil(t, res.Removed)
	assert.NotNil(t, res.Modified)
}

func BenchmarkCompute(b *testing.B) {
	var old, cur []*domain.Collage
	for i := 0; i < 5000; i++ {
		id := fmt.Sprint(i)
		old = append(old, collage(id, "a", i))
		cur = append(cur, collage(id, "a", i+i%2))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Compute(old, cur, collageFields)
	}
}
