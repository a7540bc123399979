package grouping_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/fuel-logbook/internal/grouping"
)

func firstLetter(s string) string { return s[:1] }

func TestBy_PreservesFirstAppearanceOrder(t *testing.T) {
	in := []string{"banana", "apple", "blueberry", "cherry", "avocado"}

	groups := grouping.By(in, firstLetter)

	require.Len(t, groups, 3)
	assert.Equal(t, "b", groups[0].Key, "groups must not be sorted")
	assert.Equal(t, "a", groups[1].Key)
	assert.Equal(t, "c", groups[2].Key)
	assert.Equal(t, []string{"banana", "blueberry"}, groups[0].Items)
	assert.Equal(t, []string{"apple", "avocado"}, groups[1].Items)
	assert.Equal(t, []string{"cherry"}, groups[2].Items)
}

func TestBy_PartitionsExactly(t *testing.T) {
	in := strings.Fields("x1 y1 x2 z1 y2 x3 z2 z3 y3 x4")

	groups := grouping.By(in, firstLetter)

	var total int
	seen := map[string]int{}
	for _, g := range groups {
		for _, it := range g.Items {
			assert.Equal(t, g.Key, firstLetter(it), "item %q in wrong group", it)
			seen[it]++
		}
		total += len(g.Items)
	}
	assert.Equal(t, len(in), total)
	for _, it := range in {
		assert.Equal(t, 1, seen[it], "item %q must appear exactly once", it)
	}
}

func TestBy_StructKey(t *testing.T) {
	type key struct{ day, who string }
	type rec struct {
		day, who string
		n        int
	}
	in := []rec{
		{"2026-02-01", "Lin", 1},
		{"2026-02-01", "Wang", 2},
		{"2026-02-01", "Lin", 3},
		{"2026-02-02", "Lin", 4},
	}

	groups := grouping.By(in, func(r rec) key { return key{r.day, r.who} })

	require.Len(t, groups, 3)
	assert.Equal(t, key{"2026-02-01", "Lin"}, groups[0].Key)
	require.Len(t, groups[0].Items, 2)
	assert.Equal(t, 1, groups[0].Items[0].n)
	assert.Equal(t, 3, groups[0].Items[1].n)
}

func TestBy_Empty(t *testing.T) {
	groups := grouping.By([]string{}, firstLetter)

	assert.Empty(t, groups)
}
