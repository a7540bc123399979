// Package grouping partitions ordered records into ordered groups.
package grouping

// Group is a run of items sharing a key. Items keep their input order.
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// By partitions items by key. Groups are returned in order of first
// appearance of their key, not sorted; every item lands in exactly one group.
func By[K comparable, T any](items []T, key func(T) K) []Group[K, T] {
	index := make(map[K]int)
	var groups []Group[K, T]
	for _, it := range items {
		k := key(it)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}
