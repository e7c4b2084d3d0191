package record

import "sort"

// Group holds one user's records for one calendar day, in input order.
type Group[T any] struct {
	User  string
	Date  Date
	Items []T
}

// GroupByUserDay partitions items by user, then by calendar day. Groups come
// back sorted by user and date.
func GroupByUserDay[T any](items []T, base func(T) Base) []Group[T] {
	type key struct {
		user string
		date Date
	}
	index := make(map[key]int)
	var groups []Group[T]
	for _, it := range items {
		b := base(it)
		k := key{user: b.User, date: b.Date()}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[T]{User: k.user, Date: k.date})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].User != groups[j].User {
			return groups[i].User < groups[j].User
		}
		return groups[i].Date < groups[j].Date
	})
	return groups
}
