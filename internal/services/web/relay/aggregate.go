package relay

import "sort"

// AliasStats are the dashboard counters derived from the combined alias list.
type AliasStats struct {
	Total     int
	Blocked   int
	Forwarded int
}

// CombineAliases returns both collections as one list, newest first. Aliases
// created at the same instant keep random-before-custom order. The inputs are
// not modified.
func CombineAliases(random, custom []Alias) []Alias {
	all := make([]Alias, 0, len(random)+len(custom))
	all = append(all, random...)
	all = append(all, custom...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all
}

// Stats reduces a combined alias list to its counters.
func Stats(aliases []Alias) AliasStats {
	stats := AliasStats{Total: len(aliases)}
	for _, alias := range aliases {
		stats.Blocked += alias.NumBlocked
		stats.Forwarded += alias.NumForwarded
	}
	return stats
}
