// Package dedupe collapses keyed rows before bulk writes.
package dedupe

// LastWins keeps the last occurrence of every key and drops earlier ones.
// Surviving rows keep the relative order of their last occurrence.
func LastWins[T any, K comparable](items []T, key func(T) K) []T {
	if len(items) < 2 {
		return items
	}

	last := make(map[K]int, len(items))
	for i, item := range items {
		last[key(item)] = i
	}
	if len(last) == len(items) {
		return items
	}

	out := make([]T, 0, len(last))
	for i, item := range items {
		if last[key(item)] == i {
			out = append(out, item)
		}
	}
	return out
}
