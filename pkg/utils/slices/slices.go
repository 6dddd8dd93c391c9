package slices

// Map converts []T to []R with mapper.
func Map[T any, R any](sl []T, mapper func(T) R) []R {
	if sl == nil {
		return nil
	}
	ret := make([]R, len(sl))
	for i, v := range sl {
		ret[i] = mapper(v)
	}
	return ret
}

// First finds the first item satisfying pred.
//
// # Returns
//
// - T: the found item (or zero value)
//
// - bool: true if found
func First[T any](sl []T, pred func(T) bool) (T, bool) {
	for _, v := range sl {
		if pred(v) {
			return v, true
		}
	}
	return *new(T), false
}

// Filter returns items satisfying pred, keeping their order.
func Filter[T any](sl []T, pred func(T) bool) []T {
	ret := make([]T, 0, len(sl))
	for _, v := range sl {
		if pred(v) {
			ret = append(ret, v)
		}
	}
	return ret
}

// Batch splits sl into chunks having at most size items.
//
// The last chunk can be shorter. Chunks share the backing array with sl.
//
// When size <= 0, it returns the whole slice as a single chunk.
func Batch[T any](sl []T, size int) [][]T {
	if size <= 0 {
		return [][]T{sl}
	}
	ret := make([][]T, 0, (len(sl)+size-1)/size)
	for size < len(sl) {
		ret = append(ret, sl[:size])
		sl = sl[size:]
	}
	if 0 < len(sl) {
		ret = append(ret, sl)
	}
	return ret
}

// Unique returns sl without duplicated items, keeping first occurrences.
func Unique[T comparable](sl []T) []T {
	seen := map[T]bool{}
	ret := make([]T, 0, len(sl))
	for _, v := range sl {
		if seen[v] {
			continue
		}
		seen[v] = true
		ret = append(ret, v)
	}
	return ret
}

// KeysOf returns keys of the map. Ordering is not deterministic.
func KeysOf[K comparable, V any](m map[K]V) []K {
	ret := make([]K, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	return ret
}
