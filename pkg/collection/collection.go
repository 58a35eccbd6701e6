// Package collection provides generic, functional-style helpers for slices:
// Map, Filter, First, GroupBy, Unique, SortBy, Reduce, Sum, KeyBy, Paginate.
//
// The stats and catalog services lean on these for single-pass aggregation:
//
//	total := collection.Sum(orders, func(o models.Order) float64 { return o.Total })
//	byStatus := collection.GroupBy(orders, func(o models.Order) string { return string(o.Status) })
package collection

import "sort"

// Map transforms each element of slice s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns elements of s for which fn returns true.
func Filter[T any](s []T, fn func(T) bool) []T {
	var out []T
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// First returns the first element matching fn, or (zero, false).
func First[T any](s []T, fn func(T) bool) (T, bool) {
	for _, v := range s {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Contains reports whether any element of s satisfies fn.
func Contains[T any](s []T, fn func(T) bool) bool {
	_, ok := First(s, fn)
	return ok
}

// GroupBy partitions s into a map keyed by the string returned by fn.
func GroupBy[T any](s []T, fn func(T) string) map[string][]T {
	out := make(map[string][]T)
	for _, v := range s {
		k := fn(v)
		out[k] = append(out[k], v)
	}
	return out
}

// Unique returns s with duplicate elements removed (O(n) via map).
// T must be comparable.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	var out []T
	for _, v := range s {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// SortBy sorts s in-place using the given less function (ascending).
func SortBy[T any](s []T, less func(a, b T) bool) []T {
	sort.Slice(s, func(i, j int) bool { return less(s[i], s[j]) })
	return s
}

// Reduce folds s into a single value using fn, starting with initial.
func Reduce[T, R any](s []T, initial R, fn func(carry R, item T) R) R {
	carry := initial
	for _, v := range s {
		carry = fn(carry, v)
	}
	return carry
}

// Sum sums numeric values extracted by fn.
func Sum[T any](s []T, fn func(T) float64) float64 {
	return Reduce(s, 0.0, func(acc float64, v T) float64 { return acc + fn(v) })
}

// KeyBy turns s into a map using the key produced by fn.
// If two elements produce the same key, the last one wins.
func KeyBy[T any, K comparable](s []T, fn func(T) K) map[K]T {
	out := make(map[K]T, len(s))
	for _, v := range s {
		out[fn(v)] = v
	}
	return out
}

// Paginate returns one page from s (1-indexed page, size items per page).
func Paginate[T any](s []T, page, size int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(s) {
		return nil
	}
	end := start + size
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}
