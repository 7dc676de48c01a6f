// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with the small set of
generic folds the blog statistics are built from.

Every function preserves input order, so "first wins" tie-breaking is
deterministic.
*/
package slice

// Reduce folds input into a single accumulated result.
func Reduce[T any, U any](input []T, initial U, reducer func(accumulator U, current T) U) U {
	result := initial
	for _, v := range input {
		result = reducer(result, v)
	}
	return result
}

// MaxBy returns the element with the greatest score.
// On ties the earliest element wins. ok is false for an empty input.
func MaxBy[T any](input []T, score func(T) int) (best T, ok bool) {
	bestScore := 0
	for i, v := range input {
		if s := score(v); i == 0 || s > bestScore {
			best, bestScore, ok = v, s, true
		}
	}
	return best, ok
}

// Total pairs a grouping key with an accumulated sum.
type Total[K comparable] struct {
	Key   K
	Value int
}

// SumBy groups input by key and sums weight per group.
// Groups are returned in the order their key was first seen.
func SumBy[T any, K comparable](input []T, key func(T) K, weight func(T) int) []Total[K] {
	index := make(map[K]int)
	var totals []Total[K]

	for _, v := range input {
		k := key(v)
		position, seen := index[k]
		if !seen {
			position = len(totals)
			index[k] = position
			totals = append(totals, Total[K]{Key: k})
		}
		totals[position].Value += weight(v)
	}

	return totals
}
