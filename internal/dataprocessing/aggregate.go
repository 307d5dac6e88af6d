package dataprocessing

import (
	"sort"
)

// ValueCount is one distinct value and how often it occurs
type ValueCount[T comparable] struct {
	Value T
	Count int
}

// ValueCounts counts distinct values and returns them by descending count.
// Equal counts keep the order in which the values first appeared.
func ValueCounts[T comparable](values []T) []ValueCount[T] {
	index := make(map[T]int, len(values))
	counts := make([]ValueCount[T], 0)
	for _, v := range values {
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, ValueCount[T]{Value: v, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Mode returns the most frequent value. Ties go to the value seen first.
// ok is false for an empty input, where the mode is undefined.
func Mode[T comparable](values []T) (mode T, ok bool) {
	counts := ValueCounts(values)
	if len(counts) == 0 {
		return mode, false
	}
	return counts[0].Value, true
}

// Sum adds up values
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean; ok is false for an empty input
func Mean(values []float64) (mean float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	return Sum(values) / float64(len(values)), true
}

// MinMax returns the smallest and largest values; ok is false for an empty input
func MinMax(values []float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}
