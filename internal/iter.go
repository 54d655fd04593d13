// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package internal

import (
	"iter"
	"slices"
)

// IterSeqConcat concatenates multiple iterators into a single iterator sequence.
func IterSeqConcat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for val := range seq {
				if !yield(val) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}

// IterSliceConcat concatenates the values of multiple slices, in order,
// into a single iterator sequence.
func IterSliceConcat[T any](lists ...[]T) iter.Seq[T] {
	seqs := make([]iter.Seq[T], 0, len(lists))
	for _, list := range lists {
		seqs = append(seqs, slices.Values(list))
	}

	return IterSeqConcat(seqs...)
}
