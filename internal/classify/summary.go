package classify

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes how a sample falls into a set of classes.
type Summary struct {
	Count  int       `json:"count" doc:"Number of values in the sample"`
	Min    float64   `json:"min" doc:"Smallest value"`
	Max    float64   `json:"max" doc:"Largest value"`
	Mean   float64   `json:"mean" doc:"Arithmetic mean"`
	StdDev float64   `json:"stdDev" doc:"Sample standard deviation (0 for fewer than two values)"`
	Counts []int     `json:"counts" doc:"Values per class"`
	Breaks []float64 `json:"breaks" doc:"Class boundaries"`
}

// ClassOf returns the class index of v, or -1 when v lies outside the breaks.
// Classes are left-closed; the last class also includes its upper bound.
func ClassOf(v float64, breaks []float64) int {
	k := len(breaks) - 1
	if k < 1 || v < breaks[0] || v > breaks[k] {
		return -1
	}
	if v == breaks[k] {
		return k - 1
	}
	// first boundary strictly greater than v
	i := sort.Search(len(breaks), func(i int) bool { return breaks[i] > v })
	return i - 1
}

// Summarize counts the sample per class. Values outside the breaks, which
// only happens with manual breaks, are not counted.
func Summarize(sample, breaks []float64) Summary {
	s := Summary{
		Count:  len(sample),
		Breaks: breaks,
	}
	if len(breaks) > 1 {
		s.Counts = make([]int, len(breaks)-1)
	}
	if len(sample) == 0 {
		return s
	}

	s.Min, s.Max = floats.Min(sample), floats.Max(sample)
	s.Mean = stat.Mean(sample, nil)
	if len(sample) > 1 {
		s.StdDev = stat.StdDev(sample, nil)
	}
	for _, v := range sample {
		if c := ClassOf(v, breaks); c >= 0 {
			s.Counts[c]++
		}
	}
	return s
}
