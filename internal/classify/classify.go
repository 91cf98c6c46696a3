// Package classify computes choropleth class breaks from a numeric sample.
//
// Breaks are k+1 boundary values for k classes. Class i covers
// [breaks[i], breaks[i+1]) and the last class is closed on both ends.
package classify

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Method is a classification method name.
type Method string

const (
	Quantile      Method = "quantile"
	EqualInterval Method = "equal_interval"
	Manual        Method = "manual"
)

var (
	ErrEmptySample         = errors.New("empty sample")
	ErrUnknownMethod       = errors.New("unknown classification method")
	ErrMissingManualBreaks = errors.New("manual breaks required")
	ErrInvalidBreakCount   = errors.New("invalid break count")
	ErrInvalidClassCount   = errors.New("class count must be at least 1")
)

// BreaksFunc is an external breaks algorithm, e.g. natural breaks.
// It receives a non-empty sample and k >= 1 and must return k+1 values.
type BreaksFunc func(sample []float64, k int) ([]float64, error)

// Classifier computes breaks with the built-in methods plus any
// externally registered ones. The zero value is ready to use.
type Classifier struct {
	external map[Method]BreaksFunc
}

// Register adds an external algorithm under a method name.
// Built-in methods cannot be overridden.
func (c *Classifier) Register(m Method, fn BreaksFunc) error {
	if builtin(m) {
		return fmt.Errorf("method %q is built in", m)
	}
	if c.external == nil {
		c.external = make(map[Method]BreaksFunc)
	}
	c.external[m] = fn
	return nil
}

// Methods returns the built-in methods followed by the registered ones, sorted.
func (c *Classifier) Methods() []Method {
	out := []Method{Quantile, EqualInterval, Manual}
	var ext []Method
	for m := range c.external {
		ext = append(ext, m)
	}
	slices.Sort(ext)
	return append(out, ext...)
}

// ParseMethod validates a method name against the built-in and registered methods.
func (c *Classifier) ParseMethod(s string) (Method, error) {
	m := Method(s)
	if builtin(m) {
		return m, nil
	}
	if _, ok := c.external[m]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Breaks computes k+1 class boundaries for sample.
// manual is only consulted for the manual method and is returned verbatim
// (copied) when it holds exactly k+1 values. An empty manual counts as
// missing. Manual breaks are not checked
// for ordering or coverage of the sample.
func (c *Classifier) Breaks(sample []float64, method Method, k int, manual []float64) ([]float64, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidClassCount, k)
	}

	switch method {
	case Manual:
		if len(manual) == 0 {
			return nil, ErrMissingManualBreaks
		}
		if len(manual) != k+1 {
			return nil, fmt.Errorf("%w: got %d values, want %d", ErrInvalidBreakCount, len(manual), k+1)
		}
		return slices.Clone(manual), nil
	case Quantile:
		if len(sample) == 0 {
			return nil, ErrEmptySample
		}
		return quantileBreaks(sample, k), nil
	case EqualInterval:
		if len(sample) == 0 {
			return nil, ErrEmptySample
		}
		return equalIntervalBreaks(sample, k), nil
	}

	fn, ok := c.external[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	if len(sample) == 0 {
		return nil, ErrEmptySample
	}
	breaks, err := fn(slices.Clone(sample), k)
	if err != nil {
		return nil, fmt.Errorf("%s breaks: %w", method, err)
	}
	if len(breaks) != k+1 {
		return nil, fmt.Errorf("%w: %s returned %d values, want %d", ErrInvalidBreakCount, method, len(breaks), k+1)
	}
	return breaks, nil
}

// ComputeBreaks computes breaks with the built-in methods only.
func ComputeBreaks(sample []float64, method Method, k int, manual []float64) ([]float64, error) {
	var c Classifier
	return c.Breaks(sample, method, k, manual)
}

func builtin(m Method) bool {
	return m == Quantile || m == EqualInterval || m == Manual
}

// quantileBreaks picks sorted[floor(n*i/k)] for the interior breaks.
// Ties and skewed samples can repeat a boundary; that is expected.
func quantileBreaks(sample []float64, k int) []float64 {
	sorted := slices.Clone(sample)
	slices.Sort(sorted)
	n := len(sorted)

	breaks := make([]float64, k+1)
	breaks[0] = sorted[0]
	for i := 1; i < k; i++ {
		breaks[i] = sorted[n*i/k]
	}
	breaks[k] = sorted[n-1]
	return breaks
}

func equalIntervalBreaks(sample []float64, k int) []float64 {
	lo, hi := floats.Min(sample), floats.Max(sample)
	breaks := floats.Span(make([]float64, k+1), lo, hi)
	breaks[k] = hi
	return breaks
}
