package report

import (
	"iter"
	"time"
)

// Point is one entry of a series.
type Point struct {
	Key     string    // stable grouping key, e.g. "2024-01-02"
	Display string    // label for charts and text output
	Time    time.Time // start of the period, or the expense time for Top5
	Value   float64
}

// Series is an ordered list of points ready for charting.
type Series struct {
	Name   string
	Points []Point
}

// Empty reports whether there is nothing to render.
func (s Series) Empty() bool {
	return len(s.Points) == 0
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Points)
}

// All yields key/value pairs in series order.
func (s Series) All() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		for _, p := range s.Points {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Total returns the sum of all values.
func (s Series) Total() float64 {
	var total float64
	for _, p := range s.Points {
		total += p.Value
	}
	return total
}

// Shares returns each value as a percentage of the total, in series order.
// All shares are zero when the total is zero.
func (s Series) Shares() []float64 {
	shares := make([]float64, len(s.Points))
	total := s.Total()
	if total == 0 {
		return shares
	}
	for i, p := range s.Points {
		shares[i] = p.Value / total * 100
	}
	return shares
}

// Map returns the series as key -> value.
func (s Series) Map() map[string]float64 {
	m := make(map[string]float64, len(s.Points))
	for k, v := range s.All() {
		m[k] = v
	}
	return m
}
