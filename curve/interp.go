// Package curve provides yield curve types and piecewise-linear
// interpolation over discrete tenor/rate observations.
package curve

import (
	"sort"
)

// Interpolator is a piecewise-linear interpolant over [min(x), max(x)].
// It reproduces the input rate exactly at each input node and refuses to
// extrapolate beyond the node range.
type Interpolator struct {
	xs []float64 // sorted ascending, unique
	ys []float64
}

// NewInterpolator builds an interpolant from parallel tenor/rate slices.
// Inputs need not be pre-sorted but tenors must be unique after sorting.
func NewInterpolator(xs, ys []float64) (*Interpolator, error) {
	if len(xs) != len(ys) {
		return nil, &ValidationError{Reason: "tenor and rate slices differ in length"}
	}
	if len(xs) < 2 {
		return nil, &ValidationError{Reason: "need at least two curve points"}
	}

	type node struct{ x, y float64 }
	nodes := make([]node, len(xs))
	for i := range xs {
		nodes[i] = node{xs[i], ys[i]}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].x < nodes[j].x })

	sx := make([]float64, len(nodes))
	sy := make([]float64, len(nodes))
	for i, n := range nodes {
		if i > 0 && n.x == nodes[i-1].x {
			return nil, &ValidationError{Reason: "duplicate tenor after sorting"}
		}
		sx[i], sy[i] = n.x, n.y
	}
	return &Interpolator{xs: sx, ys: sy}, nil
}

// RateAt returns the interpolated rate at t. It fails with a RangeError
// when t lies outside [min(tenor), max(tenor)].
func (ip *Interpolator) RateAt(t float64) (float64, error) {
	lo, hi := ip.xs[0], ip.xs[len(ip.xs)-1]
	if t < lo || t > hi {
		return 0, &RangeError{T: t, Min: lo, Max: hi}
	}

	// First index with xs[i] >= t.
	i := sort.SearchFloat64s(ip.xs, t)
	if i < len(ip.xs) && ip.xs[i] == t {
		return ip.ys[i], nil
	}

	x1, x2 := ip.xs[i-1], ip.xs[i]
	y1, y2 := ip.ys[i-1], ip.ys[i]
	return y1 + (y2-y1)*(t-x1)/(x2-x1), nil
}

// Domain returns the inclusive interpolation bounds.
func (ip *Interpolator) Domain() (min, max float64) {
	return ip.xs[0], ip.xs[len(ip.xs)-1]
}
