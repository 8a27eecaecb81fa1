// Package frame provides a minimal labeled matrix: ordered row labels
// (dates or simulated path ids) with named float64 columns. It carries the
// yield-change and PnL tables between the scenario engine, the risk
// calculator, and the report writers.
package frame

import (
	"fmt"
	"sort"
)

// Series is a single named column keyed by label, the unit the scenario
// engine produces per instrument before the cross-instrument join.
type Series struct {
	Name   string
	Labels []string
	Values []float64
}

// Frame is an ordered set of rows with named columns. Rows keep insertion
// order; joins emit rows in ascending label order.
type Frame struct {
	labels  []string
	columns []string
	data    [][]float64
	index   map[string]int
}

// New creates an empty frame with the given column names.
func New(columns []string) *Frame {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return &Frame{columns: append([]string(nil), columns...), index: idx}
}

// Append adds one row. The row length must match the column count.
func (f *Frame) Append(label string, row []float64) error {
	if len(row) != len(f.columns) {
		return fmt.Errorf("frame: row has %d values, want %d", len(row), len(f.columns))
	}
	f.labels = append(f.labels, label)
	f.data = append(f.data, append([]float64(nil), row...))
	return nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.labels) }

// Labels returns the ordered row labels.
func (f *Frame) Labels() []string { return f.labels }

// Columns returns the column names in order.
func (f *Frame) Columns() []string { return f.columns }

// Label returns the label of row i.
func (f *Frame) Label(i int) string { return f.labels[i] }

// Row returns row i.
func (f *Frame) Row(i int) []float64 { return f.data[i] }

// Col returns the named column.
func (f *Frame) Col(name string) ([]float64, bool) {
	j, ok := f.index[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(f.data))
	for i, row := range f.data {
		out[i] = row[j]
	}
	return out, true
}

// AddColumn appends a named column; its length must match the row count.
func (f *Frame) AddColumn(name string, values []float64) error {
	if len(values) != len(f.data) {
		return fmt.Errorf("frame: column %s has %d values, want %d", name, len(values), len(f.data))
	}
	if _, dup := f.index[name]; dup {
		return fmt.Errorf("frame: column %s already exists", name)
	}
	f.index[name] = len(f.columns)
	f.columns = append(f.columns, name)
	for i := range f.data {
		f.data[i] = append(f.data[i], values[i])
	}
	return nil
}

// SumAcross returns the row-wise sum over the given columns.
func (f *Frame) SumAcross(columns []string) ([]float64, error) {
	out := make([]float64, len(f.data))
	for _, c := range columns {
		j, ok := f.index[c]
		if !ok {
			return nil, fmt.Errorf("frame: no column %s", c)
		}
		for i, row := range f.data {
			out[i] += row[j]
		}
	}
	return out, nil
}

// Diff returns a new frame of n-row differences (row i minus row i−n); the
// first n rows are dropped.
func (f *Frame) Diff(n int) *Frame {
	out := New(f.columns)
	for i := n; i < len(f.data); i++ {
		row := make([]float64, len(f.columns))
		for j := range row {
			row[j] = f.data[i][j] - f.data[i-n][j]
		}
		out.labels = append(out.labels, f.labels[i])
		out.data = append(out.data, row)
	}
	return out
}

// PctChange returns a new frame of n-row percentage changes
// (row i / row i−n − 1); the first n rows are dropped.
func (f *Frame) PctChange(n int) *Frame {
	out := New(f.columns)
	for i := n; i < len(f.data); i++ {
		row := make([]float64, len(f.columns))
		for j := range row {
			row[j] = f.data[i][j]/f.data[i-n][j] - 1
		}
		out.labels = append(out.labels, f.labels[i])
		out.data = append(out.data, row)
	}
	return out
}

// Data returns the underlying row-major values. Callers must not mutate.
func (f *Frame) Data() [][]float64 { return f.data }

// InnerJoin aligns the given series on their labels, keeping only labels
// present in every series, ordered ascending.
func InnerJoin(series ...Series) (*Frame, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("frame: nothing to join")
	}

	counts := make(map[string]int)
	for _, s := range series {
		if len(s.Labels) != len(s.Values) {
			return nil, fmt.Errorf("frame: series %s labels/values length mismatch", s.Name)
		}
		seen := make(map[string]bool, len(s.Labels))
		for _, l := range s.Labels {
			if !seen[l] {
				counts[l]++
				seen[l] = true
			}
		}
	}

	var shared []string
	for l, c := range counts {
		if c == len(series) {
			shared = append(shared, l)
		}
	}
	sort.Strings(shared)

	columns := make([]string, len(series))
	lookups := make([]map[string]float64, len(series))
	for i, s := range series {
		columns[i] = s.Name
		m := make(map[string]float64, len(s.Labels))
		for j, l := range s.Labels {
			m[l] = s.Values[j]
		}
		lookups[i] = m
	}

	out := New(columns)
	for _, l := range shared {
		row := make([]float64, len(series))
		for i := range series {
			row[i] = lookups[i][l]
		}
		out.labels = append(out.labels, l)
		out.data = append(out.data, row)
	}
	return out, nil
}
