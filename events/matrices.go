package events

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Triple is one non-zero (row, col, value) entry used to build a Select or
// Shift matrix in compact form; entries not listed default to zero.
type Triple struct {
	Row   int
	Col   int
	Value float64
}

// SelectMatrix is the compartments×selectors matrix E: a non-negative,
// dense-backed matrix whose rows are labeled by compartment name.
// Storage is a *mat.Dense rather than a bespoke sparse type because, at
// the scale this engine operates (tens of compartments, a handful of
// selectors), the compact-column construction form (Triple) is the
// wire/CSV representation, and gonum's dense form serves the read paths
// the simulator needs identically.
type SelectMatrix struct {
	data       *mat.Dense
	rowLabels  []string
	compact    []Triple // the original compact form, retained for ToTriples
}

// NewSelectMatrix builds E from a compact triple list. rows is the number
// of compartments, cols the number of selectors. rowLabels, if non-nil,
// must have length rows and is used to cross-validate against a ShiftMatrix
// built over the same compartments.
func NewSelectMatrix(rows, cols int, rowLabels []string, entries []Triple) (*SelectMatrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("events: NewSelectMatrix: %w", ErrInvalidSelect)
	}
	d := mat.NewDense(rows, cols, nil)
	for _, t := range entries {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return nil, fmt.Errorf("events: NewSelectMatrix(%d,%d): %w", t.Row, t.Col, ErrInvalidSelect)
		}
		if t.Value < 0 {
			return nil, fmt.Errorf("events: NewSelectMatrix(%d,%d)=%v: %w", t.Row, t.Col, t.Value, ErrNegativeEntry)
		}
		d.Set(t.Row, t.Col, t.Value)
	}
	labels := rowLabels
	if labels != nil && len(labels) != rows {
		return nil, fmt.Errorf("events: NewSelectMatrix: row labels length %d != rows %d", len(labels), rows)
	}
	return &SelectMatrix{data: d, rowLabels: labels, compact: append([]Triple(nil), entries...)}, nil
}

// Dims returns (compartments, selectors).
func (m *SelectMatrix) Dims() (int, int) { return m.data.Dims() }

// At returns E[row,col].
func (m *SelectMatrix) At(row, col int) float64 { return m.data.At(row, col) }

// RowLabels returns the compartment labels, or nil if none were supplied.
func (m *SelectMatrix) RowLabels() []string { return m.rowLabels }

// Dense exposes the underlying gonum matrix for read-only linear algebra.
func (m *SelectMatrix) Dense() *mat.Dense { return m.data }

// ToTriples returns the compact form the matrix was constructed from.
func (m *SelectMatrix) ToTriples() []Triple { return append([]Triple(nil), m.compact...) }

// ShiftMatrix is the compartments×shifts matrix N: an integer-valued,
// dense-backed matrix. Sign is meaningful (a shift moves
// individuals into or out of a compartment), so no non-negativity check is
// applied, only integrality.
type ShiftMatrix struct {
	data      *mat.Dense
	rowLabels []string
	compact   []Triple
}

// NewShiftMatrix builds N from a compact triple list, exactly as
// NewSelectMatrix does for E, but validating integrality instead of
// non-negativity.
func NewShiftMatrix(rows, cols int, rowLabels []string, entries []Triple) (*ShiftMatrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("events: NewShiftMatrix: %w", ErrInvalidSelect)
	}
	d := mat.NewDense(rows, cols, nil)
	for _, t := range entries {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return nil, fmt.Errorf("events: NewShiftMatrix(%d,%d): %w", t.Row, t.Col, ErrInvalidSelect)
		}
		if math.Trunc(t.Value) != t.Value {
			return nil, fmt.Errorf("events: NewShiftMatrix(%d,%d)=%v: %w", t.Row, t.Col, t.Value, ErrNonIntegerEntry)
		}
		d.Set(t.Row, t.Col, t.Value)
	}
	labels := rowLabels
	if labels != nil && len(labels) != rows {
		return nil, fmt.Errorf("events: NewShiftMatrix: row labels length %d != rows %d", len(labels), rows)
	}
	return &ShiftMatrix{data: d, rowLabels: labels, compact: append([]Triple(nil), entries...)}, nil
}

// Dims returns (compartments, shifts).
func (m *ShiftMatrix) Dims() (int, int) { return m.data.Dims() }

// At returns N[row,col].
func (m *ShiftMatrix) At(row, col int) float64 { return m.data.At(row, col) }

// RowLabels returns the compartment labels, or nil if none were supplied.
func (m *ShiftMatrix) RowLabels() []string { return m.rowLabels }

// Dense exposes the underlying gonum matrix for read-only linear algebra.
func (m *ShiftMatrix) Dense() *mat.Dense { return m.data }

// ToTriples returns the compact form the matrix was constructed from.
func (m *ShiftMatrix) ToTriples() []Triple { return append([]Triple(nil), m.compact...) }

// sameLabels reports whether a and b are equal element-wise, required of
// E's and N's row labels whenever both are non-empty.
func sameLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
