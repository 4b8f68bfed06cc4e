package similarity

import (
	"fmt"
	"math"

	"moviebuddy/internal/services"
)

// Matrix is an immutable square matrix of similarity scores. Higher scores
// mean more similar entries.
type Matrix struct {
	rows [][]float64
}

// New validates rows and returns a Matrix that owns a copy of them.
func New(rows [][]float64) (*Matrix, error) {
	size := len(rows)
	copied := make([][]float64, size)
	for i, row := range rows {
		if len(row) != size {
			return nil, services.Wrap(
				services.ErrDataIntegrity,
				"similarity",
				"validate",
				fmt.Sprintf("row %d has %d columns, want %d", i, len(row), size),
				nil,
			)
		}
		for j, score := range row {
			if math.IsNaN(score) || math.IsInf(score, 0) {
				return nil, services.Wrap(
					services.ErrDataIntegrity,
					"similarity",
					"validate",
					fmt.Sprintf("score at [%d][%d] is not finite", i, j),
					nil,
				)
			}
		}
		copied[i] = append([]float64(nil), row...)
	}
	return &Matrix{rows: copied}, nil
}

// Size returns the number of rows (and columns).
func (m *Matrix) Size() int {
	if m == nil {
		return 0
	}
	return len(m.rows)
}

// Row returns row i. The returned slice must not be modified.
func (m *Matrix) Row(i int) ([]float64, bool) {
	if m == nil || i < 0 || i >= len(m.rows) {
		return nil, false
	}
	return m.rows[i], true
}

// Score returns matrix[i][j].
func (m *Matrix) Score(i, j int) (float64, bool) {
	row, ok := m.Row(i)
	if !ok || j < 0 || j >= len(row) {
		return 0, false
	}
	return row[j], true
}

// Rows returns a deep copy of the matrix contents.
func (m *Matrix) Rows() [][]float64 {
	if m == nil {
		return nil
	}
	out := make([][]float64, len(m.rows))
	for i, row := range m.rows {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// CheckCatalog reports a data integrity error when the matrix dimensions do
// not match a catalog of the given size.
func (m *Matrix) CheckCatalog(size int) error {
	if m.Size() != size {
		return services.Wrap(
			services.ErrDataIntegrity,
			"similarity",
			"check catalog",
			fmt.Sprintf("matrix is %dx%d but catalog has %d entries", m.Size(), m.Size(), size),
			nil,
		)
	}
	return nil
}
