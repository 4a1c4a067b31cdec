package curve

import "fmt"

// RowIdentifier maps an ElementMatrix row index to its evaluation
// identifier. Row 0 is the reserved "secret" point (x=0); row r>=1 is the
// identifier belonging to VoteID r, matching ids.NumToIdentifier's scalar
// embedding so a matrix row and the VoteID it represents share one scalar.
func RowIdentifier(row int) Scalar { return ScalarFromUint64(uint64(row)) }

// CommitmentEvaluator evaluates a polynomial commitment at an identifier,
// i.e. computes VSS(x, commitment) = Σ Cᵢ·xⁱ. ElementMatrix takes this as a
// closure instead of depending on the vss package directly, to avoid a
// package cycle (vss already depends on curve).
type CommitmentEvaluator func(x Scalar) Element

// ElementMatrix is a rows x cols grid of group elements, stored
// column-major, used as the resharing "element table" of the two
// dimensional polynomial (spec component 4.B).
type ElementMatrix struct {
	rows, cols int
	data       []Element
}

// NewElementMatrix returns a rows x cols matrix filled with the identity.
func NewElementMatrix(rows, cols int) *ElementMatrix {
	data := make([]Element, rows*cols)
	for i := range data {
		data[i] = Identity()
	}
	return &ElementMatrix{rows: rows, cols: cols, data: data}
}

// Rows returns the row count.
func (m *ElementMatrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *ElementMatrix) Cols() int { return m.cols }

func (m *ElementMatrix) index(c, r int) int { return c*m.rows + r }

func (m *ElementMatrix) checkRow(r int) error {
	if r < 0 || r >= m.rows {
		return fmt.Errorf("curve: row %d out of range [0,%d)", r, m.rows)
	}
	return nil
}

func (m *ElementMatrix) checkCol(c int) error {
	if c < 0 || c >= m.cols {
		return fmt.Errorf("curve: column %d out of range [0,%d)", c, m.cols)
	}
	return nil
}

// Get returns the element at (col, row).
func (m *ElementMatrix) Get(c, r int) (Element, error) {
	if err := m.checkCol(c); err != nil {
		return Element{}, err
	}
	if err := m.checkRow(r); err != nil {
		return Element{}, err
	}
	return m.data[m.index(c, r)], nil
}

// SetRow overwrites row r with values, one per column.
func (m *ElementMatrix) SetRow(r int, values []Element) error {
	if err := m.checkRow(r); err != nil {
		return err
	}
	if len(values) != m.cols {
		return fmt.Errorf("curve: row has %d columns, got %d values", m.cols, len(values))
	}
	for c, v := range values {
		m.data[m.index(c, r)] = v
	}
	return nil
}

// SetCol overwrites column c with values, one per row.
func (m *ElementMatrix) SetCol(c int, values []Element) error {
	if err := m.checkCol(c); err != nil {
		return err
	}
	if len(values) != m.rows {
		return fmt.Errorf("curve: column has %d rows, got %d values", m.rows, len(values))
	}
	copy(m.data[c*m.rows:(c+1)*m.rows], values)
	return nil
}

// GetCol returns a copy of column c.
func (m *ElementMatrix) GetCol(c int) ([]Element, error) {
	if err := m.checkCol(c); err != nil {
		return nil, err
	}
	out := make([]Element, m.rows)
	copy(out, m.data[c*m.rows:(c+1)*m.rows])
	return out, nil
}

// EvaluateRow sets row r, column j to eval(RowIdentifier(j)) for every
// column j — i.e. it dealt a fresh polynomial commitment for row r and
// fills the row with that commitment evaluated at every column's
// identifier.
func (m *ElementMatrix) EvaluateRow(r int, eval CommitmentEvaluator) error {
	if err := m.checkRow(r); err != nil {
		return err
	}
	for j := 0; j < m.cols; j++ {
		m.data[m.index(j, r)] = eval(RowIdentifier(j))
	}
	return nil
}

// GetColAdd returns column c with element i added to eval(RowIdentifier(i)),
// used at the DKG-to-reshare transition to shift the previous epoch's
// column 0 by the DKG's additional commitment.
func (m *ElementMatrix) GetColAdd(c int, eval CommitmentEvaluator) ([]Element, error) {
	col, err := m.GetCol(c)
	if err != nil {
		return nil, err
	}
	out := make([]Element, len(col))
	for i, v := range col {
		out[i] = v.Add(eval(RowIdentifier(i)))
	}
	return out, nil
}

// InterpolateCol fills, in column c, every row not present in filledRows by
// Lagrange-interpolating across the rows that are. filledRows must contain
// at least degree+1 distinct rows for the reconstruction to be exact;
// uniqueness and correctness of the filled rows' contents are
// caller-guaranteed, per spec.
func (m *ElementMatrix) InterpolateCol(c int, filledRows []int) error {
	if err := m.checkCol(c); err != nil {
		return err
	}
	known := make(map[int]bool, len(filledRows))
	xs := make([]Scalar, 0, len(filledRows))
	ys := make([]Element, 0, len(filledRows))
	for _, r := range filledRows {
		if err := m.checkRow(r); err != nil {
			return err
		}
		if known[r] {
			continue
		}
		known[r] = true
		xs = append(xs, RowIdentifier(r))
		ys = append(ys, m.data[m.index(c, r)])
	}
	for r := 0; r < m.rows; r++ {
		if known[r] {
			continue
		}
		at := RowIdentifier(r)
		v, err := InterpolateAndEvaluate(xs, ys, &at, Identity())
		if err != nil {
			return fmt.Errorf("curve: interpolate column %d row %d: %w", c, r, err)
		}
		m.data[m.index(c, r)] = v
	}
	return nil
}
