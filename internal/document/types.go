package document

// Row is a <tr> span reduced to the last cell of each parity.
type Row struct {
	Key   string // last of cells 1, 3, 5...
	Value string // last of cells 2, 4, 6...
	Cells int
}

// Blank reports whether the row renders as an empty line.
func (r *Row) Blank() bool {
	return r.Value == ""
}

type RowScanner interface {
	Next() (*Row, error)
}
