package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hanpama/tagtool/internal/document"
)

type Format string

const (
	FormatTSV   Format = "tsv"
	FormatTable Format = "table"
)

var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps a format name to a Format. The empty name is FormatTSV.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatTSV:
		return FormatTSV, nil
	case FormatTable:
		return FormatTable, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Render drains a RowScanner and writes the rows in the given format.
func Render(scanner document.RowScanner, format Format, w io.Writer) error {
	switch format {
	case FormatTSV:
		return RenderTSV(scanner, w)
	case FormatTable:
		return RenderTable(scanner, w)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// RenderTSV writes one "value<TAB>key" line per row, or an empty line for a
// row without a value. The whole result goes out in a single write.
func RenderTSV(scanner document.RowScanner, w io.Writer) error {
	var sb strings.Builder

	err := eachRow(scanner, func(row *document.Row) {
		if !row.Blank() {
			sb.WriteString(row.Value)
			sb.WriteByte('\t')
			sb.WriteString(row.Key)
		}
		sb.WriteByte('\n')
	})
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, sb.String())
	return err
}

// RenderTable writes the rows as a two-column ASCII grid.
func RenderTable(scanner document.RowScanner, w io.Writer) error {
	t := &Table{
		Header: []string{"value", "key"},
	}

	err := eachRow(scanner, func(row *document.Row) {
		if row.Blank() {
			t.Rows = append(t.Rows, []string{"", ""})
			return
		}
		t.Rows = append(t.Rows, []string{row.Value, row.Key})
	})
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, t.Render())
	return err
}

func eachRow(scanner document.RowScanner, fn func(*document.Row)) error {
	for {
		row, err := scanner.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("error reading rows: %w", err)
		}
		fn(row)
	}
}
