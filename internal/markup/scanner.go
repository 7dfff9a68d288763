package markup

import (
	"io"
	"log/slog"
	"strings"

	"github.com/hanpama/tagtool/internal/document"
)

const (
	rowOpen   = "<tr>"
	rowClose  = "</tr>"
	cellOpen  = "<td>"
	cellClose = "</td>"

	// Only ASCII whitespace is trimmed from cells; U+00A0 and other Unicode
	// spaces are kept.
	asciiSpace = " \t\n\v\f\r"
)

// Scanner walks a document buffer and emits one Row per <tr> span.
type Scanner struct {
	text   string
	pos    int
	rows   int
	logger *slog.Logger
}

// NewScanner creates a Scanner over text. A nil logger uses slog.Default.
func NewScanner(text string, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		text:   text,
		logger: logger,
	}
}

// Next returns the next row in document order, or io.EOF once no complete
// <tr> span remains.
func (s *Scanner) Next() (*document.Row, error) {
	span, next, ok := nextSpan(s.text, rowOpen, rowClose, s.pos)
	if !ok {
		s.pos = len(s.text)
		return nil, io.EOF
	}
	s.pos = next

	row := parseRow(span)
	s.rows++

	if row.Cells > 2 {
		// Earlier cells of the same parity were overwritten.
		s.logger.Warn("row has more than two cells", "row", s.rows, "cells", row.Cells)
	}
	s.logger.Debug("scanned row", "row", s.rows, "cells", row.Cells, "key", row.Key, "value", row.Value)

	return row, nil
}

// Rows returns the number of rows emitted so far.
func (s *Scanner) Rows() int {
	return s.rows
}

func parseRow(span string) *document.Row {
	row := &document.Row{}
	field := 0

	pos := 0
	for {
		cell, next, ok := nextSpan(span, cellOpen, cellClose, pos)
		if !ok {
			break
		}
		pos = next

		text := strings.Trim(StripTags(cell), asciiSpace)
		if field == 0 {
			row.Key = text
		} else {
			row.Value = text
		}
		field = (field + 1) % 2
		row.Cells++
	}

	return row
}

// nextSpan finds the first open marker at or after pos and the first close
// marker after it. It returns the text between them and the offset just past
// the close marker.
func nextSpan(text, open, close string, pos int) (string, int, bool) {
	start := strings.Index(text[pos:], open)
	if start < 0 {
		return "", len(text), false
	}
	start += pos + len(open)

	end := strings.Index(text[start:], close)
	if end < 0 {
		return "", len(text), false
	}
	end += start

	return text[start:end], end + len(close), true
}
