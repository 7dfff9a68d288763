// Package tagtool converts the HTML table output of tagtool into tagged text.
//
// The input is scanned for <tr>...</tr> rows and, inside each row, for
// <td>...</td> cells. Residual markup is stripped from every cell and each row
// becomes one "value<TAB>key" line, or an empty line when the row carries no
// value.
//
// # Example Usage
//
//	file, err := os.Open("tags.html")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	if err := tagtool.Convert(file, os.Stdout); err != nil {
//		log.Fatal(err)
//	}
//
// # Row Semantics
//
// Cells alternate between the key slot (cells 1, 3, 5...) and the value slot
// (cells 2, 4, 6...). A later cell overwrites the earlier one of the same
// parity, so a row with four cells keeps only the third and fourth:
//
//	<tr><td>NN</td><td>cat</td></tr>      -> "cat\tNN"
//	<tr><td>X</td></tr>                   -> ""
//	<tr></tr>                             -> ""
//
// Row and cell markers are matched literally and shortest-first. This is not
// an HTML parser: attributes, nested tables and entities are not interpreted.
//
// # Output Formats
//
// "tsv" (default): the tagged text lines described above.
//
// "table": the same rows as a two-column ASCII grid for inspection.
package tagtool

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/hanpama/tagtool/internal/markup"
	"github.com/hanpama/tagtool/internal/render"
	"github.com/hanpama/tagtool/internal/source"
)

var (
	// ErrUnknownFormat is returned for an output format other than "tsv" or "table".
	ErrUnknownFormat = render.ErrUnknownFormat

	// ErrUnknownCharset is returned for a charset label that is not a known
	// WHATWG encoding name.
	ErrUnknownCharset = source.ErrUnknownCharset
)

// AutoDetect is the Charset value that detects the input encoding from its
// byte order mark, a <meta> declaration or the content itself.
const AutoDetect = source.AutoDetect

// Options controls a conversion.
type Options struct {
	// Format is "tsv" or "table". Empty means "tsv".
	Format string

	// Charset is the input encoding label, AutoDetect, or empty to use the
	// input bytes unchanged.
	Charset string

	// Logger receives diagnostics such as rows with more than two cells.
	// Nil uses slog.Default.
	Logger *slog.Logger
}

// Validate reports whether the format and charset are known.
func (o Options) Validate() error {
	if _, err := render.ParseFormat(o.Format); err != nil {
		return err
	}
	if _, _, err := source.Lookup(o.Charset); err != nil {
		return err
	}
	return nil
}

// Convert reads the whole of in and writes its rows to out as tagged text.
//
// The output is accumulated in memory and written to out in one call.
//
// Example:
//
//	in := strings.NewReader("<tr><td>NN</td><td>cat</td></tr>")
//	tagtool.Convert(in, os.Stdout) // prints "cat\tNN\n"
func Convert(in io.Reader, out io.Writer) error {
	return ConvertWith(in, out, Options{})
}

// ConvertWith is Convert with explicit options.
//
// Only reading, decoding and writing can fail; rows that do not have the
// expected shape become empty lines rather than errors.
//
// Example:
//
//	err := tagtool.ConvertWith(file, os.Stdout, tagtool.Options{
//		Format:  "table",
//		Charset: tagtool.AutoDetect,
//	})
func ConvertWith(in io.Reader, out io.Writer, opts Options) error {
	format, err := render.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	text, err := source.Read(in, opts.Charset, logger)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	scanner := markup.NewScanner(text, logger)
	if err := render.Render(scanner, format, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Debug("conversion finished", "rows", scanner.Rows(), "format", string(format))

	return nil
}
