package source

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// AutoDetect selects the charset from the BOM, a <meta> declaration or the
// content itself.
const AutoDetect = "auto"

var ErrUnknownCharset = errors.New("unknown charset")

// Lookup resolves a charset label. An empty label means the input is used
// as-is and returns a nil encoding.
func Lookup(label string) (encoding.Encoding, string, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, AutoDetect) {
		return nil, strings.ToLower(label), nil
	}

	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownCharset, label)
	}
	return enc, name, nil
}

// Read loads r into one document buffer, decoding it from label first when
// one is given. Every line of the result ends with a line terminator.
func Read(r io.Reader, label string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	enc, name, err := Lookup(label)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read failed: %w", err)
	}

	if name == AutoDetect {
		var certain bool
		enc, name, certain = charset.DetermineEncoding(data, "")
		logger.Debug("detected input charset", "charset", name, "certain", certain)
	}

	if enc != nil {
		decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
		if err != nil {
			return "", fmt.Errorf("failed to decode input as %s: %w", name, err)
		}
		data = decoded
	}

	logger.Debug("read input", "bytes", len(data), "charset", name)

	return terminateLines(string(data)), nil
}

func terminateLines(text string) string {
	if text == "" || strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}
