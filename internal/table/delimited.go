package table

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"ventas/internal/core"
)

// ReadDelimited decodes r with opts.Encoding and splits it on opts.Delimiter.
// The first record is the header. A leading byte order mark switches decoding
// to UTF-8 regardless of the configured encoding.
func ReadDelimited(r io.Reader, opts Options) (Table, error) {
	opts = opts.withDefaults()

	raw, err := io.ReadAll(r)
	if err != nil {
		return Table{}, core.Malformed("read input: %v", err)
	}
	text, err := decode(raw, opts.Encoding)
	if err != nil {
		return Table{}, err
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, core.Malformed("missing header row")
	}
	if err != nil {
		return Table{}, core.Malformed("read header: %v", err)
	}

	t := Table{Header: header}
	for n := 1; ; n++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, core.MalformedRow(n, err)
		}
		if err := checkWidth(header, row, n); err != nil {
			return Table{}, err
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func decode(raw []byte, name string) (string, error) {
	var dec transform.Transformer
	switch CanonicalEncoding(name) {
	case "iso-8859-1":
		dec = charmap.ISO8859_1.NewDecoder()
	case "windows-1252":
		dec = charmap.Windows1252.NewDecoder()
	case "utf-8":
		if !utf8.Valid(raw) {
			return "", core.Malformed("input is not valid UTF-8")
		}
		dec = unicode.UTF8.NewDecoder()
	default:
		return "", core.Malformed("unsupported encoding %q", name)
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(dec), raw)
	if err != nil {
		return "", core.Malformed("decode %s: %v", name, err)
	}
	return string(out), nil
}

// CanonicalEncoding maps the accepted spellings of an encoding to one name, or
// returns "" when the encoding is not supported.
func CanonicalEncoding(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1", "l1":
		return "iso-8859-1"
	case "windows-1252", "cp1252":
		return "windows-1252"
	case "utf-8", "utf8":
		return "utf-8"
	default:
		return ""
	}
}
