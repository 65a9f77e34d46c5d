// Package http provides HTTP server and handler implementations.
//
// This file implements parsing of uploaded tables and of the report options
// that ride along with them.

package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"ventas/internal/core"
	"ventas/internal/report"
)

const (
	// FileField is the multipart field carrying the sales table.
	FileField = "file"
	// DefaultUploadName is assumed for raw bodies posted without ?filename=.
	DefaultUploadName = "upload.csv"

	maxMultipartMemory = 8 << 20
)

var (
	ErrMissingFile       = errors.New("no se recibió ningún archivo")
	ErrUnsupportedFormat = errors.New("formato no soportado: se esperaba .csv o .xlsx")
)

// Upload is a table received in a request body.
type Upload struct {
	Filename string
	Body     io.ReadCloser
}

// ParseReportOptions applies the order and narrative overrides in values to
// base. Unknown values leave the base setting untouched.
func ParseReportOptions(values url.Values, base report.Options) report.Options {
	opts := base
	if v := strings.ToLower(strings.TrimSpace(values.Get("order"))); v != "" {
		if order := core.CategoryOrder(v); order.Valid() {
			opts.CategoryOrder = order
		}
	}
	if v := strings.TrimSpace(values.Get("narrative")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.Narrative = b
		}
	}
	if v := strings.TrimSpace(values.Get("preview")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 100 {
			opts.PreviewRows = n
		}
	}
	return opts
}

// ReadUpload extracts the sales table from r. Multipart bodies carry it in the
// "file" field; any other body is the table itself, named by ?filename=.
// The caller must close the returned body.
func ReadUpload(r *http.Request) (Upload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return Upload{}, err
		}
		f, hdr, err := r.FormFile(FileField)
		if errors.Is(err, http.ErrMissingFile) {
			return Upload{}, ErrMissingFile
		}
		if err != nil {
			return Upload{}, err
		}
		name, err := SanitizeFilename(hdr.Filename)
		if err != nil {
			f.Close()
			return Upload{}, err
		}
		return Upload{Filename: name, Body: f}, nil
	}

	if r.Body == nil || r.ContentLength == 0 {
		return Upload{}, ErrMissingFile
	}
	name := r.URL.Query().Get("filename")
	if name == "" {
		name = DefaultUploadName
	}
	name, err := SanitizeFilename(name)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Filename: name, Body: r.Body}, nil
}

// SanitizeFilename strips any directory part and control characters and
// checks that the extension is one the table readers understand.
func SanitizeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	name = sanitizeInput(filepath.Base(name))
	if name == "" || name == "." || name == "/" {
		return "", ErrMissingFile
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", ".xlsx":
		return name, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}
