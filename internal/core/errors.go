package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MalformedInput covers wrong delimiter, missing columns and unreadable encodings.
	MalformedInput ErrorKind = "malformed_input"
	// FieldParse covers a single unparseable Cantidad, Precio_unitario(USD) or Fecha value.
	FieldParse ErrorKind = "field_parse"
)

type ErrorKind string

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrFieldParse     = errors.New("field parse error")

	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidDate     = errors.New("unrecognized date")
	ErrVentasOverflow  = errors.New("ventas out of range")
)

// LoadError is the single failure returned by a table load. Nothing is produced
// alongside it: a load either yields every record or none.
type LoadError struct {
	Kind   ErrorKind
	Row    int    // 1-based data row, 0 when the failure is not tied to a row
	Column string // offending column, if any
	Value  string // raw text that failed to parse
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	if e.Kind == FieldParse {
		b.WriteString(ErrFieldParse.Error())
	} else {
		b.WriteString(ErrMalformedInput.Error())
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, ": row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ", column %q", e.Column)
	}
	if e.Kind == FieldParse {
		fmt.Fprintf(&b, ", value %q", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is lets callers test the failure class with errors.Is(err, ErrFieldParse).
func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrMalformedInput:
		return e.Kind == MalformedInput
	case ErrFieldParse:
		return e.Kind == FieldParse
	}
	return false
}

// Malformed builds a MalformedInput error.
func Malformed(format string, args ...any) *LoadError {
	return &LoadError{Kind: MalformedInput, Err: fmt.Errorf(format, args...)}
}

// MalformedRow builds a MalformedInput error tied to a data row.
func MalformedRow(row int, err error) *LoadError {
	return &LoadError{Kind: MalformedInput, Row: row, Err: err}
}

func fieldError(row int, column, value string, err error) *LoadError {
	return &LoadError{Kind: FieldParse, Row: row, Column: column, Value: value, Err: err}
}

// KindOf returns the LoadError kind carried by err, or "" for other errors.
func KindOf(err error) ErrorKind {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}
