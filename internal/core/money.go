// Package core provides the sales domain: record normalization and the
// aggregates consumed by the dashboard.
//
// This file contains the parsers for the numeric columns of the sales table.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParsePrice converts a currency-formatted unit price to a float.
//
// Every '$' and ',' is removed before parsing, so the comma is always read as a
// thousands separator. Surrounding whitespace is ignored.
//
// Examples:
//
//	ParsePrice("$2,500.75") -> 2500.75, nil
//	ParsePrice("1999.99")   -> 1999.99, nil
//	ParsePrice("$abc")      -> 0, ErrInvalidPrice
func ParsePrice(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(s)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || isHexFloat(cleaned) {
		return 0, ErrInvalidPrice
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

// isHexFloat reports a 0x prefix, which ParseFloat accepts but a price never has.
func isHexFloat(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// ParseQuantity parses the Cantidad column. Zero and negative values are accepted.
func ParseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidQuantity
	}
	return n, nil
}
