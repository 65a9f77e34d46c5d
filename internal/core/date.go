package core

import (
	"strings"
	"time"
)

// dayFirstLayouts are tried in order. Go's "2" and "1" accept one or two digits,
// so "05/03/2024" and "5/3/2024" share a layout.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2006-01-02",
	"2/1/06",
	"2-1-06",
	"2.1.06",
}

var timeSuffixes = []string{"", " 15:04", " 15:04:05"}

// ParseDayFirst parses a Fecha value, resolving DD/MM vs MM/DD as day first:
// "05/03/2024" is March 5. A trailing time of day is accepted and discarded.
func ParseDayFirst(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	for _, layout := range dayFirstLayouts {
		for _, suffix := range timeSuffixes {
			t, err := time.Parse(layout+suffix, s)
			if err == nil {
				return NewDate(t.Year(), int(t.Month()), t.Day()), nil
			}
		}
	}
	return Date{}, ErrInvalidDate
}
