package info

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDate parses a PDF date string, D:YYYYMMDDHHmmSSOHH'mm'. Every
// field after the year is optional, as is the "D:" prefix. O is '+', '-'
// or 'Z'; a missing offset means UTC. Apostrophes in the offset may be
// missing, and trailing garbage after a complete date is ignored.
func ParseDate(s string) (time.Time, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "D:")

	digits := func(n, def, lo, hi int) (int, bool, error) {
		if len(s) < n || !isDigits(s[:n]) {
			return def, false, nil
		}
		v, _ := strconv.Atoi(s[:n])
		if v < lo || v > hi {
			return 0, false, fmt.Errorf("invalid PDF date %q: field %q out of range", orig, s[:n])
		}
		s = s[n:]
		return v, true, nil
	}

	year, ok, err := digits(4, 0, 0, 9999)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, fmt.Errorf("invalid PDF date %q: missing year", orig)
	}

	fields := [5]int{1, 1, 0, 0, 0}
	limits := [5][2]int{{1, 12}, {1, 31}, {0, 23}, {0, 59}, {0, 59}}
	for i := range fields {
		v, ok, err := digits(2, fields[i], limits[i][0], limits[i][1])
		if err != nil {
			return time.Time{}, err
		}
		if !ok {
			break
		}
		fields[i] = v
	}

	loc, err := parseZone(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid PDF date %q: %w", orig, err)
	}
	return time.Date(year, time.Month(fields[0]), fields[1], fields[2], fields[3], fields[4], 0, loc), nil
}

// parseZone reads "Z", "+HH'mm'", "-HH'mm", "+HHmm" or "+HH". Anything
// else is ignored and yields UTC.
func parseZone(s string) (*time.Location, error) {
	if s == "" || (s[0] != '+' && s[0] != '-') {
		return time.UTC, nil
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	rest := strings.ReplaceAll(s[1:], "'", "")
	if len(rest) < 2 || !isDigits(rest[:2]) {
		return time.UTC, nil
	}
	hours, _ := strconv.Atoi(rest[:2])
	minutes := 0
	if len(rest) >= 4 && isDigits(rest[2:4]) {
		minutes, _ = strconv.Atoi(rest[2:4])
	}
	if hours > 23 || minutes > 59 {
		return nil, fmt.Errorf("offset %q out of range", s)
	}
	offset := sign * (hours*3600 + minutes*60)
	if offset == 0 {
		return time.UTC, nil
	}
	return time.FixedZone("", offset), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatDate writes t as a PDF date string.
func FormatDate(t time.Time) string {
	_, offset := t.Zone()
	if offset == 0 {
		return t.Format("D:20060102150405") + "Z"
	}
	sign := byte('+')
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("%s%c%02d'%02d'", t.Format("D:20060102150405"), sign, offset/3600, offset%3600/60)
}
