package feed

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var rssDateLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
}

const atomDateLayout = "2006-01-02T15:04:05.999999Z07:00"

// parseFirst tries layouts in order and returns the first successful parse.
func parseFirst(value string, layouts []string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrNoDate
	}

	errs := make([]error, 0, len(layouts))
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		errs = append(errs, err)
	}

	return time.Time{}, fmt.Errorf("%w %q: %w", ErrUnparseableDate, value, errors.Join(errs...))
}

// parseAtomDate accepts only timestamps carrying a 1-6 digit fraction and
// an offset, e.g. 2025-06-03T10:15:30.123456+02:00.
func parseAtomDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrNoDate
	}

	if digits := fractionDigits(value); digits < 1 || digits > 6 {
		return time.Time{}, fmt.Errorf("%w %q: fractional seconds required", ErrUnparseableDate, value)
	}

	return parseFirst(value, []string{atomDateLayout})
}

func fractionDigits(value string) int {
	const fractionAt = len("2006-01-02T15:04:05")
	if len(value) <= fractionAt || value[fractionAt] != '.' {
		return 0
	}

	digits := 0
	for _, c := range value[fractionAt+1:] {
		if c < '0' || c > '9' {
			break
		}
		digits++
	}
	return digits
}
