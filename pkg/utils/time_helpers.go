package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate разбирает yyyy-mm-dd в полночь UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date '%s', expected %s", value, DateLayout)
	}
	return t, nil
}

// DateOnly отбрасывает время, оставляя календарный день.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
