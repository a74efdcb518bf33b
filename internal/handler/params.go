package handler

import (
	"strconv"
	"time"
)

// parseIntParam parses a decimal string into an int32
func parseIntParam(s string, out *int32) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	*out = int32(v)
	return *out, nil
}

// parseDateParam parses a YYYY-MM-DD date string
func parseDateParam(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
