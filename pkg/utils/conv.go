package utils

import (
	"strconv"
	"strings"
	"time"
)

// ParseSeconds converts a decimal seconds string ("0.012") into a duration. Empty input is zero.
func ParseSeconds(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(val * float64(time.Second)), nil
}
