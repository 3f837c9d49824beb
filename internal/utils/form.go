package utils

import (
	"strconv"
	"strings"
)

// ParseID parses a positive numeric path parameter.
func ParseID(value string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// SplitList splits a comma-joined form value. It returns an empty non-nil
// slice for an empty value.
func SplitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
