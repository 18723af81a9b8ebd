package services

import (
	"regexp"
	"strconv"
	"strings"
)

// LocationCodeComparator orders bin and aisle codes naturally, so that
// "A-2" sorts before "A-10"
type LocationCodeComparator struct {
	chunkPattern *regexp.Regexp
}

// NewLocationCodeComparator creates a new comparator
func NewLocationCodeComparator() *LocationCodeComparator {
	// Codes are split into alternating digit and non-digit runs, e.g. A-10-3 -> [A-, 10, -, 3]
	return &LocationCodeComparator{
		chunkPattern: regexp.MustCompile(`\d+|\D+`),
	}
}

// Compare compares two codes chunk by chunk.
// Returns: -1 if code1 < code2, 0 if equal, 1 if code1 > code2
func (c *LocationCodeComparator) Compare(code1, code2 string) int {
	if code1 == code2 {
		return 0
	}

	chunks1 := c.chunkPattern.FindAllString(code1, -1)
	chunks2 := c.chunkPattern.FindAllString(code2, -1)

	for i := 0; i < len(chunks1) && i < len(chunks2); i++ {
		if result := c.compareChunks(chunks1[i], chunks2[i]); result != 0 {
			return result
		}
	}

	if len(chunks1) != len(chunks2) {
		if len(chunks1) < len(chunks2) {
			return -1
		}
		return 1
	}

	// Equal under natural ordering ("A-01" vs "A-1"): fall back to byte order
	// so distinct codes never compare equal
	return strings.Compare(code1, code2)
}

// compareChunks compares numeric chunks by value and text chunks case-insensitively
func (c *LocationCodeComparator) compareChunks(chunk1, chunk2 string) int {
	num1, err1 := strconv.ParseUint(chunk1, 10, 64)
	num2, err2 := strconv.ParseUint(chunk2, 10, 64)

	if err1 == nil && err2 == nil {
		if num1 < num2 {
			return -1
		} else if num1 > num2 {
			return 1
		}
		return 0
	}

	// A numeric chunk sorts before a text chunk
	if err1 == nil {
		return -1
	}
	if err2 == nil {
		return 1
	}

	return strings.Compare(strings.ToLower(chunk1), strings.ToLower(chunk2))
}

// Less is a convenience wrapper for sort callbacks
func (c *LocationCodeComparator) Less(code1, code2 string) bool {
	return c.Compare(code1, code2) < 0
}
