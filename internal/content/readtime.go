// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package content

import (
	"fmt"
	"math"
	"strings"
)

// wordsPerMinute is the assumed reading speed for the estimate.
const wordsPerMinute = 250

// ReadTime estimates how long an article body takes to read, as a
// human-readable string. Bodies of up to one minute's worth of words
// report "1 minute read". The estimate is computed from the body alone;
// nothing is cached between calls.
func ReadTime(body string) string {
	words := len(strings.Fields(body))
	if words <= wordsPerMinute {
		return "1 minute read"
	}
	minutes := int(math.Round(float64(words) / wordsPerMinute))
	if minutes <= 1 {
		return "1 minute read"
	}
	return fmt.Sprintf("%d minutes read", minutes)
}
