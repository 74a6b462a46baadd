// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package content

import "fmt"

// DefaultPageLimit caps list responses when the client supplies no limit.
const DefaultPageLimit = 10

// Page describes one slice of a paginated listing.
type Page struct {
	First        int    `json:"first"`
	Current      int    `json:"current"`
	Last         int    `json:"last"`
	CurrentCount int    `json:"currentCount"`
	TotalCount   int    `json:"totalCount"`
	Description  string `json:"description"`
}

// NewPage builds the descriptor for one result slice. currentCount is
// the number of rows actually returned; totalCount the unpaginated
// match count. The description reads "N-M of T" in one-based positions.
func NewPage(limit, offset, currentCount, totalCount int) Page {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	last := (totalCount + limit - 1) / limit
	if last < 1 {
		last = 1
	}
	current := offset/limit + 1
	return Page{
		First:        1,
		Current:      current,
		Last:         last,
		CurrentCount: currentCount,
		TotalCount:   totalCount,
		Description:  fmt.Sprintf("%d-%d of %d", offset+1, offset+currentCount, totalCount),
	}
}
