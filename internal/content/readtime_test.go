// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadTime(t *testing.T) {
	words := func(n int) string {
		return strings.TrimSpace(strings.Repeat("word ", n))
	}

	t.Run("short bodies floor at one minute", func(t *testing.T) {
		assert.Equal(t, "1 minute read", ReadTime(""))
		assert.Equal(t, "1 minute read", ReadTime("just a few words"))
		assert.Equal(t, "1 minute read", ReadTime(words(250)))
	})

	t.Run("rounds to the nearest minute", func(t *testing.T) {
		assert.Equal(t, "1 minute read", ReadTime(words(300)))
		assert.Equal(t, "2 minutes read", ReadTime(words(500)))
		assert.Equal(t, "4 minutes read", ReadTime(words(1000)))
	})

	t.Run("counts whitespace-separated words only", func(t *testing.T) {
		assert.Equal(t, "1 minute read", ReadTime("   \n\t  "))
	})
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "a-b-c", Slugify("  a  b  c  "))
	assert.Equal(t, "10-go-tips", Slugify("10 Go Tips"))
	assert.Equal(t, "", Slugify("!!!"))
}
