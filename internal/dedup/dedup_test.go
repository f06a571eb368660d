package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeenSet(t *testing.T) {
	s := NewSeenSet([]string{
		"https://example.com/jobs/1",
		"https://example.com/jobs/2",
	})

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Seen("https://example.com/jobs/1"))
	assert.False(t, s.Seen("https://example.com/jobs/3"))

	s.Add("https://example.com/jobs/3")
	assert.True(t, s.Seen("https://example.com/jobs/3"))
	assert.Equal(t, 3, s.Len())

	// adding an existing url is a no-op
	s.Add("https://example.com/jobs/1")
	assert.Equal(t, 3, s.Len())
}

func TestSeenSetEmptySnapshot(t *testing.T) {
	s := NewSeenSet(nil)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Seen("https://example.com/jobs/1"))
}
