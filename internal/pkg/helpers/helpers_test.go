package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(1, 10)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, 10, limit)

	offset, limit = CalculateOffsetLimit(3, 20)
	assert.Equal(t, uint64(40), offset)
	assert.Equal(t, 20, limit)

	// Invalid input falls back to defaults
	offset, limit = CalculateOffsetLimit(0, 0)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, DefaultPageSize, limit)

	_, limit = CalculateOffsetLimit(1, MaxPageSize+1)
	assert.Equal(t, DefaultPageSize, limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 10)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 5, info.TotalPages)
	assert.Equal(t, int64(45), info.TotalItems)

	// Page beyond the end snaps to the last page
	info = NewPaginationInfo(45, 9, 10)
	assert.Equal(t, 5, info.CurrentPage)

	info = NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, info.TotalPages)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("nonsense", time.Minute))
}

func TestFormatMessageTime(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "Just now", FormatMessageTime(now.Add(-30*time.Second), now))
	assert.Equal(t, "5m ago", FormatMessageTime(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", FormatMessageTime(now.Add(-3*time.Hour), now))
	assert.Equal(t, "20h ago", FormatMessageTime(now.Add(-20*time.Hour), now))
	assert.Equal(t, "Yesterday", FormatMessageTime(now.Add(-26*time.Hour), now))
	assert.Equal(t, "3d ago", FormatMessageTime(now.Add(-3*24*time.Hour), now))
	assert.Equal(t, "Feb 10, 2026", FormatMessageTime(time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC), now))
}
