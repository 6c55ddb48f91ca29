package workdays_test

import (
	"testing"
	"time"

	"go-leave/internal/shared/workdays"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCount(t *testing.T) {
	t.Run("full monday to friday week", func(t *testing.T) {
		assert.Equal(t, 5, workdays.Count(day(2025, 3, 3), day(2025, 3, 7)))
	})

	t.Run("span including weekend", func(t *testing.T) {
		// Fri 2025-05-02 .. Mon 2025-05-05
		assert.Equal(t, 2, workdays.Count(day(2025, 5, 2), day(2025, 5, 5)))
	})

	t.Run("single weekday", func(t *testing.T) {
		assert.Equal(t, 1, workdays.Count(day(2025, 4, 9), day(2025, 4, 9)))
	})

	t.Run("weekend only", func(t *testing.T) {
		assert.Equal(t, 0, workdays.Count(day(2025, 3, 8), day(2025, 3, 9)))
	})

	t.Run("end before start", func(t *testing.T) {
		assert.Equal(t, 0, workdays.Count(day(2025, 3, 7), day(2025, 3, 3)))
	})

	t.Run("two full weeks", func(t *testing.T) {
		assert.Equal(t, 10, workdays.Count(day(2025, 6, 2), day(2025, 6, 13)))
	})

	t.Run("ignores time of day", func(t *testing.T) {
		start := time.Date(2025, 3, 3, 23, 30, 0, 0, time.UTC)
		end := time.Date(2025, 3, 4, 1, 0, 0, 0, time.UTC)
		assert.Equal(t, 2, workdays.Count(start, end))
	})
}
