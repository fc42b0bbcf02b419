package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBeginningOfBoundaries(t *testing.T) {
	ts := time.Date(2024, 7, 15, 14, 30, 45, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), BeginningOfDay(ts))
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), BeginningOfMonth(ts))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), BeginningOfYear(ts))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 7, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 7, 4, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{
			"exact months",
			time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			13,
		},
		{
			"partial month does not count",
			time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC),
			1,
		},
		{
			"same day",
			time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
			0,
		},
		{
			"end before start floors at zero",
			time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsBetween(tt.start, tt.end))
		})
	}
}
