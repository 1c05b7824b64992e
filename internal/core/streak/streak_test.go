package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrent(t *testing.T) {
	now := date(2024, 1, 10)

	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{
			name:  "Empty history",
			dates: nil,
			want:  0,
		},
		{
			name:  "Single completion today",
			dates: []time.Time{date(2024, 1, 10)},
			want:  1,
		},
		{
			name:  "Single completion yesterday (streak still alive)",
			dates: []time.Time{date(2024, 1, 9)},
			want:  1,
		},
		{
			name:  "Single completion two days ago (streak broken)",
			dates: []time.Time{date(2024, 1, 8)},
			want:  0,
		},
		{
			name: "Today missing, unbroken run ending yesterday",
			dates: []time.Time{
				date(2024, 1, 9), date(2024, 1, 8), date(2024, 1, 7),
				date(2024, 1, 6), date(2024, 1, 5), date(2024, 1, 4),
				date(2024, 1, 3), date(2024, 1, 2), date(2024, 1, 1),
			},
			want: 9,
		},
		{
			name: "Run with a gap stops at the gap",
			dates: []time.Time{
				date(2024, 1, 10), date(2024, 1, 9), date(2024, 1, 6),
			},
			want: 2,
		},
		{
			name: "Time-of-day is irrelevant",
			dates: []time.Time{
				time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC),
				time.Date(2024, 1, 9, 0, 1, 0, 0, time.UTC),
			},
			want: 2,
		},
		{
			name: "Duplicate timestamps on the same day count once",
			dates: []time.Time{
				date(2024, 1, 10),
				time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
				date(2024, 1, 9),
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Current(tt.dates, now, time.UTC)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrentRemovingMiddleDayBreaksChain(t *testing.T) {
	now := date(2024, 1, 3)

	full := []time.Time{date(2024, 1, 1), date(2024, 1, 2), date(2024, 1, 3)}
	assert.Equal(t, 3, Current(full, now, time.UTC))

	broken := []time.Time{date(2024, 1, 1), date(2024, 1, 3)}
	assert.Equal(t, 1, Current(broken, now, time.UTC), "gap at 01-02 leaves only today")
}

func TestCurrentZeroIffNeitherTodayNorYesterday(t *testing.T) {
	now := date(2024, 6, 15)

	for offset := 0; offset < 10; offset++ {
		dates := []time.Time{now.AddDate(0, 0, -offset)}
		got := Current(dates, now, time.UTC)
		if offset <= 1 {
			assert.Positive(t, got, "offset %d should keep the streak alive", offset)
		} else {
			assert.Zero(t, got, "offset %d should break the streak", offset)
		}
	}
}

func TestCurrentIsPure(t *testing.T) {
	now := date(2024, 3, 1)
	dates := []time.Time{date(2024, 3, 1), date(2024, 2, 29), date(2024, 2, 28)}

	first := Current(dates, now, time.UTC)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Current(dates, now, time.UTC))
	}
}

func TestCurrentIsCapped(t *testing.T) {
	now := date(2024, 1, 1)

	var dates []time.Time
	for i := 0; i < maxWalk+100; i++ {
		dates = append(dates, now.AddDate(0, 0, -i))
	}

	assert.Equal(t, maxWalk, Current(dates, now, time.UTC))
}

func TestConsistency(t *testing.T) {
	now := date(2024, 1, 10)

	tests := []struct {
		name   string
		dates  []time.Time
		window int
		want   int
	}{
		{
			name:   "Empty history",
			dates:  nil,
			window: 7,
			want:   0,
		},
		{
			name: "Full week",
			dates: []time.Time{
				date(2024, 1, 10), date(2024, 1, 9), date(2024, 1, 8),
				date(2024, 1, 7), date(2024, 1, 6), date(2024, 1, 5),
				date(2024, 1, 4),
			},
			window: 7,
			want:   100,
		},
		{
			name: "Almost full week is below 100",
			dates: []time.Time{
				date(2024, 1, 10), date(2024, 1, 9), date(2024, 1, 8),
				date(2024, 1, 7), date(2024, 1, 6), date(2024, 1, 5),
			},
			window: 7,
			want:   86,
		},
		{
			name:   "3 of 7 rounds to 43",
			dates:  []time.Time{date(2024, 1, 10), date(2024, 1, 8), date(2024, 1, 6)},
			window: 7,
			want:   43,
		},
		{
			name:   "Completions outside the window do not count",
			dates:  []time.Time{date(2023, 12, 1), date(2023, 11, 1)},
			window: 7,
			want:   0,
		},
		{
			name:   "Window of one, done today",
			dates:  []time.Time{date(2024, 1, 10)},
			window: 1,
			want:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Consistency(tt.dates, tt.window, now, time.UTC)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestLongest(t *testing.T) {
	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{
			name:  "Empty history",
			dates: nil,
			want:  0,
		},
		{
			name:  "Single day",
			dates: []time.Time{date(2024, 1, 1)},
			want:  1,
		},
		{
			name: "Longest run is in the past",
			dates: []time.Time{
				date(2024, 1, 20),
				date(2024, 1, 10), date(2024, 1, 9), date(2024, 1, 8),
			},
			want: 3,
		},
		{
			name: "Two runs, longer one wins",
			dates: []time.Time{
				date(2024, 1, 1), date(2024, 1, 2),
				date(2024, 1, 5), date(2024, 1, 6), date(2024, 1, 7), date(2024, 1, 8),
			},
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Longest(tt.dates, time.UTC))
		})
	}
}
