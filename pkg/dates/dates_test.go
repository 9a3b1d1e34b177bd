package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNights(t *testing.T) {
	seq, err := Nights(day("2025-06-05"), day("2025-06-08"))
	require.NoError(t, err)

	var got []string
	for d := range seq {
		got = append(got, Format(d))
	}
	assert.Equal(t, []string{"2025-06-05", "2025-06-06", "2025-06-07"}, got)

	// повторный обход даёт ту же последовательность
	var again []string
	for d := range seq {
		again = append(again, Format(d))
	}
	assert.Equal(t, got, again)
}

func TestNights_EarlyStop(t *testing.T) {
	seq, err := Nights(day("2025-01-01"), day("2025-02-01"))
	require.NoError(t, err)

	count := 0
	for range seq {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestNights_CrossesMonthAndYear(t *testing.T) {
	n, err := NightCount(day("2024-12-30"), day("2025-01-02"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNightCount_LongRange(t *testing.T) {
	n, err := NightCount(day("2024-01-01"), day("2025-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 366, n)

	n, err = NightCount(day("0002-01-01"), day("9999-12-31"))
	require.NoError(t, err)
	assert.Equal(t, 3651693, n)

	_, err = NightCount(day("2025-06-05"), day("2025-06-05"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNights_InvalidRange(t *testing.T) {
	tests := []struct {
		name     string
		checkin  time.Time
		checkout time.Time
	}{
		{"same day", day("2025-06-05"), day("2025-06-05")},
		{"reversed", day("2025-06-08"), day("2025-06-05")},
		{"zero checkin", time.Time{}, day("2025-06-05")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Nights(tt.checkin, tt.checkout)
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestIsWeekend(t *testing.T) {
	assert.False(t, IsWeekend(day("2025-06-03"))) // вторник
	assert.False(t, IsWeekend(day("2025-06-06"))) // пятница
	assert.True(t, IsWeekend(day("2025-06-07")))  // суббота
	assert.True(t, IsWeekend(day("2025-06-08")))  // воскресенье
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"identical", "2025-06-01", "2025-06-05", "2025-06-01", "2025-06-05", true},
		{"partial", "2025-06-01", "2025-06-05", "2025-06-04", "2025-06-10", true},
		{"contained", "2025-06-01", "2025-06-10", "2025-06-03", "2025-06-04", true},
		{"back to back", "2025-06-01", "2025-06-05", "2025-06-05", "2025-06-08", false},
		{"back to back reversed", "2025-06-05", "2025-06-08", "2025-06-01", "2025-06-05", false},
		{"disjoint", "2025-06-01", "2025-06-03", "2025-06-10", "2025-06-12", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangesOverlap(day(tt.aStart), day(tt.aEnd), day(tt.bStart), day(tt.bEnd))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	in := time.Date(2025, 6, 5, 23, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), Normalize(in))
}
