package dates

import (
	"errors"
	"iter"
	"time"
)

// Layout формат календарной даты (ISO 8601, YYYY-MM-DD)
const Layout = "2006-01-02"

// ErrInvalidRange возвращается, когда checkout не позже checkin
var ErrInvalidRange = errors.New("dates: checkout must be after checkin")

// Normalize отбрасывает время суток и приводит дату к полуночи UTC
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse разбирает дату в формате YYYY-MM-DD
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

// Format форматирует дату в YYYY-MM-DD
func Format(t time.Time) string {
	return t.Format(Layout)
}

// ValidateRange проверяет, что checkin < checkout (по календарным датам)
func ValidateRange(checkin, checkout time.Time) error {
	if checkin.IsZero() || checkout.IsZero() {
		return ErrInvalidRange
	}
	if !Normalize(checkout).After(Normalize(checkin)) {
		return ErrInvalidRange
	}
	return nil
}

// Nights возвращает последовательность ночей от checkin включительно до checkout исключительно.
// Последовательность ленивая и может обходиться повторно.
func Nights(checkin, checkout time.Time) (iter.Seq[time.Time], error) {
	if err := ValidateRange(checkin, checkout); err != nil {
		return nil, err
	}

	start := Normalize(checkin)
	end := Normalize(checkout)

	return func(yield func(time.Time) bool) {
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}, nil
}

// NightCount возвращает количество ночей в диапазоне [checkin, checkout) без обхода ночей
func NightCount(checkin, checkout time.Time) (int, error) {
	if err := ValidateRange(checkin, checkout); err != nil {
		return 0, err
	}
	// даты в UTC, в сутках ровно 86400 секунд
	return int((Normalize(checkout).Unix() - Normalize(checkin).Unix()) / secondsPerDay), nil
}

const secondsPerDay = 24 * 60 * 60

// IsWeekend возвращает true для субботы и воскресенья
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// RangesOverlap проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd).
// Граничащие интервалы (aEnd == bStart) не пересекаются.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
