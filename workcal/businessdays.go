package workcal

import "time"

// IsBusinessDay reports whether d is a weekday that is not a public holiday in
// the canton.
func IsBusinessDay(d Date, canton Canton) bool {
	weekday := d.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		return false
	}
	_, holiday := Holidays(d.Year, canton)[d]
	return !holiday
}

// CountBusinessDays counts working days in [start, end] inclusive, excluding
// weekends and the canton's holidays. Returns 0 when start is after end.
func CountBusinessDays(start, end Date, canton Canton) int {
	if start.After(end) {
		return 0
	}

	count := 0
	holidays := Holidays(start.Year, canton)
	year := start.Year
	for d := start; !d.After(end); d = d.AddDays(1) {
		if d.Year != year {
			year = d.Year
			holidays = Holidays(year, canton)
		}
		weekday := d.Weekday()
		if weekday == time.Saturday || weekday == time.Sunday {
			continue
		}
		if _, holiday := holidays[d]; holiday {
			continue
		}
		count++
	}
	return count
}
