package letter

import "time"

const dateLayout = "2006-01-02"

type Unit string

const (
	UnitDays   Unit = "days"
	UnitWeeks  Unit = "weeks"
	UnitMonths Unit = "months"
	UnitYears  Unit = "years"
)

var Units = []string{string(UnitDays), string(UnitWeeks), string(UnitMonths), string(UnitYears)}

// ParseUnit maps the form value to a unit. "" and "none" mean no recurrence.
func ParseUnit(s string) (Unit, bool) {
	switch Unit(s) {
	case UnitDays, UnitWeeks, UnitMonths, UnitYears:
		return Unit(s), true
	default:
		return "", false
	}
}

// NextDueDate returns base plus interval units as YYYY-MM-DD. It returns ""
// when any input is empty or zero, when base does not parse, or when unit is
// unknown.
func NextDueDate(base string, unit Unit, interval int) string {
	if base == "" || unit == "" || interval == 0 {
		return ""
	}
	t, err := time.Parse(dateLayout, base)
	if err != nil {
		return ""
	}
	next, ok := AddInterval(t, unit, interval)
	if !ok {
		return ""
	}
	return next.Format(dateLayout)
}

// AddInterval adds interval units to t. Month and year steps clamp to the
// last day of the target month: Jan 31 + 1 month is Feb 28 or Feb 29.
func AddInterval(t time.Time, unit Unit, interval int) (time.Time, bool) {
	if interval <= 0 {
		return time.Time{}, false
	}
	switch unit {
	case UnitDays:
		return t.AddDate(0, 0, interval), true
	case UnitWeeks:
		return t.AddDate(0, 0, 7*interval), true
	case UnitMonths:
		return addMonths(t, interval), true
	case UnitYears:
		return addMonths(t, 12*interval), true
	default:
		return time.Time{}, false
	}
}

func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// RollForward moves due to the latest point of its schedule on or before
// today and returns that date and the following one. Each step is counted from
// due itself, so a month-end schedule stays on the month end instead of
// drifting. ok is false when the next point is still in the future.
func RollForward(due time.Time, r Recurrence, today time.Time) (newDue, next time.Time, ok bool) {
	steps := 0
	for {
		candidate, valid := AddInterval(due, r.Unit, (steps+1)*r.Interval)
		if !valid {
			return time.Time{}, time.Time{}, false
		}
		if candidate.After(today) {
			next = candidate
			break
		}
		newDue = candidate
		steps++
	}
	if steps == 0 {
		return time.Time{}, time.Time{}, false
	}
	return newDue, next, true
}
