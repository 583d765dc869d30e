package letter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDueDate_EmptyInputs(t *testing.T) {
	cases := []struct {
		name     string
		base     string
		unit     Unit
		interval int
	}{
		{"no base", "", UnitDays, 1},
		{"no unit", "2024-01-10", "", 1},
		{"zero interval", "2024-01-10", UnitMonths, 0},
		{"unparsable base", "10/01/2024", UnitDays, 1},
		{"unknown unit", "2024-01-10", Unit("fortnights"), 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, "", NextDueDate(c.base, c.unit, c.interval))
		})
	}
}

func TestNextDueDate_CalendarAdd(t *testing.T) {
	cases := []struct {
		base     string
		unit     Unit
		interval int
		want     string
	}{
		{"2024-01-10", UnitDays, 5, "2024-01-15"},
		{"2024-12-30", UnitDays, 3, "2025-01-02"},
		{"2024-01-10", UnitWeeks, 2, "2024-01-24"},
		{"2024-01-31", UnitMonths, 1, "2024-02-29"},
		{"2023-01-31", UnitMonths, 1, "2023-02-28"},
		{"2024-03-31", UnitMonths, 1, "2024-04-30"},
		{"2024-01-31", UnitMonths, 2, "2024-03-31"},
		{"2024-11-15", UnitMonths, 3, "2025-02-15"},
		{"2024-02-29", UnitYears, 1, "2025-02-28"},
		{"2024-02-29", UnitYears, 4, "2028-02-29"},
		{"2024-06-01", UnitYears, 1, "2025-06-01"},
	}
	for _, c := range cases {
		t.Run(c.base+"+"+string(c.unit), func(t *testing.T) {
			assert.Equal(t, c.want, NextDueDate(c.base, c.unit, c.interval))
		})
	}
}

func TestParseUnit(t *testing.T) {
	u, ok := ParseUnit("weeks")
	assert.True(t, ok)
	assert.Equal(t, UnitWeeks, u)

	for _, s := range []string{"", "none", "Days"} {
		_, ok := ParseUnit(s)
		assert.False(t, ok, s)
	}
}

func TestRollForward_SkipsMissedPeriods(t *testing.T) {
	due := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	newDue, next, ok := RollForward(due, Recurrence{Unit: UnitMonths, Interval: 1}, today)
	require.True(t, ok)
	assert.Equal(t, "2024-03-31", newDue.Format(dateLayout))
	assert.Equal(t, "2024-04-30", next.Format(dateLayout))
}

func TestRollForward_NotYetDue(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)

	_, _, ok := RollForward(due, Recurrence{Unit: UnitWeeks, Interval: 1}, today)
	assert.False(t, ok)

	newDue, next, ok := RollForward(due, Recurrence{Unit: UnitWeeks, Interval: 1}, today.AddDate(0, 0, 1))
	require.True(t, ok)
	assert.Equal(t, "2024-03-08", newDue.Format(dateLayout))
	assert.Equal(t, "2024-03-15", next.Format(dateLayout))
}

func TestLetter_DeriveNextDueDate(t *testing.T) {
	due := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	l := Letter{DueDate: &due, Recurrence: &Recurrence{Unit: UnitMonths, Interval: 1}}
	l.DeriveNextDueDate()
	require.NotNil(t, l.NextDueDate)
	assert.Equal(t, "2024-02-29", l.NextDueDate.Format(dateLayout))

	l.Recurrence = nil
	l.DeriveNextDueDate()
	assert.Nil(t, l.NextDueDate)
}
