package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDays(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		want       int
	}{
		{"three day span", "2024-03-01", "2024-03-03", 3},
		{"single day", "2024-03-01", "2024-03-01", 1},
		{"across leap day", "2024-02-28", "2024-03-01", 3},
		{"end before start", "2024-03-03", "2024-03-01", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Days(date(c.start), date(c.end)))
		})
	}
}

func TestDays_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, Days(start, end))
}

func TestAction_Status(t *testing.T) {
	s, ok := ActionApprove.Status()
	assert.True(t, ok)
	assert.Equal(t, StatusApproved, s)

	s, ok = ActionReject.Status()
	assert.True(t, ok)
	assert.Equal(t, StatusRejected, s)

	_, ok = Action("cancel").Status()
	assert.False(t, ok)
}

func TestCategories_ByKind(t *testing.T) {
	assert.Contains(t, Categories(KindLeave), "Sick Leave")
	assert.NotContains(t, Categories(KindLeave), "Foreign Tour")
	assert.Contains(t, Categories(KindOfficialWork), "Foreign Tour")
}
