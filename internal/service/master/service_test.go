package master

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/master"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMasterRepo struct {
	sectionsErr error
}

func (f *fakeMasterRepo) ListSections(context.Context) ([]master.Section, error) {
	if f.sectionsErr != nil {
		return nil, f.sectionsErr
	}
	return []master.Section{{ID: 1, Name: "Registry"}}, nil
}

func (f *fakeMasterRepo) ListLocations(context.Context) ([]master.Location, error) {
	return []master.Location{{ID: 1, Name: "Head Office"}}, nil
}

func (f *fakeMasterRepo) ListGrades(context.Context) ([]master.Grade, error) {
	return []master.Grade{{ID: 9, Name: "Grade 9"}}, nil
}

func (f *fakeMasterRepo) ListDesignations(context.Context) ([]master.Designation, error) {
	return []master.Designation{{ID: 1, Title: "Assistant"}}, nil
}

func (f *fakeMasterRepo) HolidayOn(context.Context, time.Time) (master.Holiday, bool, error) {
	return master.Holiday{}, false, nil
}

type usedIDs map[int]struct{}

func (u usedIDs) HRISIDsInUse(context.Context) (map[int]struct{}, error) {
	return u, nil
}

func TestMasterService_Lookups(t *testing.T) {
	svc := NewMasterService(&fakeMasterRepo{}, usedIDs{12345: {}})

	resp, err := svc.Lookups(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Sections, 1)
	assert.Len(t, resp.Locations, 1)
	assert.Len(t, resp.Grades, 1)
	assert.Len(t, resp.Designations, 1)
	assert.GreaterOrEqual(t, resp.SuggestedHRISID, 10000)
	assert.LessOrEqual(t, resp.SuggestedHRISID, 99999)
	assert.NotEqual(t, 12345, resp.SuggestedHRISID)
}

func TestMasterService_Lookups_PropagatesError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewMasterService(&fakeMasterRepo{sectionsErr: boom}, usedIDs{})

	_, err := svc.Lookups(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSuggestHRISID_SkipsTakenIDs(t *testing.T) {
	s := &masterServiceImpl{intN: func(int) int { return 0 }}

	id, err := s.suggestHRISID(map[int]struct{}{10000: {}, 10001: {}})
	require.NoError(t, err)
	assert.Equal(t, 10002, id)
}

func TestSuggestHRISID_Exhausted(t *testing.T) {
	used := make(map[int]struct{}, 90000)
	for id := 10000; id <= 99999; id++ {
		used[id] = struct{}{}
	}
	s := &masterServiceImpl{intN: func(n int) int { return 0 }}

	_, err := s.suggestHRISID(used)
	assert.ErrorIs(t, err, master.ErrNoFreeHRISID)
}
