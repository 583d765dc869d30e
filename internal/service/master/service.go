package master

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/ismo-hris/hris-backend-go/internal/domain/master"
	"golang.org/x/sync/errgroup"
)

const (
	minHRISID = 10000
	maxHRISID = 99999
	// randomAttempts bounds the random probe before falling back to a scan.
	randomAttempts = 64
)

// HRISIDSource reports the device ids already assigned to employees.
type HRISIDSource interface {
	HRISIDsInUse(ctx context.Context) (map[int]struct{}, error)
}

type masterServiceImpl struct {
	masterRepo master.MasterRepository
	hrisIDs    HRISIDSource
	intN       func(n int) int
}

func NewMasterService(masterRepo master.MasterRepository, hrisIDs HRISIDSource) master.MasterService {
	return &masterServiceImpl{
		masterRepo: masterRepo,
		hrisIDs:    hrisIDs,
		intN:       rand.IntN,
	}
}

// Lookups implements master.MasterService. The five reads run concurrently.
func (s *masterServiceImpl) Lookups(ctx context.Context) (master.LookupsResponse, error) {
	var resp master.LookupsResponse
	var used map[int]struct{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.Sections, err = s.masterRepo.ListSections(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Locations, err = s.masterRepo.ListLocations(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Grades, err = s.masterRepo.ListGrades(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Designations, err = s.masterRepo.ListDesignations(gctx)
		return err
	})
	g.Go(func() (err error) {
		used, err = s.hrisIDs.HRISIDsInUse(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return master.LookupsResponse{}, fmt.Errorf("failed to load lookups: %w", err)
	}

	id, err := s.suggestHRISID(used)
	if err != nil {
		return master.LookupsResponse{}, err
	}
	resp.SuggestedHRISID = id
	return resp, nil
}

// suggestHRISID picks a random unused 5-digit id.
func (s *masterServiceImpl) suggestHRISID(used map[int]struct{}) (int, error) {
	span := maxHRISID - minHRISID + 1
	if len(used) >= span {
		return 0, master.ErrNoFreeHRISID
	}
	for range randomAttempts {
		id := minHRISID + s.intN(span)
		if _, taken := used[id]; !taken {
			return id, nil
		}
	}
	start := s.intN(span)
	for i := range span {
		id := minHRISID + (start+i)%span
		if _, taken := used[id]; !taken {
			return id, nil
		}
	}
	return 0, master.ErrNoFreeHRISID
}

// ListSections implements master.MasterService.
func (s *masterServiceImpl) ListSections(ctx context.Context) ([]master.Section, error) {
	return s.masterRepo.ListSections(ctx)
}
