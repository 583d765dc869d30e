package master

import "context"

type MasterService interface {
	Lookups(ctx context.Context) (LookupsResponse, error)
	ListSections(ctx context.Context) ([]Section, error)
}
