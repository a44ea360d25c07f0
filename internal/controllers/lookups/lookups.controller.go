package lookupsController

import (
	"context"

	"maintlog/internal/repositories"
	"maintlog/internal/types"
)

type LookupsControllerInterface interface {
	GetLookups(ctx context.Context) (*types.Lookups, error)
}

type LookupsController struct {
	lookups repositories.LookupRepository
}

func New(repos repositories.Repository) LookupsControllerInterface {
	return &LookupsController{lookups: repos.Lookup}
}

func (c *LookupsController) GetLookups(ctx context.Context) (*types.Lookups, error) {
	return c.lookups.GetLookups(ctx)
}
