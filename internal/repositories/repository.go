package repositories

import (
	"time"

	"maintlog/config"
	"maintlog/internal/database"
	"maintlog/internal/types"
)

type Repository struct {
	Ticket TicketRepository
	Lookup LookupRepository
}

func New(db database.DB, cfg config.Config) Repository {
	if cfg.IsMemoryStore() {
		return NewMemory(cfg)
	}

	return Repository{
		Ticket: NewTicketRepository(db),
		Lookup: NewLookupRepository(db, time.Duration(cfg.LookupCacheTTLMinutes)*time.Minute),
	}
}

func NewMemory(cfg config.Config) Repository {
	return Repository{
		Ticket: NewMemoryTicketRepository(),
		Lookup: NewStaticLookupRepository(types.Lookups{
			Factories: cfg.Factories(),
			Statuses:  cfg.Statuses(),
			Personnel: cfg.Personnel(),
		}),
	}
}
