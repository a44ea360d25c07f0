package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	. "maintlog/internal/models"
	"maintlog/internal/types"
	"maintlog/internal/utils"
)

// memoryTicketRepository keeps tickets in insertion order. Callers only ever
// see copies, so a returned ticket can be modified without touching the store.
type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets []*MaintenanceTicket
	now     func() time.Time
}

func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{
		tickets: []*MaintenanceTicket{},
		now:     time.Now,
	}
}

func (r *memoryTicketRepository) indexOf(id string) int {
	for i, ticket := range r.tickets {
		if ticket.ID == id {
			return i
		}
	}
	return -1
}

func (r *memoryTicketRepository) Create(_ context.Context, ticket *MaintenanceTicket) error {
	if ticket == nil || ticket.ID == "" {
		return types.Wrap(types.ErrValidation, "ticket id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(ticket.ID) >= 0 {
		return types.Wrap(types.ErrDuplicateID, ticket.ID)
	}

	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = r.now()
	}
	r.tickets = append(r.tickets, ticket.Clone())
	return nil
}

func (r *memoryTicketRepository) GetByID(_ context.Context, id string) (*MaintenanceTicket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, types.Wrap(types.ErrNotFound, id)
	}
	return r.tickets[i].Clone(), nil
}

func (r *memoryTicketRepository) Update(
	_ context.Context,
	id string,
	fields TicketFields,
) (*MaintenanceTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, types.Wrap(types.ErrNotFound, id)
	}
	r.tickets[i].Apply(fields)
	return r.tickets[i].Clone(), nil
}

func (r *memoryTicketRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return types.Wrap(types.ErrNotFound, id)
	}
	r.tickets = append(r.tickets[:i], r.tickets[i+1:]...)
	return nil
}

func (r *memoryTicketRepository) List(
	_ context.Context,
	criteria *types.SearchCriteria,
) ([]*MaintenanceTicket, error) {
	if criteria != nil {
		if err := criteria.Validate(); err != nil {
			return nil, err
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := criteria.Filter(r.tickets)
	tickets := make([]*MaintenanceTicket, 0, len(matched))
	for _, ticket := range matched {
		tickets = append(tickets, ticket.Clone())
	}
	return tickets, nil
}

func (r *memoryTicketRepository) IDsWithPrefix(_ context.Context, prefix string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := []string{}
	for _, ticket := range r.tickets {
		if strings.HasPrefix(ticket.ID, prefix+utils.TicketIDSeparator) {
			ids = append(ids, ticket.ID)
		}
	}
	return ids, nil
}
