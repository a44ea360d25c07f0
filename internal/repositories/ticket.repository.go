package repositories

import (
	"context"
	"errors"
	"time"

	"maintlog/internal/database"
	. "maintlog/internal/models"
	"maintlog/internal/types"
	"maintlog/internal/utils"

	appContext "maintlog/internal/context"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TicketRepository is the persistence contract shared by the relational and
// in-memory ticket stores.
type TicketRepository interface {
	Create(ctx context.Context, ticket *MaintenanceTicket) error
	GetByID(ctx context.Context, id string) (*MaintenanceTicket, error)
	Update(ctx context.Context, id string, fields TicketFields) (*MaintenanceTicket, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, criteria *types.SearchCriteria) ([]*MaintenanceTicket, error)
	IDsWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

type ticketRepository struct {
	db       database.DB
	location *time.Location
}

func NewTicketRepository(db database.DB) TicketRepository {
	return &ticketRepository{
		db:       db,
		location: time.Local,
	}
}

func (r *ticketRepository) conn(ctx context.Context) *gorm.DB {
	return appContext.DB(ctx, r.db.SQL)
}

func (r *ticketRepository) Create(ctx context.Context, ticket *MaintenanceTicket) error {
	log := logger.New("ticketRepository").TraceFromContext(ctx).Function("Create")

	if ticket == nil || ticket.ID == "" {
		return types.Wrap(types.ErrValidation, "ticket id is required")
	}

	if err := r.conn(ctx).Create(ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Warn("Ticket id already exists", "id", ticket.ID)
			return types.Wrap(types.ErrDuplicateID, ticket.ID)
		}
		return types.WrapErr(
			types.ErrQueryFailure,
			"failed to create ticket",
			log.Err("failed to create ticket", err, "id", ticket.ID),
		)
	}

	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*MaintenanceTicket, error) {
	log := logger.New("ticketRepository").TraceFromContext(ctx).Function("GetByID")

	var ticket MaintenanceTicket
	if err := r.conn(ctx).
		Where(clause.Eq{Column: clause.Column{Name: ticketColumnID}, Value: id}).
		First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.Wrap(types.ErrNotFound, id)
		}
		return nil, types.WrapErr(
			types.ErrQueryFailure,
			"failed to get ticket",
			log.Err("failed to get ticket", err, "id", id),
		)
	}

	return &ticket, nil
}

// Update overwrites the mutable columns of one ticket. The row is read first
// so that an update with unchanged values is not mistaken for a missing row.
func (r *ticketRepository) Update(
	ctx context.Context,
	id string,
	fields TicketFields,
) (*MaintenanceTicket, error) {
	log := logger.New("ticketRepository").TraceFromContext(ctx).Function("Update")

	ticket, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.conn(ctx).
		Model(&MaintenanceTicket{}).
		Where(clause.Eq{Column: clause.Column{Name: ticketColumnID}, Value: id}).
		Updates(map[string]any{
			ticketColumnFactory:     fields.Factory,
			ticketColumnLocation:    fields.Location,
			ticketColumnStatus:      fields.Status,
			ticketColumnPersonnel:   fields.Personnel,
			ticketColumnDescription: fields.Description,
		}).Error; err != nil {
		return nil, types.WrapErr(
			types.ErrQueryFailure,
			"failed to update ticket",
			log.Err("failed to update ticket", err, "id", id),
		)
	}

	ticket.Apply(fields)
	return ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	log := logger.New("ticketRepository").TraceFromContext(ctx).Function("Delete")

	result := r.conn(ctx).
		Where(clause.Eq{Column: clause.Column{Name: ticketColumnID}, Value: id}).
		Delete(&MaintenanceTicket{})
	if result.Error != nil {
		return types.WrapErr(
			types.ErrQueryFailure,
			"failed to delete ticket",
			log.Err("failed to delete ticket", result.Error, "id", id),
		)
	}

	if result.RowsAffected == 0 {
		return types.Wrap(types.ErrNotFound, id)
	}

	return nil
}

func (r *ticketRepository) List(
	ctx context.Context,
	criteria *types.SearchCriteria,
) ([]*MaintenanceTicket, error) {
	log := logger.New("ticketRepository").TraceFromContext(ctx).Function("List")

	query, err := newTicketQuery(criteria, r.location)
	if err != nil {
		return nil, err
	}

	tickets := []*MaintenanceTicket{}
	if err := query.Apply(r.conn(ctx).Model(&MaintenanceTicket{})).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: ticketColumnCreatedAt}},
			{Column: clause.Column{Name: ticketColumnID}},
		}}).
		Find(&tickets).Error; err != nil {
		return nil, types.WrapErr(
			types.ErrQueryFailure,
			"failed to list tickets",
			log.Err("failed to list tickets", err, "predicates", query.Len()),
		)
	}

	return tickets, nil
}

// IDsWithPrefix returns every ticket id issued on the day encoded by prefix.
func (r *ticketRepository) IDsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	log := logger.New("ticketRepository").TraceFromContext(ctx).Function("IDsWithPrefix")

	query := &ticketQuery{}
	query.hasPrefix(ticketColumnID, prefix+utils.TicketIDSeparator)

	ids := []string{}
	if err := query.Apply(r.conn(ctx).Model(&MaintenanceTicket{})).
		Pluck(ticketColumnID, &ids).Error; err != nil {
		return nil, types.WrapErr(
			types.ErrQueryFailure,
			"failed to read ticket ids",
			log.Err("failed to read ticket ids", err, "prefix", prefix),
		)
	}

	return ids, nil
}
