package ticketsController

import (
	"context"
	"errors"
	"strings"
	"time"

	"maintlog/config"
	. "maintlog/internal/models"
	"maintlog/internal/repositories"
	"maintlog/internal/services"
	"maintlog/internal/types"
	"maintlog/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
)

// MaxCreateAttempts bounds how often Create recomputes the sequence after
// losing an id to a concurrent insert.
const MaxCreateAttempts = 3

var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

type TicketController struct {
	tickets     repositories.TicketRepository
	lookups     repositories.LookupRepository
	transaction services.Transactor
	export      *services.ExportService
	now         func() time.Time
	Config      config.Config
}

type CreateTicketRequest struct {
	CreatedAt   string `json:"createdAt,omitempty"`
	Factory     string `json:"factory"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	Personnel   string `json:"personnel"`
	Description string `json:"description"`
}

type UpdateTicketRequest struct {
	Factory     string `json:"factory"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	Personnel   string `json:"personnel"`
	Description string `json:"description"`
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Count       int
}

type TicketControllerInterface interface {
	Create(ctx context.Context, request *CreateTicketRequest) (*MaintenanceTicket, error)
	Update(ctx context.Context, id string, request *UpdateTicketRequest) (*MaintenanceTicket, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*MaintenanceTicket, error)
	Search(ctx context.Context, criteria *types.SearchCriteria) ([]*MaintenanceTicket, error)
	ListToday(ctx context.Context) ([]*MaintenanceTicket, error)
	PreviewNextID(ctx context.Context, date string) (string, error)
	Export(ctx context.Context, criteria *types.SearchCriteria) (*ExportResult, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
) TicketControllerInterface {
	return &TicketController{
		tickets:     repos.Ticket,
		lookups:     repos.Lookup,
		transaction: services.Transaction,
		export:      services.Export,
		now:         time.Now,
		Config:      config,
	}
}

func (c *TicketController) Create(
	ctx context.Context,
	request *CreateTicketRequest,
) (*MaintenanceTicket, error) {
	log := logger.New("ticketsController").TraceFromContext(ctx).Function("Create")

	if request == nil {
		return nil, types.Wrap(types.ErrValidation, "request body is required")
	}

	createdAt, err := c.parseCreatedAt(request.CreatedAt)
	if err != nil {
		return nil, err
	}

	fields := cleanFields(TicketFields{
		Factory:     request.Factory,
		Location:    request.Location,
		Status:      request.Status,
		Personnel:   request.Personnel,
		Description: request.Description,
	})
	if err := c.validateFields(ctx, fields); err != nil {
		return nil, err
	}

	var ticket *MaintenanceTicket
	for attempt := 1; attempt <= MaxCreateAttempts; attempt++ {
		err = c.transaction.Execute(ctx, func(txCtx context.Context) error {
			ids, err := c.tickets.IDsWithPrefix(txCtx, utils.TicketIDPrefix(createdAt))
			if err != nil {
				return err
			}

			id, err := utils.NextTicketID(createdAt, ids)
			if err != nil {
				return err
			}

			candidate := &MaintenanceTicket{ID: id, CreatedAt: createdAt}
			candidate.Apply(fields)
			if err := c.tickets.Create(txCtx, candidate); err != nil {
				return err
			}

			ticket = candidate
			return nil
		})
		if err == nil {
			log.Info("Ticket created", "id", ticket.ID, "attempt", attempt)
			return ticket, nil
		}

		if !errors.Is(err, types.ErrDuplicateID) {
			return nil, err
		}
		log.Warn("Ticket id taken by a concurrent insert, recomputing", "attempt", attempt)
	}

	return nil, log.Err("failed to allocate a ticket id", err, "attempts", MaxCreateAttempts)
}

func (c *TicketController) Update(
	ctx context.Context,
	id string,
	request *UpdateTicketRequest,
) (*MaintenanceTicket, error) {
	log := logger.New("ticketsController").TraceFromContext(ctx).Function("Update")

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, types.Wrap(types.ErrValidation, "ticket id is required")
	}
	if request == nil {
		return nil, types.Wrap(types.ErrValidation, "request body is required")
	}

	fields := cleanFields(TicketFields{
		Factory:     request.Factory,
		Location:    request.Location,
		Status:      request.Status,
		Personnel:   request.Personnel,
		Description: request.Description,
	})
	if err := c.validateFields(ctx, fields); err != nil {
		return nil, err
	}

	ticket, err := c.tickets.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	log.Info("Ticket updated", "id", id)
	return ticket, nil
}

func (c *TicketController) Delete(ctx context.Context, id string) error {
	log := logger.New("ticketsController").TraceFromContext(ctx).Function("Delete")

	id = strings.TrimSpace(id)
	if id == "" {
		return types.Wrap(types.ErrValidation, "ticket id is required")
	}

	if err := c.tickets.Delete(ctx, id); err != nil {
		return err
	}

	log.Info("Ticket deleted", "id", id)
	return nil
}

func (c *TicketController) Get(ctx context.Context, id string) (*MaintenanceTicket, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, types.Wrap(types.ErrValidation, "ticket id is required")
	}
	return c.tickets.GetByID(ctx, id)
}

func (c *TicketController) Search(
	ctx context.Context,
	criteria *types.SearchCriteria,
) ([]*MaintenanceTicket, error) {
	if criteria == nil {
		criteria = &types.SearchCriteria{}
	}
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	return c.tickets.List(ctx, criteria)
}

// ListToday returns the tickets created on the current local day.
func (c *TicketController) ListToday(ctx context.Context) ([]*MaintenanceTicket, error) {
	return c.tickets.List(ctx, &types.SearchCriteria{Date: c.now().Format("2006-01-02")})
}

// PreviewNextID reports the id an insert dated on date would receive now.
// Nothing is reserved, so a later Create may still receive a higher suffix.
func (c *TicketController) PreviewNextID(ctx context.Context, date string) (string, error) {
	day, ok, err := (&types.SearchCriteria{Date: date}).Day(time.Local)
	if err != nil {
		return "", err
	}
	if !ok {
		day = c.now()
	}

	ids, err := c.tickets.IDsWithPrefix(ctx, utils.TicketIDPrefix(day))
	if err != nil {
		return "", err
	}
	return utils.NextTicketID(day, ids)
}

func (c *TicketController) Export(
	ctx context.Context,
	criteria *types.SearchCriteria,
) (*ExportResult, error) {
	log := logger.New("ticketsController").TraceFromContext(ctx).Function("Export")

	tickets, err := c.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}

	f, filename, err := c.export.ExportTickets(ctx, tickets)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, log.Err("failed to render workbook", err)
	}

	return &ExportResult{
		Filename:    filename,
		ContentType: services.ExportContentType,
		Data:        buf.Bytes(),
		Count:       len(tickets),
	}, nil
}

func (c *TicketController) parseCreatedAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return c.now().Truncate(time.Second), nil
	}

	for _, layout := range createdAtLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return parsed.In(time.Local).Truncate(time.Second), nil
		}
	}
	return time.Time{}, types.Wrap(types.ErrValidation, "invalid createdAt "+raw)
}

func cleanFields(fields TicketFields) TicketFields {
	return TicketFields{
		Factory:     utils.CleanField(fields.Factory),
		Location:    utils.CleanField(fields.Location),
		Status:      utils.CleanField(fields.Status),
		Personnel:   utils.CleanField(fields.Personnel),
		Description: utils.CleanField(fields.Description),
	}
}

func (c *TicketController) validateFields(ctx context.Context, fields TicketFields) error {
	missing := []string{}
	if fields.Factory == "" {
		missing = append(missing, "factory")
	}
	if fields.Location == "" {
		missing = append(missing, "location")
	}
	if fields.Status == "" {
		missing = append(missing, "status")
	}
	if fields.Personnel == "" {
		missing = append(missing, "personnel")
	}
	if len(missing) > 0 {
		return types.Wrap(types.ErrValidation, "missing required fields: "+strings.Join(missing, ", "))
	}

	lookups, err := c.lookups.GetLookups(ctx)
	if err != nil {
		return err
	}

	if !types.Allows(lookups.Factories, fields.Factory) {
		return types.Wrap(types.ErrValidation, "unknown factory "+fields.Factory)
	}
	if !types.Allows(lookups.Statuses, fields.Status) {
		return types.Wrap(types.ErrValidation, "unknown status "+fields.Status)
	}
	if !types.Allows(lookups.Personnel, fields.Personnel) {
		return types.Wrap(types.ErrValidation, "unknown personnel "+fields.Personnel)
	}

	return nil
}
