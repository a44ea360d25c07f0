package ticketsController

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"maintlog/config"
	"maintlog/internal/database"
	. "maintlog/internal/models"
	"maintlog/internal/repositories"
	"maintlog/internal/services"
	"maintlog/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2024, time.June, 1, 14, 30, 0, 0, time.Local)

func newMemoryController(t *testing.T, cfg config.Config) *TicketController {
	t.Helper()

	cfg.StoreBackend = config.StoreBackendMemory
	controller := New(repositories.NewMemory(cfg), services.New(database.DB{}, cfg), cfg).(*TicketController)
	controller.now = func() time.Time { return fixedNow }
	return controller
}

func validRequest() *CreateTicketRequest {
	return &CreateTicketRequest{
		Factory:     "F1",
		Location:    "Line A",
		Status:      "Open",
		Personnel:   "Lee",
		Description: "belt worn",
	}
}

func TestCreate_AssignsDailySequence(t *testing.T) {
	ctx := context.Background()
	controller := newMemoryController(t, config.Config{})

	first, err := controller.Create(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "20240601-1", first.ID)
	assert.True(t, first.CreatedAt.Equal(fixedNow))

	second, err := controller.Create(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "20240601-2", second.ID)

	request := validRequest()
	request.CreatedAt = "2024-06-02 08:00:00"
	nextDay, err := controller.Create(ctx, request)
	require.NoError(t, err)
	assert.Equal(t, "20240602-1", nextDay.ID)
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	controller := newMemoryController(t, config.Config{
		LookupFactories: "F1,F2",
		LookupStatuses:  "Open,Closed",
		LookupPersonnel: "Lee,Kim",
	})

	tests := []struct {
		name   string
		mutate func(r *CreateTicketRequest)
	}{
		{name: "missing factory", mutate: func(r *CreateTicketRequest) { r.Factory = "" }},
		{name: "blank location", mutate: func(r *CreateTicketRequest) { r.Location = "   " }},
		{name: "missing status", mutate: func(r *CreateTicketRequest) { r.Status = "" }},
		{name: "missing personnel", mutate: func(r *CreateTicketRequest) { r.Personnel = "" }},
		{name: "unknown factory", mutate: func(r *CreateTicketRequest) { r.Factory = "F9" }},
		{name: "unknown status", mutate: func(r *CreateTicketRequest) { r.Status = "Lost" }},
		{name: "unknown personnel", mutate: func(r *CreateTicketRequest) { r.Personnel = "Nobody" }},
		{name: "bad createdAt", mutate: func(r *CreateTicketRequest) { r.CreatedAt = "yesterday" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := validRequest()
			tt.mutate(request)

			_, err := controller.Create(ctx, request)
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}

	t.Run("nil request", func(t *testing.T) {
		_, err := controller.Create(ctx, nil)
		assert.ErrorIs(t, err, types.ErrValidation)
	})

	all, err := controller.Search(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)

	t.Run("description is optional", func(t *testing.T) {
		request := validRequest()
		request.Description = ""
		ticket, err := controller.Create(ctx, request)
		require.NoError(t, err)
		assert.Equal(t, "", ticket.Description)
	})
}

func TestCreate_ConcurrentInsertsGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	controller := newMemoryController(t, config.Config{})

	const workers = 25
	var wg sync.WaitGroup
	ids := make(chan string, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticket, err := controller.Create(ctx, validRequest())
			if assert.NoError(t, err) {
				ids <- ticket.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
	assert.True(t, seen["20240601-25"])
}

func TestUpdate_PreservesIdentity(t *testing.T) {
	ctx := context.Background()
	controller := newMemoryController(t, config.Config{})

	created, err := controller.Create(ctx, validRequest())
	require.NoError(t, err)

	updated, err := controller.Update(ctx, created.ID, &UpdateTicketRequest{
		Factory:   "F2",
		Location:  " Dock ",
		Status:    "Closed",
		Personnel: "Kim",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.Equal(t, "Dock", updated.Location)
	assert.Equal(t, "", updated.Description)

	listed, err := controller.Search(ctx, &types.SearchCriteria{ID: created.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, updated.Fields(), listed[0].Fields())

	_, err = controller.Update(ctx, "20990101-1", &UpdateTicketRequest{
		Factory: "F2", Location: "Dock", Status: "Closed", Personnel: "Kim",
	})
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = controller.Update(ctx, created.ID, &UpdateTicketRequest{Factory: "F2"})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = controller.Update(ctx, " ", &UpdateTicketRequest{})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	controller := newMemoryController(t, config.Config{})

	created, err := controller.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, controller.Delete(ctx, created.ID))

	all, err := controller.Search(ctx, &types.SearchCriteria{})
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.ErrorIs(t, controller.Delete(ctx, created.ID), types.ErrNotFound)
	assert.ErrorIs(t, controller.Delete(ctx, ""), types.ErrValidation)

	_, err = controller.Get(ctx, created.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSearch_StatusFilter(t *testing.T) {
	ctx := context.Background()
	controller := newMemoryController(t, config.Config{})

	for _, status := range []string{"Open", "Closed", "Open"} {
		request := validRequest()
		request.Status = status
		_, err := controller.Create(ctx, request)
		require.NoError(t, err)
	}

	open, err := controller.Search(ctx, &types.SearchCriteria{Status: "Open"})
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "20240601-1", open[0].ID)
	assert.Equal(t, "20240601-3", open[1].ID)

	_, err = controller.Search(ctx, &types.SearchCriteria{Date: "not a date"})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestListToday(t *testing.T) {
	ctx := context.Background()
	controller := newMemoryController(t, config.Config{})

	_, err := controller.Create(ctx, validRequest())
	require.NoError(t, err)

	request := validRequest()
	request.CreatedAt = "2024-05-31"
	_, err = controller.Create(ctx, request)
	require.NoError(t, err)

	today, err := controller.ListToday(ctx)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "20240601-1", today[0].ID)
}

func TestPreviewNextID(t *testing.T) {
	ctx := context.Background()
	controller := newMemoryController(t, config.Config{})

	id, err := controller.PreviewNextID(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "20240601-1", id)

	_, err = controller.Create(ctx, validRequest())
	require.NoError(t, err)

	id, err = controller.PreviewNextID(ctx, "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "20240601-2", id)

	id, err = controller.PreviewNextID(ctx, "20240602")
	require.NoError(t, err)
	assert.Equal(t, "20240602-1", id)

	_, err = controller.PreviewNextID(ctx, "tomorrow")
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	controller := newMemoryController(t, config.Config{})

	_, err := controller.Create(ctx, validRequest())
	require.NoError(t, err)

	result, err := controller.Export(ctx, &types.SearchCriteria{Factory: "F1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, services.ExportContentType, result.ContentType)
	assert.Contains(t, result.Filename, ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(services.ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "20240601-1", rows[1][0])
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *MaintenanceTicket) error {
	return m.Called(ctx, ticket).Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id string) (*MaintenanceTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MaintenanceTicket), args.Error(1)
}

func (m *MockTicketRepository) Update(
	ctx context.Context,
	id string,
	fields TicketFields,
) (*MaintenanceTicket, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MaintenanceTicket), args.Error(1)
}

func (m *MockTicketRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTicketRepository) List(
	ctx context.Context,
	criteria *types.SearchCriteria,
) ([]*MaintenanceTicket, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*MaintenanceTicket), args.Error(1)
}

func (m *MockTicketRepository) IDsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newMockController(tickets *MockTicketRepository) *TicketController {
	return &TicketController{
		tickets:     tickets,
		lookups:     repositories.NewStaticLookupRepository(types.Lookups{}),
		transaction: services.NewMemoryTransactionService(),
		export:      services.NewExportService(),
		now:         func() time.Time { return fixedNow },
	}
}

func TestCreate_RecomputesAfterDuplicateID(t *testing.T) {
	tickets := &MockTicketRepository{}
	tickets.On("IDsWithPrefix", mock.Anything, "20240601").Return([]string{}, nil).Once()
	tickets.On("IDsWithPrefix", mock.Anything, "20240601").Return([]string{"20240601-1"}, nil).Once()
	tickets.On("Create", mock.Anything, mock.MatchedBy(func(ticket *MaintenanceTicket) bool {
		return ticket.ID == "20240601-1"
	})).Return(types.Wrap(types.ErrDuplicateID, "20240601-1")).Once()
	tickets.On("Create", mock.Anything, mock.MatchedBy(func(ticket *MaintenanceTicket) bool {
		return ticket.ID == "20240601-2"
	})).Return(nil).Once()

	ticket, err := newMockController(tickets).Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "20240601-2", ticket.ID)
	tickets.AssertExpectations(t)
}

func TestCreate_GivesUpAfterMaxAttempts(t *testing.T) {
	tickets := &MockTicketRepository{}
	tickets.On("IDsWithPrefix", mock.Anything, "20240601").Return([]string{}, nil)
	tickets.On("Create", mock.Anything, mock.Anything).Return(types.Wrap(types.ErrDuplicateID, "20240601-1"))

	_, err := newMockController(tickets).Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, types.ErrDuplicateID)
	tickets.AssertNumberOfCalls(t, "Create", MaxCreateAttempts)
}

func TestCreate_DoesNotRetryOtherFailures(t *testing.T) {
	tickets := &MockTicketRepository{}
	tickets.On("IDsWithPrefix", mock.Anything, "20240601").Return([]string{"20240601-x"}, nil)

	_, err := newMockController(tickets).Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, types.ErrDataCorruption)
	tickets.AssertNumberOfCalls(t, "IDsWithPrefix", 1)
	tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
