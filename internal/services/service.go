package services

import (
	"maintlog/config"
	"maintlog/internal/database"
)

type Service struct {
	Transaction Transactor
	Scheduler   *SchedulerService
	Export      *ExportService
}

func New(db database.DB, config config.Config) Service {
	var transaction Transactor
	if config.IsMemoryStore() {
		transaction = NewMemoryTransactionService()
	} else {
		transaction = NewTransactionService(db)
	}

	return Service{
		Transaction: transaction,
		Scheduler:   NewSchedulerService(),
		Export:      NewExportService(),
	}
}
