package services

import (
	"context"
	"fmt"
	"sync"

	"maintlog/internal/database"

	appContext "maintlog/internal/context"

	logger "github.com/Bparsons0904/goLogger"
)

// Transactor runs fn as one unit of work. Repositories called with the
// context handed to fn take part in it.
type Transactor interface {
	Execute(ctx context.Context, fn func(context.Context) error) error
}

// TransactionService handles database transactions using context injection
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs fn inside a database transaction stored in the context.
// It commits when fn returns nil and rolls back on an error or a panic. A
// failed rollback after a panic is re-panicked.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context) error,
) (err error) {
	log := ts.log.TraceFromContext(ctx).Function("Execute")

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			panicErr := log.ErrMsg("panic during transaction: " + fmt.Sprintf("%v", r))

			if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
				log.Er("CRITICAL: failed to rollback after panic", rollbackErr, "panic", r)
				panic(
					fmt.Sprintf(
						"transaction rollback failed: %v (original panic: %v)",
						rollbackErr,
						r,
					),
				)
			}

			log.Info("transaction rolled back successfully after panic")
			err = panicErr
		}
	}()

	if err = fn(appContext.WithTransaction(ctx, tx)); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("CRITICAL: failed to rollback after function error", rollbackErr, "originalError", err)
			return log.Error("transaction rollback failed", "rollbackError", rollbackErr, "originalError", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}

	return nil
}

// MemoryTransactionService serialises units of work against the in-memory
// store. It gives no rollback; the memory store applies each write atomically.
type MemoryTransactionService struct {
	mu  sync.Mutex
	log logger.Logger
}

func NewMemoryTransactionService() *MemoryTransactionService {
	return &MemoryTransactionService{
		log: logger.New("MemoryTransactionService"),
	}
}

func (ts *MemoryTransactionService) Execute(
	ctx context.Context,
	fn func(context.Context) error,
) (err error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = ts.log.TraceFromContext(ctx).
				Function("Execute").
				ErrMsg("panic during transaction: " + fmt.Sprintf("%v", r))
		}
	}()

	return fn(ctx)
}
