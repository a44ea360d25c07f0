package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"maintlog/internal/database"

	appContext "maintlog/internal/context"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestTransactionService_Execute_Success(t *testing.T) {
	gormDB, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	service := NewTransactionService(database.DB{SQL: gormDB})

	called := false
	err := service.Execute(context.Background(), func(ctx context.Context) error {
		called = true
		tx, ok := appContext.GetTransaction(ctx)
		assert.True(t, ok)
		assert.NotNil(t, tx)
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionService_Execute_RollbackOnError(t *testing.T) {
	gormDB, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	service := NewTransactionService(database.DB{SQL: gormDB})

	expectedError := errors.New("test error")
	err := service.Execute(context.Background(), func(ctx context.Context) error {
		return expectedError
	})

	assert.Error(t, err)
	assert.Equal(t, expectedError, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionService_Execute_PanicRecovery(t *testing.T) {
	gormDB, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	service := NewTransactionService(database.DB{SQL: gormDB})

	err := service.Execute(context.Background(), func(ctx context.Context) error {
		panic("test panic")
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "panic during transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionService_Execute_BeginFailure(t *testing.T) {
	gormDB, mock := setupTestDB(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	service := NewTransactionService(database.DB{SQL: gormDB})

	called := false
	err := service.Execute(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.Error(t, err)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryTransactionService_Execute(t *testing.T) {
	service := NewMemoryTransactionService()

	t.Run("returns the function error", func(t *testing.T) {
		expectedError := errors.New("test error")
		err := service.Execute(context.Background(), func(ctx context.Context) error {
			return expectedError
		})
		assert.Equal(t, expectedError, err)
	})

	t.Run("converts panics to errors", func(t *testing.T) {
		err := service.Execute(context.Background(), func(ctx context.Context) error {
			panic("test panic")
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "panic during transaction")
	})

	t.Run("serialises concurrent units of work", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			active  int
			maxSeen int
			guard   sync.Mutex
		)

		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = service.Execute(context.Background(), func(ctx context.Context) error {
					guard.Lock()
					active++
					if active > maxSeen {
						maxSeen = active
					}
					guard.Unlock()

					guard.Lock()
					active--
					guard.Unlock()
					return nil
				})
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, maxSeen)
	})
}
