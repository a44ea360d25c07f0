package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := GetTransaction(ctx)
	assert.False(t, ok)

	tx := &gorm.DB{Config: &gorm.Config{}}
	ctx = WithTransaction(ctx, tx)

	got, ok := GetTransaction(ctx)
	assert.True(t, ok)
	assert.Same(t, tx, got)
}

func TestTransactionNilIsAbsent(t *testing.T) {
	ctx := WithTransaction(context.Background(), nil)

	_, ok := GetTransaction(ctx)
	assert.False(t, ok)
}
