package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/tbg/internal/cache"
	"github.com/stretchr/testify/assert"
)

// Without DATABASE_URL the pool stays nil and persistence is skipped.
func TestWritesWithoutPoolAreNoops(t *testing.T) {
	DB = nil
	ctx := context.Background()
	gameID := uuid.New()

	assert.NoError(t, RecordGameResult(ctx, gameID, "Alice", map[string]int{"Alice": 3, "Bob": 1}))
	assert.NoError(t, InsertGameActions(ctx, []cache.GameActionRecord{{GameID: gameID, ActionIndex: 1}}))
}

func TestConnectDBRejectsBadURL(t *testing.T) {
	err := ConnectDB(context.Background(), "postgres://%zz")
	assert.Error(t, err)
	assert.Nil(t, DB)
}
