package bookmark

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terra/internal/infra"
)

// exerciseStore runs the same replace/get cycle against any backend.
func exerciseStore(t *testing.T, s Store, userID string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, userID, map[string]string{"1": "Chicago", "home": "Union Station"}))
	got, err := s.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "Chicago", "home": "Union Station"}, got)

	require.NoError(t, s.Set(ctx, userID, map[string]string{"2": "Boston"}))
	got, err = s.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2": "Boston"}, got)

	require.NoError(t, s.Set(ctx, userID, map[string]string{}))
	got, err = s.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TERRA_REDIS_ADDR")
	if addr == "" {
		t.Skip("TERRA_REDIS_ADDR not set")
	}
	rdb, err := infra.NewRedis(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	exerciseStore(t, NewRedisStore(rdb), "test-user-redis")
}

func TestPgStore(t *testing.T) {
	dsn := os.Getenv("TERRA_TEST_DSN")
	if dsn == "" {
		t.Skip("TERRA_TEST_DSN not set")
	}
	ctx := context.Background()
	pool, err := infra.NewDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../../migrations/0001_bookmarks.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	exerciseStore(t, NewPgStore(pool), "test-user-pg")
}
