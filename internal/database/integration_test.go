package database

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/nfrund/passauth/internal/config"
	"github.com/nfrund/passauth/internal/testutils"
	"github.com/stretchr/testify/require"
)

func TestSurrealUserStore_Contract(t *testing.T) {
	testutils.LoadEnvTest(t)
	if testing.Short() || os.Getenv("SURREAL_URL") == "" {
		t.Skip("skipping SurrealDB integration test")
	}
	ctx := context.Background()
	cfg := &config.Config{
		DBUrl:  os.Getenv("SURREAL_URL"),
		DBNs:   os.Getenv("SURREAL_NS"),
		DBDb:   os.Getenv("SURREAL_DB"),
		DBUser: os.Getenv("SURREAL_USER"),
		DBPass: os.Getenv("SURREAL_PASS"),
	}
	db, err := NewDB(ctx, cfg)
	require.NoError(t, err, "failed to connect to test database")

	store, err := NewSurrealUserStore(ctx, db, testTokens(t), cfg.DBNs, cfg.DBDb)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = Execute(context.Background(), db, "DELETE user WHERE email CONTAINS 'example.com'", nil)
		_ = store.Close(context.Background())
	})

	runRepositoryContract(t, store, testutils.UniqueEmail())
}

func TestMongoUserStore_Contract(t *testing.T) {
	testutils.LoadEnvTest(t)
	uri := os.Getenv("MONGO_URI")
	if testing.Short() || uri == "" {
		t.Skip("skipping MongoDB integration test")
	}
	ctx := context.Background()
	client, err := ConnectMongo(ctx, uri)
	require.NoError(t, err)

	dbName := fmt.Sprintf("passauth_test_%d", time.Now().UnixNano())
	store, err := NewMongoUserStore(ctx, client, dbName, testHasher(), testTokens(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Database(dbName).Drop(context.Background())
		_ = store.Close(context.Background())
	})

	runRepositoryContract(t, store, testutils.UniqueEmail())
}

func TestNewUserRepository_Memory(t *testing.T) {
	repo, err := NewUserRepository(context.Background(), &config.Config{StoreDriver: "memory"}, testHasher(), testTokens(t))
	require.NoError(t, err)
	require.IsType(t, &MemoryUserStore{}, repo)

	_, err = NewUserRepository(context.Background(), &config.Config{StoreDriver: "redis"}, testHasher(), testTokens(t))
	require.Error(t, err)
}
