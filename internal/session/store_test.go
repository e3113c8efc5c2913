package session

import (
	"context"
	"testing"
	"time"

	"portfolio-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func storeUnderTest(t *testing.T, name string) Store {
	t.Helper()
	switch name {
	case "memory":
		return NewMemoryStore()
	case "gorm":
		db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.SetMaxOpenConns(1)
		require.NoError(t, db.AutoMigrate(&models.SessionRecord{}))
		return NewGormStore(db)
	default:
		t.Fatalf("unknown store %q", name)
		return nil
	}
}

func TestStoreLifecycle(t *testing.T) {
	for _, backend := range []string{"memory", "gorm"} {
		t.Run(backend, func(t *testing.T) {
			store := storeUnderTest(t, backend)
			ctx := context.Background()

			_, err := store.Load(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			rec := &Record{
				ID:        "sess-1",
				Data:      map[string]interface{}{"logged_in": true, "user_id": "u1"},
				ExpiresAt: time.Now().Add(time.Hour),
			}
			require.NoError(t, store.Save(ctx, rec))

			loaded, err := store.Load(ctx, "sess-1")
			require.NoError(t, err)
			assert.Equal(t, true, loaded.Data["logged_in"])
			assert.Equal(t, "u1", loaded.Data["user_id"])

			// overwrite
			rec.Data["role"] = int16(3)
			require.NoError(t, store.Save(ctx, rec))
			loaded, err = store.Load(ctx, "sess-1")
			require.NoError(t, err)
			assert.Contains(t, loaded.Data, "role")

			require.NoError(t, store.Delete(ctx, "sess-1"))
			_, err = store.Load(ctx, "sess-1")
			assert.ErrorIs(t, err, ErrNotFound)

			// deleting again is not an error
			assert.NoError(t, store.Delete(ctx, "sess-1"))
		})
	}
}

func TestStoreExpiry(t *testing.T) {
	for _, backend := range []string{"memory", "gorm"} {
		t.Run(backend, func(t *testing.T) {
			store := storeUnderTest(t, backend)
			ctx := context.Background()

			expired := &Record{
				ID:        "old",
				Data:      map[string]interface{}{"logged_in": true},
				ExpiresAt: time.Now().Add(-time.Minute),
			}
			live := &Record{
				ID:        "live",
				Data:      map[string]interface{}{"logged_in": true},
				ExpiresAt: time.Now().Add(time.Hour),
			}
			require.NoError(t, store.Save(ctx, expired))
			require.NoError(t, store.Save(ctx, live))

			_, err := store.Load(ctx, "old")
			assert.ErrorIs(t, err, ErrNotFound, "expired records never load")

			n, err := store.DeleteExpired(ctx)
			require.NoError(t, err)
			assert.LessOrEqual(t, n, int64(1))

			_, err = store.Load(ctx, "live")
			assert.NoError(t, err, "sweep keeps live records")
		})
	}
}

func TestMemoryStoreDetachesRecords(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := &Record{
		ID:        "s",
		Data:      map[string]interface{}{"k": "v"},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, rec))

	// mutating the caller's map must not leak into the store
	rec.Data["k"] = "changed"
	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "v", loaded.Data["k"])
}
