package validate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/kousei/pkg/core"
)

func TestCacheKey(t *testing.T) {
	issue := core.Issue{RuleID: "counter-mismatch", From: 2, To: 3}
	base := CacheKey(issue, Context{Text: "犬が3人いた"}, 10)

	assert.Len(t, base, 64)
	assert.Equal(t, base, CacheKey(issue, Context{Text: "犬が３人いた"}, 10), "width variants share a key")
	assert.NotEqual(t, base, CacheKey(issue, Context{Text: "犬が3人いた", Mode: "novel"}, 10))
	assert.NotEqual(t, base, CacheKey(issue, Context{Text: "猫が3人いた"}, 10))

	other := issue
	other.RuleID = "homophone"
	assert.NotEqual(t, base, CacheKey(other, Context{Text: "犬が3人いた"}, 10))
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		c := NewMemoryCache(time.Minute, 10)
		require.NoError(t, c.Set(ctx, "k", Verdict{Valid: false, Reason: "固有名詞"}))

		got, ok, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, Verdict{Valid: false, Reason: "固有名詞"}, got)

		_, ok, _ = c.Get(ctx, "missing")
		assert.False(t, ok)
		assert.InDelta(t, 0.5, c.HitRate(), 0.001)
	})

	t.Run("ttl expiry", func(t *testing.T) {
		c := NewMemoryCache(time.Minute, 10)
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }
		require.NoError(t, c.Set(ctx, "k", Verdict{Valid: true}))

		now = now.Add(2 * time.Minute)
		_, ok, _ := c.Get(ctx, "k")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len(), "expired entry removed")
	})

	t.Run("lru eviction", func(t *testing.T) {
		c := NewMemoryCache(time.Minute, 2)
		require.NoError(t, c.Set(ctx, "a", Verdict{Valid: true}))
		require.NoError(t, c.Set(ctx, "b", Verdict{Valid: true}))
		_, _, _ = c.Get(ctx, "a")
		require.NoError(t, c.Set(ctx, "c", Verdict{Valid: true}))

		_, okA, _ := c.Get(ctx, "a")
		_, okB, _ := c.Get(ctx, "b")
		_, okC, _ := c.Get(ctx, "c")
		assert.True(t, okA)
		assert.False(t, okB, "least recently used evicted")
		assert.True(t, okC)
	})
}

func TestSQLiteCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "verdicts.db")

	c, err := OpenSQLiteCache(path, time.Hour)
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k1", Verdict{Valid: true, Reason: "誤り"}))
	require.NoError(t, c.Set(ctx, "k2", Verdict{Valid: false, Reason: "固有名詞"}))
	require.NoError(t, c.Set(ctx, "k2", Verdict{Valid: false, Reason: "意図的な表現"}))
	require.NoError(t, c.Close())

	// Verdicts survive reopening; migrations are idempotent.
	c, err = OpenSQLiteCache(path, time.Hour)
	require.NoError(t, err)
	defer c.Close()

	got, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Verdict{Valid: true, Reason: "誤り"}, got)

	got, ok, err = c.Get(ctx, "k2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "意図的な表現", got.Reason)

	_, ok, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, err := OpenSQLiteCache(":memory:", time.Minute)
	require.NoError(t, err)
	defer c.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	require.NoError(t, c.Set(ctx, "k", Verdict{Valid: true}))

	now = now.Add(2 * time.Minute)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := c.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSQLiteCache_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		run       func(c *SQLiteCache) error
		wantErr   string
	}{
		{
			name: "get query fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT valid, reason, expires_at FROM verdicts").
					WithArgs("k").
					WillReturnError(errors.New("disk I/O error"))
			},
			run: func(c *SQLiteCache) error {
				_, _, err := c.Get(ctx, "k")
				return err
			},
			wantErr: "failed to read verdict",
		},
		{
			name: "set exec fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO verdicts").
					WillReturnError(errors.New("database is locked"))
			},
			run: func(c *SQLiteCache) error {
				return c.Set(ctx, "k", Verdict{Valid: true})
			},
			wantErr: "failed to store verdict",
		},
		{
			name: "prune fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM verdicts").
					WillReturnError(errors.New("readonly database"))
			},
			run: func(c *SQLiteCache) error {
				_, err := c.Prune(ctx)
				return err
			},
			wantErr: "failed to prune verdicts",
		},
		{
			name: "get miss",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT valid, reason, expires_at FROM verdicts").
					WithArgs("k").
					WillReturnRows(sqlmock.NewRows([]string{"valid", "reason", "expires_at"}))
			},
			run: func(c *SQLiteCache) error {
				_, ok, err := c.Get(ctx, "k")
				if ok {
					return errors.New("unexpected hit")
				}
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setupMock(mock)
			err = tt.run(NewSQLiteCache(db, time.Hour))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
