package tradelog

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trading.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	s := newTestStore(t)

	rows, err := s.db.Query(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	require.NoError(t, err)
	defer rows.Close()

	tables := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables[name] = true
	}
	require.NoError(t, rows.Err())

	for _, want := range []string{"trading_logs", "actual_trades", "portfolio_snapshots", "self_reflections"} {
		assert.True(t, tables[want], "missing table %s", want)
	}
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestReopenPreservesData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "trading.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.RecordTrade(ctx, Trade{Side: "buy", Price: 100, Amount: 1, TotalValue: 100, Success: true})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// 再次打开同一文件不得丢数据，建表必须幂等
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.CountSuccessfulTrades(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewFromDBSharesConnection(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "trading.db")
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path))
	require.NoError(t, err)
	defer db.Close()

	s, err := NewFromDB(db)
	require.NoError(t, err)
	_, err = s.RecordTrade(ctx, Trade{Side: "sell", Price: 100, Amount: 1, TotalValue: 100, Success: true})
	require.NoError(t, err)

	// 共享连接时 Close 只解除引用，底层 DB 仍可用
	require.NoError(t, s.Close())
	assert.NoError(t, db.Ping())

	_, err = s.RecordTrade(ctx, Trade{Side: "buy"})
	assert.Error(t, err)
}
