package tradelog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nowUTCDate() string {
	return time.Now().UTC().Format("2006-01-02")
}

// insertTradeAt 直接写行以控制 created_at，范围与日界测试依赖它。
func insertTradeAt(t *testing.T, s *Store, side string, totalValue float64, success int, createdAt string) {
	t.Helper()
	_, err := s.db.Exec(`
		INSERT INTO actual_trades (timestamp, trade_type, price, amount, total_value, success, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		createdAt, side, 50000000.0, totalValue/50000000.0, totalValue, success, createdAt)
	require.NoError(t, err)
}

func TestRecentLogsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for _, decision := range []string{"buy", "hold", "sell"} {
		id, err := s.RecordAnalysis(ctx, MarketSnapshot{}, DecisionSummary{Decision: decision},
			"2024-03-01T09:00:00", "")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	logs, err := s.RecentLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, ids[2], logs[0].ID)
	assert.Equal(t, ids[1], logs[1].ID)

	logs, err = s.RecentLogs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}

func TestLogsBetween(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.RecordAnalysis(ctx, MarketSnapshot{}, DecisionSummary{Decision: "hold"},
			"2024-03-01T09:00:00", "")
		require.NoError(t, err)
	}

	now := time.Now()
	logs, err := s.LogsBetween(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, logs, 3)
	// 旧在前
	assert.Less(t, logs[0].ID, logs[2].ID)

	logs, err = s.LogsBetween(ctx, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestTradesOnDateBoundary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTradeAt(t, s, "buy", 100000, 1, "2024-03-01 00:00:00")
	insertTradeAt(t, s, "sell", 120000, 1, "2024-03-01 23:59:59")
	insertTradeAt(t, s, "buy", 90000, 1, "2024-03-02 00:00:00")

	trades, err := s.TradesOnDate(ctx, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, trades, 2)
	// 新在前
	assert.Equal(t, "sell", string(trades[0].Side))
	assert.Equal(t, "buy", string(trades[1].Side))

	trades, err = s.TradesOnDate(ctx, "2024-03-03")
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestTradesInRangeInclusive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTradeAt(t, s, "buy", 100000, 1, "2024-02-29 12:00:00")
	insertTradeAt(t, s, "buy", 100000, 1, "2024-03-01 12:00:00")
	insertTradeAt(t, s, "sell", 100000, 0, "2024-03-02 12:00:00")
	insertTradeAt(t, s, "sell", 100000, 1, "2024-03-03 12:00:00")

	trades, err := s.TradesInRange(ctx, "2024-03-01", "2024-03-02")
	require.NoError(t, err)
	// 闭区间，且不按成功与否过滤
	assert.Len(t, trades, 2)
}

func TestMarketContextAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	raw := `{"current_price":51000000,"technical_indicators":{"rsi":58.4,"macd":-120000},` +
		`"fear_greed_index":{"value":71,"classification":"Greed"}}`
	_, err := s.RecordAnalysis(ctx,
		MarketSnapshot{CurrentPrice: 51000000, Raw: json.RawMessage(raw)},
		DecisionSummary{Decision: "hold"}, "2024-03-01T09:00:00", "")
	require.NoError(t, err)
	_, err = s.RecordAnalysis(ctx,
		MarketSnapshot{CurrentPrice: 52000000},
		DecisionSummary{Decision: "buy"}, "2024-03-01T13:00:00", "")
	require.NoError(t, err)

	mc, err := s.MarketContextAt(ctx, "2024-03-01T10:00:00")
	require.NoError(t, err)
	require.NotNil(t, mc)
	assert.Equal(t, "2024-03-01T09:00:00", mc.Timestamp)
	assert.InDelta(t, 51000000, mc.Price, 1e-9)
	assert.JSONEq(t, `{"rsi":58.4,"macd":-120000}`, string(mc.Indicators))
	assert.JSONEq(t, `{"value":71,"classification":"Greed"}`, string(mc.FearGreed))

	// 该时点之前没有任何日志：无上下文不是错误
	mc, err = s.MarketContextAt(ctx, "2024-02-01T00:00:00")
	require.NoError(t, err)
	assert.Nil(t, mc)
}

func TestMarketContextAtDegradesOnBadBlob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.Exec(`
		INSERT INTO trading_logs (timestamp, current_price, ai_decision, market_data_json)
		VALUES (?, ?, ?, ?)`,
		"2024-03-01T09:00:00", 51000000.0, "hold", "{not valid json")
	require.NoError(t, err)

	mc, err := s.MarketContextAt(ctx, "2024-03-01T10:00:00")
	require.NoError(t, err)
	require.NotNil(t, mc)
	assert.InDelta(t, 51000000, mc.Price, 1e-9)
	assert.Nil(t, mc.Indicators)
	assert.Nil(t, mc.FearGreed)
}

func TestPortfolioHistoryNewestDateFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, date := range []string{"2024-03-02", "2024-03-01", "2024-03-03"} {
		require.NoError(t, s.UpsertSnapshot(ctx, Snapshot{Date: date, TotalValue: 1000000}))
	}

	history, err := s.PortfolioHistory(ctx, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2024-03-03", history[0].Date)
	assert.Equal(t, "2024-03-02", history[1].Date)
}
