package analytics

import (
	"context"
	"path/filepath"
	"testing"

	"bitjournal/internal/store/tradelog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T) (*Analyzer, *tradelog.Store) {
	t.Helper()
	s, err := tradelog.Open(filepath.Join(t.TempDir(), "trading.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, DefaultSimCapital), s
}

func recordTrade(t *testing.T, s *tradelog.Store, tr tradelog.Trade) {
	t.Helper()
	_, err := s.RecordTrade(context.Background(), tr)
	require.NoError(t, err)
}

func TestNewClampsCapital(t *testing.T) {
	a := New(nil, -5)
	assert.InDelta(t, DefaultSimCapital, a.simCapital, 1e-9)
}

func TestAnalyzePerformanceReplay(t *testing.T) {
	a, s := newTestAnalyzer(t)
	ctx := context.Background()

	recordTrade(t, s, tradelog.Trade{
		Side: "buy", Price: 1000000, Amount: 1, TotalValue: 1000000, Success: true,
	})
	recordTrade(t, s, tradelog.Trade{
		Side: "sell", Price: 1000000, Amount: 1, TotalValue: 1200000, Success: true,
	})

	perf, err := a.AnalyzePerformance(ctx, 7)
	require.NoError(t, err)

	// 只有卖出参与胜负分类，买入不计入
	assert.Equal(t, 1, perf.TotalTrades)
	assert.Equal(t, 1, perf.SuccessfulTrades)
	assert.Equal(t, 0, perf.FailedTrades)
	assert.InDelta(t, 100, perf.WinRate, 1e-9)
	assert.InDelta(t, 200000, perf.TotalProfitLoss, 1e-9)
	assert.InDelta(t, 1200000, perf.FinalKRWBalance, 1e-9)
	assert.InDelta(t, 0, perf.FinalBTCBalance, 1e-9)
	assert.Len(t, perf.Trades, 2)
}

func TestAnalyzePerformanceEmptyWindow(t *testing.T) {
	a, _ := newTestAnalyzer(t)

	perf, err := a.AnalyzePerformance(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, perf.TotalTrades)
	assert.Zero(t, perf.TotalProfitLoss)
	assert.Zero(t, perf.WinRate)
	assert.Empty(t, perf.Trades)
	// 窗口边界照常返回
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, perf.PeriodStart)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, perf.PeriodEnd)
}

func TestAnalyzePerformanceExcludesFailures(t *testing.T) {
	a, s := newTestAnalyzer(t)

	recordTrade(t, s, tradelog.Trade{
		Side: "sell", Price: 1000000, Amount: 1, TotalValue: 2000000,
		Success: false, ErrorMessage: "order rejected",
	})

	perf, err := a.AnalyzePerformance(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, perf.TotalTrades)
	assert.Empty(t, perf.Trades)
}

func TestAnalyzePerformanceTieIsLoss(t *testing.T) {
	a, s := newTestAnalyzer(t)

	recordTrade(t, s, tradelog.Trade{
		Side: "sell", Price: 1000000, Amount: 1, TotalValue: 1000000, Success: true,
	})

	perf, err := a.AnalyzePerformance(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, perf.TotalTrades)
	assert.Equal(t, 0, perf.SuccessfulTrades)
	assert.Equal(t, 1, perf.FailedTrades)
	assert.Zero(t, perf.WinRate)
}

func TestTradingStats(t *testing.T) {
	a, s := newTestAnalyzer(t)
	ctx := context.Background()

	recordTrade(t, s, tradelog.Trade{Side: "buy", Price: 1000000, Amount: 0.1, TotalValue: 100000, Fee: 50, Success: true})
	recordTrade(t, s, tradelog.Trade{Side: "buy", Price: 1000000, Amount: 0.1, TotalValue: 100000, Fee: 50, Success: true})
	recordTrade(t, s, tradelog.Trade{Side: "sell", Price: 1100000, Amount: 0.2, TotalValue: 220000, Fee: 110, Success: true})
	recordTrade(t, s, tradelog.Trade{Side: "sell", Price: 1100000, Amount: 0.2, TotalValue: 220000, Fee: 999, Success: false})

	for _, decision := range []string{"buy", "buy", "hold"} {
		_, err := s.RecordAnalysis(ctx, tradelog.MarketSnapshot{},
			tradelog.DecisionSummary{Decision: decision}, "2024-03-01T09:00:00", "")
		require.NoError(t, err)
	}

	stats, err := a.TradingStats(ctx)
	require.NoError(t, err)
	// 全量口径：所有成功交易都计，与回放口径不同
	assert.Equal(t, 3, stats.TotalTrades)
	assert.Equal(t, 2, stats.BuyCount)
	assert.Equal(t, 1, stats.SellCount)
	assert.InDelta(t, 210, stats.TotalFee, 1e-9)
	assert.Equal(t, map[string]int{"buy": 2, "hold": 1}, stats.AIDecisions)
}
