package tradelog

import (
	"context"
	"testing"
	"time"

	"bitjournal/internal/store/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeCounters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, tr := range []Trade{
		{Side: "buy", Price: 50000000, Amount: 0.002, TotalValue: 100000, Fee: 50, Success: true},
		{Side: "buy", Price: 51000000, Amount: 0.002, TotalValue: 102000, Fee: 51, Success: true},
		{Side: "sell", Price: 52000000, Amount: 0.002, TotalValue: 104000, Fee: 52, Success: true},
		{Side: "sell", Price: 52000000, Amount: 0.002, TotalValue: 104000, Fee: 999, Success: false},
	} {
		_, err := s.RecordTrade(ctx, tr)
		require.NoError(t, err)
	}

	total, err := s.CountSuccessfulTrades(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	bySide, err := s.CountTradesBySide(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, bySide[model.TradeSideBuy])
	assert.Equal(t, 1, bySide[model.TradeSideSell])

	fees, err := s.SumSuccessfulFees(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 153, fees, 1e-9)
}

func TestSumSuccessfulFeesEmpty(t *testing.T) {
	s := newTestStore(t)
	fees, err := s.SumSuccessfulFees(context.Background())
	require.NoError(t, err)
	assert.Zero(t, fees)
}

func TestCountDecisions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, decision := range []string{"buy", "buy", "hold"} {
		_, err := s.RecordAnalysis(ctx, MarketSnapshot{}, DecisionSummary{Decision: decision},
			"2024-03-01T09:00:00", "")
		require.NoError(t, err)
	}

	decisions, err := s.CountDecisions(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"buy": 2, "hold": 1}, decisions)
}

func TestSuccessfulTradesBetween(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTradeAt(t, s, "sell", 120000, 1, "2024-03-02 10:00:00")
	insertTradeAt(t, s, "buy", 100000, 1, "2024-03-01 10:00:00")
	insertTradeAt(t, s, "sell", 110000, 0, "2024-03-01 12:00:00")
	insertTradeAt(t, s, "buy", 90000, 1, "2024-04-01 10:00:00")

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	trades, err := s.SuccessfulTradesBetween(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	// 时间升序，失败行与窗口外的行都不出现
	assert.Equal(t, "buy", string(trades[0].Side))
	assert.Equal(t, "sell", string(trades[1].Side))
}
