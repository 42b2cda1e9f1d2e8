// Package analytics 从交易账本推导绩效统计：聚合计数与按时序回放的
// 简化盈亏模拟。回放使用名义起始资金，不还原真实账户历史。
package analytics

import (
	"context"
	"time"

	"bitjournal/internal/store/model"
	"bitjournal/internal/store/tradelog"
)

// DefaultSimCapital 是回放模拟的名义起始资金（KRW）。
const DefaultSimCapital = 1_000_000

// DefaultWindowDays 是绩效分析的默认窗口。
const DefaultWindowDays = 7

const dateLayout = "2006-01-02"

// Analyzer 在存储之上计算统计与回放结果，自身不持有状态。
type Analyzer struct {
	store      *tradelog.Store
	simCapital float64
}

func New(store *tradelog.Store, simCapital float64) *Analyzer {
	if simCapital <= 0 {
		simCapital = DefaultSimCapital
	}
	return &Analyzer{store: store, simCapital: simCapital}
}

// TradingStats 是全量聚合计数。TotalTrades 计所有成功交易（买卖都计），
// 与 Performance.TotalTrades（只计被分类的卖出）是两个不同的分母。
type TradingStats struct {
	TotalTrades int            `json:"total_trades"`
	BuyCount    int            `json:"buy_count"`
	SellCount   int            `json:"sell_count"`
	TotalFee    float64        `json:"total_fee"`
	AIDecisions map[string]int `json:"ai_decisions"`
}

// TradingStats 汇总成功交易计数、方向分布、手续费合计与决策频次。
// 决策频次遍历所有分析日志，与交易成败无关。
func (a *Analyzer) TradingStats(ctx context.Context) (TradingStats, error) {
	var stats TradingStats
	total, err := a.store.CountSuccessfulTrades(ctx)
	if err != nil {
		return stats, err
	}
	bySide, err := a.store.CountTradesBySide(ctx)
	if err != nil {
		return stats, err
	}
	fees, err := a.store.SumSuccessfulFees(ctx)
	if err != nil {
		return stats, err
	}
	decisions, err := a.store.CountDecisions(ctx)
	if err != nil {
		return stats, err
	}
	stats.TotalTrades = total
	stats.BuyCount = bySide[model.TradeSideBuy]
	stats.SellCount = bySide[model.TradeSideSell]
	stats.TotalFee = fees
	stats.AIDecisions = decisions
	return stats, nil
}

// Performance 是窗口内回放模拟的结果。
// TotalTrades 只计被分类的卖出（买入不参与胜负判定）；
// SuccessfulTrades/FailedTrades 是其中的盈利/亏损笔数，利润为 0 记为亏损。
type Performance struct {
	TotalTrades      int             `json:"total_trades"`
	SuccessfulTrades int             `json:"successful_trades"`
	FailedTrades     int             `json:"failed_trades"`
	TotalProfitLoss  float64         `json:"total_profit_loss"`
	WinRate          float64         `json:"win_rate"`
	PeriodStart      string          `json:"analysis_period_start"`
	PeriodEnd        string          `json:"analysis_period_end"`
	FinalKRWBalance  float64         `json:"final_krw_balance"`
	FinalBTCBalance  float64         `json:"final_btc_balance"`
	Trades           []tradelog.Trade `json:"trades_data,omitempty"`
}

// AnalyzePerformance 对 [now-windowDays, now] 内的成功交易做按时序回放：
// 从名义起始资金出发，买入增加 BTC（total/price）并扣减 KRW，卖出减少 BTC、
// 回收 KRW 并按 total - amount*price 计一笔利润。窗口内没有交易时返回
// 零值结果（带格式化的窗口边界），不是错误。
func (a *Analyzer) AnalyzePerformance(ctx context.Context, windowDays int) (Performance, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	end := time.Now()
	start := end.AddDate(0, 0, -windowDays)

	perf := Performance{
		PeriodStart: start.Format(dateLayout),
		PeriodEnd:   end.Format(dateLayout),
	}

	trades, err := a.store.SuccessfulTradesBetween(ctx, start, end)
	if err != nil {
		return perf, err
	}
	if len(trades) == 0 {
		return perf, nil
	}

	btcBalance := 0.0
	krwBalance := a.simCapital
	for _, t := range trades {
		switch t.Side {
		case model.TradeSideBuy:
			if t.Price > 0 {
				btcBalance += t.TotalValue / t.Price
			}
			krwBalance -= t.TotalValue
		case model.TradeSideSell:
			btcBalance -= t.Amount
			krwBalance += t.TotalValue
			profit := t.TotalValue - t.Amount*t.Price
			perf.TotalProfitLoss += profit
			if profit > 0 {
				perf.SuccessfulTrades++
			} else {
				perf.FailedTrades++
			}
		}
	}
	perf.TotalTrades = perf.SuccessfulTrades + perf.FailedTrades
	if perf.TotalTrades > 0 {
		perf.WinRate = float64(perf.SuccessfulTrades) / float64(perf.TotalTrades) * 100
	}
	perf.FinalKRWBalance = krwBalance
	perf.FinalBTCBalance = btcBalance
	perf.Trades = trades
	return perf, nil
}
