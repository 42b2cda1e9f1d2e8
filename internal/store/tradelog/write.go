package tradelog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bitjournal/internal/pkg/jsonutil"
	"bitjournal/internal/store/model"

	"github.com/tidwall/gjson"
)

// DefaultAnalysisType 是未指定时的分析类型标签。
const DefaultAnalysisType = "enhanced"

// RecordAnalysis 持久化一条 AI 决策周期。timestamp 由调用方提供（生产方时钟），
// analysisType 为空则取 DefaultAnalysisType。缺失字段写入零值/空串，不会使写入失败。
// 返回自增主键。
func (s *Store) RecordAnalysis(ctx context.Context, m MarketSnapshot, a DecisionSummary, timestamp, analysisType string) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(analysisType) == "" {
		analysisType = DefaultAnalysisType
	}

	investmentBlob := jsonutil.MarshalString(m.Investment)
	marketBlob := strings.TrimSpace(string(m.Raw))
	if marketBlob == "" {
		marketBlob = jsonutil.MarshalString(m)
	} else if sub := gjson.Get(marketBlob, "investment_status"); sub.IsObject() {
		// 完整载荷在场时保留其原始 investment_status，未提升的键不丢失。
		investmentBlob = sub.Raw
	}
	analysisBlob := strings.TrimSpace(string(a.Raw))
	if analysisBlob == "" {
		analysisBlob = jsonutil.MarshalString(a)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO trading_logs (
			timestamp, current_price, krw_balance, btc_balance,
			total_portfolio_value, investment_status_json,
			ai_decision, ai_reason, ai_confidence,
			ai_analysis_full_json, market_data_json, analysis_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		timestamp,
		m.CurrentPrice,
		m.Investment.KRWBalance,
		m.Investment.BTCBalance,
		m.Investment.TotalPortfolioValue,
		investmentBlob,
		a.Decision,
		a.Reason,
		a.Confidence,
		analysisBlob,
		marketBlob,
		analysisType,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordTrade 持久化一笔交易。Timestamp 为空则取当前时间。
// Success=false 表示业务层失败（如交易所拒单），仍然落库作审计；
// 存储层失败通过返回的 error 传播。返回自增主键。
func (s *Store) RecordTrade(ctx context.Context, t Trade) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	ts := strings.TrimSpace(t.Timestamp)
	if ts == "" {
		ts = time.Now().Format(time.RFC3339)
	}
	side := model.TradeSide(strings.ToLower(strings.TrimSpace(string(t.Side))))

	res, err := db.ExecContext(ctx, `
		INSERT INTO actual_trades (
			timestamp, trade_type, price, amount, total_value,
			fee, order_id, success, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts,
		string(side),
		t.Price,
		t.Amount,
		t.TotalValue,
		t.Fee,
		t.OrderID,
		boolToInt(t.Success),
		t.ErrorMessage,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpsertSnapshot 写入某日历日的组合快照。同日已有快照时替换全部非键字段，
// 保证“当日快照”始终只有一行且为最新。
func (s *Store) UpsertSnapshot(ctx context.Context, sn Snapshot) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if strings.TrimSpace(sn.Date) == "" {
		return fmt.Errorf("snapshot date cannot be empty")
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO portfolio_snapshots (
			date, krw_balance, btc_balance, btc_avg_price,
			total_value, profit_loss, profit_loss_percent
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			krw_balance = excluded.krw_balance,
			btc_balance = excluded.btc_balance,
			btc_avg_price = excluded.btc_avg_price,
			total_value = excluded.total_value,
			profit_loss = excluded.profit_loss,
			profit_loss_percent = excluded.profit_loss_percent,
			created_at = CURRENT_TIMESTAMP`,
		sn.Date,
		sn.KRWBalance,
		sn.BTCBalance,
		sn.BTCAvgPrice,
		sn.TotalValue,
		sn.ProfitLoss,
		sn.ProfitLossPercent,
	)
	return err
}

// RecordReflection 持久化一条自省记录，append-only。
// 所有字段可缺省；ReflectionDate 为空则取当前时间。返回自增主键。
func (s *Store) RecordReflection(ctx context.Context, r Reflection) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	date := strings.TrimSpace(r.ReflectionDate)
	if date == "" {
		date = time.Now().Format(time.RFC3339)
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO self_reflections (
			reflection_date, analysis_period_start, analysis_period_end,
			total_trades_analyzed, successful_trades, failed_trades,
			total_profit_loss, win_rate, market_conditions_then,
			market_conditions_now, reflection_content, lessons_learned,
			improvement_suggestions, confidence_adjustment, strategy_modifications
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		date,
		r.PeriodStart,
		r.PeriodEnd,
		r.TotalTradesAnalyzed,
		r.SuccessfulTrades,
		r.FailedTrades,
		r.TotalProfitLoss,
		r.WinRate,
		r.MarketConditionsThen,
		r.MarketConditionsNow,
		r.Content,
		r.LessonsLearned,
		r.ImprovementSuggestions,
		r.ConfidenceAdjustment,
		r.StrategyModifications,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
