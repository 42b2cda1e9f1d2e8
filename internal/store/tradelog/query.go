package tradelog

import (
	"context"
	"database/sql"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultLogLimit        = 10
	defaultHistoryLimit    = 30
	defaultReflectionLimit = 5
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const analysisLogColumns = `id, timestamp, current_price, krw_balance, btc_balance,
	total_portfolio_value, investment_status_json, ai_decision, ai_reason, ai_confidence,
	ai_analysis_full_json, market_data_json, analysis_type, created_at`

func scanAnalysisLog(sc rowScanner) (AnalysisLog, error) {
	var (
		rec        AnalysisLog
		krw        sql.NullFloat64
		btc        sql.NullFloat64
		total      sql.NullFloat64
		investment sql.NullString
		reason     sql.NullString
		confidence sql.NullString
		analysis   sql.NullString
		market     sql.NullString
		atype      sql.NullString
	)
	if err := sc.Scan(&rec.ID, &rec.Timestamp, &rec.CurrentPrice, &krw, &btc, &total,
		&investment, &rec.Decision, &reason, &confidence, &analysis, &market, &atype,
		&rec.CreatedAt); err != nil {
		return rec, err
	}
	rec.KRWBalance = krw.Float64
	rec.BTCBalance = btc.Float64
	rec.TotalPortfolioValue = total.Float64
	rec.InvestmentStatusJSON = investment.String
	rec.Reason = reason.String
	rec.Confidence = confidence.String
	rec.AnalysisJSON = analysis.String
	rec.MarketDataJSON = market.String
	rec.AnalysisType = atype.String
	return rec, nil
}

const tradeColumns = `id, timestamp, trade_type, price, amount, total_value,
	fee, order_id, success, error_message, created_at`

func scanTrade(sc rowScanner) (Trade, error) {
	var (
		rec     Trade
		fee     sql.NullFloat64
		orderID sql.NullString
		success sql.NullInt64
		errMsg  sql.NullString
	)
	if err := sc.Scan(&rec.ID, &rec.Timestamp, &rec.Side, &rec.Price, &rec.Amount,
		&rec.TotalValue, &fee, &orderID, &success, &errMsg, &rec.CreatedAt); err != nil {
		return rec, err
	}
	rec.Fee = fee.Float64
	rec.OrderID = orderID.String
	rec.Success = success.Int64 != 0
	rec.ErrorMessage = errMsg.String
	return rec, nil
}

func collectTrades(rows *sql.Rows) ([]Trade, error) {
	defer rows.Close()
	var out []Trade
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecentLogs 返回最近的分析日志，新在前。limit<=0 时取 10。
func (s *Store) RecentLogs(ctx context.Context, limit int) ([]AnalysisLog, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLogLimit
	}
	rows, err := db.QueryContext(ctx, `
		SELECT `+analysisLogColumns+` FROM trading_logs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AnalysisLog
	for rows.Next() {
		rec, err := scanAnalysisLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LogsBetween 返回分析日志，旧在前。过滤条件是服务端的 created_at
// （UTC），不是调用方提供的 timestamp 字段，调用方需要区分两者。
func (s *Store) LogsBetween(ctx context.Context, start, end time.Time) ([]AnalysisLog, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT `+analysisLogColumns+` FROM trading_logs
		WHERE created_at BETWEEN ? AND ?
		ORDER BY created_at ASC, id ASC`,
		start.UTC().Format(sqliteTimeLayout), end.UTC().Format(sqliteTimeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AnalysisLog
	for rows.Next() {
		rec, err := scanAnalysisLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// TradesOnDate 返回 created_at（UTC）落在指定日历日（"2006-01-02"）的交易，
// 新在前，相邻日期不计入。
func (s *Store) TradesOnDate(ctx context.Context, date string) ([]Trade, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT `+tradeColumns+` FROM actual_trades
		WHERE DATE(created_at) = ?
		ORDER BY created_at DESC, id DESC`, date)
	if err != nil {
		return nil, err
	}
	return collectTrades(rows)
}

// TradesInRange 返回 created_at（UTC）日历日落在 [startDate, endDate]
// 闭区间内的交易，新在前。
func (s *Store) TradesInRange(ctx context.Context, startDate, endDate string) ([]Trade, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT `+tradeColumns+` FROM actual_trades
		WHERE DATE(created_at) BETWEEN ? AND ?
		ORDER BY created_at DESC, id DESC`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return collectTrades(rows)
}

// PortfolioHistory 返回组合快照，日期新在前。limit<=0 时取 30。
func (s *Store) PortfolioHistory(ctx context.Context, limit int) ([]Snapshot, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, date, krw_balance, btc_balance, btc_avg_price,
			total_value, profit_loss, profit_loss_percent, created_at
		FROM portfolio_snapshots
		ORDER BY date DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Snapshot
	for rows.Next() {
		var (
			rec      Snapshot
			avgPrice sql.NullFloat64
			pl       sql.NullFloat64
			plPct    sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.KRWBalance, &rec.BTCBalance,
			&avgPrice, &rec.TotalValue, &pl, &plPct, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.BTCAvgPrice = avgPrice.Float64
		rec.ProfitLoss = pl.Float64
		rec.ProfitLossPercent = plPct.Float64
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecentReflections 返回最近的自省记录，新在前。limit<=0 时取 5。
func (s *Store) RecentReflections(ctx context.Context, limit int) ([]Reflection, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultReflectionLimit
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, reflection_date, analysis_period_start, analysis_period_end,
			total_trades_analyzed, successful_trades, failed_trades,
			total_profit_loss, win_rate, market_conditions_then,
			market_conditions_now, reflection_content, lessons_learned,
			improvement_suggestions, confidence_adjustment, strategy_modifications,
			created_at
		FROM self_reflections
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Reflection
	for rows.Next() {
		var (
			rec     Reflection
			condsT  sql.NullString
			condsN  sql.NullString
			lessons sql.NullString
			improve sql.NullString
			mods    sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.ReflectionDate, &rec.PeriodStart, &rec.PeriodEnd,
			&rec.TotalTradesAnalyzed, &rec.SuccessfulTrades, &rec.FailedTrades,
			&rec.TotalProfitLoss, &rec.WinRate, &condsT, &condsN, &rec.Content,
			&lessons, &improve, &rec.ConfidenceAdjustment, &mods, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.MarketConditionsThen = condsT.String
		rec.MarketConditionsNow = condsN.String
		rec.LessonsLearned = lessons.String
		rec.ImprovementSuggestions = improve.String
		rec.StrategyModifications = mods.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MarketContextAt 返回调用方时间戳 <= timestamp 的最近一条分析日志的市场上下文。
// market_data_json 解码失败时退化为仅含价格与时间戳；没有匹配行时返回 (nil, nil)。
func (s *Store) MarketContextAt(ctx context.Context, timestamp string) (*MarketContext, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx, `
		SELECT `+analysisLogColumns+` FROM trading_logs
		WHERE timestamp <= ?
		ORDER BY timestamp DESC
		LIMIT 1`, timestamp)
	rec, err := scanAnalysisLog(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	mc := &MarketContext{Price: rec.CurrentPrice, Timestamp: rec.Timestamp}
	if gjson.Valid(rec.MarketDataJSON) {
		if ind := gjson.Get(rec.MarketDataJSON, "technical_indicators"); ind.Exists() {
			mc.Indicators = []byte(ind.Raw)
		}
		if fg := gjson.Get(rec.MarketDataJSON, "fear_greed_index"); fg.Exists() {
			mc.FearGreed = []byte(fg.Raw)
		}
	}
	return mc, nil
}
