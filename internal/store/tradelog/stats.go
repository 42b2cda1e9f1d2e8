package tradelog

import (
	"context"
	"database/sql"
	"time"

	"bitjournal/internal/store/model"
)

// CountSuccessfulTrades 返回成功交易总数（买卖都计）。
func (s *Store) CountSuccessfulTrades(ctx context.Context) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM actual_trades WHERE success = 1`).Scan(&n)
	return n, err
}

// CountTradesBySide 返回成功交易按方向的计数。
func (s *Store) CountTradesBySide(ctx context.Context) (map[model.TradeSide]int, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT trade_type, COUNT(*) FROM actual_trades
		WHERE success = 1
		GROUP BY trade_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[model.TradeSide]int)
	for rows.Next() {
		var side string
		var n int
		if err := rows.Scan(&side, &n); err != nil {
			return nil, err
		}
		out[model.TradeSide(side)] = n
	}
	return out, rows.Err()
}

// SumSuccessfulFees 返回成功交易的手续费合计。
func (s *Store) SumSuccessfulFees(ctx context.Context) (float64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	var fee sql.NullFloat64
	err = db.QueryRowContext(ctx,
		`SELECT SUM(fee) FROM actual_trades WHERE success = 1`).Scan(&fee)
	if err != nil {
		return 0, err
	}
	return fee.Float64, nil
}

// CountDecisions 返回所有分析日志按决策标签的频次。
// 决策计数与交易成败无关。
func (s *Store) CountDecisions(ctx context.Context) (map[string]int, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT ai_decision, COUNT(*) FROM trading_logs
		GROUP BY ai_decision`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var decision string
		var n int
		if err := rows.Scan(&decision, &n); err != nil {
			return nil, err
		}
		out[decision] = n
	}
	return out, rows.Err()
}

// SuccessfulTradesBetween 返回 created_at（UTC）在 [start, end] 内的
// 成功交易，按时间升序，供回放模拟按时序消费。
func (s *Store) SuccessfulTradesBetween(ctx context.Context, start, end time.Time) ([]Trade, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT `+tradeColumns+` FROM actual_trades
		WHERE created_at BETWEEN ? AND ? AND success = 1
		ORDER BY created_at ASC, id ASC`,
		start.UTC().Format(sqliteTimeLayout), end.UTC().Format(sqliteTimeLayout))
	if err != nil {
		return nil, err
	}
	return collectTrades(rows)
}
