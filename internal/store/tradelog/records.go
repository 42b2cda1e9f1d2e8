package tradelog

import (
	"encoding/json"

	"bitjournal/internal/store/model"
)

// InvestmentStatus 是提升为索引列的投资状态字段。
// 存储层不校验余额与总值的一致性，这是生产方的责任。
type InvestmentStatus struct {
	KRWBalance          float64 `json:"krw_balance"`
	BTCBalance          float64 `json:"btc_balance"`
	TotalPortfolioValue float64 `json:"total_portfolio_value"`
}

// MarketSnapshot 是写入路径接收的市场数据：提升字段是结构化的，
// Raw 保留生产方的完整载荷原文（为空时由结构化部分重建）。
type MarketSnapshot struct {
	CurrentPrice float64          `json:"current_price"`
	Investment   InvestmentStatus `json:"investment_status"`
	Raw          json.RawMessage  `json:"-"`
}

// DecisionSummary 是一次 AI 决策的提升字段加完整载荷。
type DecisionSummary struct {
	Decision   string          `json:"decision"`
	Reason     string          `json:"reason"`
	Confidence string          `json:"confidence"`
	Raw        json.RawMessage `json:"-"`
}

// AnalysisLog 是 trading_logs 的一行，在存储边界解码一次后向下游传递。
// 三个 *JSON 字段按原文透传，消费方自行解码并容忍失败。
type AnalysisLog struct {
	ID                   int64   `json:"id"`
	Timestamp            string  `json:"timestamp"`
	CurrentPrice         float64 `json:"current_price"`
	KRWBalance           float64 `json:"krw_balance"`
	BTCBalance           float64 `json:"btc_balance"`
	TotalPortfolioValue  float64 `json:"total_portfolio_value"`
	InvestmentStatusJSON string  `json:"investment_status_json"`
	Decision             string  `json:"ai_decision"`
	Reason               string  `json:"ai_reason"`
	Confidence           string  `json:"ai_confidence"`
	AnalysisJSON         string  `json:"ai_analysis_full_json"`
	MarketDataJSON       string  `json:"market_data_json"`
	AnalysisType         string  `json:"analysis_type"`
	CreatedAt            string  `json:"created_at"`
}

// Trade 是 actual_trades 的一行。写入时 ID/CreatedAt 由存储层赋值；
// Timestamp 为空则取当前时间。Success=false 的行保留作审计，
// 但被统计与回放排除。
type Trade struct {
	ID           int64           `json:"id"`
	Timestamp    string          `json:"timestamp"`
	Side         model.TradeSide `json:"trade_type"`
	Price        float64         `json:"price"`
	Amount       float64         `json:"amount"`
	TotalValue   float64         `json:"total_value"`
	Fee          float64         `json:"fee"`
	OrderID      string          `json:"order_id,omitempty"`
	Success      bool            `json:"success"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

// Snapshot 是 portfolio_snapshots 的一行，每个日历日至多一条。
type Snapshot struct {
	ID                int64   `json:"id"`
	Date              string  `json:"date"`
	KRWBalance        float64 `json:"krw_balance"`
	BTCBalance        float64 `json:"btc_balance"`
	BTCAvgPrice       float64 `json:"btc_avg_price"`
	TotalValue        float64 `json:"total_value"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
	CreatedAt         string  `json:"created_at"`
}

// Reflection 是 self_reflections 的一行。写入时所有字段可缺省：
// 数值为 0、文本为空串、ReflectionDate 为空则取当前时间。
type Reflection struct {
	ID                     int64   `json:"id"`
	ReflectionDate         string  `json:"reflection_date"`
	PeriodStart            string  `json:"analysis_period_start"`
	PeriodEnd              string  `json:"analysis_period_end"`
	TotalTradesAnalyzed    int     `json:"total_trades_analyzed"`
	SuccessfulTrades       int     `json:"successful_trades"`
	FailedTrades           int     `json:"failed_trades"`
	TotalProfitLoss        float64 `json:"total_profit_loss"`
	WinRate                float64 `json:"win_rate"`
	MarketConditionsThen   string  `json:"market_conditions_then"`
	MarketConditionsNow    string  `json:"market_conditions_now"`
	Content                string  `json:"reflection_content"`
	LessonsLearned         string  `json:"lessons_learned"`
	ImprovementSuggestions string  `json:"improvement_suggestions"`
	ConfidenceAdjustment   float64 `json:"confidence_adjustment"`
	StrategyModifications  string  `json:"strategy_modifications"`
	CreatedAt              string  `json:"created_at"`
}

// MarketContext 是某个时点的市场上下文，由 market_data_json 尽力解码得到。
// 解码失败时退化为仅含 Price 与 Timestamp。
type MarketContext struct {
	Price      float64         `json:"price"`
	Indicators json.RawMessage `json:"technical_indicators,omitempty"`
	FearGreed  json.RawMessage `json:"fear_greed,omitempty"`
	Timestamp  string          `json:"timestamp"`
}
