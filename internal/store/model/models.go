package model

import (
	"gorm.io/datatypes"
)

// TradeSide 是交易方向（"buy" / "sell"）。
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// TradingLogModel 对应 trading_logs 表：一条 AI 决策周期记录。
// 三个 *_json 列保存不透明的序列化载荷，消费方自行解码并容忍失败。
type TradingLogModel struct {
	ID                   int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp            string         `gorm:"column:timestamp;not null"`
	CurrentPrice         float64        `gorm:"column:current_price;not null"`
	KRWBalance           float64        `gorm:"column:krw_balance"`
	BTCBalance           float64        `gorm:"column:btc_balance"`
	TotalPortfolioValue  float64        `gorm:"column:total_portfolio_value"`
	InvestmentStatusJSON datatypes.JSON `gorm:"column:investment_status_json;type:TEXT"`
	AIDecision           string         `gorm:"column:ai_decision;not null"`
	AIReason             string         `gorm:"column:ai_reason"`
	AIConfidence         string         `gorm:"column:ai_confidence"`
	AIAnalysisFullJSON   datatypes.JSON `gorm:"column:ai_analysis_full_json;type:TEXT"`
	MarketDataJSON       datatypes.JSON `gorm:"column:market_data_json;type:TEXT"`
	AnalysisType         string         `gorm:"column:analysis_type"`
	CreatedAt            string         `gorm:"column:created_at;type:DATETIME;default:CURRENT_TIMESTAMP"`
}

func (TradingLogModel) TableName() string { return "trading_logs" }

// ActualTradeModel 对应 actual_trades 表：一笔已执行（或失败）的交易。
// success=false 的行保留作审计，但被统计与回放排除。
type ActualTradeModel struct {
	ID           int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp    string  `gorm:"column:timestamp;not null"`
	TradeType    string  `gorm:"column:trade_type;not null"`
	Price        float64 `gorm:"column:price;not null"`
	Amount       float64 `gorm:"column:amount;not null"`
	TotalValue   float64 `gorm:"column:total_value;not null"`
	Fee          float64 `gorm:"column:fee;default:0"`
	OrderID      string  `gorm:"column:order_id"`
	Success      bool    `gorm:"column:success;default:true"`
	ErrorMessage string  `gorm:"column:error_message"`
	CreatedAt    string  `gorm:"column:created_at;type:DATETIME;default:CURRENT_TIMESTAMP"`
}

func (ActualTradeModel) TableName() string { return "actual_trades" }

// PortfolioSnapshotModel 对应 portfolio_snapshots 表：每个日历日至多一行。
type PortfolioSnapshotModel struct {
	ID                int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Date              string  `gorm:"column:date;not null;uniqueIndex:idx_portfolio_snapshots_date"`
	KRWBalance        float64 `gorm:"column:krw_balance;not null"`
	BTCBalance        float64 `gorm:"column:btc_balance;not null"`
	BTCAvgPrice       float64 `gorm:"column:btc_avg_price"`
	TotalValue        float64 `gorm:"column:total_value;not null"`
	ProfitLoss        float64 `gorm:"column:profit_loss;default:0"`
	ProfitLossPercent float64 `gorm:"column:profit_loss_percent;default:0"`
	CreatedAt         string  `gorm:"column:created_at;type:DATETIME;default:CURRENT_TIMESTAMP"`
}

func (PortfolioSnapshotModel) TableName() string { return "portfolio_snapshots" }

// SelfReflectionModel 对应 self_reflections 表：周期性自省记录，append-only。
type SelfReflectionModel struct {
	ID                     int64   `gorm:"column:id;primaryKey;autoIncrement"`
	ReflectionDate         string  `gorm:"column:reflection_date;not null"`
	AnalysisPeriodStart    string  `gorm:"column:analysis_period_start;not null"`
	AnalysisPeriodEnd      string  `gorm:"column:analysis_period_end;not null"`
	TotalTradesAnalyzed    int     `gorm:"column:total_trades_analyzed;default:0"`
	SuccessfulTrades       int     `gorm:"column:successful_trades;default:0"`
	FailedTrades           int     `gorm:"column:failed_trades;default:0"`
	TotalProfitLoss        float64 `gorm:"column:total_profit_loss;default:0"`
	WinRate                float64 `gorm:"column:win_rate;default:0"`
	MarketConditionsThen   string  `gorm:"column:market_conditions_then"`
	MarketConditionsNow    string  `gorm:"column:market_conditions_now"`
	ReflectionContent      string  `gorm:"column:reflection_content;not null"`
	LessonsLearned         string  `gorm:"column:lessons_learned"`
	ImprovementSuggestions string  `gorm:"column:improvement_suggestions"`
	ConfidenceAdjustment   float64 `gorm:"column:confidence_adjustment;default:0"`
	StrategyModifications  string  `gorm:"column:strategy_modifications"`
	CreatedAt              string  `gorm:"column:created_at;type:DATETIME;default:CURRENT_TIMESTAMP"`
}

func (SelfReflectionModel) TableName() string { return "self_reflections" }
