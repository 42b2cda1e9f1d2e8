package analytics

import (
	"sort"
	"time"

	"bitjournal/internal/store/model"
	"bitjournal/internal/store/tradelog"

	"github.com/shopspring/decimal"
)

// Overview 是报表首屏指标：窗口内全部交易行（含失败行，供审计口径）
// 的计数与金额汇总。NetProfit = 卖出总额 - 买入总额，ROI 以买入总额为基数。
type Overview struct {
	TotalTrades    int     `json:"total_trades"`
	BuyCount       int     `json:"buy_count"`
	SellCount      int     `json:"sell_count"`
	TotalBuyValue  float64 `json:"total_buy_value"`
	TotalSellValue float64 `json:"total_sell_value"`
	TotalFees      float64 `json:"total_fees"`
	NetProfit      float64 `json:"net_profit"`
	ROI            float64 `json:"roi"`
}

// BuildOverview 汇总一组交易行。金额用 decimal 累加，避免长序列浮点漂移。
func BuildOverview(trades []tradelog.Trade) Overview {
	ov := Overview{TotalTrades: len(trades)}
	buyValue := decimal.Zero
	sellValue := decimal.Zero
	fees := decimal.Zero
	for _, t := range trades {
		switch t.Side {
		case model.TradeSideBuy:
			ov.BuyCount++
			buyValue = buyValue.Add(decimal.NewFromFloat(t.TotalValue))
		case model.TradeSideSell:
			ov.SellCount++
			sellValue = sellValue.Add(decimal.NewFromFloat(t.TotalValue))
		}
		fees = fees.Add(decimal.NewFromFloat(t.Fee))
	}
	net := sellValue.Sub(buyValue)
	ov.TotalBuyValue = buyValue.InexactFloat64()
	ov.TotalSellValue = sellValue.InexactFloat64()
	ov.TotalFees = fees.InexactFloat64()
	ov.NetProfit = net.InexactFloat64()
	if buyValue.IsPositive() {
		ov.ROI = net.Div(buyValue).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return ov
}

// MonthlyCount 是某个月（"2006-01"）的成功交易笔数。
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// MonthlyTradeCounts 按月聚合成功交易，月份升序。
// timestamp 解析失败的行跳过（旧数据里存在非标准时间格式）。
func MonthlyTradeCounts(trades []tradelog.Trade) []MonthlyCount {
	byMonth := make(map[string]int)
	for _, t := range trades {
		if !t.Success {
			continue
		}
		ts, err := parseTradeTime(t.Timestamp)
		if err != nil {
			continue
		}
		byMonth[ts.Format("2006-01")]++
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	out := make([]MonthlyCount, 0, len(months))
	for _, m := range months {
		out = append(out, MonthlyCount{Month: m, Count: byMonth[m]})
	}
	return out
}

func parseTradeTime(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
