package reporthttp

import (
	"fmt"
	"net/http"
	"time"

	"bitjournal/internal/analytics"
	"bitjournal/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	chartWidthPx       = 1200
	chartHeightPx      = 500
	portfolioChartSize = 100

	colorTotalValue = "#FF6B35"
	colorKRWBalance = "#00D084"
	colorBTCValue   = "#FFA500"
)

// handlePortfolioChart 渲染组合价值变化折线图：总资产、KRW 余额与
// BTC 持仓价值（btc_balance * btc_avg_price），按日期升序。
func (r *Router) handlePortfolioChart(c *gin.Context) {
	history, err := r.Store.PortfolioHistory(c.Request.Context(), portfolioChartSize)
	if err != nil {
		logger.Errorf("[charts] portfolio history failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// PortfolioHistory 返回日期降序，图表按时间升序绘制。
	dates := make([]string, 0, len(history))
	totals := make([]opts.LineData, 0, len(history))
	krw := make([]opts.LineData, 0, len(history))
	btcValue := make([]opts.LineData, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		sn := history[i]
		dates = append(dates, sn.Date)
		totals = append(totals, opts.LineData{Value: sn.TotalValue})
		krw = append(krw, opts.LineData{Value: sn.KRWBalance})
		btcValue = append(btcValue, opts.LineData{Value: sn.BTCBalance * sn.BTCAvgPrice})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  px(chartWidthPx),
			Height: px(chartHeightPx),
		}),
		charts.WithTitleOpts(opts.Title{Title: "Portfolio Value", Left: "left"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "KRW"}),
	)
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	line.SetXAxis(dates).
		AddSeries("Total Value", totals, charts.WithLineStyleOpts(opts.LineStyle{Color: colorTotalValue, Width: 3})).
		AddSeries("KRW Balance", krw, charts.WithLineStyleOpts(opts.LineStyle{Color: colorKRWBalance, Width: 2})).
		AddSeries("BTC Value", btcValue, charts.WithLineStyleOpts(opts.LineStyle{Color: colorBTCValue, Width: 2}))

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := line.Render(c.Writer); err != nil {
		logger.Errorf("[charts] portfolio render failed err=%v", err)
	}
}

// handleMonthlyChart 渲染近一年按月成功交易笔数的柱状图。
func (r *Router) handleMonthlyChart(c *gin.Context) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -defaultOverviewDays)
	trades, err := r.Store.TradesInRange(c.Request.Context(),
		start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		logger.Errorf("[charts] monthly trades failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	counts := analytics.MonthlyTradeCounts(trades)
	months := make([]string, 0, len(counts))
	values := make([]opts.BarData, 0, len(counts))
	for _, mc := range counts {
		months = append(months, mc.Month)
		values = append(values, opts.BarData{Value: mc.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  px(chartWidthPx),
			Height: px(chartHeightPx),
		}),
		charts.WithTitleOpts(opts.Title{Title: "Monthly Trades", Left: "left"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "trades"}),
	)
	bar.SetXAxis(months).AddSeries("Trades", values)

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := bar.Render(c.Writer); err != nil {
		logger.Errorf("[charts] monthly render failed err=%v", err)
	}
}

func px(n int) string {
	return fmt.Sprintf("%dpx", n)
}
