package reporthttp

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"bitjournal/internal/analytics"
	"bitjournal/internal/logger"
	"bitjournal/internal/store/tradelog"

	"github.com/gin-gonic/gin"
)

const (
	dateLayout          = "2006-01-02"
	defaultOverviewDays = 365
	maxListLimit        = 500
)

// Router 暴露查询路径与绩效分析的只读接口。
type Router struct {
	Store    *tradelog.Store
	Analyzer *analytics.Analyzer
}

func NewRouter(store *tradelog.Store, analyzer *analytics.Analyzer) *Router {
	return &Router{Store: store, Analyzer: analyzer}
}

// Register 将 /api/report 路由挂载到给定分组下。
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/summary", r.handleSummary)
	group.GET("/overview", r.handleOverview)
	group.GET("/performance", r.handlePerformance)
	group.GET("/trades", r.handleTrades)
	group.GET("/logs", r.handleRecentLogs)
	group.GET("/portfolio", r.handlePortfolio)
	group.GET("/reflections", r.handleReflections)
	group.GET("/context", r.handleMarketContext)
}

// RegisterCharts 挂载图表页面路由。
func (r *Router) RegisterCharts(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/portfolio", r.handlePortfolioChart)
	group.GET("/monthly", r.handleMonthlyChart)
}

func (r *Router) handleSummary(c *gin.Context) {
	stats, err := r.Analyzer.TradingStats(c.Request.Context())
	if err != nil {
		logger.Errorf("[api] trading stats failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (r *Router) handleOverview(c *gin.Context) {
	start, end := overviewRange(c.Query("start"), c.Query("end"))
	trades, err := r.Store.TradesInRange(c.Request.Context(), start, end)
	if err != nil {
		logger.Errorf("[api] overview trades failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start":    start,
		"end":      end,
		"overview": analytics.BuildOverview(trades),
	})
}

func overviewRange(start, end string) (string, string) {
	if strings.TrimSpace(end) == "" {
		end = time.Now().UTC().Format(dateLayout)
	}
	if strings.TrimSpace(start) == "" {
		endDay, err := time.Parse(dateLayout, end)
		if err != nil {
			endDay = time.Now().UTC()
		}
		start = endDay.AddDate(0, 0, -defaultOverviewDays).Format(dateLayout)
	}
	return start, end
}

func (r *Router) handlePerformance(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	perf, err := r.Analyzer.AnalyzePerformance(c.Request.Context(), days)
	if err != nil {
		logger.Errorf("[api] performance analysis failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, perf)
}

func (r *Router) handleTrades(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required (2006-01-02)"})
		return
	}
	endDate := strings.TrimSpace(c.Query("end"))
	var (
		trades []tradelog.Trade
		err    error
	)
	if endDate != "" {
		trades, err = r.Store.TradesInRange(c.Request.Context(), date, endDate)
	} else {
		trades, err = r.Store.TradesOnDate(c.Request.Context(), date)
	}
	if err != nil {
		logger.Errorf("[api] trades query failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades, "count": len(trades)})
}

func (r *Router) handleRecentLogs(c *gin.Context) {
	limit := parseLimit(c.DefaultQuery("limit", "10"))
	logs, err := r.Store.RecentLogs(c.Request.Context(), limit)
	if err != nil {
		logger.Errorf("[api] recent logs failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}

func (r *Router) handlePortfolio(c *gin.Context) {
	limit := parseLimit(c.DefaultQuery("limit", "30"))
	history, err := r.Store.PortfolioHistory(c.Request.Context(), limit)
	if err != nil {
		logger.Errorf("[api] portfolio history failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history, "count": len(history)})
}

func (r *Router) handleReflections(c *gin.Context) {
	limit := parseLimit(c.DefaultQuery("limit", "5"))
	reflections, err := r.Store.RecentReflections(c.Request.Context(), limit)
	if err != nil {
		logger.Errorf("[api] reflections failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reflections": reflections, "count": len(reflections)})
}

func (r *Router) handleMarketContext(c *gin.Context) {
	ts := strings.TrimSpace(c.Query("ts"))
	if ts == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ts is required"})
		return
	}
	mc, err := r.Store.MarketContextAt(c.Request.Context(), ts)
	if err != nil {
		logger.Errorf("[api] market context failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if mc == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, mc)
}

func parseLimit(raw string) int {
	limit, _ := strconv.Atoi(raw)
	if limit <= 0 {
		return 0
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
