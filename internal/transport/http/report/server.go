// Package reporthttp 是查询路径之上的只读报表 HTTP 服务，
// 只做参数解析与结果编排，不包含业务逻辑。
package reporthttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bitjournal/internal/analytics"
	"bitjournal/internal/logger"
	"bitjournal/internal/store/tradelog"

	"github.com/gin-gonic/gin"
)

// Server 提供 /api/report 与 /charts 两组只读路由。
type Server struct {
	addr   string
	router *gin.Engine
}

// ServerConfig 描述报表服务依赖。
type ServerConfig struct {
	Addr     string
	Store    *tradelog.Store
	Analyzer *analytics.Analyzer
}

// NewServer 构建报表 HTTP server。
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil || cfg.Analyzer == nil {
		return nil, errors.New("report server requires store and analyzer")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9992"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r := NewRouter(cfg.Store, cfg.Analyzer)
	r.Register(router.Group("/api/report"))
	r.RegisterCharts(router.Group("/charts"))

	return &Server{addr: cfg.Addr, router: router}, nil
}

// Addr 返回监听地址。
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Handler 暴露底层 handler，供测试直接驱动。
func (s *Server) Handler() http.Handler {
	if s == nil {
		return nil
	}
	return s.router
}

// Start 启动 HTTP 服务，直到 ctx 取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

// requestLogger 记录接口调用，便于追踪报表访问。
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		client := c.ClientIP()
		c.Next()
		dur := time.Since(start)
		status := c.Writer.Status()
		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s", method, fullPath, status, client, dur)
	}
}
