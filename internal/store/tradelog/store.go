// Package tradelog 是交易数据的持久层：AI 分析日志、实际交易、
// 组合快照与自省记录的写入和查询都经过这里。
package tradelog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"bitjournal/internal/store/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store 管理交易数据 SQLite 存储。
// 每个操作打开即用、单语句提交，不跨越挂起点持有连接；
// 跨进程一致性完全依赖 SQLite 的 WAL 与 busy_timeout。
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	ownsDB bool
}

// Open 打开（必要时创建）path 指向的数据库并确保表结构存在。
// 建表是幂等的：只创建缺失的表和索引，绝不删除或改写已有数据。
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: path, ownsDB: true}, nil
}

// NewFromDB 复用外部已初始化的 SQLite 连接（例如与其它组件共享同一文件），
// 避免多连接锁冲突。仍会执行建表。
func NewFromDB(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &Store{db: db, ownsDB: false}, nil
}

// Close 关闭底层 DB；共享连接时只解除引用。
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	if !s.ownsDB {
		s.db = nil
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path 返回数据库文件路径（共享连接时为空）。
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) conn() (*sql.DB, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, fmt.Errorf("trade log store is closed")
	}
	return db, nil
}

// ensureSchema 通过 GORM AutoMigrate 建出四张表（只增不删），
// 再用原生 SQL 补齐查询路径依赖的索引。
func ensureSchema(db *sql.DB) error {
	gdb, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", Conn: db}, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return err
	}
	models := []interface{}{
		&model.TradingLogModel{},
		&model.ActualTradeModel{},
		&model.PortfolioSnapshotModel{},
		&model.SelfReflectionModel{},
	}
	if err := gdb.AutoMigrate(models...); err != nil {
		return err
	}
	return ensureIndexes(db)
}

func ensureIndexes(db *sql.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_trading_logs_created_at ON trading_logs(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_trading_logs_timestamp ON trading_logs(timestamp);`,
		`CREATE INDEX IF NOT EXISTS idx_trading_logs_decision ON trading_logs(ai_decision);`,
		`CREATE INDEX IF NOT EXISTS idx_actual_trades_created_at ON actual_trades(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_actual_trades_success_created ON actual_trades(success, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_self_reflections_created_at ON self_reflections(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
