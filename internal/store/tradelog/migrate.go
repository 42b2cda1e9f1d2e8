package tradelog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"bitjournal/internal/logger"
	"bitjournal/internal/pkg/convert"

	"github.com/google/uuid"
)

type legacyEntry struct {
	MarketData json.RawMessage `json:"market_data"`
	AIAnalysis json.RawMessage `json:"ai_analysis"`
	Timestamp  string          `json:"timestamp"`
}

// ImportLegacyLog 把旧版行式 JSON 日志一次性回放进写入路径。
// 每个非空行独立解码为 {market_data, ai_analysis, timestamp}；
// 旧日志里数值常以字符串出现，按宽松规则转换。文件不存在时记一条
// 警告并返回 nil（导入是可选的）；其余解码或存储错误立即中止并附带行号。
func (s *Store) ImportLegacyLog(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warnf("legacy log not found, skipping import: %s", path)
			return nil
		}
		return err
	}
	defer f.Close()

	runID := uuid.NewString()
	logger.Infof("legacy log import started run=%s path=%s", runID, path)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	imported := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry legacyEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return fmt.Errorf("legacy log line %d: %w", lineNo, err)
		}
		ts := strings.TrimSpace(entry.Timestamp)
		if ts == "" {
			ts = time.Now().Format(time.RFC3339)
		}
		market, analysis := decodeLegacyPayloads(entry)
		if _, err := s.RecordAnalysis(ctx, market, analysis, ts, ""); err != nil {
			return fmt.Errorf("legacy log line %d: %w", lineNo, err)
		}
		imported++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("legacy log read: %w", err)
	}
	logger.Infof("legacy log import finished run=%s imported=%d", runID, imported)
	return nil
}

func decodeLegacyPayloads(entry legacyEntry) (MarketSnapshot, DecisionSummary) {
	var market MarketSnapshot
	if len(entry.MarketData) > 0 {
		market.Raw = entry.MarketData
		var md map[string]any
		if err := json.Unmarshal(entry.MarketData, &md); err == nil {
			market.CurrentPrice = convert.ToFloat64(md["current_price"])
			if inv, ok := md["investment_status"].(map[string]any); ok {
				market.Investment = InvestmentStatus{
					KRWBalance:          convert.ToFloat64(inv["krw_balance"]),
					BTCBalance:          convert.ToFloat64(inv["btc_balance"]),
					TotalPortfolioValue: convert.ToFloat64(inv["total_portfolio_value"]),
				}
			}
		}
	}
	var analysis DecisionSummary
	if len(entry.AIAnalysis) > 0 {
		analysis.Raw = entry.AIAnalysis
		var ai map[string]any
		if err := json.Unmarshal(entry.AIAnalysis, &ai); err == nil {
			analysis.Decision = convert.ToString(ai["decision"])
			analysis.Reason = convert.ToString(ai["reason"])
			analysis.Confidence = convert.ToString(ai["confidence"])
		}
	}
	return market, analysis
}
