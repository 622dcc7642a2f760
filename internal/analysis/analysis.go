// Package analysis derives per-symbol and overall summaries from journaled
// trades. Summaries are recomputed on demand and never persisted.
package analysis

import (
	"context"
	"fmt"
	"sort"

	"futures-review/internal/models"
	"go.uber.org/zap"
)

// SymbolSummary aggregates the trades sharing one symbol.
type SymbolSummary struct {
	Symbol          string  `json:"symbol" yaml:"symbol"`
	TotalTrades     int     `json:"total_trades" yaml:"total_trades"`
	TotalProfitLoss float64 `json:"total_profit_loss" yaml:"total_profit_loss"`
	WinningTrades   int     `json:"winning_trades" yaml:"winning_trades"`
	LosingTrades    int     `json:"losing_trades" yaml:"losing_trades"`
	WinRate         float64 `json:"win_rate" yaml:"win_rate"`
}

// Report is the analysis view: one summary per symbol plus the overall one.
type Report struct {
	Symbols []SymbolSummary `json:"symbols" yaml:"symbols"`
	Overall SymbolSummary   `json:"overall" yaml:"overall"`
}

// CurvePoint is one step of the cumulative profit/loss series.
type CurvePoint struct {
	ID         int64   `json:"id" yaml:"id"`
	Symbol     string  `json:"symbol" yaml:"symbol"`
	ProfitLoss float64 `json:"profit_loss" yaml:"profit_loss"`
	Cumulative float64 `json:"cumulative" yaml:"cumulative"`
}

// WinRate is winning trades per losing trade, in percent. It is 0 when
// there are no losing trades. Note the denominator is losses, not the total.
func WinRate(winning, losing int) float64 {
	if losing <= 0 {
		return 0
	}
	return float64(winning) / float64(losing) * 100
}

func (s *SymbolSummary) add(profitLoss float64) {
	s.TotalTrades++
	s.TotalProfitLoss += profitLoss
	switch {
	case profitLoss > 0:
		s.WinningTrades++
	case profitLoss < 0:
		s.LosingTrades++
	}
}

// Summarize partitions records by symbol. Summaries come out in the order
// each symbol first appears in records.
func Summarize(records []models.TradeRecord) []SymbolSummary {
	index := make(map[string]int)
	var out []SymbolSummary

	for _, r := range records {
		i, ok := index[r.Symbol]
		if !ok {
			i = len(out)
			index[r.Symbol] = i
			out = append(out, SymbolSummary{Symbol: r.Symbol})
		}
		out[i].add(r.ProfitLoss)
	}

	for i := range out {
		out[i].WinRate = WinRate(out[i].WinningTrades, out[i].LosingTrades)
	}
	return out
}

// Overall summarizes every record regardless of symbol. Its Symbol is left
// empty; any string, including "ALL", can be a real symbol.
func Overall(records []models.TradeRecord) SymbolSummary {
	var s SymbolSummary
	for _, r := range records {
		s.add(r.ProfitLoss)
	}
	s.WinRate = WinRate(s.WinningTrades, s.LosingTrades)
	return s
}

// SortBySymbol orders summaries by ascending symbol in place.
func SortBySymbol(summaries []SymbolSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Symbol < summaries[j].Symbol
	})
}

// Curve returns the running total of profit/loss in record order.
func Curve(records []models.TradeRecord) []CurvePoint {
	out := make([]CurvePoint, 0, len(records))
	var total float64
	for _, r := range records {
		total += r.ProfitLoss
		out = append(out, CurvePoint{
			ID:         r.ID,
			Symbol:     r.Symbol,
			ProfitLoss: r.ProfitLoss,
			Cumulative: total,
		})
	}
	return out
}

// Source is where the engine reads trades from.
type Source interface {
	ListAll(ctx context.Context) ([]models.TradeRecord, error)
}

// Engine produces summaries from a live view of the store.
type Engine struct {
	source Source
	logger *zap.Logger
}

// NewEngine creates a new analysis engine.
func NewEngine(source Source, logger *zap.Logger) *Engine {
	return &Engine{source: source, logger: logger.Named("analysis")}
}

// Report summarizes all stored trades. With sorted set, per-symbol
// summaries are ordered by symbol.
func (e *Engine) Report(ctx context.Context, sorted bool) (Report, error) {
	records, err := e.source.ListAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load trades for summary: %w", err)
	}

	symbols := Summarize(records)
	if sorted {
		SortBySymbol(symbols)
	}
	if symbols == nil {
		symbols = []SymbolSummary{}
	}

	report := Report{Symbols: symbols, Overall: Overall(records)}
	e.logger.Debug("Summary computed",
		zap.Int("symbols", len(symbols)),
		zap.Int("trades", report.Overall.TotalTrades),
	)
	return report, nil
}

// Curve returns the cumulative profit/loss series of all stored trades.
func (e *Engine) Curve(ctx context.Context) ([]CurvePoint, error) {
	records, err := e.source.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades for curve: %w", err)
	}
	return Curve(records), nil
}
