package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"papertrader-backend/internal/domain"
)

// TradeSummary is one trade inside a report.
type TradeSummary struct {
	Symbol string  `json:"symbol"`
	PnL    float64 `json:"pnl"`
	Reason string  `json:"reason"`
}

// PerformanceReport is the read-only summary of a finished (or running)
// portfolio state. Summarizing the same state twice yields identical output.
type PerformanceReport struct {
	InitialBalance float64 `json:"initialBalance"`
	FinalValue     float64 `json:"finalValue"`
	TotalReturnPct float64 `json:"totalReturnPct"`

	TotalTrades   int     `json:"totalTrades"`
	WinningTrades int     `json:"winningTrades"`
	LosingTrades  int     `json:"losingTrades"`
	WinRatePct    float64 `json:"winRatePct"`

	GrossProfit float64 `json:"grossProfit"`
	GrossLoss   float64 `json:"grossLoss"`
	NetPnL      float64 `json:"netPnl"`
	AvgWin      float64 `json:"avgWin"`
	AvgLoss     float64 `json:"avgLoss"`

	BestTrade  *TradeSummary `json:"bestTrade,omitempty"`
	WorstTrade *TradeSummary `json:"worstTrade,omitempty"`

	// Sizing outcomes, so "no trade because of risk limits" is visible and
	// distinguishable from "no signal".
	RejectedSizings     map[string]int `json:"rejectedSizings"`
	RiskAdjustedSizings int            `json:"riskAdjustedSizings"`
}

// money rounds to 2 decimals through decimal arithmetic so repeated
// summarization is bit-identical.
func money(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

// Summarize builds the performance report from a portfolio state.
func Summarize(state domain.PortfolioState) PerformanceReport {
	finalValue := state.Balance
	if n := len(state.Snapshots); n > 0 {
		finalValue = state.Snapshots[n-1].PortfolioValue
	}

	report := PerformanceReport{
		InitialBalance:      money(state.InitialBalance),
		FinalValue:          money(finalValue),
		TotalTrades:         len(state.Trades),
		RejectedSizings:     make(map[string]int, len(state.Outcomes.RejectedByReason)),
		RiskAdjustedSizings: state.Outcomes.RiskAdjusted,
	}
	for reason, count := range state.Outcomes.RejectedByReason {
		report.RejectedSizings[reason] = count
	}

	if state.InitialBalance > 0 {
		ret := (finalValue - state.InitialBalance) / state.InitialBalance * 100
		report.TotalReturnPct = money(ret)
	}

	grossProfit, grossLoss, net := 0.0, 0.0, 0.0
	var best, worst *domain.Trade
	for i := range state.Trades {
		t := &state.Trades[i]
		net += t.PnL
		if t.PnL > 0 {
			report.WinningTrades++
			grossProfit += t.PnL
		} else if t.PnL < 0 {
			report.LosingTrades++
			grossLoss += t.PnL
		}
		if best == nil || t.PnL > best.PnL {
			best = t
		}
		if worst == nil || t.PnL < worst.PnL {
			worst = t
		}
	}

	report.GrossProfit = money(grossProfit)
	report.GrossLoss = money(grossLoss)
	report.NetPnL = money(net)
	if report.TotalTrades > 0 {
		report.WinRatePct = money(float64(report.WinningTrades) / float64(report.TotalTrades) * 100)
	}
	if report.WinningTrades > 0 {
		report.AvgWin = money(grossProfit / float64(report.WinningTrades))
	}
	if report.LosingTrades > 0 {
		report.AvgLoss = money(grossLoss / float64(report.LosingTrades))
	}
	if best != nil {
		report.BestTrade = &TradeSummary{Symbol: best.Symbol, PnL: money(best.PnL), Reason: best.Reason}
	}
	if worst != nil {
		report.WorstTrade = &TradeSummary{Symbol: worst.Symbol, PnL: money(worst.PnL), Reason: worst.Reason}
	}

	return report
}

// FormatReport renders the report for terminal output.
func FormatReport(r PerformanceReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 PAPER TRADING REPORT\n")
	fmt.Fprintf(&b, "=====================================\n")
	fmt.Fprintf(&b, "💰 Initial Balance:  $%.2f\n", r.InitialBalance)
	fmt.Fprintf(&b, "📈 Final Value:      $%.2f\n", r.FinalValue)
	fmt.Fprintf(&b, "🎯 Total Return:     %.2f%%\n\n", r.TotalReturnPct)

	fmt.Fprintf(&b, "Trades: %d total | %d wins | %d losses | win rate %.1f%%\n",
		r.TotalTrades, r.WinningTrades, r.LosingTrades, r.WinRatePct)
	fmt.Fprintf(&b, "Gross profit: $%.2f | Gross loss: $%.2f | Net PnL: $%.2f\n",
		r.GrossProfit, r.GrossLoss, r.NetPnL)
	fmt.Fprintf(&b, "Avg win: $%.2f | Avg loss: $%.2f\n", r.AvgWin, r.AvgLoss)

	if r.BestTrade != nil {
		fmt.Fprintf(&b, "🏆 Best:  %s $%.2f (%s)\n", r.BestTrade.Symbol, r.BestTrade.PnL, r.BestTrade.Reason)
	}
	if r.WorstTrade != nil {
		fmt.Fprintf(&b, "💸 Worst: %s $%.2f (%s)\n", r.WorstTrade.Symbol, r.WorstTrade.PnL, r.WorstTrade.Reason)
	}

	if len(r.RejectedSizings) > 0 || r.RiskAdjustedSizings > 0 {
		fmt.Fprintf(&b, "\nSizing outcomes:\n")
		for _, reason := range sortedReasons(r.RejectedSizings) {
			fmt.Fprintf(&b, "  rejected (%s): %d\n", reason, r.RejectedSizings[reason])
		}
		if r.RiskAdjustedSizings > 0 {
			fmt.Fprintf(&b, "  risk-adjusted: %d\n", r.RiskAdjustedSizings)
		}
	}

	return b.String()
}

// sortedReasons keeps report output deterministic regardless of map order.
func sortedReasons(m map[string]int) []string {
	reasons := make([]string, 0, len(m))
	for r := range m {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	return reasons
}
