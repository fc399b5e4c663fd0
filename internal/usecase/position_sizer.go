package usecase

import (
	"fmt"
	"math"
	"sync"

	"papertrader-backend/internal/domain"
)

// Kelly fraction bounds. Even degenerate win/loss inputs fall back to the
// safe default and end up inside these bounds.
const (
	kellyFloor    = 0.01
	kellyCeil     = 0.25
	kellyFallback = 0.1
)

const (
	volatilityFallbackRisk  = 0.1
	martingaleMaxDoublings  = 3
	martingaleMaxMultiplier = 8.0
	sizingHistoryCapacity   = 100
)

// PositionSizer computes risk-bounded trade notionals. Sizing itself is a
// pure function of the request and the limits; the only state is a bounded
// trailing history kept for statistics, never consulted by the math.
type PositionSizer struct {
	mu      sync.RWMutex
	history []domain.SizingResult
}

func NewPositionSizer() *PositionSizer {
	return &PositionSizer{}
}

// Size computes the recommended notional for the request under the given
// limits. It never returns an error: invalid input yields a rejected result
// with size 0 and a reason.
func (s *PositionSizer) Size(req domain.SizingRequest, limits domain.RiskLimits) domain.SizingResult {
	if req.EntryPrice <= 0 || req.StopPrice <= 0 || req.EntryPrice == req.StopPrice || req.PortfolioValue <= 0 {
		return domain.RejectedSizing(req.Strategy, domain.ReasonInvalidStopEntry)
	}

	priceRiskPct := math.Abs(req.EntryPrice-req.StopPrice) / req.EntryPrice
	pv := req.PortfolioValue

	var notional float64
	rationale := fmt.Sprintf("sized with %s strategy", req.Strategy)

	switch req.Strategy {
	case domain.StrategyFixedFractional:
		riskPct := req.RiskPct
		if riskPct <= 0 {
			riskPct = limits.MaxPositionRiskPct
		}
		floor := 0.01 * limits.MaxPositionRiskPct
		riskPct = clamp(riskPct, floor, limits.MaxPositionRiskPct)
		notional = pv * riskPct / priceRiskPct

	case domain.StrategyKelly:
		fraction := kellyFraction(req.WinRate, req.AvgWin, req.AvgLoss)
		rationale = fmt.Sprintf("kelly fraction %.4f", fraction)
		notional = pv * fraction

	case domain.StrategyVolatilityBased:
		baseRisk := volatilityFallbackRisk
		if req.Volatility > 0 {
			volatilityAdjustment := 1 / (req.Volatility * 10)
			baseRisk = limits.MaxPositionRiskPct / volatilityAdjustment
		}
		riskReward := req.RiskRewardRatio
		if riskReward == 0 {
			riskReward = 1.0
		}
		if riskReward < 1 {
			baseRisk /= 2
		}
		baseRisk = clamp(baseRisk, 0.01, limits.MaxPositionRiskPct)
		rationale = fmt.Sprintf("volatility-adjusted risk %.4f", baseRisk)
		notional = pv * baseRisk

	case domain.StrategyMartingaleAdaptive:
		if !req.AcknowledgeHighRisk {
			return domain.RejectedSizing(req.Strategy, domain.ReasonMartingaleOptIn)
		}
		losses := req.ConsecutiveLosses
		if losses < 0 {
			losses = 0
		}
		if losses > martingaleMaxDoublings {
			losses = martingaleMaxDoublings
		}
		multiplier := math.Min(math.Pow(2, float64(losses)), martingaleMaxMultiplier)
		adjustedRisk := math.Min(limits.MaxPositionRiskPct*multiplier, limits.MaxPositionRiskPct)
		rationale = fmt.Sprintf("martingale x%.0f after %d losses", multiplier, req.ConsecutiveLosses)
		notional = pv * adjustedRisk

	default:
		return domain.RejectedSizing(req.Strategy, fmt.Sprintf("unknown strategy %d", int(req.Strategy)))
	}

	// Uniform post-adjustment, identical for every strategy.
	notional = clamp(notional, limits.MinTradeNotional, limits.MaxTradeNotional)
	if notional > pv {
		notional = pv
	}

	riskAdjusted := false
	realizedRisk := notional * priceRiskPct / pv
	if realizedRisk > limits.MaxPortfolioRiskPct {
		notional = pv * limits.MaxPortfolioRiskPct / priceRiskPct
		if notional > limits.MaxTradeNotional {
			notional = limits.MaxTradeNotional
		}
		realizedRisk = notional * priceRiskPct / pv
		riskAdjusted = true
		rationale += " (risk-adjusted to portfolio limit)"
	}

	notional = math.Round(notional*100) / 100
	if notional < limits.MinTradeNotional {
		return domain.RejectedSizing(req.Strategy, domain.ReasonBelowMinimumSize)
	}

	result := domain.SizingResult{
		Size:             notional,
		PctOfPortfolio:   notional / pv,
		PortfolioRiskPct: realizedRisk,
		Strategy:         req.Strategy,
		Rationale:        rationale,
		RiskAdjusted:     riskAdjusted,
	}
	s.record(result)
	return result
}

// kellyFraction derives the Kelly bet fraction, clamped to a safe band.
func kellyFraction(winRate, avgWin, avgLoss float64) float64 {
	if avgLoss <= 0 || winRate <= 0 {
		return kellyFallback
	}
	winLossRatio := avgWin / math.Abs(avgLoss)
	fraction := (winRate*winLossRatio - (1 - winRate)) / winLossRatio
	return clamp(fraction, kellyFloor, kellyCeil)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *PositionSizer) record(result domain.SizingResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, result)
	if len(s.history) > sizingHistoryCapacity {
		s.history = s.history[len(s.history)-sizingHistoryCapacity:]
	}
}

// SizingStatistics summarizes the trailing sizing history. Reporting only.
type SizingStatistics struct {
	TotalSized int     `json:"totalSized"`
	AvgSize    float64 `json:"avgSize"`
	MinSize    float64 `json:"minSize"`
	MaxSize    float64 `json:"maxSize"`
	AvgRiskPct float64 `json:"avgRiskPct"`
}

// Statistics returns mean/min/max of the trailing accepted sizings.
func (s *PositionSizer) Statistics() SizingStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := SizingStatistics{}
	if len(s.history) == 0 {
		return stats
	}

	stats.TotalSized = len(s.history)
	stats.MinSize = s.history[0].Size
	sumSize, sumRisk := 0.0, 0.0
	for _, r := range s.history {
		sumSize += r.Size
		sumRisk += r.PortfolioRiskPct
		if r.Size < stats.MinSize {
			stats.MinSize = r.Size
		}
		if r.Size > stats.MaxSize {
			stats.MaxSize = r.Size
		}
	}
	stats.AvgSize = sumSize / float64(len(s.history))
	stats.AvgRiskPct = sumRisk / float64(len(s.history))
	return stats
}
