package domain

import "fmt"

// SizingStrategy selects the position sizing formula. A closed enum instead
// of a free-form tag so a typo can never fall back to a default strategy.
type SizingStrategy int

const (
	StrategyFixedFractional SizingStrategy = iota
	StrategyKelly
	StrategyVolatilityBased
	StrategyMartingaleAdaptive
)

func (s SizingStrategy) String() string {
	switch s {
	case StrategyFixedFractional:
		return "fixed_fractional"
	case StrategyKelly:
		return "kelly"
	case StrategyVolatilityBased:
		return "volatility"
	case StrategyMartingaleAdaptive:
		return "martingale"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// ParseSizingStrategy maps the wire/CLI name back to the enum.
func ParseSizingStrategy(name string) (SizingStrategy, error) {
	switch name {
	case "fixed_fractional", "":
		return StrategyFixedFractional, nil
	case "kelly":
		return StrategyKelly, nil
	case "volatility":
		return StrategyVolatilityBased, nil
	case "martingale":
		return StrategyMartingaleAdaptive, nil
	}
	return 0, fmt.Errorf("unknown sizing strategy %q", name)
}

// SizingRequest carries one sizing call's inputs. Only the fields the chosen
// strategy's formula needs are read; the rest are ignored.
type SizingRequest struct {
	Symbol         string         `json:"symbol"`
	EntryPrice     float64        `json:"entryPrice"`
	StopPrice      float64        `json:"stopPrice"`
	PortfolioValue float64        `json:"portfolioValue"`
	Strategy       SizingStrategy `json:"strategy"`

	// FixedFractional
	RiskPct float64 `json:"riskPct,omitempty"` // 0 means use limits.MaxPositionRiskPct

	// Kelly
	WinRate float64 `json:"winRate,omitempty"`
	AvgWin  float64 `json:"avgWin,omitempty"`
	AvgLoss float64 `json:"avgLoss,omitempty"`

	// VolatilityBased
	Volatility      float64 `json:"volatility,omitempty"`
	RiskRewardRatio float64 `json:"riskRewardRatio,omitempty"`

	// MartingaleAdaptive. AcknowledgeHighRisk must be set explicitly or the
	// request is rejected; martingale is never a silent default.
	ConsecutiveLosses   int  `json:"consecutiveLosses,omitempty"`
	AcknowledgeHighRisk bool `json:"acknowledgeHighRisk,omitempty"`
}

// Rejection reasons reported in SizingResult.Reason.
const (
	ReasonInvalidStopEntry  = "invalid stop/entry"
	ReasonBelowMinimumSize  = "below minimum trade size"
	ReasonMartingaleOptIn   = "martingale requires explicit risk acknowledgment"
	ReasonInsufficientFunds = "insufficient funds"
	ReasonMaxPositionsOpen  = "max open positions reached"
)

// SizingResult is the immutable outcome of one sizing call.
// Size 0 means "do not trade"; Reason then explains why.
type SizingResult struct {
	Size             float64        `json:"size"`             // notional, USDT
	PctOfPortfolio   float64        `json:"pctOfPortfolio"`   // Size / portfolio value
	PortfolioRiskPct float64        `json:"portfolioRiskPct"` // realized risk at the stop
	Strategy         SizingStrategy `json:"strategy"`
	Rationale        string         `json:"rationale"`
	RiskAdjusted     bool           `json:"riskAdjusted"` // true when step-3 downsizing fired
	Rejected         bool           `json:"rejected"`
	Reason           string         `json:"reason,omitempty"`
}

// RejectedSizing builds a zero-size result for the given reason.
func RejectedSizing(strategy SizingStrategy, reason string) SizingResult {
	return SizingResult{
		Strategy: strategy,
		Rejected: true,
		Reason:   reason,
	}
}
