package domain

import "fmt"

// RiskLimits holds the numeric risk bounds shared by every sizing call.
// Build it once (NewRiskLimits or DefaultRiskLimits) and pass it by value;
// there is no global risk policy.
type RiskLimits struct {
	MaxPortfolioRiskPct float64 `json:"maxPortfolioRiskPct"` // e.g. 0.02 = 2% of portfolio at risk
	MaxPositionRiskPct  float64 `json:"maxPositionRiskPct"`  // e.g. 0.01 = 1% per position
	MaxOpenPositions    int     `json:"maxOpenPositions"`
	MinTradeNotional    float64 `json:"minTradeNotional"` // USDT
	MaxTradeNotional    float64 `json:"maxTradeNotional"` // USDT
}

// DefaultRiskLimits returns the documented default limits.
func DefaultRiskLimits() RiskLimits {
	return RiskLimits{
		MaxPortfolioRiskPct: 0.02,
		MaxPositionRiskPct:  0.01,
		MaxOpenPositions:    10,
		MinTradeNotional:    10.0,
		MaxTradeNotional:    1000.0,
	}
}

// NewRiskLimits validates and returns a RiskLimits value.
func NewRiskLimits(limits RiskLimits) (RiskLimits, error) {
	if err := limits.Validate(); err != nil {
		return RiskLimits{}, err
	}
	return limits, nil
}

// Validate checks the limit invariants: all bounds strictly positive and
// min notional below max notional.
func (l RiskLimits) Validate() error {
	if l.MaxPortfolioRiskPct <= 0 {
		return fmt.Errorf("maxPortfolioRiskPct must be positive, got %v", l.MaxPortfolioRiskPct)
	}
	if l.MaxPositionRiskPct <= 0 {
		return fmt.Errorf("maxPositionRiskPct must be positive, got %v", l.MaxPositionRiskPct)
	}
	if l.MaxOpenPositions <= 0 {
		return fmt.Errorf("maxOpenPositions must be positive, got %d", l.MaxOpenPositions)
	}
	if l.MinTradeNotional <= 0 {
		return fmt.Errorf("minTradeNotional must be positive, got %v", l.MinTradeNotional)
	}
	if l.MaxTradeNotional <= 0 {
		return fmt.Errorf("maxTradeNotional must be positive, got %v", l.MaxTradeNotional)
	}
	if l.MinTradeNotional >= l.MaxTradeNotional {
		return fmt.Errorf("minTradeNotional %v must be below maxTradeNotional %v", l.MinTradeNotional, l.MaxTradeNotional)
	}
	return nil
}
