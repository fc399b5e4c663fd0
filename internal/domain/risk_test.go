package domain

import "testing"

func TestRiskLimits_Validate(t *testing.T) {
	valid := DefaultRiskLimits()
	if err := valid.Validate(); err != nil {
		t.Fatalf("default limits invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*RiskLimits)
	}{
		{"ZeroPortfolioRisk", func(l *RiskLimits) { l.MaxPortfolioRiskPct = 0 }},
		{"NegativePositionRisk", func(l *RiskLimits) { l.MaxPositionRiskPct = -0.01 }},
		{"ZeroOpenPositions", func(l *RiskLimits) { l.MaxOpenPositions = 0 }},
		{"ZeroMinNotional", func(l *RiskLimits) { l.MinTradeNotional = 0 }},
		{"MinAboveMax", func(l *RiskLimits) { l.MinTradeNotional = 2000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limits := DefaultRiskLimits()
			tt.mutate(&limits)
			if err := limits.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
			if _, err := NewRiskLimits(limits); err == nil {
				t.Error("NewRiskLimits() accepted invalid limits")
			}
		})
	}
}
