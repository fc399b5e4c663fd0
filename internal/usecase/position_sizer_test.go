package usecase

import (
	"math"
	"testing"

	"papertrader-backend/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPositionSizer_FixedFractionalClampsToMaxNotional(t *testing.T) {
	sizer := NewPositionSizer()
	limits := domain.DefaultRiskLimits()

	// price risk = 2000/50000 = 4%, raw notional = 10000*0.01/0.04 = 2500,
	// clamped to the 1000 max. Realized risk 1000*0.04/10000 = 0.4%.
	result := sizer.Size(domain.SizingRequest{
		Symbol:         "BTCUSDT",
		EntryPrice:     50000,
		StopPrice:      48000,
		PortfolioValue: 10000,
		Strategy:       domain.StrategyFixedFractional,
	}, limits)

	if result.Rejected {
		t.Fatalf("unexpected rejection: %s", result.Reason)
	}
	if !almostEqual(result.Size, limits.MaxTradeNotional) {
		t.Errorf("Size = %v, want %v", result.Size, limits.MaxTradeNotional)
	}
	if result.PortfolioRiskPct > limits.MaxPortfolioRiskPct {
		t.Errorf("PortfolioRiskPct = %v, exceeds limit %v", result.PortfolioRiskPct, limits.MaxPortfolioRiskPct)
	}
	if result.RiskAdjusted {
		t.Error("RiskAdjusted = true, want false")
	}
}

func TestPositionSizer_KellyClampsFraction(t *testing.T) {
	sizer := NewPositionSizer()
	limits := domain.DefaultRiskLimits()

	// win/loss ratio = 2, raw fraction = (0.6*2 - 0.4)/2 = 0.4, clamped to
	// 0.25. Notional 10000*0.25 = 2500, clamped to the 1000 max.
	result := sizer.Size(domain.SizingRequest{
		Symbol:         "BTCUSDT",
		EntryPrice:     50000,
		StopPrice:      48000,
		PortfolioValue: 10000,
		Strategy:       domain.StrategyKelly,
		WinRate:        0.6,
		AvgWin:         0.02,
		AvgLoss:        0.01,
	}, limits)

	if result.Rejected {
		t.Fatalf("unexpected rejection: %s", result.Reason)
	}
	if !almostEqual(result.Size, limits.MaxTradeNotional) {
		t.Errorf("Size = %v, want %v", result.Size, limits.MaxTradeNotional)
	}
}

func TestKellyFraction_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		winRate float64
		avgWin  float64
		avgLoss float64
		want    float64
	}{
		{"ClampedHigh", 0.6, 0.02, 0.01, 0.25},
		{"ClampedLow", 0.3, 0.01, 0.02, kellyFloor},
		{"ZeroLossFallback", 0.6, 0.02, 0, kellyFallback},
		{"ZeroWinRateFallback", 0, 0.02, 0.01, kellyFallback},
		{"NegativeLossFallback", 0.6, 0.02, -0.01, kellyFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kellyFraction(tt.winRate, tt.avgWin, tt.avgLoss)
			if !almostEqual(got, tt.want) {
				t.Errorf("kellyFraction(%v, %v, %v) = %v, want %v", tt.winRate, tt.avgWin, tt.avgLoss, got, tt.want)
			}
			if got < kellyFloor || got > kellyCeil {
				t.Errorf("fraction %v outside [%v, %v]", got, kellyFloor, kellyCeil)
			}
		})
	}
}

func TestPositionSizer_VolatilityBased(t *testing.T) {
	sizer := NewPositionSizer()
	limits := domain.DefaultRiskLimits()

	tests := []struct {
		name       string
		volatility float64
		riskReward float64
		wantSize   float64
	}{
		// vol 0.05 -> adjustment 2 -> risk 0.005, lifted to the 0.01 floor.
		{"HighVolatility", 0.05, 2.0, 100},
		// vol 0.001 -> adjustment 100 -> risk 0.0001, lifted to the floor.
		{"LowVolatility", 0.001, 2.0, 100},
		// zero vol falls back to 0.1, capped at MaxPositionRiskPct.
		{"ZeroVolatility", 0, 2.0, 100},
		// poor risk/reward halves the risk before clamping.
		{"PoorRiskReward", 0.05, 0.5, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sizer.Size(domain.SizingRequest{
				Symbol:          "ETHUSDT",
				EntryPrice:      3000,
				StopPrice:       2900,
				PortfolioValue:  10000,
				Strategy:        domain.StrategyVolatilityBased,
				Volatility:      tt.volatility,
				RiskRewardRatio: tt.riskReward,
			}, limits)
			if result.Rejected {
				t.Fatalf("unexpected rejection: %s", result.Reason)
			}
			if !almostEqual(result.Size, tt.wantSize) {
				t.Errorf("Size = %v, want %v", result.Size, tt.wantSize)
			}
		})
	}
}

func TestPositionSizer_MartingaleRequiresOptIn(t *testing.T) {
	sizer := NewPositionSizer()
	limits := domain.DefaultRiskLimits()

	req := domain.SizingRequest{
		Symbol:            "BTCUSDT",
		EntryPrice:        50000,
		StopPrice:         48000,
		PortfolioValue:    10000,
		Strategy:          domain.StrategyMartingaleAdaptive,
		ConsecutiveLosses: 2,
	}

	result := sizer.Size(req, limits)
	if !result.Rejected {
		t.Fatal("expected rejection without high-risk acknowledgement")
	}
	if result.Reason != domain.ReasonMartingaleOptIn {
		t.Errorf("Reason = %q, want %q", result.Reason, domain.ReasonMartingaleOptIn)
	}
	if result.Size != 0 {
		t.Errorf("Size = %v, want 0", result.Size)
	}

	req.AcknowledgeHighRisk = true
	result = sizer.Size(req, limits)
	if result.Rejected {
		t.Fatalf("unexpected rejection after opt-in: %s", result.Reason)
	}
	// the multiplier is capped by MaxPositionRiskPct, so 10000*0.01 = 100.
	if !almostEqual(result.Size, 100) {
		t.Errorf("Size = %v, want 100", result.Size)
	}
}

func TestPositionSizer_RejectsInvalidInput(t *testing.T) {
	sizer := NewPositionSizer()
	limits := domain.DefaultRiskLimits()

	tests := []struct {
		name string
		req  domain.SizingRequest
	}{
		{"ZeroEntry", domain.SizingRequest{EntryPrice: 0, StopPrice: 48000, PortfolioValue: 10000}},
		{"ZeroStop", domain.SizingRequest{EntryPrice: 50000, StopPrice: 0, PortfolioValue: 10000}},
		{"StopEqualsEntry", domain.SizingRequest{EntryPrice: 50000, StopPrice: 50000, PortfolioValue: 10000}},
		{"ZeroPortfolio", domain.SizingRequest{EntryPrice: 50000, StopPrice: 48000, PortfolioValue: 0}},
		{"NegativePortfolio", domain.SizingRequest{EntryPrice: 50000, StopPrice: 48000, PortfolioValue: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sizer.Size(tt.req, limits)
			if !result.Rejected {
				t.Fatal("expected rejection")
			}
			if result.Reason != domain.ReasonInvalidStopEntry {
				t.Errorf("Reason = %q, want %q", result.Reason, domain.ReasonInvalidStopEntry)
			}
			if result.Size != 0 {
				t.Errorf("Size = %v, want 0", result.Size)
			}
		})
	}
}

func TestPositionSizer_RejectsBelowMinimumAfterRiskAdjustment(t *testing.T) {
	sizer := NewPositionSizer()
	limits := domain.DefaultRiskLimits()

	// price risk 50%: the min-notional floor of 10 would realize 5% of a
	// 100 USDT portfolio, so the safe notional 100*0.02/0.5 = 4 falls below
	// the minimum and the trade is rejected rather than shrunk further.
	result := sizer.Size(domain.SizingRequest{
		Symbol:         "BTCUSDT",
		EntryPrice:     100,
		StopPrice:      50,
		PortfolioValue: 100,
		Strategy:       domain.StrategyFixedFractional,
	}, limits)

	if !result.Rejected {
		t.Fatalf("expected rejection, got size %v", result.Size)
	}
	if result.Reason != domain.ReasonBelowMinimumSize {
		t.Errorf("Reason = %q, want %q", result.Reason, domain.ReasonBelowMinimumSize)
	}
}

func TestPositionSizer_RiskAdjustmentShrinksToPortfolioLimit(t *testing.T) {
	sizer := NewPositionSizer()
	limits := domain.DefaultRiskLimits()

	// degenerate kelly inputs fall back to a 10% fraction: notional 100 at
	// 50% price risk realizes 5% of the portfolio. The adjustment recomputes
	// 1000*0.02/0.5 = 40, which clears the minimum.
	result := sizer.Size(domain.SizingRequest{
		Symbol:         "BTCUSDT",
		EntryPrice:     100,
		StopPrice:      50,
		PortfolioValue: 1000,
		Strategy:       domain.StrategyKelly,
	}, limits)

	if result.Rejected {
		t.Fatalf("unexpected rejection: %s", result.Reason)
	}
	if !result.RiskAdjusted {
		t.Error("RiskAdjusted = false, want true")
	}
	if !almostEqual(result.Size, 40) {
		t.Errorf("Size = %v, want 40", result.Size)
	}
	if !almostEqual(result.PortfolioRiskPct, limits.MaxPortfolioRiskPct) {
		t.Errorf("PortfolioRiskPct = %v, want %v", result.PortfolioRiskPct, limits.MaxPortfolioRiskPct)
	}
}

func TestPositionSizer_NeverExceedsPortfolioValue(t *testing.T) {
	sizer := NewPositionSizer()
	limits := domain.DefaultRiskLimits()

	// a tight stop (0.2% price risk) makes the raw notional 2500, above
	// both the max notional and the portfolio itself.
	result := sizer.Size(domain.SizingRequest{
		Symbol:         "BTCUSDT",
		EntryPrice:     50000,
		StopPrice:      49900,
		PortfolioValue: 500,
		Strategy:       domain.StrategyFixedFractional,
	}, limits)

	if result.Rejected {
		t.Fatalf("unexpected rejection: %s", result.Reason)
	}
	if result.Size > 500 {
		t.Errorf("Size = %v, exceeds portfolio value", result.Size)
	}
}

func TestPositionSizer_SizeWithinBoundsAcrossStrategies(t *testing.T) {
	limits := domain.DefaultRiskLimits()
	strategies := []domain.SizingStrategy{
		domain.StrategyFixedFractional,
		domain.StrategyKelly,
		domain.StrategyVolatilityBased,
		domain.StrategyMartingaleAdaptive,
	}
	portfolios := []float64{50, 500, 10000, 1000000}

	sizer := NewPositionSizer()
	for _, strat := range strategies {
		for _, pv := range portfolios {
			result := sizer.Size(domain.SizingRequest{
				Symbol:              "BTCUSDT",
				EntryPrice:          50000,
				StopPrice:           48000,
				PortfolioValue:      pv,
				Strategy:            strat,
				WinRate:             0.55,
				AvgWin:              0.03,
				AvgLoss:             0.02,
				Volatility:          0.02,
				RiskRewardRatio:     1.5,
				ConsecutiveLosses:   1,
				AcknowledgeHighRisk: true,
			}, limits)

			if result.Rejected {
				if result.Size != 0 {
					t.Errorf("%s pv=%v: rejected with non-zero size %v", strat, pv, result.Size)
				}
				continue
			}
			if result.Size < limits.MinTradeNotional || result.Size > limits.MaxTradeNotional {
				t.Errorf("%s pv=%v: size %v outside [%v, %v]", strat, pv, result.Size, limits.MinTradeNotional, limits.MaxTradeNotional)
			}
			if result.Size > pv {
				t.Errorf("%s pv=%v: size %v exceeds portfolio", strat, pv, result.Size)
			}
			if result.PortfolioRiskPct > limits.MaxPortfolioRiskPct+1e-9 {
				t.Errorf("%s pv=%v: realized risk %v exceeds %v", strat, pv, result.PortfolioRiskPct, limits.MaxPortfolioRiskPct)
			}
		}
	}
}

func TestPositionSizer_StatisticsTrackAcceptedSizings(t *testing.T) {
	sizer := NewPositionSizer()
	limits := domain.DefaultRiskLimits()

	if stats := sizer.Statistics(); stats.TotalSized != 0 {
		t.Fatalf("TotalSized = %d on a fresh sizer, want 0", stats.TotalSized)
	}

	// one accepted sizing (size 1000) and one rejection.
	sizer.Size(domain.SizingRequest{
		EntryPrice: 50000, StopPrice: 48000, PortfolioValue: 10000,
		Strategy: domain.StrategyFixedFractional,
	}, limits)
	sizer.Size(domain.SizingRequest{
		EntryPrice: 50000, StopPrice: 50000, PortfolioValue: 10000,
		Strategy: domain.StrategyFixedFractional,
	}, limits)

	stats := sizer.Statistics()
	if stats.TotalSized != 1 {
		t.Errorf("TotalSized = %d, want 1 (rejections are not recorded)", stats.TotalSized)
	}
	if !almostEqual(stats.AvgSize, 1000) {
		t.Errorf("AvgSize = %v, want 1000", stats.AvgSize)
	}
	if !almostEqual(stats.MinSize, 1000) || !almostEqual(stats.MaxSize, 1000) {
		t.Errorf("Min/Max = %v/%v, want 1000/1000", stats.MinSize, stats.MaxSize)
	}
}

func TestPositionSizer_HistoryIsBounded(t *testing.T) {
	sizer := NewPositionSizer()
	limits := domain.DefaultRiskLimits()

	for i := 0; i < sizingHistoryCapacity+25; i++ {
		sizer.Size(domain.SizingRequest{
			EntryPrice: 50000, StopPrice: 48000, PortfolioValue: 10000,
			Strategy: domain.StrategyFixedFractional,
		}, limits)
	}

	if stats := sizer.Statistics(); stats.TotalSized != sizingHistoryCapacity {
		t.Errorf("TotalSized = %d, want %d", stats.TotalSized, sizingHistoryCapacity)
	}
}
