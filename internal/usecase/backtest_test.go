package usecase

import (
	"math"
	"testing"

	"papertrader-backend/internal/domain"
	"papertrader-backend/internal/infrastructure/marketdata"
)

func TestRunBacktest_HoldsDuringWarmup(t *testing.T) {
	// 20 bars is under every indicator's warm-up, so no snapshot forms and
	// the simulator holds the whole run.
	series := marketdata.GenerateSampleSeries([]string{"BTCUSDT"}, 20, 42)

	result := RunBacktest(series, testSimulatorConfig(), NewPositionSizer(), NewConsensusEngine())

	if len(result.State.Trades) != 0 || len(result.State.OpenPositions) != 0 {
		t.Errorf("trades/open = %d/%d during warm-up, want 0/0",
			len(result.State.Trades), len(result.State.OpenPositions))
	}
	if !almostEqual(result.State.Balance, 10000) {
		t.Errorf("Balance = %v, want untouched 10000", result.State.Balance)
	}
	if len(result.State.Snapshots) != 20 {
		t.Errorf("Snapshots = %d, want one per bar", len(result.State.Snapshots))
	}
}

func TestRunBacktest_Deterministic(t *testing.T) {
	series := marketdata.GenerateSampleSeries([]string{"BTCUSDT", "ETHUSDT"}, 120, 42)

	a := RunBacktest(series, testSimulatorConfig(), NewPositionSizer(), NewConsensusEngine())
	b := RunBacktest(series, testSimulatorConfig(), NewPositionSizer(), NewConsensusEngine())

	if !almostEqual(a.State.Balance, b.State.Balance) {
		t.Errorf("Balance differs: %v vs %v", a.State.Balance, b.State.Balance)
	}
	if len(a.State.Trades) != len(b.State.Trades) {
		t.Fatalf("trade counts differ: %d vs %d", len(a.State.Trades), len(b.State.Trades))
	}
	for i := range a.State.Trades {
		if a.State.Trades[i].Symbol != b.State.Trades[i].Symbol ||
			!almostEqual(a.State.Trades[i].PnL, b.State.Trades[i].PnL) {
			t.Errorf("trade %d differs", i)
		}
	}
	if a.Report.FinalValue != b.Report.FinalValue || a.Report.TotalReturnPct != b.Report.TotalReturnPct {
		t.Errorf("reports differ: %v%% vs %v%%", a.Report.TotalReturnPct, b.Report.TotalReturnPct)
	}
}

func TestRunBacktest_AccountingConsistent(t *testing.T) {
	series := marketdata.GenerateSampleSeries([]string{"BTCUSDT", "ETHUSDT", "BNBUSDT"}, 150, 7)

	result := RunBacktest(series, testSimulatorConfig(), NewPositionSizer(), NewConsensusEngine())
	state := result.State

	// cash plus committed notional plus realized pnl must reproduce the
	// initial balance exactly, open positions marked at cost.
	committed := 0.0
	for _, pos := range state.OpenPositions {
		committed += pos.Size
	}
	realized := 0.0
	for _, trade := range state.Trades {
		realized += trade.PnL
	}
	if math.Abs((state.Balance+committed)-(state.InitialBalance+realized)) > 1e-6 {
		t.Errorf("cash %v + committed %v != initial %v + realized %v",
			state.Balance, committed, state.InitialBalance, realized)
	}

	// every tick produced exactly one snapshot.
	if len(state.Snapshots) != 150 {
		t.Errorf("Snapshots = %d, want 150", len(state.Snapshots))
	}

	// trades never exceed the notional bounds.
	limits := domain.DefaultRiskLimits()
	for _, trade := range state.Trades {
		if trade.Size < limits.MinTradeNotional || trade.Size > limits.MaxTradeNotional {
			t.Errorf("trade size %v outside [%v, %v]", trade.Size, limits.MinTradeNotional, limits.MaxTradeNotional)
		}
	}
}

func TestRunBacktest_VolatilityStrategyUsesATRInput(t *testing.T) {
	series := marketdata.GenerateSampleSeries([]string{"BTCUSDT"}, 120, 42)

	cfg := testSimulatorConfig()
	cfg.Strategy = domain.StrategyVolatilityBased
	result := RunBacktest(series, cfg, NewPositionSizer(), NewConsensusEngine())

	// same invariant as any strategy: the run completes with consistent
	// accounting whether or not signals fired.
	committed := 0.0
	for _, pos := range result.State.OpenPositions {
		committed += pos.Size
	}
	realized := 0.0
	for _, trade := range result.State.Trades {
		realized += trade.PnL
	}
	if math.Abs((result.State.Balance+committed)-(result.State.InitialBalance+realized)) > 1e-6 {
		t.Error("accounting drifted under volatility-based sizing")
	}
}
