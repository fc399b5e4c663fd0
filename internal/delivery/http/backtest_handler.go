package http

import (
	"encoding/json"
	"net/http"

	"papertrader-backend/internal/domain"
	"papertrader-backend/internal/infrastructure/marketdata"
	"papertrader-backend/internal/usecase"
)

// BacktestHandler runs synthetic-data backtests on demand.
type BacktestHandler struct {
	limits domain.RiskLimits
}

func NewBacktestHandler(limits domain.RiskLimits) *BacktestHandler {
	return &BacktestHandler{limits: limits}
}

type backtestRequest struct {
	Symbols             []string `json:"symbols"`
	Days                int      `json:"days"`
	InitialBalance      float64  `json:"initialBalance"`
	Strategy            string   `json:"strategy"`
	Seed                int64    `json:"seed"`
	StopLossPct         float64  `json:"stopLossPct"`
	AcknowledgeHighRisk bool     `json:"acknowledgeHighRisk"`
}

// Run handles POST /api/backtest
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req backtestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	strategy, err := domain.ParseSizingStrategy(req.Strategy)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Symbols) == 0 {
		req.Symbols = []string{"BTCUSDT", "ETHUSDT", "BNBUSDT"}
	}
	if req.Days <= 0 {
		req.Days = 90
	}
	if req.InitialBalance <= 0 {
		req.InitialBalance = 10000
	}
	if req.Seed == 0 {
		req.Seed = 42
	}

	series := marketdata.GenerateSampleSeries(req.Symbols, req.Days, req.Seed)
	cfg := usecase.SimulatorConfig{
		InitialBalance:      req.InitialBalance,
		Limits:              h.limits,
		Strategy:            strategy,
		StopLossPct:         req.StopLossPct,
		AcknowledgeHighRisk: req.AcknowledgeHighRisk,
	}

	// Each backtest runs on its own sizer so live trading statistics are
	// not mixed with replay statistics.
	result := usecase.RunBacktest(series, cfg, usecase.NewPositionSizer(), usecase.NewConsensusEngine())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
