package http

import (
	"encoding/json"
	"net/http"

	"papertrader-backend/internal/domain"
	"papertrader-backend/internal/usecase"
)

// SizingHandler exposes the position sizer directly, for previewing what a
// trade would be sized at under the current limits.
type SizingHandler struct {
	sizer  *usecase.PositionSizer
	limits domain.RiskLimits
}

func NewSizingHandler(sizer *usecase.PositionSizer, limits domain.RiskLimits) *SizingHandler {
	return &SizingHandler{sizer: sizer, limits: limits}
}

type sizingPreviewRequest struct {
	Symbol         string  `json:"symbol"`
	EntryPrice     float64 `json:"entryPrice"`
	StopPrice      float64 `json:"stopPrice"`
	PortfolioValue float64 `json:"portfolioValue"`
	Strategy       string  `json:"strategy"`

	RiskPct             float64 `json:"riskPct"`
	WinRate             float64 `json:"winRate"`
	AvgWin              float64 `json:"avgWin"`
	AvgLoss             float64 `json:"avgLoss"`
	Volatility          float64 `json:"volatility"`
	RiskRewardRatio     float64 `json:"riskRewardRatio"`
	ConsecutiveLosses   int     `json:"consecutiveLosses"`
	AcknowledgeHighRisk bool    `json:"acknowledgeHighRisk"`
}

// Preview handles POST /api/sizing/preview
func (h *SizingHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sizingPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	strategy, err := domain.ParseSizingStrategy(req.Strategy)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := h.sizer.Size(domain.SizingRequest{
		Symbol:              req.Symbol,
		EntryPrice:          req.EntryPrice,
		StopPrice:           req.StopPrice,
		PortfolioValue:      req.PortfolioValue,
		Strategy:            strategy,
		RiskPct:             req.RiskPct,
		WinRate:             req.WinRate,
		AvgWin:              req.AvgWin,
		AvgLoss:             req.AvgLoss,
		Volatility:          req.Volatility,
		RiskRewardRatio:     req.RiskRewardRatio,
		ConsecutiveLosses:   req.ConsecutiveLosses,
		AcknowledgeHighRisk: req.AcknowledgeHighRisk,
	}, h.limits)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Stats handles GET /api/sizing/stats
func (h *SizingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.sizer.Statistics())
}

// Limits handles GET /api/sizing/limits
func (h *SizingHandler) Limits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.limits)
}
