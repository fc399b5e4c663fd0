package http

import (
	"encoding/json"
	"net/http"
	"time"

	"papertrader-backend/internal/domain"
	"papertrader-backend/internal/usecase"
)

// TraderHandler exposes the live paper trader's state and settings.
type TraderHandler struct {
	service   *usecase.PaperTraderService
	tokenRepo domain.DeviceTokenRepository
}

func NewTraderHandler(service *usecase.PaperTraderService, tokenRepo domain.DeviceTokenRepository) *TraderHandler {
	return &TraderHandler{service: service, tokenRepo: tokenRepo}
}

// GetPortfolio handles GET /api/trader/portfolio
func (h *TraderHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.State())
}

// GetReport handles GET /api/trader/report
func (h *TraderHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.Report())
}

// Settings handles GET and POST /api/trader/settings
func (h *TraderHandler) Settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(h.service.GetSettings())

	case http.MethodPost:
		var settings usecase.TraderSettings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		h.service.UpdateSettings(settings)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Settings updated successfully",
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type tokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// RegisterToken handles POST /api/notifications/register
func (h *TraderHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.tokenRepo.RegisterToken(req.Token, req.Platform, time.Now()); err != nil {
		http.Error(w, "Failed to register token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Token registered"})
}

// UnregisterToken handles POST /api/notifications/unregister
func (h *TraderHandler) UnregisterToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.tokenRepo.UnregisterToken(req.Token); err != nil {
		http.Error(w, "Failed to unregister token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Token unregistered"})
}
