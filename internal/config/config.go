package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"papertrader-backend/internal/domain"
)

// Config is the full server configuration, loaded once at startup from the
// environment (with .env support). Risk limits are validated here so every
// downstream component can assume a well-formed RiskLimits value.
type Config struct {
	Port           string
	DatabaseURL    string
	BinanceBaseURL string

	Symbols             []string
	InitialBalance      float64
	Strategy            string
	StopLossPct         float64
	AcknowledgeHighRisk bool

	Limits domain.RiskLimits
}

// Load reads configuration from the environment. A missing .env file is
// fine; explicit env vars always win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           envString("PORT", "8080"),
		DatabaseURL:    envString("DATABASE_URL", ""),
		BinanceBaseURL: envString("BINANCE_BASE_URL", ""),

		Symbols:             splitSymbols(envString("TRADER_SYMBOLS", "BTCUSDT,ETHUSDT,BNBUSDT")),
		InitialBalance:      envFloat("INITIAL_BALANCE", 10000),
		Strategy:            envString("SIZING_STRATEGY", "fixed_fractional"),
		StopLossPct:         envFloat("STOP_LOSS_PCT", 0.05),
		AcknowledgeHighRisk: envBool("MARTINGALE_ACKNOWLEDGE_RISK", false),
	}

	limits := domain.DefaultRiskLimits()
	limits.MaxPortfolioRiskPct = envFloat("MAX_PORTFOLIO_RISK_PCT", limits.MaxPortfolioRiskPct)
	limits.MaxPositionRiskPct = envFloat("MAX_POSITION_RISK_PCT", limits.MaxPositionRiskPct)
	limits.MaxOpenPositions = envInt("MAX_OPEN_POSITIONS", limits.MaxOpenPositions)
	limits.MinTradeNotional = envFloat("MIN_TRADE_NOTIONAL", limits.MinTradeNotional)
	limits.MaxTradeNotional = envFloat("MAX_TRADE_NOTIONAL", limits.MaxTradeNotional)

	validated, err := domain.NewRiskLimits(limits)
	if err != nil {
		return nil, err
	}
	cfg.Limits = validated

	return cfg, nil
}

func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			symbols = append(symbols, strings.ToUpper(trimmed))
		}
	}
	return symbols
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
