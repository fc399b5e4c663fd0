package main

import (
	"context"
	"log"
	"net/http"

	"papertrader-backend/internal/config"
	httpdelivery "papertrader-backend/internal/delivery/http"
	"papertrader-backend/internal/delivery/websocket"
	"papertrader-backend/internal/domain"
	"papertrader-backend/internal/infrastructure/binance"
	"papertrader-backend/internal/infrastructure/db"
	"papertrader-backend/internal/infrastructure/fcm"
	"papertrader-backend/internal/repository"
	"papertrader-backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx := context.Background()

	// 1. Repositories (Postgres when DATABASE_URL is set, in-memory otherwise)
	var candleRepo domain.CandleRepository
	var tokenRepo domain.DeviceTokenRepository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolConfigFromEnv())
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatalf("❌ Failed to run migrations: %v", err)
		}
		candleRepo = repository.NewPostgresCandleRepository(pool)
		tokenRepo = repository.NewPostgresTokenRepository(pool)
		log.Println("✅ Connected to Postgres")
	} else {
		candleRepo = repository.NewInMemoryCandleRepository()
		tokenRepo = repository.NewInMemoryTokenRepository()
		log.Println("⚠️ DATABASE_URL not set, using in-memory repositories")
	}

	// 2. Push notifications (disabled when credentials are missing)
	fcmClient, err := fcm.NewClient()
	if err != nil {
		log.Printf("⚠️ FCM init failed, notifications disabled: %v", err)
		fcmClient = nil
	}

	// 3. Usecases
	strategy, err := domain.ParseSizingStrategy(cfg.Strategy)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	sizer := usecase.NewPositionSizer()
	consensus := usecase.NewConsensusEngine()
	sim := usecase.NewSimulator(usecase.SimulatorConfig{
		InitialBalance:      cfg.InitialBalance,
		Limits:              cfg.Limits,
		Strategy:            strategy,
		StopLossPct:         cfg.StopLossPct,
		AcknowledgeHighRisk: cfg.AcknowledgeHighRisk,
	}, sizer, consensus)

	trader := usecase.NewPaperTraderService(
		sim,
		sizer,
		binance.NewClient(cfg.BinanceBaseURL),
		candleRepo,
		fcmClient,
		tokenRepo,
		cfg.Symbols,
	)

	// 4. Start trader loop in background (disabled until enabled via settings)
	go trader.Run(ctx)

	// 5. Delivery
	backtestHandler := httpdelivery.NewBacktestHandler(cfg.Limits)
	sizingHandler := httpdelivery.NewSizingHandler(sizer, cfg.Limits)
	traderHandler := httpdelivery.NewTraderHandler(trader, tokenRepo)
	wsHandler := websocket.NewHandler(trader)

	http.HandleFunc("/api/backtest", backtestHandler.Run)
	http.HandleFunc("/api/sizing/preview", sizingHandler.Preview)
	http.HandleFunc("/api/sizing/stats", sizingHandler.Stats)
	http.HandleFunc("/api/sizing/limits", sizingHandler.Limits)
	http.HandleFunc("/api/trader/portfolio", traderHandler.GetPortfolio)
	http.HandleFunc("/api/trader/report", traderHandler.GetReport)
	http.HandleFunc("/api/trader/settings", traderHandler.Settings)
	http.HandleFunc("/api/notifications/register", traderHandler.RegisterToken)
	http.HandleFunc("/api/notifications/unregister", traderHandler.UnregisterToken)
	http.HandleFunc("/ws", wsHandler.Handle)

	log.Printf("Server executing on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		log.Fatal(err)
	}
}
