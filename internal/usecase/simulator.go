package usecase

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"papertrader-backend/internal/domain"
)

// DefaultStopLossPct is the fixed stop policy applied on open: stop price =
// entry × (1 - DefaultStopLossPct).
const DefaultStopLossPct = 0.05

// Fallback Kelly inputs used until enough closed trades exist to measure
// the real win rate and win/loss magnitudes.
const (
	fallbackWinRate        = 0.6
	fallbackAvgWin         = 0.02
	fallbackAvgLoss        = 0.01
	minTradesForKellyStats = 5
)

// SymbolTick is one symbol's input for a simulation tick: the current price
// plus whatever timeframes have indicator data available. Timeframes without
// data are simply absent from the map.
type SymbolTick struct {
	Price      float64
	Indicators map[domain.Timeframe]domain.IndicatorSnapshot
	Volatility float64 // e.g. ATR fraction of price; 0 when unknown
}

// TickResult reports what one tick changed, so callers can notify or log
// without diffing the whole state.
type TickResult struct {
	Opened   []domain.Position
	Closed   []domain.Trade
	Signals  map[string]domain.ConsensusSignal
	Snapshot domain.PnLSnapshot
}

// SimulatorConfig fixes a simulation run's policy.
type SimulatorConfig struct {
	InitialBalance      float64
	Limits              domain.RiskLimits
	Strategy            domain.SizingStrategy
	StopLossPct         float64 // 0 means DefaultStopLossPct
	AcknowledgeHighRisk bool    // required for the martingale strategy
}

// Simulator owns the portfolio state and drives it one tick at a time.
// Symbols are always processed in sorted order, so identical input series
// replay to identical results. All mutation happens inside Tick; the sizer
// and consensus engine never see portfolio state.
type Simulator struct {
	cfg       SimulatorConfig
	sizer     *PositionSizer
	consensus *ConsensusEngine

	mu          sync.RWMutex
	balance     float64
	positions   map[string]*domain.Position
	trades      []domain.Trade
	snapshots   []domain.PnLSnapshot
	outcomes    domain.SizingOutcomes
	lossStreaks map[string]int // consecutive losing trades per symbol
}

func NewSimulator(cfg SimulatorConfig, sizer *PositionSizer, consensus *ConsensusEngine) *Simulator {
	if cfg.StopLossPct <= 0 {
		cfg.StopLossPct = DefaultStopLossPct
	}
	return &Simulator{
		cfg:       cfg,
		sizer:     sizer,
		consensus: consensus,
		balance:   cfg.InitialBalance,
		positions: make(map[string]*domain.Position),
		outcomes: domain.SizingOutcomes{
			RejectedByReason: make(map[string]int),
		},
		lossStreaks: make(map[string]int),
	}
}

// Tick advances the simulation by one period. Fixed order: evaluate signals,
// open on BUY, close on SELL ("signal exit"), stop-loss sweep, snapshot.
// The sweep runs after signal exits so a signal-driven close wins the tick.
func (s *Simulator) Tick(date time.Time, market map[string]SymbolTick) TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbols := make([]string, 0, len(market))
	for sym := range market {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	result := TickResult{
		Signals: make(map[string]domain.ConsensusSignal, len(symbols)),
	}

	// 1. Evaluate consensus for every tracked symbol.
	for _, sym := range symbols {
		result.Signals[sym] = s.consensus.Evaluate(market[sym].Indicators)
	}

	// 2. Open on BUY where no position exists.
	for _, sym := range symbols {
		if _, open := s.positions[sym]; open {
			continue
		}
		if result.Signals[sym].Direction != domain.DirectionBuy {
			continue
		}
		if pos, ok := s.openPosition(sym, market[sym], date); ok {
			result.Opened = append(result.Opened, pos)
		}
	}

	// 3. Close on SELL where a position exists.
	for _, sym := range symbols {
		pos, open := s.positions[sym]
		if !open || result.Signals[sym].Direction != domain.DirectionSell {
			continue
		}
		result.Closed = append(result.Closed, s.closePosition(pos, market[sym].Price, domain.CloseReasonSignalExit, date))
	}

	// 4. Stop-loss sweep, independent of signals.
	for _, sym := range symbols {
		pos, open := s.positions[sym]
		if !open {
			continue
		}
		price := market[sym].Price
		if price <= pos.StopLoss {
			result.Closed = append(result.Closed, s.closePosition(pos, price, domain.CloseReasonStopLoss, date))
		}
	}

	// 5. PnL snapshot.
	result.Snapshot = s.appendSnapshot(date, market)
	return result
}

func (s *Simulator) openPosition(symbol string, tick SymbolTick, date time.Time) (domain.Position, bool) {
	if len(s.positions) >= s.cfg.Limits.MaxOpenPositions {
		s.outcomes.RejectedByReason[domain.ReasonMaxPositionsOpen]++
		return domain.Position{}, false
	}

	entryPrice := tick.Price
	stopLoss := entryPrice * (1 - s.cfg.StopLossPct)

	res := s.sizer.Size(s.buildSizingRequest(symbol, entryPrice, stopLoss, tick), s.cfg.Limits)
	if res.Rejected {
		s.outcomes.RejectedByReason[res.Reason]++
		return domain.Position{}, false
	}
	if res.RiskAdjusted {
		s.outcomes.RiskAdjusted++
	}
	if res.Size > s.balance {
		// Full precision: the shortfall can be a sub-cent rounding artifact
		// that two-decimal output would render as "need X, have X".
		log.Printf("Insufficient funds for %s: need %v, have %v", symbol, res.Size, s.balance)
		s.outcomes.RejectedByReason[domain.ReasonInsufficientFunds]++
		return domain.Position{}, false
	}

	pos := &domain.Position{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Size:       res.Size,
		EntryPrice: entryPrice,
		StopLoss:   stopLoss,
		Strategy:   res.Strategy,
		OpenedAt:   date,
	}
	s.positions[symbol] = pos
	s.balance -= res.Size

	log.Printf("📈 Position opened: %s | %.2f @ %.4f | SL %.4f", symbol, res.Size, entryPrice, stopLoss)
	return *pos, true
}

func (s *Simulator) buildSizingRequest(symbol string, entryPrice, stopLoss float64, tick SymbolTick) domain.SizingRequest {
	req := domain.SizingRequest{
		Symbol:         symbol,
		EntryPrice:     entryPrice,
		StopPrice:      stopLoss,
		PortfolioValue: s.balance,
		Strategy:       s.cfg.Strategy,
	}

	switch s.cfg.Strategy {
	case domain.StrategyKelly:
		req.WinRate, req.AvgWin, req.AvgLoss = s.kellyInputs()
	case domain.StrategyVolatilityBased:
		req.Volatility = tick.Volatility
	case domain.StrategyMartingaleAdaptive:
		req.ConsecutiveLosses = s.lossStreaks[symbol]
		req.AcknowledgeHighRisk = s.cfg.AcknowledgeHighRisk
	}
	return req
}

// kellyInputs measures win rate and relative win/loss magnitudes from the
// realized trade log, falling back to conservative defaults while the log
// is still short.
func (s *Simulator) kellyInputs() (winRate, avgWin, avgLoss float64) {
	if len(s.trades) < minTradesForKellyStats {
		return fallbackWinRate, fallbackAvgWin, fallbackAvgLoss
	}

	wins, winSum, lossSum := 0, 0.0, 0.0
	losses := 0
	for _, t := range s.trades {
		rel := t.PnL / t.Size
		if t.PnL > 0 {
			wins++
			winSum += rel
		} else if t.PnL < 0 {
			losses++
			lossSum += -rel
		}
	}
	if wins == 0 || losses == 0 {
		return fallbackWinRate, fallbackAvgWin, fallbackAvgLoss
	}
	return float64(wins) / float64(len(s.trades)), winSum / float64(wins), lossSum / float64(losses)
}

func (s *Simulator) closePosition(pos *domain.Position, exitPrice float64, reason string, date time.Time) domain.Trade {
	pnl := pos.UnrealizedPnL(exitPrice)

	trade := domain.Trade{
		ID:         uuid.NewString(),
		Symbol:     pos.Symbol,
		Size:       pos.Size,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  exitPrice,
		PnL:        pnl,
		Reason:     reason,
		ClosedAt:   date,
	}

	s.trades = append(s.trades, trade)
	s.balance += pos.Size + pnl
	delete(s.positions, pos.Symbol)

	if pnl < 0 {
		s.lossStreaks[pos.Symbol]++
	} else {
		s.lossStreaks[pos.Symbol] = 0
	}

	log.Printf("📉 Position closed: %s | PnL %.2f (%s)", pos.Symbol, pnl, reason)
	return trade
}

func (s *Simulator) appendSnapshot(date time.Time, market map[string]SymbolTick) domain.PnLSnapshot {
	// Portfolio value is cash plus mark-to-market PnL of open positions;
	// the committed notional itself sits outside the cash balance until
	// the position closes. Positions without a fresh price mark flat.
	portfolioValue := s.balance
	for sym, pos := range s.positions {
		if tick, ok := market[sym]; ok {
			portfolioValue += pos.UnrealizedPnL(tick.Price)
		}
	}

	realized := 0.0
	for _, t := range s.trades {
		realized += t.PnL
	}

	snap := domain.PnLSnapshot{
		Date:           date,
		PortfolioValue: portfolioValue,
		DailyPnL:       portfolioValue - (s.cfg.InitialBalance + realized),
		Balance:        s.balance,
		OpenPositions:  len(s.positions),
	}
	s.snapshots = append(s.snapshots, snap)
	return snap
}

// State returns a value copy of the portfolio for reporting and delivery.
func (s *Simulator) State() domain.PortfolioState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	open := make([]domain.Position, 0, len(s.positions))
	for _, pos := range s.positions {
		open = append(open, *pos)
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Symbol < open[j].Symbol })

	trades := make([]domain.Trade, len(s.trades))
	copy(trades, s.trades)
	snapshots := make([]domain.PnLSnapshot, len(s.snapshots))
	copy(snapshots, s.snapshots)

	rejected := make(map[string]int, len(s.outcomes.RejectedByReason))
	for k, v := range s.outcomes.RejectedByReason {
		rejected[k] = v
	}

	return domain.PortfolioState{
		InitialBalance: s.cfg.InitialBalance,
		Balance:        s.balance,
		OpenPositions:  open,
		Trades:         trades,
		Snapshots:      snapshots,
		Outcomes: domain.SizingOutcomes{
			RejectedByReason: rejected,
			RiskAdjusted:     s.outcomes.RiskAdjusted,
		},
	}
}
