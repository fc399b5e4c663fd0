package domain

import "time"

// Close reasons recorded on a Trade.
const (
	CloseReasonSignalExit = "signal exit"
	CloseReasonStopLoss   = "stop loss"
)

// Position is an open paper position. At most one open position per symbol.
type Position struct {
	ID         string         `json:"id"`
	Symbol     string         `json:"symbol"`
	Size       float64        `json:"size"` // notional, USDT
	EntryPrice float64        `json:"entryPrice"`
	StopLoss   float64        `json:"stopLoss"`
	Strategy   SizingStrategy `json:"strategy"`
	OpenedAt   time.Time      `json:"openedAt"`
}

// UnrealizedPnL marks the position to the given price. The notional is
// price denominated, so units = size / entry price.
func (p Position) UnrealizedPnL(currentPrice float64) float64 {
	if p.EntryPrice == 0 {
		return 0
	}
	units := p.Size / p.EntryPrice
	return (currentPrice - p.EntryPrice) * units
}

// Trade is an append-only record of a closed position.
type Trade struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Size       float64   `json:"size"`
	EntryPrice float64   `json:"entryPrice"`
	ExitPrice  float64   `json:"exitPrice"`
	PnL        float64   `json:"pnl"`
	Reason     string    `json:"reason"`
	ClosedAt   time.Time `json:"closedAt"`
}

// PnLSnapshot is one period's portfolio mark appended at the end of each tick.
type PnLSnapshot struct {
	Date           time.Time `json:"date"`
	PortfolioValue float64   `json:"portfolioValue"` // balance + unrealized PnL
	DailyPnL       float64   `json:"dailyPnl"`
	Balance        float64   `json:"balance"`
	OpenPositions  int       `json:"openPositions"`
}

// SizingOutcomes counts sizing decisions that did not result in a plain
// open, so a report can tell "blocked by risk limits" apart from "no signal".
type SizingOutcomes struct {
	RejectedByReason map[string]int `json:"rejectedByReason"`
	RiskAdjusted     int            `json:"riskAdjusted"`
}

// PortfolioState is the read model handed to reporting and delivery. It is a
// value copy; mutating it never touches the simulator.
type PortfolioState struct {
	InitialBalance float64        `json:"initialBalance"`
	Balance        float64        `json:"balance"`
	OpenPositions  []Position     `json:"openPositions"`
	Trades         []Trade        `json:"trades"`
	Snapshots      []PnLSnapshot  `json:"snapshots"`
	Outcomes       SizingOutcomes `json:"sizingOutcomes"`
}
