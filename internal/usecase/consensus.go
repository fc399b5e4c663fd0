package usecase

import (
	"sort"

	"papertrader-backend/internal/domain"
)

// Fixed timeframe weights; longer timeframes dominate so one noisy 1m bar
// cannot flip the decision. The table sums to 1.0.
var timeframeWeights = map[domain.Timeframe]float64{
	domain.Timeframe1m:  0.1,
	domain.Timeframe5m:  0.2,
	domain.Timeframe15m: 0.3,
	domain.Timeframe1h:  0.4,
}

// consensusThreshold maps the blended score to a direction. A score exactly
// at the threshold resolves to HOLD: when in doubt, do nothing.
const consensusThreshold = 0.3

// Sub-indicator score caps. The four partials sum to at most 1.0 so a
// single timeframe's score stays inside [-1, +1].
const (
	rsiScoreMax    = 0.4
	macdScoreMax   = 0.3
	bandScoreMax   = 0.2
	volumeScoreMax = 0.1
)

// ConsensusEngine blends per-timeframe indicator readings into one
// directional signal. Stateless; safe to share.
type ConsensusEngine struct{}

func NewConsensusEngine() *ConsensusEngine {
	return &ConsensusEngine{}
}

// Evaluate computes the weighted consensus over the timeframes present in
// the input. Absent timeframes are skipped and do not count toward the
// weight total; with no timeframes at all the result is HOLD at confidence 0.
func (e *ConsensusEngine) Evaluate(snapshots map[domain.Timeframe]domain.IndicatorSnapshot) domain.ConsensusSignal {
	totalScore := 0.0
	weightsUsed := 0.0
	breakdown := make([]domain.TimeframeSignal, 0, len(snapshots))

	// Stable iteration order so the breakdown (and any log output) is
	// deterministic across replays.
	tfs := make([]domain.Timeframe, 0, len(snapshots))
	for tf := range snapshots {
		if _, known := timeframeWeights[tf]; known {
			tfs = append(tfs, tf)
		}
	}
	sort.Slice(tfs, func(i, j int) bool {
		return timeframeWeights[tfs[i]] < timeframeWeights[tfs[j]]
	})

	for _, tf := range tfs {
		weight := timeframeWeights[tf]
		score := scoreTimeframe(snapshots[tf])
		totalScore += score * weight
		weightsUsed += weight
		breakdown = append(breakdown, domain.TimeframeSignal{
			Timeframe: tf,
			Score:     score,
			Weight:    weight,
		})
	}

	finalScore := 0.0
	if weightsUsed > 0 {
		finalScore = totalScore / weightsUsed
	}

	return domain.ConsensusSignal{
		Direction:  scoreToDirection(finalScore),
		Confidence: abs(finalScore),
		Score:      finalScore,
		Breakdown:  breakdown,
	}
}

// scoreTimeframe derives one timeframe's sub-signal in [-1, +1]. Positive is
// bullish. Threshold ladders per indicator, each capped at its score share.
func scoreTimeframe(s domain.IndicatorSnapshot) float64 {
	score := 0.0

	// RSI extremity: oversold argues for entry, overbought against.
	if s.RSI <= 30 {
		score += rsiScoreMax
	} else if s.RSI <= 40 {
		score += rsiScoreMax / 2
	} else if s.RSI >= 70 {
		score -= rsiScoreMax
	} else if s.RSI >= 60 {
		score -= rsiScoreMax / 2
	}

	// MACD line vs signal line.
	if s.MACD > s.MACDSignal {
		score += macdScoreMax
	} else if s.MACD < s.MACDSignal {
		score -= macdScoreMax
	}

	// Bollinger position: outside the bands means stretched price.
	if s.BBLower > 0 && s.Close < s.BBLower {
		score += bandScoreMax
	} else if s.BBUpper > 0 && s.Close > s.BBUpper {
		score -= bandScoreMax
	}

	// A volume spike confirms whatever the other indicators say; it never
	// creates a direction on its own.
	if s.VolumeSpike {
		if score > 0 {
			score += volumeScoreMax
		} else if score < 0 {
			score -= volumeScoreMax
		}
	}

	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}
	return score
}

func scoreToDirection(score float64) domain.Direction {
	if score > consensusThreshold {
		return domain.DirectionBuy
	}
	if score < -consensusThreshold {
		return domain.DirectionSell
	}
	return domain.DirectionHold
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
