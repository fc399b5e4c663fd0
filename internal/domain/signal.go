package domain

// Timeframe identifies a kline interval in Binance notation.
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe1h  Timeframe = "1h"
)

// Direction is the consensus trading decision.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
	DirectionHold Direction = "HOLD"
)

// IndicatorSnapshot holds the most recent indicator readings for one
// timeframe. Producers must only emit a snapshot once every reading has
// enough history; an unavailable timeframe is left out of the evaluation
// input entirely rather than sent with zeroed fields.
type IndicatorSnapshot struct {
	Close       float64 `json:"close"`
	RSI         float64 `json:"rsi"`
	MACD        float64 `json:"macd"`
	MACDSignal  float64 `json:"macdSignal"`
	BBUpper     float64 `json:"bbUpper"`
	BBLower     float64 `json:"bbLower"`
	VolumeSpike bool    `json:"volumeSpike"`
}

// TimeframeSignal is one timeframe's raw sub-signal inside a consensus.
type TimeframeSignal struct {
	Timeframe Timeframe `json:"tf"`
	Score     float64   `json:"score"`  // [-1, +1]
	Weight    float64   `json:"weight"` // fixed table weight
}

// ConsensusSignal is the weighted multi-timeframe decision. Recomputed every
// evaluation tick, never persisted.
type ConsensusSignal struct {
	Direction  Direction         `json:"direction"`
	Confidence float64           `json:"confidence"` // [0, 1]
	Score      float64           `json:"score"`      // weighted blend, [-1, +1]
	Breakdown  []TimeframeSignal `json:"breakdown,omitempty"`
}
