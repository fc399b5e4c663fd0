package binance

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"papertrader-backend/internal/domain"
)

const FapiBaseURL = "https://fapi.binance.com"

// Client fetches futures market data. Read-only: klines and prices, no
// order endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = FapiBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetKlines returns candlestick data for a symbol/timeframe, ascending by
// open time. Binance returns rows of mixed strings/numbers:
// [open_time, open, high, low, close, volume, ...]
func (c *Client) GetKlines(symbol string, tf domain.Timeframe, limit int) ([]domain.Candle, error) {
	url := fmt.Sprintf("%s/fapi/v1/klines?symbol=%s&interval=%s&limit=%d", c.baseURL, symbol, tf, limit)
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance API error: %d", resp.StatusCode)
	}

	var rows [][]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}

	candles := make([]domain.Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		openTime, _ := parseValue(row[0])
		o, _ := parseValue(row[1])
		h, _ := parseValue(row[2])
		l, _ := parseValue(row[3])
		cl, _ := parseValue(row[4])
		v, _ := parseValue(row[5])

		candles = append(candles, domain.Candle{
			Symbol:    symbol,
			Timeframe: tf,
			OpenTime:  time.UnixMilli(int64(openTime)),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     cl,
			Volume:    v,
		})
	}
	return candles, nil
}

type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// GetLastPrice returns the latest traded price for a symbol.
func (c *Client) GetLastPrice(symbol string) (float64, error) {
	url := fmt.Sprintf("%s/fapi/v1/ticker/price?symbol=%s", c.baseURL, symbol)
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("binance API error: %d", resp.StatusCode)
	}

	var data tickerPrice
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(data.Price, 64)
}

func parseValue(v interface{}) (float64, error) {
	switch val := v.(type) {
	case string:
		return strconv.ParseFloat(val, 64)
	case float64:
		return val, nil
	}
	return 0, fmt.Errorf("unexpected kline value type %T", v)
}
