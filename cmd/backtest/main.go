package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"papertrader-backend/internal/domain"
	"papertrader-backend/internal/infrastructure/marketdata"
	"papertrader-backend/internal/usecase"
)

var (
	symbols     []string
	days        int
	balance     float64
	strategy    string
	seed        int64
	stopLossPct float64
	ackHighRisk bool
)

var rootCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a paper trading backtest over synthetic market data",
	Long: `Generates a seeded random-walk price series per symbol, drives the
portfolio simulator over it day by day and prints the performance report.
The same seed always produces the same report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		strat, err := domain.ParseSizingStrategy(strategy)
		if err != nil {
			return err
		}

		series := marketdata.GenerateSampleSeries(symbols, days, seed)
		result := usecase.RunBacktest(series, usecase.SimulatorConfig{
			InitialBalance:      balance,
			Limits:              domain.DefaultRiskLimits(),
			Strategy:            strat,
			StopLossPct:         stopLossPct,
			AcknowledgeHighRisk: ackHighRisk,
		}, usecase.NewPositionSizer(), usecase.NewConsensusEngine())

		fmt.Println(usecase.FormatReport(result.Report))
		return nil
	},
}

func init() {
	rootCmd.Flags().StringSliceVar(&symbols, "symbols", []string{"BTCUSDT", "ETHUSDT", "BNBUSDT"}, "symbols to trade")
	rootCmd.Flags().IntVar(&days, "days", 90, "number of daily candles to simulate")
	rootCmd.Flags().Float64Var(&balance, "balance", 10000, "initial balance in USDT")
	rootCmd.Flags().StringVar(&strategy, "strategy", "fixed_fractional", "sizing strategy (fixed_fractional|kelly|volatility|martingale)")
	rootCmd.Flags().Int64Var(&seed, "seed", 42, "random seed for the price series")
	rootCmd.Flags().Float64Var(&stopLossPct, "stop-loss", 0.05, "stop loss distance as a fraction of entry price")
	rootCmd.Flags().BoolVar(&ackHighRisk, "ack-high-risk", false, "acknowledge the risk of the martingale strategy")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
