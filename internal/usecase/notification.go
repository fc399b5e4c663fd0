package usecase

import (
	"fmt"
	"log"
)

// notifyTickResult pushes FCM notifications for positions the tick opened
// or closed. Best-effort: a failed send is logged and never blocks trading.
func (s *PaperTraderService) notifyTickResult(result TickResult) {
	if s.fcmClient == nil || !s.fcmClient.IsEnabled() || s.tokenRepo == nil {
		return
	}

	tokens := s.tokenRepo.GetAllTokens()
	if len(tokens) == 0 {
		return
	}

	for _, pos := range result.Opened {
		title := fmt.Sprintf("📈 %s position opened", pos.Symbol)
		body := fmt.Sprintf("%.2f USDT @ %.4f | SL %.4f | %s", pos.Size, pos.EntryPrice, pos.StopLoss, pos.Strategy)
		data := map[string]string{
			"event":  "open",
			"symbol": pos.Symbol,
			"size":   fmt.Sprintf("%.2f", pos.Size),
			"price":  fmt.Sprintf("%.4f", pos.EntryPrice),
		}
		if err := s.fcmClient.SendMulticast(tokens, title, body, data); err != nil {
			log.Printf("Error sending open notification for %s: %v", pos.Symbol, err)
		}
	}

	for _, trade := range result.Closed {
		emoji := "✅"
		if trade.PnL < 0 {
			emoji = "🔻"
		}
		title := fmt.Sprintf("%s %s position closed", emoji, trade.Symbol)
		body := fmt.Sprintf("PnL %.2f USDT | exit %.4f | %s", trade.PnL, trade.ExitPrice, trade.Reason)
		data := map[string]string{
			"event":  "close",
			"symbol": trade.Symbol,
			"pnl":    fmt.Sprintf("%.2f", trade.PnL),
			"reason": trade.Reason,
		}
		if err := s.fcmClient.SendMulticast(tokens, title, body, data); err != nil {
			log.Printf("Error sending close notification for %s: %v", trade.Symbol, err)
		}
	}
}
