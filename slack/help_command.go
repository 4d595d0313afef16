package protectslack

import "context"

type HelpHandler struct{}

func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

func (h *HelpHandler) Respond(ctx context.Context, text string) (string, error) {
	return "Available commands:\n" +
		"/help - Show this help message\n" +
		"/price <spot> <strike> <days> <vol> <call|put> - Black-Scholes price and Greeks\n" +
		"/iv <spot> <strike> <days> <price> <call|put> - Implied volatility from a market price\n" +
		"/hedge [ticker] [decline,decline,...] - Compare the inverse ETF against the protective put", nil
}
