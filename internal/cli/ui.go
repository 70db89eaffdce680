package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quantbay/brokerchat/models"
)

var (
	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			PaddingLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true)

	chartStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			PaddingLeft(2)
)

// DisplayWelcomeBanner shows the welcome banner.
func DisplayWelcomeBanner() {
	fmt.Println(bannerStyle.Render("╔══════════════════════════════════════════════════════╗"))
	fmt.Println(bannerStyle.Render("║            💬 BrokerChat — trading assistant          ║"))
	fmt.Println(bannerStyle.Render("╚══════════════════════════════════════════════════════╝"))
	fmt.Println()
	fmt.Println("I can place or cancel trades, show your orders and portfolio,")
	fmt.Println("pull live market data, and dig up recent market news.")
	fmt.Println()
	fmt.Println("Type 'exit' to quit.")
	fmt.Println()
}

// DisplayReply prints an assistant reply.
func DisplayReply(reply string) {
	fmt.Println(assistantStyle.Render(reply))
	fmt.Println()
}

// DisplayError shows an error message.
func DisplayError(err error) {
	fmt.Println(errorStyle.Render(fmt.Sprintf("❌ Error: %v", err)))
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// DisplayChart renders the daily closes as a one-line sparkline.
func DisplayChart(symbol string, bars []models.Bar) {
	if len(bars) < 2 {
		return
	}

	closes := make([]float64, len(bars))
	lo, hi := 0.0, 0.0
	for i, b := range bars {
		v, _ := b.Close.Float64()
		closes[i] = v
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}

	var sb strings.Builder
	span := hi - lo
	for _, v := range closes {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkRunes)-1))
		}
		sb.WriteRune(sparkRunes[idx])
	}

	line := fmt.Sprintf("%s %dd: %s  (%.2f → %.2f)",
		symbol, len(bars), sb.String(), closes[0], closes[len(closes)-1])
	fmt.Println(chartStyle.Render(line))
	fmt.Println()
}
