package render

import (
	"fmt"

	"github.com/wagneradl/opsdesk/internal/models"
)

func currencySymbol(currency string) string {
	if currency == "BRL" {
		return "R$"
	}
	return "$"
}

// Price formats a catalog price. Free and invite-only tools show as such;
// prices below 0.1 keep four decimals.
func Price(t models.MarketTool) string {
	if t.Price == 0 {
		return "Free / Invite"
	}
	return currencySymbol(t.Currency) + " " + amount(t.Price)
}

// VariantPrice formats a variant price with four decimals.
func VariantPrice(currency string, v models.ToolVariant) string {
	return fmt.Sprintf("%s%.4f %s", currencySymbol(currency), v.Price, v.Unit)
}

func amount(v float64) string {
	if v < 0.1 {
		return fmt.Sprintf("%.4f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// Trend renders the trend arrow and the last update label.
func Trend(t models.MarketTool) string {
	switch t.Trend {
	case models.TrendUp:
		return badStyle.Render("▲ " + t.LastUpdated)
	case models.TrendDown:
		return goodStyle.Render("▼ " + t.LastUpdated)
	default:
		return mutedStyle.Render("■ " + t.LastUpdated)
	}
}
