package cmd

import (
	"github.com/KaramelBytes/tabula-cli/internal/analysis"
	"github.com/KaramelBytes/tabula-cli/internal/locale"
	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor = lipgloss.Color("#4ECDC4")
	subtleColor = lipgloss.Color("#666666")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1).
			Width(22)

	cardLabelStyle = lipgloss.NewStyle().Foreground(subtleColor)
	cardValueStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	cardSubStyle   = lipgloss.NewStyle().Foreground(subtleColor).Italic(true)
)

func card(label, value, sub string) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardLabelStyle.Render(label),
		cardValueStyle.Render(value),
		cardSubStyle.Render(sub),
	))
}

// kpiCards renders the six headline indicators as two rows of cards.
func kpiCards(k analysis.KPIs) string {
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Attendances", locale.FormatCount(k.Count), "rows in the working set"),
		card("Total amount (R$)", locale.FormatCurrency(k.AmountSum), "sum of the working set"),
		card("Average ticket (R$)", locale.FormatCurrency(k.AmountMean), "mean of valid amounts"),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total km", locale.FormatDistance(k.DistanceSum), "sum of the working set"),
		card("Average km", locale.FormatDistance(k.DistanceMean), "mean of valid distances"),
		card("Provider quality", locale.FormatPercent(k.ProviderFill), "% with provider filled"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}
