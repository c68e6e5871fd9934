package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/frahmantamala/savings/internal/moneyflow"
	"github.com/shopspring/decimal"
)

const (
	minRenderWidth = 40
	listLimit      = 10
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Faint(true)
	amountStyle = lipgloss.NewStyle().Bold(true)
)

// FormatAmount prints "--" for zero and two decimals with a euro sign
// otherwise.
func FormatAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return "--"
	}
	return d.StringFixed(2) + "€"
}

// Render draws the summary for a terminal of the given width.
func Render(s Summary, width int) string {
	if width < minRenderWidth {
		width = minRenderWidth
	}
	cardWidth := width/2 - 2

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard("earning", s.TotalEarning, s.EarningRatio, cardWidth),
		renderCard("expense", s.TotalExpense, s.ExpenseRatio, cardWidth),
	)

	sections := []string{
		titleStyle.Render(fmt.Sprintf("Savings dashboard (%d flows, ratio base: %s)", s.Count, s.RatioBase)),
		cards,
	}
	if len(s.ByCategory) > 0 {
		sections = append(sections, renderCategories(s.ByCategory))
	}
	sections = append(sections,
		renderList("Earnings", s.Earnings),
		renderList("Expenses", s.Expenses),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderCard(label string, amount, ratio decimal.Decimal, width int) string {
	barWidth := width - 4
	if barWidth < 10 {
		barWidth = 10
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth))

	content := lipgloss.JoinVertical(lipgloss.Left,
		amountStyle.Render(FormatAmount(amount)),
		labelStyle.Render(label),
		bar.ViewAs(ratio.InexactFloat64()),
	)
	return cardStyle.Width(width).Render(content)
}

func renderCategories(totals []CategoryTotal) string {
	lines := []string{titleStyle.Render("By category")}
	for _, t := range totals {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Category.Hex)).Render("●")
		lines = append(lines, fmt.Sprintf("%s %-12s earning %-12s expense %s",
			swatch, t.Category.Label, FormatAmount(t.Earning), FormatAmount(t.Expense)))
	}
	return strings.Join(lines, "\n")
}

func renderList(title string, flows []moneyflow.MoneyFlowResponse) string {
	lines := []string{titleStyle.Render(title)}
	if len(flows) == 0 {
		lines = append(lines, labelStyle.Render("nothing recorded"))
		return strings.Join(lines, "\n")
	}
	for i, f := range flows {
		if i == listLimit {
			lines = append(lines, labelStyle.Render(fmt.Sprintf("… and %d more", len(flows)-listLimit)))
			break
		}
		lines = append(lines, fmt.Sprintf("%s  %-24s %10s  %s",
			f.Date.Format("2006-01-02"), truncate(f.Name, 24), FormatAmount(f.Amount), f.CategoryInfo.Label))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
