package leader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// dashboardView selects which dashboard tab is on screen.
type dashboardView int

const (
	viewStatistics dashboardView = iota
	viewTrends
)

// trendMetric selects which per-camp figure the bar chart plots.
type trendMetric int

const (
	metricMoney trendMetric = iota
	metricCampers
	metricIncidents
	metricFood
)

func (m trendMetric) label() string {
	switch m {
	case metricMoney:
		return "money earned (£)"
	case metricCampers:
		return "campers led"
	case metricIncidents:
		return "incidents"
	default:
		return "food units used"
	}
}

// barWidth is the widest a chart bar can grow.
const barWidth = 40

// dashboardModel is the full-screen leader dashboard. The statistics tab is
// a summary table of lifetime figures; the trends tab shows per-camp rows
// with a bar chart of the selected metric.
type dashboardModel struct {
	stats  *storage.LeaderStats
	trends []storage.CampTrend

	trendTable table.Model
	view       dashboardView
	metric     trendMetric
}

func newDashboardModel(stats *storage.LeaderStats, trends []storage.CampTrend) dashboardModel {
	columns := []table.Column{
		{Title: "Camp", Width: 20},
		{Title: "Start", Width: 12},
		{Title: "Earned", Width: 10},
		{Title: "Campers", Width: 8},
		{Title: "Incidents", Width: 9},
		{Title: "Food", Width: 6},
		{Title: "Part.", Width: 7},
	}

	rows := make([]table.Row, 0, len(trends))
	for _, trend := range trends {
		rows = append(rows, table.Row{
			trend.CampName,
			trend.StartDate,
			fmt.Sprintf("£%.0f", trend.MoneyEarned),
			strconv.Itoa(trend.TotalCampers),
			strconv.Itoa(trend.IncidentCount),
			strconv.Itoa(trend.FoodUsed),
			fmt.Sprintf("%.0f%%", trend.ParticipationRate*100),
		})
	}

	height := len(rows)
	if height < 1 {
		height = 1
	}
	if height > 8 {
		height = 8
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return dashboardModel{
		stats:      stats,
		trends:     trends,
		trendTable: t,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return nil
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, isKey := msg.(tea.KeyMsg); isKey {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "1":
			m.view = viewStatistics
			return m, nil
		case "2":
			m.view = viewTrends
			return m, nil
		case "tab":
			if m.view == viewStatistics {
				m.view = viewTrends
			} else {
				m.view = viewStatistics
			}
			return m, nil
		case "m":
			if m.view == viewTrends {
				m.metric = (m.metric + 1) % 4
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.view == viewTrends {
		m.trendTable, cmd = m.trendTable.Update(msg)
	}
	return m, cmd
}

func (m dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render("LEADER DASHBOARD"))
	b.WriteString("\n")
	b.WriteString(ui.MutedStyle.Render("[1] statistics  [2] trends  [tab] switch  [q] quit"))
	b.WriteString("\n\n")

	if m.view == viewStatistics {
		b.WriteString(m.statisticsView())
	} else {
		b.WriteString(m.trendsView())
	}

	return b.String()
}

func (m dashboardModel) statisticsView() string {
	rows := [][]string{
		{"Total camps led", strconv.Itoa(m.stats.TotalCamps)},
		{"Money earned", fmt.Sprintf("£%.2f", m.stats.TotalMoneyEarned)},
		{"Total campers led", strconv.Itoa(m.stats.TotalCampersLed)},
		{"Total incident count", strconv.Itoa(m.stats.TotalIncidents)},
		{"Food resources used", fmt.Sprintf("%d units", m.stats.TotalFoodUsed)},
		{"Avg participation rate", fmt.Sprintf("%.1f%%", m.stats.AvgParticipationRate*100)},
	}
	return ui.RenderTable([]string{"Statistic", "Value"}, rows)
}

func (m dashboardModel) trendsView() string {
	if len(m.trends) == 0 {
		return "No camps led yet."
	}

	var b strings.Builder
	b.WriteString(m.trendTable.View())
	b.WriteString("\n\n")
	b.WriteString(ui.AccentStyle.Render("Chart: " + m.metric.label() + "  ([m] next metric)"))
	b.WriteString("\n")
	b.WriteString(m.chart())
	return b.String()
}

func (m dashboardModel) chart() string {
	labels := make([]string, 0, len(m.trends))
	values := make([]float64, 0, len(m.trends))
	for _, trend := range m.trends {
		labels = append(labels, trend.CampName)
		switch m.metric {
		case metricMoney:
			values = append(values, trend.MoneyEarned)
		case metricCampers:
			values = append(values, float64(trend.TotalCampers))
		case metricIncidents:
			values = append(values, float64(trend.IncidentCount))
		default:
			values = append(values, float64(trend.FoodUsed))
		}
	}
	return ui.BarChart(labels, values, barWidth)
}

// showDashboard loads the leader's figures and hands the terminal to the
// dashboard until the leader quits it.
func (l *Interface) showDashboard() {
	stats, err := l.store.LeaderStatistics(l.user.ID, l.today())
	if err != nil {
		l.logger.Error().Err(err).Msg("could not load leader statistics")
		l.reportError("Could not load your statistics.")
		return
	}
	trends, err := l.store.LeaderTrends(l.user.ID, l.today())
	if err != nil {
		l.logger.Error().Err(err).Msg("could not load leader trends")
		l.reportError("Could not load your trends.")
		return
	}

	program := tea.NewProgram(
		newDashboardModel(stats, trends),
		tea.WithInput(l.rawIn),
		tea.WithOutput(l.out),
	)
	if _, err := program.Run(); err != nil {
		l.logger.Error().Err(err).Msg("dashboard terminated")
		l.reportError("The dashboard could not be displayed.")
	}
}
