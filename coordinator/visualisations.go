package coordinator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/laluke1/camptrack/pagination"
	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// vizOptionsPerPage is the visualisation selection menu page size.
const vizOptionsPerPage = 5

// allCampsID selects the cross-camp summary instead of a single camp.
const allCampsID int64 = 0

// campVisualisations is the selection loop in front of the visualisation
// screens: pick a camp, or the all-camps summary, and hand the terminal to
// the chart view until it is quit.
func (c *Interface) campVisualisations() {
	fmt.Fprintln(c.out, "Entering visualisations module...")
	page := 1

	for {
		camps, err := c.store.ListCamps()
		if err != nil {
			c.logger.Error().Err(err).Msg("could not list camps")
			c.reportError("Could not load the camp list.")
			return
		}

		type option struct {
			number int
			label  string
			campID int64
		}
		options := make([]option, 0, len(camps)+1)
		options = append(options, option{1, "All Camps Summary", allCampsID})
		for i, camp := range camps {
			options = append(options, option{i + 2, camp.Name, camp.ID})
		}

		shown, resolved := pagination.Slice(options, page, vizOptionsPerPage)
		page = resolved.Number

		ui.ClearScreen(c.out)
		ui.Header(c.out, false)
		c.sectionHeader("VISUALISATION MODULE OPTIONS")
		ui.PageBanner(c.out, resolved.Number, resolved.Total, len(shown), len(options))

		rows := make([][]string, 0, len(shown))
		for _, opt := range shown {
			rows = append(rows, []string{strconv.Itoa(opt.number), opt.label})
		}
		fmt.Fprintln(c.out, ui.RenderTable([]string{"Option", "Action"}, rows))
		if resolved.Total > 1 {
			fmt.Fprintln(c.out, "Navigate: f - first page | p - previous | n - next | l - last page")
		}

		command, ok := c.readLine("\nNavigate pages, select a camp, or [q] to return: ")
		if !ok {
			return
		}
		command = strings.ToLower(strings.TrimSpace(command))

		if command == "q" {
			fmt.Fprintln(c.out, "Exiting visualisations module.")
			return
		}
		if next, isNav := pagination.Apply(command, page, resolved.Total); isNav {
			page = next
			continue
		}

		number, err := strconv.Atoi(command)
		if err != nil || number < 1 || number > len(options) {
			c.reportError("Invalid selection. Please try again.")
			continue
		}
		selected := options[number-1]
		c.showVisualisations(selected.campID, selected.label)
	}
}

// showVisualisations loads a camp's figures and runs the chart view.
func (c *Interface) showVisualisations(campID int64, title string) {
	data, err := c.loadVisualisationData(campID)
	if err != nil {
		c.logger.Error().Err(err).Int64("camp_id", campID).Msg("could not load visualisation data")
		c.reportError("Could not load the camp figures.")
		return
	}

	program := tea.NewProgram(
		newVizModel(title, data),
		tea.WithInput(c.rawIn),
		tea.WithOutput(c.out),
	)
	if _, err := program.Run(); err != nil {
		c.logger.Error().Err(err).Msg("visualisation view terminated")
		c.reportError("The visualisations could not be displayed.")
	}
}

// vizData holds everything the chart view renders. The single-camp and
// all-camps shapes differ, so only one side of each pair is populated.
type vizData struct {
	allCamps bool

	attendanceDays  []storage.AttendanceDay
	attendanceToday []storage.CampAttendanceToday

	foodHistory []storage.FoodStockEntry
	stockLevels []storage.CampStockLevel

	engagement   []storage.ActivityEngagement
	totalPresent int
}

func (c *Interface) loadVisualisationData(campID int64) (vizData, error) {
	data := vizData{allCamps: campID == allCampsID}
	today := c.now().Format("2006-01-02")

	var err error
	if data.allCamps {
		if data.attendanceToday, err = c.store.AttendanceTodayByCamp(today); err != nil {
			return data, err
		}
		if data.stockLevels, err = c.store.LatestStockLevels(today); err != nil {
			return data, err
		}
		if data.engagement, err = c.store.ActivityEngagementAllCamps(); err != nil {
			return data, err
		}
	} else {
		if data.attendanceDays, err = c.store.AttendanceByDay(campID); err != nil {
			return data, err
		}
		if data.foodHistory, err = c.store.FoodStockHistory(campID); err != nil {
			return data, err
		}
		if data.engagement, err = c.store.ActivityEngagementByCamp(campID); err != nil {
			return data, err
		}
	}

	if data.totalPresent, err = c.store.PresentCamperCount(campID); err != nil {
		return data, err
	}

	return data, nil
}

// vizView selects which visualisation tab is on screen.
type vizView int

const (
	vizAttendance vizView = iota
	vizFoodStock
	vizActivities
)

// vizModel is the full-screen camp visualisation view: an attendance tab, a
// food stock tab, and an activity engagement tab with a participation table.
type vizModel struct {
	title string
	data  vizData

	activityTable table.Model
	view          vizView
}

func newVizModel(title string, data vizData) vizModel {
	columns := []table.Column{
		{Title: "Activity", Width: 24},
		{Title: "Participants", Width: 12},
		{Title: "Ratio", Width: 8},
	}

	rows := make([]table.Row, 0, len(data.engagement))
	for _, entry := range data.engagement {
		rows = append(rows, table.Row{
			entry.Activity,
			strconv.Itoa(entry.Participants),
			formatRatio(entry.Participants, data.totalPresent),
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

	return vizModel{
		title:         title,
		data:          data,
		activityTable: t,
	}
}

// formatRatio is the share of ever-present campers an activity reached.
func formatRatio(participants, totalPresent int) string {
	if totalPresent == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(participants)/float64(totalPresent)*100)
}

func (m vizModel) Init() tea.Cmd {
	return nil
}

func (m vizModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, isKey := msg.(tea.KeyMsg); isKey {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "1":
			m.view = vizAttendance
			return m, nil
		case "2":
			m.view = vizFoodStock
			return m, nil
		case "3":
			m.view = vizActivities
			return m, nil
		case "tab":
			m.view = (m.view + 1) % 3
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.view == vizActivities {
		m.activityTable, cmd = m.activityTable.Update(msg)
	}
	return m, cmd
}

func (m vizModel) View() string {
	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render("CAMP VISUALISATIONS - " + m.title))
	b.WriteString("\n")
	b.WriteString(ui.MutedStyle.Render("[1] attendance  [2] food stock  [3] activities  [tab] switch  [q] quit"))
	b.WriteString("\n\n")

	switch m.view {
	case vizAttendance:
		b.WriteString(m.attendanceView())
	case vizFoodStock:
		b.WriteString(m.foodStockView())
	default:
		b.WriteString(m.activitiesView())
	}

	return b.String()
}

func (m vizModel) attendanceView() string {
	if m.data.allCamps {
		if len(m.data.attendanceToday) == 0 {
			return "No ongoing camps to report on."
		}

		rows := make([][]string, 0, len(m.data.attendanceToday))
		labels := make([]string, 0, len(m.data.attendanceToday))
		values := make([]float64, 0, len(m.data.attendanceToday))
		for _, camp := range m.data.attendanceToday {
			rows = append(rows, []string{
				camp.CampName, strconv.Itoa(camp.Present), strconv.Itoa(camp.Absent),
			})
			labels = append(labels, camp.CampName)
			values = append(values, float64(camp.Present))
		}

		return chartSection(
			ui.RenderTable([]string{"Camp", "Present", "Absent"}, rows),
			"Chart: campers present today", labels, values)
	}

	if len(m.data.attendanceDays) == 0 {
		return "No attendance records for this camp."
	}

	rows := make([][]string, 0, len(m.data.attendanceDays))
	labels := make([]string, 0, len(m.data.attendanceDays))
	values := make([]float64, 0, len(m.data.attendanceDays))
	for _, day := range m.data.attendanceDays {
		rows = append(rows, []string{
			day.Date, strconv.Itoa(day.Present), strconv.Itoa(day.Absent),
		})
		labels = append(labels, day.Date)
		values = append(values, float64(day.Present))
	}

	return chartSection(
		ui.RenderTable([]string{"Date", "Present", "Absent"}, rows),
		"Chart: campers present per day", labels, values)
}

func (m vizModel) foodStockView() string {
	if m.data.allCamps {
		if len(m.data.stockLevels) == 0 {
			return "No food stock readings for ongoing camps."
		}

		rows := make([][]string, 0, len(m.data.stockLevels))
		labels := make([]string, 0, len(m.data.stockLevels))
		values := make([]float64, 0, len(m.data.stockLevels))
		for _, level := range m.data.stockLevels {
			rows = append(rows, []string{level.CampName, strconv.Itoa(level.StockAvailable)})
			labels = append(labels, level.CampName)
			values = append(values, float64(level.StockAvailable))
		}

		return chartSection(
			ui.RenderTable([]string{"Camp", "Latest Stock"}, rows),
			"Chart: latest stock per camp", labels, values)
	}

	if len(m.data.foodHistory) == 0 {
		return "No food stock history for this camp."
	}

	rows := make([][]string, 0, len(m.data.foodHistory))
	labels := make([]string, 0, len(m.data.foodHistory))
	values := make([]float64, 0, len(m.data.foodHistory))
	for _, entry := range m.data.foodHistory {
		rows = append(rows, []string{
			entry.Date, strconv.Itoa(entry.StockAvailable), entry.ChangeReason,
		})
		labels = append(labels, entry.Date)
		values = append(values, float64(entry.StockAvailable))
	}

	return chartSection(
		ui.RenderTable([]string{"Date", "Stock", "Reason"}, rows),
		"Chart: stock level over time", labels, values)
}

func (m vizModel) activitiesView() string {
	if len(m.data.engagement) == 0 {
		if m.data.allCamps {
			return "No activity data available."
		}
		return "No activity data for this camp."
	}

	labels := make([]string, 0, len(m.data.engagement))
	values := make([]float64, 0, len(m.data.engagement))
	for _, entry := range m.data.engagement {
		labels = append(labels, entry.Activity)
		values = append(values, float64(entry.Participants))
	}

	return chartSection(
		m.activityTable.View(),
		"Chart: participants per activity", labels, values)
}

func chartSection(top, caption string, labels []string, values []float64) string {
	var b strings.Builder
	b.WriteString(top)
	b.WriteString("\n\n")
	b.WriteString(ui.AccentStyle.Render(caption))
	b.WriteString("\n")
	b.WriteString(ui.BarChart(labels, values, barChartWidth))
	return b.String()
}

// barChartWidth is the widest a visualisation bar can grow.
const barChartWidth = 40
