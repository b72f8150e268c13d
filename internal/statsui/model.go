// Package statsui provides the Bubble Tea contest statistics viewer.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/qsostat/internal/export"
	"github.com/verte-zerg/qsostat/internal/model"
	"github.com/verte-zerg/qsostat/internal/stats"
	"github.com/verte-zerg/qsostat/internal/store"
)

const (
	tabContests = iota
	tabSummary
	tabPerformance
	tabRates
)

const (
	plotHeight   = 12
	defaultWidth = 80
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB77E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Source is the contest data the viewer browses. *store.Store satisfies it.
type Source interface {
	stats.Source
	ListContests(ctx context.Context, key store.SortKey, desc bool) ([]model.Contest, error)
}

// Options carries collaborators that do not come from the config file.
type Options struct {
	Enricher     stats.Enricher
	Logf         func(format string, args ...any)
	ExportPath   string
	ExportFormat export.Format
}

// Model implements the Bubble Tea contest viewer.
type Model struct {
	src  Source
	cfg  model.ViewerConfig
	opts Options

	sortKey   store.SortKey
	increment stats.Increment

	contests []model.Contest
	selected map[int64]bool
	report   stats.Report
	focus    int

	errMsg    string
	statusMsg string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	contestTable table.Model
	tableLayout  tableLayout

	width  int
	height int

	settingsMode   bool
	settingsInputs []textinput.Model
	settingsIndex  int
	settingsError  string
}

type tableLayout struct {
	width  int
	height int
}

// NewModel constructs a viewer over src. Invalid config values fall back to
// defaults and are reported in the footer.
func NewModel(src Source, cfg model.ViewerConfig, opts Options) *Model {
	m := &Model{
		src:       src,
		cfg:       cfg,
		opts:      opts,
		selected:  make(map[int64]bool),
		tabs:      []string{"Contests", "Summary", "Performance", "Rates"},
		sortKey:   store.SortByDate,
		increment: stats.HourIncrement,
	}
	var problems []string
	if key, err := store.ParseSortKey(cfg.SortBy); err != nil {
		problems = append(problems, err.Error())
	} else {
		m.sortKey = key
	}
	if cfg.Increment != "" {
		if inc, err := stats.ParseIncrement(cfg.Increment); err != nil {
			problems = append(problems, err.Error())
		} else {
			m.increment = inc
		}
	}
	if m.opts.ExportPath == "" {
		m.opts.ExportPath = "stats.txt"
	}
	if m.opts.ExportFormat == "" {
		m.opts.ExportFormat = export.FormatText
	}
	m.initInputs()
	m.contestTable = buildContestTable(nil, nil, defaultWidth, 1)
	m.initViewports()
	m.loadContests()
	if len(problems) > 0 && m.errMsg == "" {
		m.errMsg = strings.Join(problems, "; ")
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.settingsMode {
			return m.updateSettings(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabContests {
			m.contestTable.Focus()
		} else {
			m.contestTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			return m.startSettings()
		case "e":
			m.exportReport()
			return m, nil
		case "[":
			m.moveFocus(-1)
			return m, nil
		case "]":
			m.moveFocus(1)
			return m, nil
		case "g", "home":
			if m.activeTab == tabContests {
				m.contestTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabContests {
				m.contestTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		}
		if m.activeTab == tabContests {
			return m.updateContests(msg)
		}
		vp := m.viewports[m.activeTab]
		var cmd tea.Cmd
		vp, cmd = vp.Update(msg)
		m.viewports[m.activeTab] = vp
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateContests(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		m.toggleSelection()
		return m, nil
	case "enter":
		m.refreshReport()
		if len(m.report.Contests) > 0 && m.errMsg == "" {
			m.activeTab = tabSummary
			m.contestTable.Blur()
			return m, tea.ClearScreen
		}
		return m, nil
	case "s":
		if m.sortKey == store.SortByDate {
			m.sortKey = store.SortByContest
		} else {
			m.sortKey = store.SortByDate
		}
		m.loadContests()
		return m, nil
	case "r":
		m.cfg.SortDesc = !m.cfg.SortDesc
		m.loadContests()
		return m, nil
	}
	var cmd tea.Cmd
	m.contestTable, cmd = m.contestTable.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.settingsMode {
		return fitLines(m.renderSettingsModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Report returns the statistics computed for the current selection.
func (m *Model) Report() stats.Report {
	return m.report
}

func (m *Model) engine() *stats.Engine {
	eng := &stats.Engine{IdleGap: m.cfg.IdleGap, Logf: m.opts.Logf}
	if m.cfg.Scored {
		eng.Detail = stats.DetailScored
	}
	return eng
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.settingsInputs = []textinput.Model{
		newSettingsInput("Increment: "),
		newSettingsInput("Idle gap: "),
	}
	m.settingsInputs[0].Placeholder = "1h, 30m, 15 minutes"
	m.settingsInputs[1].Placeholder = "30m"
	m.setInputsFromConfig()
}

func newSettingsInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if len(m.settingsInputs) == 0 {
		return
	}
	m.settingsInputs[0].SetValue(m.increment.String())
	m.settingsInputs[1].SetValue(formatGap(m.idleGap()))
}

func (m *Model) idleGap() time.Duration {
	if m.cfg.IdleGap <= 0 {
		return stats.DefaultIdleGap
	}
	return m.cfg.IdleGap
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" || m.statusMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setTableSize(m.width, vpHeight)
	for i := range m.settingsInputs {
		promptWidth := lipgloss.Width(m.settingsInputs[i].Prompt)
		m.settingsInputs[i].Width = maxInt(10, modalInnerWidth(m.width)-promptWidth)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabContests {
		m.contestTable.Focus()
	} else {
		m.contestTable.Blur()
	}
}

func (m *Model) moveFocus(delta int) {
	count := len(m.report.Contests)
	if count == 0 {
		return
	}
	m.focus = (m.focus + delta + count) % count
	m.renderTabContents()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	settings := padLines(m.renderSettingsSummary(), m.width)
	return tabs + "\n" + settings
}

func (m *Model) renderSettingsSummary() string {
	order := "asc"
	if m.cfg.SortDesc {
		order = "desc"
	}
	summary := fmt.Sprintf("Settings: sort=%s %s  increment=%s  idle-gap=%s  selected=%d/%d",
		m.sortKey, order, m.increment, formatGap(m.idleGap()), len(m.selectedIDs()), len(m.contests))
	if cr, ok := m.focused(); ok && m.activeTab >= tabPerformance {
		summary += "  contest=" + cr.Contest.Name
	}
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	var help string
	switch m.activeTab {
	case tabContests:
		help = "Select: space  Compute: enter  Sort: s  Reverse: r  Nav: left/right  Settings: /  Export: e  Quit: q"
	case tabPerformance, tabRates:
		help = "Nav: left/right  Contest: [/]  Scroll: up/down/pgup/pgdn  Settings: /  Export: e  Quit: q"
	default:
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Settings: /  Export: e  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	switch {
	case m.errMsg != "":
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	case m.statusMsg != "":
		return m.renderHelp() + "\n" + statusStyle.Render(m.statusMsg)
	default:
		return m.renderHelp()
	}
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabContests {
		if len(m.contests) == 0 {
			return fitLines("No contests found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.contestTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) loadContests() {
	contests, err := m.src.ListContests(context.Background(), m.sortKey, m.cfg.SortDesc)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.contests = contests
	known := make(map[int64]bool, len(contests))
	for _, c := range contests {
		known[c.ID] = true
	}
	for id := range m.selected {
		if !known[id] {
			delete(m.selected, id)
		}
	}
	m.applyContestTable()
}

func (m *Model) applyContestTable() {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	_, bodyHeight, _ := m.layoutHeights()
	cols, rows := buildContestTableData(m.contests, m.selected, width)
	cursor := m.contestTable.Cursor()
	m.contestTable.SetColumns(cols)
	m.contestTable.SetRows(rows)
	if cursor >= 0 && cursor < len(rows) {
		m.contestTable.SetCursor(cursor)
	}
	m.tableLayout.width = 0
	m.setTableSize(width, bodyHeight)
}

func (m *Model) toggleSelection() {
	idx := m.contestTable.Cursor()
	if idx < 0 || idx >= len(m.contests) {
		return
	}
	id := m.contests[idx].ID
	if m.selected[id] {
		delete(m.selected, id)
	} else {
		m.selected[id] = true
	}
	m.applyContestTable()
}

// selectedIDs lists selected contests in table order.
func (m *Model) selectedIDs() []int64 {
	ids := make([]int64, 0, len(m.selected))
	for _, c := range m.contests {
		if m.selected[c.ID] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func (m *Model) refreshReport() {
	m.statusMsg = ""
	ids := m.selectedIDs()
	if len(ids) == 0 {
		m.errMsg = "Select at least one contest with space."
		return
	}
	report, err := stats.BuildReport(context.Background(), m.src, ids, stats.ReportOptions{
		Engine:    m.engine(),
		Increment: m.increment,
		Enricher:  m.opts.Enricher,
	})
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	if m.focus >= len(report.Contests) {
		m.focus = 0
	}
	m.renderTabContents()
}

func (m *Model) focused() (stats.ContestReport, bool) {
	if m.focus < 0 || m.focus >= len(m.report.Contests) {
		return stats.ContestReport{}, false
	}
	return m.report.Contests[m.focus], true
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	if len(m.report.Contests) == 0 {
		for i := range m.viewports {
			m.viewports[i].SetContent("No statistics yet. Select contests and press enter.")
		}
		return
	}
	cr, _ := m.focused()
	m.viewports[tabSummary].SetContent(renderSummary(m.report, cr, width))
	m.viewports[tabPerformance].SetContent(renderPerformance(cr))
	m.viewports[tabRates].SetContent(renderRates(cr, width))
}

func renderSummary(r stats.Report, cr stats.ContestReport, width int) string {
	cards := renderSummaryCards(cr, width)
	var buf bytes.Buffer
	if err := stats.RenderSummaryTable(&buf, r); err != nil {
		return fmt.Sprintf("Failed to render summary: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(cr stats.ContestReport, width int) string {
	s := cr.Result.Summary
	peak := 0
	if s.TotalQSOs > 0 {
		peak = s.Rates[0].PerHour
	}
	cards := []string{
		metricCard("QSOs", humanize.Comma(int64(s.TotalQSOs))),
		metricCard("On air", stats.FormatOperatingTime(s.OperatingTime)),
		metricCard("Avg rate", fmt.Sprintf("%.1f", s.AverageRate)),
		metricCard("Best 10 min", humanize.Comma(int64(peak))),
		metricCard("Run", fmt.Sprintf("%.1f%%", s.RunPercent)),
	}
	title := cardTitleStyle.Render(cr.Contest.Name)
	extra := renderHighlights(cr)
	if width < 80 {
		return title + "\n" + strings.Join(cards, "\n") + extra
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, title, row1, row2) + extra
}

func renderHighlights(cr stats.ContestReport) string {
	var lines []string
	if top := cr.Result.TopCountries; len(top) > 0 {
		parts := make([]string, len(top))
		for i, c := range top {
			parts[i] = fmt.Sprintf("%s %s", c.Prefix, humanize.Comma(int64(c.QSOs)))
		}
		lines = append(lines, headerStyle.Render("Top countries:")+" "+strings.Join(parts, "  "))
	}
	if len(cr.Grid.Rows) > 0 {
		lines = append(lines, headerStyle.Render(fmt.Sprintf("Activity (%s):", cr.Grid.Increment))+" |"+stats.Activity(cr.Grid)+"|")
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n" + strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderPerformance(cr stats.ContestReport) string {
	var buf bytes.Buffer
	if err := stats.RenderGrid(&buf, cr); err != nil {
		return fmt.Sprintf("Failed to render performance: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderRates(cr stats.ContestReport, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderRates(&buf, cr, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render rates: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) exportReport() {
	if len(m.report.Contests) == 0 {
		m.statusMsg = ""
		m.errMsg = "Nothing to export. Select contests and press enter first."
		return
	}
	if err := export.WriteFile(m.opts.ExportPath, m.report, m.opts.ExportFormat); err != nil {
		m.statusMsg = ""
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.statusMsg = fmt.Sprintf("Saved %d contest(s) to %s", len(m.report.Contests), m.opts.ExportPath)
}

func buildContestTable(contests []model.Contest, selected map[int64]bool, width, height int) table.Model {
	cols, rows := buildContestTableData(contests, selected, width)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
		table.WithFocused(true),
	)
	t.SetWidth(width)
	t.SetStyles(contestTableStyles())
	return t
}

func buildContestTableData(contests []model.Contest, selected map[int64]bool, width int) ([]table.Column, []table.Row) {
	nameWidth := maxInt(12, minInt(40, width-3-16-10-8-8))
	columns := []table.Column{
		{Title: "Sel", Width: 3},
		{Title: "Date", Width: 16},
		{Title: "Contest", Width: nameWidth},
		{Title: "Power", Width: 10},
		{Title: "ID", Width: 6},
	}
	rows := make([]table.Row, 0, len(contests))
	for _, c := range contests {
		mark := "[ ]"
		if selected[c.ID] {
			mark = "[x]"
		}
		date := ""
		if !c.StartDate.IsZero() {
			date = c.StartDate.Format("2006-01-02 15:04")
		}
		rows = append(rows, table.Row{mark, date, c.Name, c.PowerCategory, fmt.Sprintf("%d", c.ID)})
	}
	return columns, rows
}

func (m *Model) setTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.tableLayout.width == width && m.tableLayout.height == viewportHeight {
		return
	}
	m.tableLayout.width = width
	m.tableLayout.height = viewportHeight
	m.contestTable.SetWidth(width)
	m.contestTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustTableHeight(height)
	if m.tableLayout.height != viewportHeight {
		m.tableLayout.height = viewportHeight
		m.contestTable.SetHeight(viewportHeight)
	}
}

func contestTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// adjustTableHeight corrects for header borders so the table fills the body.
func (m *Model) adjustTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.contestTable.Height()
	viewHeight := lipgloss.Height(m.contestTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.contestTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.contestTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func (m *Model) startSettings() (tea.Model, tea.Cmd) {
	m.settingsMode = true
	m.settingsError = ""
	m.setInputsFromConfig()
	return m, m.setSettingsIndex(0)
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.settingsMode = false
		m.settingsError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applySettings(); err != nil {
			m.settingsError = err.Error()
			return m, nil
		}
		m.settingsMode = false
		m.settingsError = ""
		if len(m.report.Contests) > 0 {
			m.refreshReport()
		}
		m.updateLayout()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setSettingsIndex(m.settingsIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setSettingsIndex(m.settingsIndex - 1)
	}
	var cmd tea.Cmd
	m.settingsInputs[m.settingsIndex], cmd = m.settingsInputs[m.settingsIndex].Update(msg)
	return m, cmd
}

func (m *Model) setSettingsIndex(idx int) tea.Cmd {
	count := len(m.settingsInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.settingsIndex = idx
	var cmd tea.Cmd
	for i := range m.settingsInputs {
		if i == m.settingsIndex {
			cmd = m.settingsInputs[i].Focus()
		} else {
			m.settingsInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applySettings() error {
	inc := stats.HourIncrement
	if raw := strings.TrimSpace(m.settingsInputs[0].Value()); raw != "" {
		parsed, err := stats.ParseIncrement(raw)
		if err != nil {
			return err
		}
		inc = parsed
	}
	gap := time.Duration(0)
	if raw := strings.TrimSpace(m.settingsInputs[1].Value()); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("invalid idle gap (use a positive duration like 30m)")
		}
		gap = parsed
	}
	m.increment = inc
	m.cfg.Increment = inc.String()
	m.cfg.IdleGap = gap
	return nil
}

func (m *Model) renderSettingsModal() string {
	body := []string{cardValueStyle.Render("Settings")}
	for _, input := range m.settingsInputs {
		body = append(body, input.View())
	}
	body = append(body,
		headerStyle.Render("tab/shift+tab: next field"),
		headerStyle.Render("Enter to apply / Esc to cancel"),
	)
	if m.settingsError != "" {
		body = append(body, errorStyle.Render(m.settingsError))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// formatGap drops the zero tails time.Duration.String adds ("30m0s" -> "30m").
func formatGap(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
