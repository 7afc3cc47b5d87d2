package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/mindmate/internal/analytics"
	"github.com/sadopc/mindmate/internal/entry"
	"go.uber.org/zap"
)

// moodUnset is the score before the user picks one.
const moodUnset = 0

var errMoodUnset = errors.New("choose how you are feeling")

func validateScore(s int) error {
	if s == moodUnset {
		return errMoodUnset
	}
	return nil
}

type moodModel struct {
	moods  *entry.Namespace[entry.Mood]
	log    *zap.Logger
	width  int
	height int

	chartEntries  int
	recentEntries int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formScore *int
	formTags  *[]string
	formNote  *string
}

func newMoodModel(moods *entry.Namespace[entry.Mood], chartEntries, recentEntries int, log *zap.Logger) moodModel {
	score, note := moodUnset, ""
	tags := []string{}
	return moodModel{
		moods:         moods,
		log:           log,
		chartEntries:  chartEntries,
		recentEntries: recentEntries,
		formScore:     &score,
		formTags:      &tags,
		formNote:      &note,
	}
}

func (m *moodModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m moodModel) update(msg tea.Msg) (moodModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.New) {
			return m.showForm()
		}
	}
	return m, nil
}

func (m moodModel) showForm() (moodModel, tea.Cmd) {
	*m.formScore = moodUnset
	*m.formTags = []string{}
	*m.formNote = ""

	scoreOptions := make([]huh.Option[int], 0, entry.MaxMood+1)
	scoreOptions = append(scoreOptions, huh.NewOption("Pick one", moodUnset))
	for s := entry.MaxMood; s >= entry.MinMood; s-- {
		scoreOptions = append(scoreOptions, huh.NewOption(fmt.Sprintf("%s  %s", meter(s), analytics.MoodLabel(s)), s))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().Title("How are you feeling?").Options(scoreOptions...).Value(m.formScore).Validate(validateScore),
			huh.NewMultiSelect[string]().Title("What describes it?").Options(huh.NewOptions(entry.MoodTags...)...).Value(m.formTags),
			huh.NewText().Title("Note (optional)").CharLimit(500).Value(m.formNote),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m moodModel) updateForm(msg tea.Msg) (moodModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.formActive = false
		m.form = nil
		return m.submit()
	case huh.StateAborted:
		m.formActive = false
		m.form = nil
		return m, nil
	}

	return m, cmd
}

// submit records the form contents as a new entry.
func (m moodModel) submit() (moodModel, tea.Cmd) {
	if err := validateScore(*m.formScore); err != nil {
		return m, func() tea.Msg { return statusMsg{text: "Choose a mood first", isError: true} }
	}
	e, err := entry.NewMood(*m.formScore, strings.TrimSpace(*m.formNote), *m.formTags)
	if err != nil {
		return m, func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
	}
	err = m.moods.Append(e)
	return m, saved(m.log, m.moods.Key(), "Mood logged", err)
}

func (m moodModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Log Mood")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Mood Tracker")
	moods := m.moods.Items()

	if len(moods) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No mood entries yet. Press n to log how you feel."),
		)
		return panelStyle.Width(w).Render(content)
	}

	sections := []string{title, "", m.renderStats(moods)}

	if series := analytics.ChartSeries(moods, m.chartEntries); len(series) > 1 {
		sections = append(sections, "", subtitleStyle.Render("Recent moods"), m.renderChart(series, w))
	}

	sections = append(sections, "", m.renderRecent(moods, w))

	if tags := m.renderTags(moods); tags != "" {
		sections = append(sections, "", tags)
	}

	sections = append(sections, "", mutedStyle.Render("  n: log mood"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m moodModel) renderStats(moods []entry.Mood) string {
	avg := analytics.Average(moods)
	week := analytics.WindowCount(moods, analytics.Week, time.Now())

	tile := func(label, value string) string {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 2).
			Render(lipgloss.JoinVertical(lipgloss.Left, mutedStyle.Render(label), value))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		tile("Average", statValueStyle.Render(fmt.Sprintf("%.1f", avg))),
		tile("Entries", statValueStyle.Render(fmt.Sprintf("%d", len(moods)))),
		tile("This week", statValueStyle.Render(fmt.Sprintf("%d", week))),
		tile("Trend", renderTrend(analytics.TrendOf(moods))),
	)
}

func renderTrend(t analytics.Trend) string {
	switch t {
	case analytics.Improving:
		return successStyle.Render("↑ improving")
	case analytics.Declining:
		return warningStyle.Render("↓ declining")
	}
	return mutedStyle.Render("→ stable")
}

func (m moodModel) renderChart(series []analytics.Point, w int) string {
	chartWidth := w - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8
	if m.height > 40 {
		chartHeight = 12
	}

	chart := barchart.New(chartWidth, chartHeight)
	bars := make([]barchart.BarData, 0, len(series))
	for _, p := range series {
		style := lipgloss.NewStyle().Foreground(moodColor(int(p.Value)))
		bars = append(bars, barchart.BarData{
			Label:  p.Label,
			Values: []barchart.BarValue{{Name: analytics.MoodLabel(int(p.Value)), Value: p.Value, Style: style}},
		})
	}
	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}

func (m moodModel) renderRecent(moods []entry.Mood, w int) string {
	rows := []string{subtitleStyle.Render("Recent entries")}
	for _, e := range moods[:min(m.recentEntries, len(moods))] {
		dots := lipgloss.NewStyle().Foreground(moodColor(e.Mood)).Render(meter(e.Mood))
		line := fmt.Sprintf("  %-14s %s %-9s", e.Date.Local().Format("Jan 2 15:04"), dots, analytics.MoodLabel(e.Mood))
		if e.Note != "" {
			line += " " + truncate(e.Note, max(10, w-50))
		}
		rows = append(rows, normalItemStyle.Render(line))
		if len(e.Tags) > 0 {
			rows = append(rows, mutedStyle.Render("                 ["+strings.Join(e.Tags, ", ")+"]"))
		}
	}
	return strings.Join(rows, "\n")
}

func (m moodModel) renderTags(moods []entry.Mood) string {
	counts := analytics.TagCounts(moods)
	if len(counts) == 0 {
		return ""
	}
	items := make([]string, 0, len(counts))
	for _, tc := range counts {
		items = append(items, fmt.Sprintf("%s ×%d", highlightStyle.Render(tc.Tag), tc.Count))
	}
	return subtitleStyle.Render("Common feelings") + "\n  " + strings.Join(items, "  ")
}
