package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/mindmate/internal/analytics"
	"github.com/sadopc/mindmate/internal/entry"
	"github.com/sadopc/mindmate/internal/selector"
	"go.uber.org/zap"
)

const journalListLimit = 5

var errEmptyEntry = errors.New("write something before saving")

type journalModel struct {
	entries *entry.Namespace[entry.Journal]
	prompts *selector.Selector
	log     *zap.Logger
	width   int
	height  int

	category int // index into entry.Categories
	prompt   string
	cursor   int
	showAll  bool

	formActive  bool
	form        *huh.Form
	formContent *string
}

func newJournalModel(entries *entry.Namespace[entry.Journal], prompts *selector.Selector, log *zap.Logger) journalModel {
	content := ""
	j := journalModel{
		entries:     entries,
		prompts:     prompts,
		log:         log,
		formContent: &content,
	}
	return j.repick()
}

func (j *journalModel) setSize(w, h int) {
	j.width = w
	j.height = h
}

func (j journalModel) currentCategory() entry.Category {
	return entry.Categories[j.category]
}

// repick draws a fresh prompt for the current category.
func (j journalModel) repick() journalModel {
	p, err := j.prompts.Pick(string(j.currentCategory()))
	if err != nil {
		j.log.Error("pick journal prompt", zap.String("category", string(j.currentCategory())), zap.Error(err))
		p = ""
	}
	j.prompt = p
	return j
}

// visible is the slice of entries the list shows.
func (j journalModel) visible() []entry.Journal {
	items := j.entries.Items()
	if !j.showAll && len(items) > journalListLimit {
		items = items[:journalListLimit]
	}
	return items
}

func (j journalModel) update(msg tea.Msg) (journalModel, tea.Cmd) {
	if j.formActive && j.form != nil {
		return j.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return j, nil
	}

	switch {
	case key.Matches(km, keys.Left):
		j.category = (j.category + len(entry.Categories) - 1) % len(entry.Categories)
		return j.repick(), nil
	case key.Matches(km, keys.Right):
		j.category = (j.category + 1) % len(entry.Categories)
		return j.repick(), nil
	case key.Matches(km, keys.NewPrompt):
		return j.repick(), nil
	case key.Matches(km, keys.New), key.Matches(km, keys.Enter):
		return j.showForm()
	case key.Matches(km, keys.Up):
		if j.cursor > 0 {
			j.cursor--
		}
	case key.Matches(km, keys.Down):
		if j.cursor < len(j.visible())-1 {
			j.cursor++
		}
	case key.Matches(km, keys.ShowAll):
		j.showAll = !j.showAll
		j = j.clampCursor()
	case key.Matches(km, keys.Delete):
		return j.deleteSelected()
	}
	return j, nil
}

func (j journalModel) clampCursor() journalModel {
	if n := len(j.visible()); j.cursor >= n {
		j.cursor = max(0, n-1)
	}
	return j
}

func (j journalModel) showForm() (journalModel, tea.Cmd) {
	*j.formContent = ""

	title := j.prompt
	if title == "" {
		title = "Write freely"
	}

	j.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(title).
				Description(strings.ToUpper(string(j.currentCategory()[:1])) + string(j.currentCategory()[1:])).
				CharLimit(5000).
				Lines(8).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errEmptyEntry
					}
					return nil
				}).
				Value(j.formContent),
		),
	).WithShowHelp(true).WithShowErrors(true)

	j.formActive = true
	return j, j.form.Init()
}

func (j journalModel) updateForm(msg tea.Msg) (journalModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			j.formActive = false
			j.form = nil
			return j, nil
		}
	}

	form, cmd := j.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		j.form = f
	}

	switch j.form.State {
	case huh.StateCompleted:
		j.formActive = false
		j.form = nil
		return j.submit()
	case huh.StateAborted:
		j.formActive = false
		j.form = nil
		return j, nil
	}

	return j, cmd
}

// submit saves the form contents against the prompt that was showing. Blank
// content is ignored.
func (j journalModel) submit() (journalModel, tea.Cmd) {
	content := strings.TrimSpace(*j.formContent)
	if content == "" {
		return j, nil
	}
	e, err := entry.NewJournal(j.prompt, content, j.currentCategory())
	if err != nil {
		return j, func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
	}
	err = j.entries.Append(e)
	j.cursor = 0
	// A fresh prompt for the next entry.
	j = j.repick()
	return j, saved(j.log, j.entries.Key(), "Journal entry saved", err)
}

func (j journalModel) deleteSelected() (journalModel, tea.Cmd) {
	items := j.visible()
	if len(items) == 0 || j.cursor >= len(items) {
		return j, nil
	}
	removed, err := j.entries.Remove(items[j.cursor].ID)
	if !removed {
		return j, nil
	}
	j = j.clampCursor()
	return j, saved(j.log, j.entries.Key(), "Journal entry deleted", err)
}

func (j journalModel) view() string {
	w := j.width - 4

	if j.formActive && j.form != nil {
		title := titleStyle.Render("New Journal Entry")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", j.form.View())
		return panelStyle.Width(w).Render(content)
	}

	header := titleStyle.Render("Journal")
	sections := []string{
		header,
		"",
		j.renderCategories(),
		"",
		j.renderPrompt(w),
		"",
		j.renderStats(),
		"",
		j.renderList(w),
		"",
		mutedStyle.Render("  ←/→: category  r: new prompt  n: write  d: delete  a: show all"),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (j journalModel) renderCategories() string {
	tabs := make([]string, 0, len(entry.Categories))
	for i, c := range entry.Categories {
		if i == j.category {
			tabs = append(tabs, activeTabStyle.Render(string(c)))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(string(c)))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (j journalModel) renderPrompt(w int) string {
	if j.prompt == "" {
		return mutedStyle.Render("No prompt available for this category.")
	}
	return activePanelStyle.Width(max(20, w-8)).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			subtitleStyle.Render("Today's prompt"),
			highlightStyle.Render(j.prompt),
		),
	)
}

func (j journalModel) renderStats() string {
	s := analytics.JournalStats(j.entries.Items(), time.Now())
	return fmt.Sprintf("  %s entries   %s this week   %s avg characters",
		statValueStyle.Render(fmt.Sprintf("%d", s.Total)),
		statValueStyle.Render(fmt.Sprintf("%d", s.ThisWeek)),
		statValueStyle.Render(fmt.Sprintf("%d", s.AverageLength)),
	)
}

func (j journalModel) renderList(w int) string {
	items := j.visible()
	if len(items) == 0 {
		return mutedStyle.Render("  No entries yet. Press n to answer the prompt.")
	}

	rows := []string{subtitleStyle.Render("Entries")}
	for i, e := range items {
		cursor := "  "
		style := normalItemStyle
		if i == j.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		head := fmt.Sprintf("%s%-12s %-11s %s", cursor, e.Date.Local().Format("Jan 2 15:04"), e.Category, truncate(e.Prompt, max(10, w-36)))
		rows = append(rows, style.Render(head))
		rows = append(rows, mutedStyle.Render("    "+truncate(e.Content, max(10, w-12))))
	}

	if total := j.entries.Len(); total > journalListLimit {
		if j.showAll {
			rows = append(rows, mutedStyle.Render("  a: show fewer"))
		} else {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %d more; a: show all", total-journalListLimit)))
		}
	}
	return strings.Join(rows, "\n")
}
