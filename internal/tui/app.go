package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/mindmate/internal/config"
	"github.com/sadopc/mindmate/internal/entry"
	"github.com/sadopc/mindmate/internal/export"
	"github.com/sadopc/mindmate/internal/selector"
	"go.uber.org/zap"
)

// Deps is everything the app needs from main.
type Deps struct {
	Moods     *entry.Namespace[entry.Mood]
	Journal   *entry.Namespace[entry.Journal]
	Prompts   *selector.Selector
	Responses *selector.Selector
	Config    *config.Config
	Logger    *zap.Logger
	// ExportDir defaults to the home directory.
	ExportDir string
	// Status is shown on the first frame, e.g. a load warning.
	Status        string
	StatusIsError bool
}

// App is the root Bubble Tea model.
type App struct {
	moods     *entry.Namespace[entry.Mood]
	journal   *entry.Namespace[entry.Journal]
	log       *zap.Logger
	exportDir string
	width     int
	height    int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	chat      chatModel
	mood      moodModel
	journalUI journalModel

	help          help.Model
	status        string
	statusIsError bool
}

func NewApp(d Deps) App {
	h := help.New()
	h.ShowAll = false

	cfg := d.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	dir := d.ExportDir
	if dir == "" {
		dir, _ = os.UserHomeDir()
	}

	return App{
		moods:         d.Moods,
		journal:       d.Journal,
		log:           log,
		exportDir:     dir,
		activeView:    viewChat,
		chat:          newChatModel(entry.NewTranscript(selector.Greeting), d.Responses, cfg.TypingDelay.Duration, log),
		mood:          newMoodModel(d.Moods, cfg.ChartEntries, cfg.RecentEntries, log),
		journalUI:     newJournalModel(d.Journal, d.Prompts, log),
		help:          h,
		status:        d.Status,
		statusIsError: d.StatusIsError,
	}
}

func (a App) Init() tea.Cmd {
	return textinput.Blink
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.chat.setSize(a.width, contentHeight)
		a.mood.setSize(a.width, contentHeight)
		a.journalUI.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			return a, tea.Quit
		}

		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// Tab still cycles out of the chat input.
		if a.activeView == viewChat && key.Matches(msg, keys.Tab) {
			return a.switchTo(a.activeView + 1)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewChat)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewMood)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewJournal)
		case key.Matches(msg, keys.Tab):
			return a.switchTo(a.activeView + 1)
		}

	case replyMsg:
		// Replies belong to chat whichever view is showing; chat drops stale ones.
		var cmd tea.Cmd
		a.chat, cmd = a.chat.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusIsError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + strings.Join(msg.paths, ", ")
		a.statusIsError = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// switchTo changes tab. Leaving chat abandons its pending reply.
func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	v = v % viewState(len(viewNames))
	if v == a.activeView {
		return a, nil
	}
	if a.activeView == viewChat {
		a.chat = a.chat.leave()
	}
	a.activeView = v
	if v == viewChat {
		var cmd tea.Cmd
		a.chat, cmd = a.chat.enter()
		return a, cmd
	}
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewChat:
		a.chat, cmd = a.chat.update(msg)
	case viewMood:
		a.mood, cmd = a.mood.update(msg)
	case viewJournal:
		a.journalUI, cmd = a.journalUI.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewChat:
		return a.chat.focused()
	case viewMood:
		return a.mood.formActive
	case viewJournal:
		return a.journalUI.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewChat:
		content = a.chat.view()
	case viewMood:
		content = a.mood.view()
	case viewJournal:
		content = a.journalUI.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker(contentHeight)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("mindmate")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusIsError {
			status = warningStyle.Render(" ! " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

func (a App) renderExportPicker(_ int) string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render("Mood and journal entries go to "+a.exportDir))
	rows = append(rows, "")
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+strings.ToUpper(string(f))))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format export.Format) tea.Cmd {
	moods := a.moods.Items()
	journals := a.journal.Items()
	dir := a.exportDir
	log := a.log
	return func() tea.Msg {
		paths, err := export.Write(dir, format, moods, journals, time.Now())
		if err != nil {
			log.Error("export failed", zap.String("format", string(format)), zap.Error(err))
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		log.Info("exported",
			zap.String("format", string(format)),
			zap.Strings("paths", paths),
			zap.Int("moods", len(moods)),
			zap.Int("journals", len(journals)),
		)
		return exportDoneMsg{paths: paths}
	}
}
