package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/mindmate/internal/entry"
	"go.uber.org/zap"
)

// viewState represents the currently active view.
type viewState int

const (
	viewChat viewState = iota
	viewMood
	viewJournal
)

var viewNames = []string{"Chat", "Mood", "Journal"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	paths []string
}

// --- Helpers ---

// saved reports the outcome of a namespace mutation on the status line. A
// failed write leaves the in-memory change in place.
func saved(log *zap.Logger, key, done string, err error) tea.Cmd {
	return func() tea.Msg {
		if err == nil {
			return statusMsg{text: done}
		}
		log.Warn("persist failed", zap.String("key", key), zap.Error(err))
		text := fmt.Sprintf("%s (not saved: %v)", done, err)
		if errors.Is(err, entry.ErrPersist) {
			text = done + " for this session only; could not write to disk"
		}
		return statusMsg{text: text, isError: true}
	}
}

// meter renders a score as filled and empty dots.
func meter(score int) string {
	if score < 0 {
		score = 0
	}
	if score > entry.MaxMood {
		score = entry.MaxMood
	}
	return strings.Repeat("●", score) + strings.Repeat("○", entry.MaxMood-score)
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
