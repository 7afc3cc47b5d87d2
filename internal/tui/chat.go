package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/mindmate/internal/entry"
	"github.com/sadopc/mindmate/internal/selector"
	"go.uber.org/zap"
)

type chatModel struct {
	transcript *entry.Namespace[entry.Message]
	responses  *selector.Selector
	log        *zap.Logger
	delay      time.Duration
	width      int
	height     int

	input  textinput.Model
	typing bool
	// gen identifies the pending reply. Anything that abandons the reply
	// bumps it so the tick is dropped when it fires.
	gen int
}

// replyMsg fires once the typing delay has elapsed.
type replyMsg struct {
	gen int
}

func newChatModel(transcript *entry.Namespace[entry.Message], responses *selector.Selector, delay time.Duration, log *zap.Logger) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Share what's on your mind..."
	ti.CharLimit = 1000
	ti.Prompt = "> "
	ti.Focus()

	return chatModel{
		transcript: transcript,
		responses:  responses,
		log:        log,
		delay:      delay,
		input:      ti,
	}
}

func (c *chatModel) setSize(w, h int) {
	c.width = w
	c.height = h
	c.input.Width = max(10, w-12)
}

func (c chatModel) focused() bool {
	return c.input.Focused()
}

// leave abandons any pending reply.
func (c chatModel) leave() chatModel {
	c.gen++
	c.typing = false
	c.input.Blur()
	return c
}

func (c chatModel) enter() (chatModel, tea.Cmd) {
	cmd := c.input.Focus()
	return c, cmd
}

func (c chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		return c.reply(msg)

	case tea.KeyMsg:
		if !c.input.Focused() {
			if key.Matches(msg, keys.Enter) {
				return c.enter()
			}
			return c, nil
		}
		switch {
		case key.Matches(msg, keys.Back):
			c.input.Blur()
			return c, nil
		case key.Matches(msg, keys.Enter):
			return c.send()
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// send posts the input as a user message and schedules the reply. Empty
// input and input while a reply is pending are ignored.
func (c chatModel) send() (chatModel, tea.Cmd) {
	if c.typing {
		return c, nil
	}
	text := strings.TrimSpace(c.input.Value())
	if text == "" {
		return c, nil
	}

	msg, err := entry.NewMessage(entry.SenderUser, text)
	if err != nil {
		return c, nil
	}
	c.transcript.Append(msg)
	c.input.Reset()

	c.typing = true
	c.gen++
	gen := c.gen
	return c, tea.Tick(c.delay, func(time.Time) tea.Msg {
		return replyMsg{gen: gen}
	})
}

func (c chatModel) reply(msg replyMsg) (chatModel, tea.Cmd) {
	if msg.gen != c.gen || !c.typing {
		c.log.Debug("dropped stale chat reply", zap.Int("gen", msg.gen))
		return c, nil
	}
	c.typing = false

	text, err := c.responses.Pick(selector.ChatCategory)
	if err != nil {
		c.log.Error("pick chat response", zap.Error(err))
		return c, nil
	}
	if m, err := entry.NewMessage(entry.SenderAssistant, text); err == nil {
		c.transcript.Append(m)
	}
	return c, nil
}

func (c chatModel) view() string {
	w := c.width - 4
	title := titleStyle.Render("MindMate")
	subtitle := subtitleStyle.Render("A space to talk things through. Not a substitute for professional care.")

	bubbleWidth := max(20, w-8)
	var lines []string
	for _, m := range c.transcript.Items() {
		lines = append(lines, strings.Split(renderMessage(m, bubbleWidth), "\n")...)
		lines = append(lines, "")
	}
	if c.typing {
		lines = append(lines, mutedStyle.Render("MindMate is typing..."))
	}

	// Keep the tail that fits; older lines scroll off the top.
	room := c.height - 10
	if room > 0 && len(lines) > room {
		lines = lines[len(lines)-room:]
	}

	inputView := c.input.View()
	hint := mutedStyle.Render("  enter: send  esc: leave input")
	if !c.input.Focused() {
		hint = mutedStyle.Render("  enter: write a message")
	}
	if c.typing {
		hint = mutedStyle.Render("  waiting for a reply...")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, subtitle, "", strings.Join(lines, "\n"), inputView, hint,
		),
	)
}

func renderMessage(m entry.Message, width int) string {
	stamp := mutedStyle.Render(m.Timestamp.Local().Format("15:04"))
	if m.Sender == entry.SenderUser {
		name := userMsgStyle.Bold(true).Render("You")
		body := userMsgStyle.Width(width).Render(m.Content)
		return name + " " + stamp + "\n" + body
	}
	name := assistantMsgStyle.Bold(true).Render("MindMate")
	body := assistantMsgStyle.Width(width).Render(m.Content)
	return name + " " + stamp + "\n" + body
}
