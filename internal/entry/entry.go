// Package entry holds the timestamped records each screen owns and the
// namespaced collections that keep them in memory and on disk.
package entry

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

var ErrInvalid = errors.New("invalid entry")

// Record is anything a Namespace can hold.
type Record interface {
	EntryID() string
	CreatedAt() time.Time
	Validate() error
}

// Mood is one mood check-in. Score is 1 (very low) to 5 (excellent).
type Mood struct {
	ID   string    `json:"id"`
	Mood int       `json:"mood"`
	Note string    `json:"note"`
	Date time.Time `json:"date"`
	Tags []string  `json:"tags"`
}

func (m Mood) EntryID() string      { return m.ID }
func (m Mood) CreatedAt() time.Time { return m.Date }

func (m Mood) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("%w: mood entry without id", ErrInvalid)
	}
	if m.Mood < MinMood || m.Mood > MaxMood {
		return fmt.Errorf("%w: mood %d out of range", ErrInvalid, m.Mood)
	}
	if m.Date.IsZero() {
		return fmt.Errorf("%w: mood entry %s without date", ErrInvalid, m.ID)
	}
	return nil
}

const (
	MinMood = 1
	MaxMood = 5
)

// MoodTags are the descriptors offered when checking in.
var MoodTags = []string{
	"anxious", "grateful", "stressed", "peaceful",
	"excited", "tired", "focused", "overwhelmed",
	"content", "motivated", "lonely", "connected",
}

// NewMood stamps a fresh mood entry. Duplicate tags are collapsed, keeping
// first occurrence order.
func NewMood(score int, note string, tags []string) (Mood, error) {
	m := Mood{
		ID:   newID(),
		Mood: score,
		Note: note,
		Date: now(),
		Tags: dedupe(tags),
	}
	if err := m.Validate(); err != nil {
		return Mood{}, err
	}
	return m, nil
}

// Category groups journal prompts.
type Category string

const (
	Gratitude  Category = "gratitude"
	Reflection Category = "reflection"
	Goals      Category = "goals"
	Emotions   Category = "emotions"
	Creativity Category = "creativity"
)

// Categories lists the journal categories in display order.
var Categories = []Category{Gratitude, Reflection, Goals, Emotions, Creativity}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Journal is one written entry. Prompt is a snapshot of the prompt shown
// when the entry was written.
type Journal struct {
	ID       string    `json:"id"`
	Prompt   string    `json:"prompt"`
	Content  string    `json:"content"`
	Date     time.Time `json:"date"`
	Category Category  `json:"category"`
}

func (j Journal) EntryID() string      { return j.ID }
func (j Journal) CreatedAt() time.Time { return j.Date }

func (j Journal) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("%w: journal entry without id", ErrInvalid)
	}
	if j.Date.IsZero() {
		return fmt.Errorf("%w: journal entry %s without date", ErrInvalid, j.ID)
	}
	if !j.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalid, j.Category)
	}
	return nil
}

func NewJournal(prompt, content string, category Category) (Journal, error) {
	j := Journal{
		ID:       newID(),
		Prompt:   prompt,
		Content:  content,
		Date:     now(),
		Category: category,
	}
	if j.Content == "" {
		return Journal{}, fmt.Errorf("%w: empty journal content", ErrInvalid)
	}
	if err := j.Validate(); err != nil {
		return Journal{}, err
	}
	return j, nil
}

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one line of the chat transcript.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

func (m Message) EntryID() string      { return m.ID }
func (m Message) CreatedAt() time.Time { return m.Timestamp }

func (m Message) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("%w: message without id", ErrInvalid)
	}
	if m.Sender != SenderUser && m.Sender != SenderAssistant {
		return fmt.Errorf("%w: unknown sender %q", ErrInvalid, m.Sender)
	}
	return nil
}

func NewMessage(sender Sender, content string) (Message, error) {
	m := Message{
		ID:        newID(),
		Content:   content,
		Sender:    sender,
		Timestamp: now(),
	}
	if content == "" {
		return Message{}, fmt.Errorf("%w: empty message", ErrInvalid)
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

func newID() string {
	return uuid.NewString()
}

// now is millisecond precision so a stored entry reads back identical.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func dedupe(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
