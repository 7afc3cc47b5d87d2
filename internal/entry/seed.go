package entry

import "time"

// Storage keys for the persisted namespaces. The chat transcript has none.
const (
	MoodKey    = "mindmate-mood-data"
	JournalKey = "mindmate-journal-data"
	ChatKey    = "mindmate-chat"
)

type sample struct {
	daysAgo int
	mood    int
	note    string
	tags    []string
}

var samples = []sample{
	{1, 5, "Amazing day with friends!", []string{"happy", "social", "grateful"}},
	{2, 3, "Average day", []string{"neutral"}},
	{3, 4, "Great workout session", []string{"energetic", "accomplished"}},
	{4, 2, "Feeling a bit down", []string{"anxious", "tired"}},
	{5, 4, "Had a good day at work", []string{"motivated", "content"}},
	{6, 3, "Feeling okay today", []string{"neutral"}},
}

// SampleMoods returns the illustrative entries shown on first run,
// most-recent-first, dated one to six days before now.
func SampleMoods(now time.Time) []Mood {
	now = now.UTC().Truncate(time.Millisecond)
	out := make([]Mood, 0, len(samples))
	for _, s := range samples {
		out = append(out, Mood{
			ID:   newID(),
			Mood: s.mood,
			Note: s.note,
			Date: now.Add(-time.Duration(s.daysAgo) * 24 * time.Hour),
			Tags: append([]string(nil), s.tags...),
		})
	}
	return out
}

// OpenMoods opens the mood namespace, seeding SampleMoods when seed is true
// and nothing usable is stored. Malformed data counts as nothing stored and
// is overwritten; a stored empty array does not. It reports whether seeding
// happened.
func OpenMoods(b Backend, seed bool, now time.Time) (*Namespace[Mood], LoadResult, bool, error) {
	ns, res := Open[Mood](b, MoodKey, Prepend)
	if !seed || !treatedAsAbsent(res) {
		return ns, res, false, nil
	}
	return ns, res, true, ns.Seed(SampleMoods(now))
}

// treatedAsAbsent is true for a first run or unparseable data. A backend
// read error is not: the stored value may be fine and must not be clobbered.
func treatedAsAbsent(res LoadResult) bool {
	switch res.Status {
	case LoadAbsent:
		return res.Err == nil
	case LoadCorrupt:
		return true
	}
	return false
}

func OpenJournal(b Backend) (*Namespace[Journal], LoadResult) {
	return Open[Journal](b, JournalKey, Prepend)
}

// NewTranscript starts an unpersisted chat transcript with a greeting.
func NewTranscript(greeting string) *Namespace[Message] {
	ns := New[Message](ChatKey, Append)
	if greeting != "" {
		if m, err := NewMessage(SenderAssistant, greeting); err == nil {
			ns.Append(m)
		}
	}
	return ns
}
