// Package analytics derives dashboard figures from entries ordered
// most-recent-first. Every function is pure.
package analytics

import (
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/montanaflynn/stats"
	"github.com/sadopc/mindmate/internal/entry"
)

type Trend string

const (
	Improving Trend = "improving"
	Declining Trend = "declining"
	Stable    Trend = "stable"
)

const (
	trendWindow    = 3
	trendThreshold = 0.3
)

// Average is the mean mood score, 0 for no entries.
func Average(entries []entry.Mood) float64 {
	return mean(entries)
}

// TrendOf compares the mean of the three most recent entries with the mean
// of the three before them.
func TrendOf(entries []entry.Mood) Trend {
	if len(entries) < 2 {
		return Stable
	}
	recent := entries[:min(trendWindow, len(entries))]
	recentAvg := mean(recent)

	olderAvg := recentAvg
	if len(entries) > trendWindow {
		olderAvg = mean(entries[trendWindow:min(2*trendWindow, len(entries))])
	}

	return classify(recentAvg, olderAvg)
}

func classify(recent, older float64) Trend {
	switch delta := recent - older; {
	case delta > trendThreshold:
		return Improving
	case delta < -trendThreshold:
		return Declining
	}
	return Stable
}

// WindowCount counts entries younger than d at now.
func WindowCount[T entry.Record](entries []T, d time.Duration, now time.Time) int {
	n := 0
	for _, e := range entries {
		if now.Sub(e.CreatedAt()) < d {
			n++
		}
	}
	return n
}

// Point is one chart sample.
type Point struct {
	Label string
	Value float64
}

// ChartSeries takes the n most recent entries and returns them oldest
// first, labelled like "Jan 2".
func ChartSeries(entries []entry.Mood, n int) []Point {
	if n <= 0 {
		return nil
	}
	recent := entries[:min(n, len(entries))]
	points := make([]Point, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		points = append(points, Point{
			Label: recent[i].Date.Local().Format("Jan 2"),
			Value: float64(recent[i].Mood),
		})
	}
	return points
}

func mean(entries []entry.Mood) float64 {
	data := make(stats.Float64Data, len(entries))
	for i, e := range entries {
		data[i] = float64(e.Mood)
	}
	m, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return m
}

var moodLabels = map[int]string{
	1: "Very Low",
	2: "Low",
	3: "Neutral",
	4: "Good",
	5: "Excellent",
}

// MoodLabel names a score, "Unknown" outside 1..5.
func MoodLabel(score int) string {
	if l, ok := moodLabels[score]; ok {
		return l
	}
	return "Unknown"
}

// TagCount is how often a tag appears across entries.
type TagCount struct {
	Tag   string
	Count int
}

// TagCounts tallies tags, most frequent first, ties alphabetical.
func TagCounts(entries []entry.Mood) []TagCount {
	counts := make(map[string]int)
	for _, e := range entries {
		for _, t := range e.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, TagCount{Tag: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

const Week = 7 * 24 * time.Hour

// JournalSummary backs the journal stats panel.
type JournalSummary struct {
	Total         int
	ThisWeek      int
	AverageLength int // characters, rounded
}

func JournalStats(entries []entry.Journal, now time.Time) JournalSummary {
	s := JournalSummary{
		Total:    len(entries),
		ThisWeek: WindowCount(entries, Week, now),
	}
	if len(entries) == 0 {
		return s
	}
	chars := 0
	for _, e := range entries {
		chars += utf8.RuneCountInString(e.Content)
	}
	s.AverageLength = int(math.Round(float64(chars) / float64(len(entries))))
	return s
}
