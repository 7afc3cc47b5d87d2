package selector

import "github.com/sadopc/mindmate/internal/entry"

// ChatCategory is the single category chat replies are drawn from.
const ChatCategory = "chat"

// Greeting opens every chat session.
const Greeting = "Hello! I'm your Mind-Mate companion. I'm here to listen and support you through whatever you're experiencing. How are you feeling today?"

var chatResponses = []string{
	"I hear you, and I want you to know that your feelings are completely valid. Would you like to tell me more about what's on your mind?",
	"Thank you for sharing that with me. It takes courage to open up. How has this been affecting your daily life?",
	"That sounds really challenging. You're not alone in feeling this way. What do you think might help you feel a bit better right now?",
	"I appreciate you trusting me with this. Sometimes just talking about our feelings can provide some relief. How are you taking care of yourself?",
	"Your feelings matter, and I'm here to listen without judgment. What would feel most supportive for you right now?",
	"It's okay to feel overwhelmed sometimes. You're doing the best you can. Would it help to talk about what's been working well for you lately?",
}

var journalPrompts = map[entry.Category][]string{
	entry.Gratitude: {
		"What are three things you're grateful for today?",
		"Describe a moment from this week that brought you joy.",
		"Who in your life are you most thankful for and why?",
		"What simple pleasure made you smile recently?",
		"How has someone shown you kindness lately?",
	},
	entry.Reflection: {
		"What did you learn about yourself today?",
		"Describe a challenge you overcame recently. How did it make you stronger?",
		"What patterns do you notice in your thoughts or behaviors?",
		"How have you grown in the past month?",
		"What would you tell your younger self about handling difficult situations?",
	},
	entry.Goals: {
		"What's one small step you can take today toward a goal that matters to you?",
		"Describe your ideal day. What would it include?",
		"What habit would you like to develop or change?",
		"How do you want to feel at the end of this week?",
		"What's something you've been putting off that you could start today?",
	},
	entry.Emotions: {
		"What emotions have you experienced today? What triggered them?",
		"Describe a time when you felt truly at peace.",
		"How do you typically handle stress? What works best for you?",
		"What's one emotion you'd like to experience more of?",
		"Write about a recent situation that challenged your emotional well-being.",
	},
	entry.Creativity: {
		"If you could have any superpower, what would it be and how would you use it?",
		"Describe your perfect creative space.",
		"What's a story only you can tell?",
		"If you could have coffee with anyone, who would it be and what would you discuss?",
		"Write about a place that makes you feel inspired.",
	},
}

// JournalPrompts is the prompt catalog keyed by category name.
func JournalPrompts() map[string][]string {
	out := make(map[string][]string, len(journalPrompts))
	for c, p := range journalPrompts {
		out[string(c)] = p
	}
	return out
}

func ChatResponses() map[string][]string {
	return map[string][]string{ChatCategory: chatResponses}
}
