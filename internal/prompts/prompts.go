// Package prompts generates the weekly reflection/affirmation prompt shown
// on the affirmations page. The prompt is a pure function of the date:
// reflection and affirmation banks alternate week by week.
package prompts

import "time"

var reflectionPrompts = []string{
	"What is something you accomplished this week that you're proud of?",
	"Describe a moment this week when you felt truly at peace.",
	"What challenged you recently, and what did it teach you?",
	"Who made a positive difference in your week, and how?",
	"What is one habit you'd like to build, and why does it matter to you?",
	"When did you last step outside your comfort zone? What happened?",
	"What are three small things you're grateful for right now?",
	"What would you tell your younger self about this past year?",
}

var affirmationPrompts = []string{
	"I am growing at my own pace, and that is enough.",
	"I deserve the kindness I so freely give to others.",
	"My voice matters and my story is worth sharing.",
	"I choose progress over perfection.",
	"I am allowed to rest without feeling guilty.",
	"Every day I am becoming more of who I want to be.",
	"I trust myself to handle whatever this week brings.",
	"I release what I cannot control.",
}

// WeeklyPrompt returns the prompt for the week containing now. Even weeks
// draw from the reflection bank, odd weeks from the affirmation bank, each
// bank cycling at half the week rate.
func WeeklyPrompt(now time.Time) string {
	week := weekOfYear(now)
	bank := affirmationPrompts
	if week%2 == 0 {
		bank = reflectionPrompts
	}
	return bank[(week/2)%len(bank)]
}

// weekOfYear counts calendar weeks from January 1st, aligned to the weekday
// the year started on, so every date in the same Sunday-to-Saturday span
// maps to the same week number.
func weekOfYear(now time.Time) int {
	jan1 := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	days := int(now.Sub(jan1).Hours() / 24)
	return (days + int(jan1.Weekday()) + 1 + 6) / 7
}
