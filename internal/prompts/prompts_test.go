package prompts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeeklyPromptIsStableWithinAWeek(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	for day := 0; day < 5; day++ {
		assert.Equal(t,
			WeeklyPrompt(monday),
			WeeklyPrompt(monday.AddDate(0, 0, day)),
			"prompt must not change mid-week (day offset %d)", day,
		)
	}
}

func TestWeeklyPromptAlternatesBanks(t *testing.T) {
	day := time.Date(2026, time.January, 4, 12, 0, 0, 0, time.UTC)
	inBank := func(prompt string, bank []string) bool {
		for _, p := range bank {
			if p == prompt {
				return true
			}
		}
		return false
	}

	// Across consecutive weeks the prompt flips between the reflection and
	// affirmation banks.
	var lastWasReflection *bool
	for week := 0; week < 6; week++ {
		prompt := WeeklyPrompt(day.AddDate(0, 0, 7*week))
		isReflection := inBank(prompt, reflectionPrompts)
		if !isReflection {
			assert.True(t, inBank(prompt, affirmationPrompts), "prompt must come from one of the banks")
		}
		if lastWasReflection != nil {
			assert.NotEqual(t, *lastWasReflection, isReflection, "banks must alternate weekly")
		}
		lastWasReflection = &isReflection
	}
}

func TestWeeklyPromptCyclesThroughBank(t *testing.T) {
	day := time.Date(2026, time.January, 4, 12, 0, 0, 0, time.UTC)
	seen := make(map[string]bool)
	// Two-week stride stays within one bank; the index advances each time.
	for i := 0; i < 4; i++ {
		seen[WeeklyPrompt(day.AddDate(0, 0, 14*i))] = true
	}
	assert.GreaterOrEqual(t, len(seen), 3, "consecutive same-bank weeks should advance through the bank")
}
