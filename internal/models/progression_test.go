package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyXP(t *testing.T) {
	tests := []struct {
		name   string
		level  int
		xp     int
		amount int
		want   Progress
	}{
		{"below threshold", 1, 0, 8, Progress{XP: 8, Level: 1}},
		{"exact threshold", 1, 92, 8, Progress{XP: 0, Level: 2, LeveledUp: true, LevelUps: 1}},
		{"large award stops below next threshold", 1, 0, 250, Progress{XP: 150, Level: 2, LeveledUp: true, LevelUps: 1}},
		{"multiple levels in one award", 1, 0, 300, Progress{XP: 0, Level: 3, LeveledUp: true, LevelUps: 2}},
		{"threshold grows with level", 2, 150, 60, Progress{XP: 10, Level: 3, LeveledUp: true, LevelUps: 1}},
		{"zero award", 4, 12, 0, Progress{XP: 12, Level: 4}},
		{"clamps invalid level", 0, 0, 5, Progress{XP: 5, Level: 1}},
		{"clamps negative xp", 1, -40, 5, Progress{XP: 5, Level: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyXP(tt.level, tt.xp, tt.amount))
		})
	}
}

func TestApplyXP_InvariantHoldsAcrossSequences(t *testing.T) {
	level, xp := 1, 0
	awards := []int{8, 6, 5, 250, 1000, 3, 99, 420, 8, 8, 8}
	for _, amount := range awards {
		p := ApplyXP(level, xp, amount)
		level, xp = p.Level, p.XP

		assert.GreaterOrEqual(t, level, 1)
		assert.GreaterOrEqual(t, xp, 0)
		assert.Less(t, xp, XPThreshold(level))
	}
}
