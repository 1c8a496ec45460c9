package models

// XPPerLevel scales the threshold needed to leave a level.
const XPPerLevel = 100

// MaxXPAward is the largest single award accepted. It keeps xp + amount far
// from int overflow.
const MaxXPAward = 100_000

// XPThreshold is the XP required to advance from level to level+1.
func XPThreshold(level int) int {
	return level * XPPerLevel
}

// Progress is the outcome of applying an XP award.
type Progress struct {
	XP        int  `json:"xp"`
	Level     int  `json:"level"`
	LeveledUp bool `json:"leveled_up"`
	LevelUps  int  `json:"level_ups"`
}

// ApplyXP adds amount to xp and carries every full threshold into levels.
// The threshold is recomputed after each level-up, so a single large award
// can advance several levels. Out of range inputs are clamped to level 1 and
// zero xp before the award is applied.
func ApplyXP(level, xp, amount int) Progress {
	if level < 1 {
		level = 1
	}
	if xp < 0 {
		xp = 0
	}
	xp += amount
	if xp < 0 {
		xp = 0
	}

	ups := 0
	for xp >= XPThreshold(level) {
		xp -= XPThreshold(level)
		level++
		ups++
	}

	return Progress{XP: xp, Level: level, LeveledUp: ups > 0, LevelUps: ups}
}
