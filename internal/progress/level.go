// Package progress turns accumulated experience into levels, awards XP for
// journal events and derives achievements.
package progress

import "math"

// MaxLevel freezes progression; XP beyond it is still kept.
const MaxLevel = 200

type Progress struct {
	Level          int     `json:"level"`
	XP             int     `json:"xp"`
	CurrentLevelXP int     `json:"current_level_xp"`
	NextLevelXP    int     `json:"next_level_xp"`
	Percent        float64 `json:"percent"`
}

// Threshold returns the cumulative XP needed to reach level, floor(100 * level^1.5).
func Threshold(level int) int {
	if level <= 0 {
		return 0
	}
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

func Compute(xp int) Progress {
	if xp < 0 {
		xp = 0
	}

	level := 0
	for level < MaxLevel && xp >= Threshold(level+1) {
		level++
	}

	p := Progress{
		Level:          level,
		XP:             xp,
		CurrentLevelXP: Threshold(level),
		NextLevelXP:    Threshold(level + 1),
	}
	if level >= MaxLevel {
		p.NextLevelXP = Threshold(MaxLevel)
		p.Percent = 100
		return p
	}

	span := p.NextLevelXP - p.CurrentLevelXP
	p.Percent = float64(xp-p.CurrentLevelXP) / float64(span) * 100
	return p
}
