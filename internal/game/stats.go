/*
Package game
File: stats.go
Description:
    The derived-stat formulas: pure functions of the game state and the
    catalog. This is the rules engine for progression math; nothing here
    mutates state.
*/

package game

import "math"

// DerivedStats captures every formula output computed from one consistent
// read of the state. Transactions derive once and commit from that read.
type DerivedStats struct {
	ClickMultiplier   float64
	PassiveMultiplier float64
	XPMultiplier      float64
	StartBonus        float64

	BaseClickPower float64
	BasePassive    float64

	SunsPerClick          float64
	SunsPerSecond         float64
	XPForNextLevel        float64
	PotentialPrestigeGain float64

	TotalUpgrades  int
	SecretUnlocked bool
	VisualStage    VisualStage
}

// Derive computes all derived stats for the given state.
func Derive(cat *Catalog, st *GameState) DerivedStats {
	d := DerivedStats{
		ClickMultiplier:   1,
		PassiveMultiplier: 1,
		XPMultiplier:      1,
		BaseClickPower:    1,
	}

	for _, def := range cat.Upgrades {
		n := ownedCount(st.Upgrades, def.ID)
		d.TotalUpgrades += n
		if n == 0 {
			continue
		}
		switch def.Effect {
		case EffectClickPower:
			d.BaseClickPower += def.EffectValue * float64(n)
		case EffectAutoSuns:
			d.BasePassive += def.EffectValue * float64(n)
		case EffectSecret:
			d.SecretUnlocked = true
		}
	}

	for _, def := range cat.PrestigeUpgrades {
		n := ownedCount(st.PrestigeUpgrades, def.ID)
		if n == 0 {
			continue
		}
		switch def.Effect {
		case EffectClickMultiplier:
			d.ClickMultiplier += def.EffectValue * float64(n)
		case EffectPassiveMultiplier:
			d.PassiveMultiplier += def.EffectValue * float64(n)
		case EffectXPMultiplier:
			d.XPMultiplier += def.EffectValue * float64(n)
		case EffectStartBonus:
			d.StartBonus += def.EffectValue * float64(n)
		}
	}

	// Clicks grant whole suns even when multipliers are fractional.
	// The passive rate stays fractional: it accrues in sub-second ticks.
	d.SunsPerClick = math.Floor(d.BaseClickPower * d.ClickMultiplier)
	d.SunsPerSecond = d.BasePassive * d.PassiveMultiplier

	d.XPForNextLevel = XPRequiredFor(cat, st.Level)
	d.PotentialPrestigeGain = PotentialPrestigeGain(cat, st.Suns)
	d.VisualStage = StageFor(st.Level, d.TotalUpgrades)

	return d
}

// ownedCount is a linear scan by id; missing ids count as zero.
func ownedCount(owned []OwnedUpgrade, id string) int {
	for _, o := range owned {
		if o.ID == id {
			return o.Owned
		}
	}
	return 0
}

// XPRequiredFor returns the XP threshold to leave the given level.
// Level 0: 15, level 10: ~60, level 20: ~245.
func XPRequiredFor(cat *Catalog, level int) float64 {
	return math.Floor(cat.Balance.XPBase * math.Pow(cat.Balance.XPGrowth, float64(level)))
}

// LevelUpReward returns the suns granted for reaching a level.
// Evaluated at the new level, after the increment.
func LevelUpReward(level int) float64 {
	l := float64(level)
	return math.Floor(10 + l*5 + math.Pow(l, 1.5))
}

// PotentialPrestigeGain returns the prestige points a reset would yield at
// the given currency. Quadratic cost curve: the first point needs the full
// divisor (100K suns by default), two points need four times that.
func PotentialPrestigeGain(cat *Catalog, suns float64) float64 {
	if suns <= 0 {
		return 0
	}
	return math.Floor(math.Sqrt(suns / cat.Balance.PrestigeDivisor))
}

// UpgradeCost returns the price of the next copy at ownership count owned.
func UpgradeCost(def *UpgradeDefinition, owned int) float64 {
	return math.Floor(def.BaseCost * math.Pow(def.CostMultiplier, float64(owned)))
}

// StageFor maps overall progress to the visual stage. The world starts
// bright and darkens as the player advances.
func StageFor(level, totalUpgrades int) VisualStage {
	progress := level + totalUpgrades/2
	switch {
	case progress >= 20:
		return StageVoid
	case progress >= 12:
		return StageAbyss
	case progress >= 7:
		return StageStorm
	case progress >= 4:
		return StageCloudy
	case progress >= 2:
		return StageMelancholy
	default:
		return StageHappy
	}
}
