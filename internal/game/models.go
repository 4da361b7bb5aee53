/*
Package game
File: models.go
Description:
    Defines the data structures for the Nightfall progression engine: the
    player's game state, the static upgrade catalogs loaded from YAML, and
    the snapshot/result types consumed by the presentation layer.

    No logic is performed here; this file is strictly for type definitions.
*/

package game

import "github.com/duskworks/nightfall-idle/internal/save"

// OwnedUpgrade pairs a catalog upgrade id with how many the player owns.
// This is the persisted shape; the catalog definition itself never mutates.
type OwnedUpgrade = save.OwnedUpgrade

// EffectKind discriminates what an upgrade does. Aggregation over upgrades
// switches exhaustively on this type rather than comparing raw strings.
type EffectKind string

const (
	// Normal upgrade effects (reset by prestige).
	EffectClickPower EffectKind = "clickPower" // Adds flat suns per click
	EffectAutoSuns   EffectKind = "autoSuns"   // Adds flat suns per second
	EffectSecret     EffectKind = "secret"     // Cosmetic unlock flag, no numeric effect

	// Prestige upgrade effects (permanent, survive resets).
	EffectClickMultiplier   EffectKind = "clickMultiplier"   // Multiplies click gains
	EffectPassiveMultiplier EffectKind = "passiveMultiplier" // Multiplies passive gains
	EffectXPMultiplier      EffectKind = "xpMultiplier"      // Multiplies XP per click
	EffectStartBonus        EffectKind = "startBonus"        // Starting suns after a prestige reset
)

// UpgradeDefinition is a static catalog entry. Definitions are immutable
// after load; ownership counts live in GameState keyed by ID.
type UpgradeDefinition struct {
	ID             string     `yaml:"id" json:"id"`                           // Unique key (e.g. "coffee")
	Name           string     `yaml:"name" json:"name"`                       // Display name
	Description    string     `yaml:"description" json:"description"`         // Flavor text
	Emoji          string     `yaml:"emoji" json:"emoji"`                     // Shop icon
	BaseCost       float64    `yaml:"base_cost" json:"base_cost"`             // Cost of the first copy
	CostMultiplier float64    `yaml:"cost_multiplier" json:"cost_multiplier"` // Per-copy geometric cost growth
	Effect         EffectKind `yaml:"effect" json:"effect"`                   // What owning this does
	EffectValue    float64    `yaml:"effect_value" json:"effect_value"`       // Magnitude per copy
	MaxOwned       int        `yaml:"max_owned" json:"max_owned"`             // 0 means unbounded
}

// GameBalance stores the global tuning constants loaded from 'catalog.yaml'.
type GameBalance struct {
	XPBase          float64 `yaml:"xp_base" json:"xp_base"`                   // XP needed at level 0
	XPGrowth        float64 `yaml:"xp_growth" json:"xp_growth"`               // Exponential XP curve base
	PrestigeDivisor float64 `yaml:"prestige_divisor" json:"prestige_divisor"` // Suns per sqrt-unit of prestige gain
	OfflineCapSecs  int64   `yaml:"offline_cap_secs" json:"offline_cap_secs"` // Max seconds of offline catch-up
}

// Catalog is the root configuration struct, mapping to 'catalog.yaml'.
type Catalog struct {
	Balance          GameBalance         `yaml:"game_balance" json:"game_balance"`
	Upgrades         []UpgradeDefinition `yaml:"upgrades" json:"upgrades"`
	PrestigeUpgrades []UpgradeDefinition `yaml:"prestige_upgrades" json:"prestige_upgrades"`
}

// GameState is the root aggregate for one player. It is owned by a Session
// and only mutated under its lock.
type GameState struct {
	Suns                float64        `json:"suns"`
	Level               int            `json:"level"`
	CurrentXP           float64        `json:"currentXP"`
	ClickCount          int            `json:"clickCount"`
	Upgrades            []OwnedUpgrade `json:"upgrades"`
	PrestigePoints      float64        `json:"prestigePoints"`
	TotalPrestigePoints float64        `json:"totalPrestigePoints"`
	PrestigeUpgrades    []OwnedUpgrade `json:"prestigeUpgrades"`
	TotalPrestiges      int            `json:"totalPrestiges"`
	LastSaveTime        int64          `json:"lastSaveTime"` // Unix millis of the last persistence write
}

// VisualStage tells the presentation layer how dark the world has become.
type VisualStage string

const (
	StageHappy      VisualStage = "happy"
	StageMelancholy VisualStage = "melancholy"
	StageCloudy     VisualStage = "cloudy"
	StageStorm      VisualStage = "storm"
	StageAbyss      VisualStage = "abyss"
	StageVoid       VisualStage = "void"
)

// Snapshot is the read-only view handed to the presentation layer after
// every transaction and scheduler tick: the raw state plus derived stats.
type Snapshot struct {
	GameState

	SunsPerClick          float64     `json:"sunsPerClick"`
	SunsPerSecond         float64     `json:"sunsPerSecond"`
	XPForNextLevel        float64     `json:"xpForNextLevel"`
	PotentialPrestigeGain float64     `json:"potentialPrestigeGain"`
	ClickMultiplier       float64     `json:"clickMultiplier"`
	PassiveMultiplier     float64     `json:"passiveMultiplier"`
	XPMultiplier          float64     `json:"xpMultiplier"`
	TotalUpgrades         int         `json:"totalUpgrades"`
	SecretUnlocked        bool        `json:"secretUnlocked"`
	VisualStage           VisualStage `json:"visualStage"`
	OfflineNotice         string      `json:"offlineNotice,omitempty"` // One-shot welcome-back message
}

// ClickResult reports what a single click produced, so the presentation
// layer can animate the gain and any level-up.
type ClickResult struct {
	SunsGained  float64 `json:"sunsGained"`
	XPGained    float64 `json:"xpGained"`
	LeveledUp   bool    `json:"leveledUp"`
	NewLevel    int     `json:"newLevel,omitempty"`
	LevelReward float64 `json:"levelReward,omitempty"`
}
