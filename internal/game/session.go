/*
Package game
File: session.go
Description:
    The Session owns the live game state and is the transaction engine:
    clicks, purchases, and the prestige reset all run here. Every mutation
    holds the session lock for the whole check-and-commit, so an
    affordability check and its debit always observe the same balance and
    no transaction can interleave between them.

    Failed validations (insufficient funds, maxed upgrades, non-finite
    costs) are silent no-ops; transactions never return errors.
*/

package game

import (
	"math"
	"sync"
	"time"

	"github.com/duskworks/nightfall-idle/internal/clock"
	"github.com/duskworks/nightfall-idle/internal/save"
)

// noticeTTL is how long the offline-earnings notice stays in snapshots.
const noticeTTL = 5 * time.Second

// Session is the explicitly owned game session for one player. Construct
// with NewSession; tear down via the Scheduler that drives it.
type Session struct {
	mu      sync.Mutex
	catalog *Catalog
	clk     clock.Clock
	state   GameState

	offlineNotice string
	noticeUntil   time.Time
}

// NewSession builds a session from an optional persisted state. Ownership
// counts are merged into the current catalog by id: ids missing from the
// save start at zero, ids missing from the catalog are dropped.
func NewSession(cat *Catalog, saved *save.State, clk clock.Clock) *Session {
	s := &Session{catalog: cat, clk: clk}

	if saved != nil {
		s.state = GameState{
			Suns:                saved.Suns,
			Level:               saved.Level,
			CurrentXP:           saved.CurrentXP,
			ClickCount:          saved.ClickCount,
			Upgrades:            mergeOwned(cat.Upgrades, saved.Upgrades),
			PrestigePoints:      saved.PrestigePoints,
			TotalPrestigePoints: saved.TotalPrestigePoints,
			PrestigeUpgrades:    mergeOwned(cat.PrestigeUpgrades, saved.PrestigeUpgrades),
			TotalPrestiges:      saved.TotalPrestiges,
			LastSaveTime:        saved.LastSaveTime,
		}
		return s
	}

	// Fresh zero-state with catalog-default ownership entries.
	s.state = GameState{
		Upgrades:         mergeOwned(cat.Upgrades, nil),
		PrestigeUpgrades: mergeOwned(cat.PrestigeUpgrades, nil),
		LastSaveTime:     clk.Now().UnixMilli(),
	}
	return s
}

// mergeOwned builds the ownership list in catalog order, adopting counts
// from saved where the id still exists.
func mergeOwned(defs []UpgradeDefinition, saved []OwnedUpgrade) []OwnedUpgrade {
	out := make([]OwnedUpgrade, len(defs))
	for i, def := range defs {
		out[i] = OwnedUpgrade{ID: def.ID, Owned: ownedCount(saved, def.ID)}
	}
	return out
}

// Catalog returns the catalog currently in effect.
func (s *Session) Catalog() *Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// ReplaceCatalog swaps in a reloaded catalog and re-aligns ownership
// entries with it. Player progress is untouched.
func (s *Session) ReplaceCatalog(cat *Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Upgrades = mergeOwned(cat.Upgrades, s.state.Upgrades)
	s.state.PrestigeUpgrades = mergeOwned(cat.PrestigeUpgrades, s.state.PrestigeUpgrades)
	s.catalog = cat
}

// Click grants suns and XP for one click and resolves any level-up.
// The level-up is computed from the same read as the XP grant and
// committed in one step; excess XP past the threshold is discarded.
func (s *Session) Click() (ClickResult, Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := Derive(s.catalog, &s.state)

	s.state.Suns += d.SunsPerClick
	s.state.ClickCount++

	xpGain := math.Floor(1 * d.XPMultiplier)
	res := ClickResult{SunsGained: d.SunsPerClick, XPGained: xpGain}

	newXP := s.state.CurrentXP + xpGain
	if newXP >= d.XPForNextLevel {
		newLevel := s.state.Level + 1
		reward := LevelUpReward(newLevel)

		s.state.Level = newLevel
		s.state.CurrentXP = 0
		s.state.Suns += reward

		res.LeveledUp = true
		res.NewLevel = newLevel
		res.LevelReward = reward
	} else {
		s.state.CurrentXP = newXP
	}

	return res, s.snapshotLocked()
}

// BuyUpgrade purchases one copy of a normal upgrade with suns.
// Returns false (state unchanged) when the purchase is not allowed.
func (s *Session) BuyUpgrade(id string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := buy(s.catalog.Upgrade(id), s.state.Upgrades, &s.state.Suns)
	return s.snapshotLocked(), ok
}

// BuyPrestigeUpgrade purchases one copy of a prestige upgrade with
// prestige points. Same contract as BuyUpgrade.
func (s *Session) BuyPrestigeUpgrade(id string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := buy(s.catalog.PrestigeUpgrade(id), s.state.PrestigeUpgrades, &s.state.PrestigePoints)
	return s.snapshotLocked(), ok
}

// buy validates and applies one purchase against the given balance.
// Rejects: unknown id, maxed ownership, non-positive or non-finite cost,
// insufficient balance, or a debit that would leave the balance invalid.
func buy(def *UpgradeDefinition, owned []OwnedUpgrade, balance *float64) bool {
	if def == nil {
		return false
	}

	var entry *OwnedUpgrade
	for i := range owned {
		if owned[i].ID == def.ID {
			entry = &owned[i]
			break
		}
	}
	if entry == nil {
		return false
	}

	if def.MaxOwned > 0 && entry.Owned >= def.MaxOwned {
		return false
	}

	cost := UpgradeCost(def, entry.Owned)
	if cost <= 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return false
	}
	if *balance < cost {
		return false
	}

	newBalance := *balance - cost
	if newBalance < 0 || math.IsNaN(newBalance) || math.IsInf(newBalance, 0) {
		return false
	}

	*balance = newBalance
	entry.Owned++
	return true
}

// Prestige converts the current suns into prestige points and resets
// normal progression. No-op (returns false) below one point of gain.
// Prestige upgrades, prestige points, and lifetime counters survive;
// the start-bonus effect seeds the post-reset currency.
func (s *Session) Prestige() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := Derive(s.catalog, &s.state)
	if d.PotentialPrestigeGain < 1 {
		return s.snapshotLocked(), false
	}

	s.state.PrestigePoints += d.PotentialPrestigeGain
	s.state.TotalPrestigePoints += d.PotentialPrestigeGain
	s.state.TotalPrestiges++

	s.state.Suns = d.StartBonus
	s.state.Level = 0
	s.state.CurrentXP = 0
	s.state.ClickCount = 0
	for i := range s.state.Upgrades {
		s.state.Upgrades[i].Owned = 0
	}

	return s.snapshotLocked(), true
}

// Accrue adds passive income for the given number of seconds. Used by the
// live tick (fractions of a second) and by offline reconciliation (via
// ReconcileOffline, which applies the catch-up cap first).
func (s *Session) Accrue(seconds float64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := Derive(s.catalog, &s.state)
	if d.SunsPerSecond > 0 && seconds > 0 {
		s.state.Suns += d.SunsPerSecond * seconds
	}
	return s.snapshotLocked()
}

// ReconcileOffline grants passive income for the wall-clock gap since
// refMillis, clamped to the offline cap. Gaps of a second or less and
// zero passive rates grant nothing. Returns the amount granted.
func (s *Session) ReconcileOffline(refMillis int64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := float64(s.clk.Now().UnixMilli()-refMillis) / 1000
	capped := math.Min(elapsed, float64(s.catalog.Balance.OfflineCapSecs))
	if capped <= 1 {
		return 0
	}

	d := Derive(s.catalog, &s.state)
	if d.SunsPerSecond <= 0 {
		return 0
	}

	granted := d.SunsPerSecond * capped
	s.state.Suns += granted
	return granted
}

// SetOfflineNotice publishes a one-shot notice that expires after a fixed
// delay and is surfaced in snapshots until then.
func (s *Session) SetOfflineNotice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offlineNotice = msg
	s.noticeUntil = s.clk.Now().Add(noticeTTL)
}

// Snapshot returns the current state plus derived stats.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked copies the state so callers never alias live slices.
// Caller must hold s.mu.
func (s *Session) snapshotLocked() Snapshot {
	d := Derive(s.catalog, &s.state)

	st := s.state
	st.Upgrades = append([]OwnedUpgrade(nil), s.state.Upgrades...)
	st.PrestigeUpgrades = append([]OwnedUpgrade(nil), s.state.PrestigeUpgrades...)

	snap := Snapshot{
		GameState:             st,
		SunsPerClick:          d.SunsPerClick,
		SunsPerSecond:         d.SunsPerSecond,
		XPForNextLevel:        d.XPForNextLevel,
		PotentialPrestigeGain: d.PotentialPrestigeGain,
		ClickMultiplier:       d.ClickMultiplier,
		PassiveMultiplier:     d.PassiveMultiplier,
		XPMultiplier:          d.XPMultiplier,
		TotalUpgrades:         d.TotalUpgrades,
		SecretUnlocked:        d.SecretUnlocked,
		VisualStage:           d.VisualStage,
	}

	if s.offlineNotice != "" {
		if s.clk.Now().Before(s.noticeUntil) {
			snap.OfflineNotice = s.offlineNotice
		} else {
			s.offlineNotice = ""
		}
	}

	return snap
}

// PersistentState stamps the save timestamp and returns the serializable
// subset of the state for the codec.
func (s *Session) PersistentState() save.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now().UnixMilli()
	s.state.LastSaveTime = now

	return save.State{
		Suns:                s.state.Suns,
		Level:               s.state.Level,
		CurrentXP:           s.state.CurrentXP,
		ClickCount:          s.state.ClickCount,
		Upgrades:            append([]OwnedUpgrade(nil), s.state.Upgrades...),
		LastSaveTime:        now,
		PrestigePoints:      s.state.PrestigePoints,
		TotalPrestigePoints: s.state.TotalPrestigePoints,
		PrestigeUpgrades:    append([]OwnedUpgrade(nil), s.state.PrestigeUpgrades...),
		TotalPrestiges:      s.state.TotalPrestiges,
	}
}

// LastSaveMillis returns the reference time for offline reconciliation.
func (s *Session) LastSaveMillis() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LastSaveTime
}
