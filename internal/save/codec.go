/*
Package save
File: codec.go
Description:
    Serializes the persisted game state and guards it with a keyed integrity
    tag. The tag is a rolling 32-bit hash over a canonical projection of the
    state plus a build-time secret, encoded base 36.

    This is tamper evidence against casual editing of the local store, not a
    security boundary: the hash is weak and the fallback secret is public in
    the binary. A save that fails any check (missing keys, parse failure,
    pre-cutoff timestamp, old version, tag mismatch) is discarded entirely
    and the game starts fresh; a corrupt save is never partially adopted.
*/

package save

import (
	"encoding/json"
	"log"
	"math"
	"strconv"
	"sync"
	"time"
)

// CurrentVersion is the save schema revision. Saves written by older
// revisions are rejected on load.
const CurrentVersion = 4

// Storage keys for the serialized state and its integrity tag.
const (
	SaveKey = "nightfall_save"
	HashKey = "nightfall_hash"
)

// fallbackSecret keys the integrity tag when GAME_SECRET is unset.
// Predictable on purpose; see the package note on tamper evidence.
const fallbackSecret = "fallback_secret_key"

// minSaveTime invalidates saves written before the last breaking
// rebalance. Unix milliseconds.
var minSaveTime = time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC).UnixMilli()

// OwnedUpgrade records how many of one catalog upgrade the player owns.
type OwnedUpgrade struct {
	ID    string `json:"id"`
	Owned int    `json:"owned"`
}

// State is the serializable subset of the game state. Field order matters:
// the integrity tag hashes the JSON encoding of this struct, so reordering
// fields invalidates every existing save.
type State struct {
	Suns                float64        `json:"suns"`
	Level               int            `json:"level"`
	CurrentXP           float64        `json:"currentXP"`
	ClickCount          int            `json:"clickCount"`
	Upgrades            []OwnedUpgrade `json:"upgrades"`
	LastSaveTime        int64          `json:"lastSaveTime"`
	SaveVersion         int            `json:"saveVersion"`
	PrestigePoints      float64        `json:"prestigePoints"`
	TotalPrestigePoints float64        `json:"totalPrestigePoints"`
	PrestigeUpgrades    []OwnedUpgrade `json:"prestigeUpgrades"`
	TotalPrestiges      int            `json:"totalPrestiges"`
}

// Codec writes and reads the save/hash entry pair in a Store.
// Safe for concurrent use: the pair is always written as one unit.
type Codec struct {
	mu     sync.Mutex
	store  *Store
	secret string
}

// NewCodec wraps store with the given hash secret.
// An empty secret falls back to the hardcoded key.
func NewCodec(store *Store, secret string) *Codec {
	if secret == "" {
		secret = fallbackSecret
	}
	return &Codec{store: store, secret: secret}
}

// Save stamps the current schema version, then writes the serialized state
// and its integrity tag under their respective keys.
func (c *Codec) Save(state State) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	state.SaveVersion = CurrentVersion

	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := c.store.Set(SaveKey, string(payload)); err != nil {
		return err
	}
	return c.store.Set(HashKey, c.tag(state))
}

// Load reads and validates the persisted state. The second return value is
// false when no usable save exists; rejected saves are cleared from the
// store so the next load starts clean.
func (c *Codec) Load() (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.store.Get(SaveKey)
	storedTag, tagOK := c.store.Get(HashKey)
	if !ok || !tagOK {
		return State{}, false
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		log.Printf("SAVE: unreadable save discarded: %v", err)
		c.discard()
		return State{}, false
	}

	// Stale saves: written before the schema cutoff, or by an older
	// (or missing) schema version.
	if state.LastSaveTime < minSaveTime || state.SaveVersion < CurrentVersion {
		log.Printf("SAVE: outdated save discarded (version %d, written %d)", state.SaveVersion, state.LastSaveTime)
		c.discard()
		return State{}, false
	}

	if c.tag(state) != storedTag {
		log.Printf("SAVE: integrity tag mismatch, save discarded")
		c.discard()
		return State{}, false
	}

	return state, true
}

func (c *Codec) discard() {
	if err := c.store.Delete(SaveKey, HashKey); err != nil {
		log.Printf("SAVE: failed to clear rejected save: %v", err)
	}
}

// tag computes the integrity tag over a canonical projection of state:
// the currency is floored to three decimals before hashing.
func (c *Codec) tag(state State) string {
	state.Suns = math.Floor(state.Suns*1000) / 1000

	data, err := json.Marshal(state)
	if err != nil {
		// State is plain numbers and strings; Marshal cannot fail here.
		return ""
	}
	return rollingHash(string(data) + c.secret)
}

// rollingHash is the classic 31x string hash (h = h*31 + ch) on 32-bit
// signed arithmetic, encoded base 36. Negative hashes keep their sign in
// the encoding.
func rollingHash(s string) string {
	var h int32
	for i := 0; i < len(s); i++ {
		h = (h << 5) - h + int32(s[i])
	}
	return strconv.FormatInt(int64(h), 36)
}
