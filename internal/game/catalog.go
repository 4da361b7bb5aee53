/*
Package game
File: catalog.go
Description:
    Loads and validates the static upgrade catalog from YAML. The catalog
    is immutable after load; a SIGHUP reload builds a fresh Catalog and
    swaps it into the running session without touching player progress.
*/

package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultBalance fills in tuning constants the YAML leaves at zero.
func DefaultBalance() GameBalance {
	return GameBalance{
		XPBase:          15,
		XPGrowth:        1.15,
		PrestigeDivisor: 100000,
		OfflineCapSecs:  8 * 60 * 60,
	}
}

// LoadCatalog reads the catalog YAML at path and validates it.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cat Catalog
	if err := yaml.Unmarshal(f, &cat); err != nil {
		return nil, err
	}

	// Fallback defaults if YAML is missing balance fields.
	def := DefaultBalance()
	if cat.Balance.XPBase == 0 {
		cat.Balance.XPBase = def.XPBase
	}
	if cat.Balance.XPGrowth == 0 {
		cat.Balance.XPGrowth = def.XPGrowth
	}
	if cat.Balance.PrestigeDivisor == 0 {
		cat.Balance.PrestigeDivisor = def.PrestigeDivisor
	}
	if cat.Balance.OfflineCapSecs == 0 {
		cat.Balance.OfflineCapSecs = def.OfflineCapSecs
	}

	if err := validateDefinitions("upgrade", cat.Upgrades, false); err != nil {
		return nil, err
	}
	if err := validateDefinitions("prestige upgrade", cat.PrestigeUpgrades, true); err != nil {
		return nil, err
	}

	return &cat, nil
}

func validateDefinitions(kind string, defs []UpgradeDefinition, prestige bool) error {
	seen := map[string]bool{}
	for _, def := range defs {
		if def.ID == "" {
			return fmt.Errorf("%s with empty id", kind)
		}
		if seen[def.ID] {
			return fmt.Errorf("duplicate %s id %q", kind, def.ID)
		}
		seen[def.ID] = true

		if def.BaseCost <= 0 {
			return fmt.Errorf("%s %q: base_cost must be positive", kind, def.ID)
		}
		if def.CostMultiplier < 1 {
			return fmt.Errorf("%s %q: cost_multiplier must be >= 1", kind, def.ID)
		}

		switch def.Effect {
		case EffectClickPower, EffectAutoSuns, EffectSecret:
			if prestige {
				return fmt.Errorf("%s %q: effect %q is not a prestige effect", kind, def.ID, def.Effect)
			}
		case EffectClickMultiplier, EffectPassiveMultiplier, EffectXPMultiplier, EffectStartBonus:
			if !prestige {
				return fmt.Errorf("%s %q: effect %q is prestige-only", kind, def.ID, def.Effect)
			}
		default:
			return fmt.Errorf("%s %q: unknown effect %q", kind, def.ID, def.Effect)
		}
	}
	return nil
}

// Upgrade retrieves a normal upgrade definition by id. Returns nil if not found.
func (c *Catalog) Upgrade(id string) *UpgradeDefinition {
	for i := range c.Upgrades {
		if c.Upgrades[i].ID == id {
			return &c.Upgrades[i]
		}
	}
	return nil
}

// PrestigeUpgrade retrieves a prestige upgrade definition by id. Returns nil if not found.
func (c *Catalog) PrestigeUpgrade(id string) *UpgradeDefinition {
	for i := range c.PrestigeUpgrades {
		if c.PrestigeUpgrades[i].ID == id {
			return &c.PrestigeUpgrades[i]
		}
	}
	return nil
}
