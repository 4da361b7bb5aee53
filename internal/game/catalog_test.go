package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCatalogFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadCatalogAppliesBalanceDefaults(t *testing.T) {
	path := writeCatalogFile(t, `
upgrades:
  - id: coffee
    name: Cold Coffee
    base_cost: 10
    cost_multiplier: 1.12
    effect: clickPower
    effect_value: 1
`)

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cat.Balance != DefaultBalance() {
		t.Fatalf("balance = %+v, want defaults", cat.Balance)
	}
	if len(cat.Upgrades) != 1 || cat.Upgrades[0].ID != "coffee" {
		t.Fatalf("upgrades = %+v", cat.Upgrades)
	}
}

func TestLoadCatalogRejectsUnknownEffect(t *testing.T) {
	path := writeCatalogFile(t, `
upgrades:
  - id: bad
    base_cost: 10
    cost_multiplier: 1.1
    effect: warpDrive
    effect_value: 1
`)

	if _, err := LoadCatalog(path); err == nil || !strings.Contains(err.Error(), "unknown effect") {
		t.Fatalf("expected unknown effect error, got %v", err)
	}
}

func TestLoadCatalogRejectsMisplacedEffects(t *testing.T) {
	path := writeCatalogFile(t, `
upgrades:
  - id: bad
    base_cost: 10
    cost_multiplier: 1.1
    effect: clickMultiplier
    effect_value: 1
`)
	if _, err := LoadCatalog(path); err == nil {
		t.Fatal("prestige effect accepted on a normal upgrade")
	}

	path = writeCatalogFile(t, `
prestige_upgrades:
  - id: bad
    base_cost: 1
    cost_multiplier: 2
    effect: autoSuns
    effect_value: 1
`)
	if _, err := LoadCatalog(path); err == nil {
		t.Fatal("normal effect accepted on a prestige upgrade")
	}
}

func TestLoadCatalogRejectsDuplicateIDs(t *testing.T) {
	path := writeCatalogFile(t, `
upgrades:
  - id: coffee
    base_cost: 10
    cost_multiplier: 1.1
    effect: clickPower
    effect_value: 1
  - id: coffee
    base_cost: 20
    cost_multiplier: 1.1
    effect: clickPower
    effect_value: 2
`)

	if _, err := LoadCatalog(path); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestLoadCatalogRejectsBadCosts(t *testing.T) {
	path := writeCatalogFile(t, `
upgrades:
  - id: freebie
    base_cost: 0
    cost_multiplier: 1.1
    effect: clickPower
    effect_value: 1
`)
	if _, err := LoadCatalog(path); err == nil {
		t.Fatal("zero base cost accepted")
	}

	path = writeCatalogFile(t, `
upgrades:
  - id: cheapener
    base_cost: 10
    cost_multiplier: 0.9
    effect: clickPower
    effect_value: 1
`)
	if _, err := LoadCatalog(path); err == nil {
		t.Fatal("shrinking cost multiplier accepted")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file did not error")
	}
}
