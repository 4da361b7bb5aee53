package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/duskworks/nightfall-idle/internal/clock"
	"github.com/duskworks/nightfall-idle/internal/game"
	"github.com/duskworks/nightfall-idle/internal/save"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cat := &game.Catalog{
		Balance: game.DefaultBalance(),
		Upgrades: []game.UpgradeDefinition{
			{ID: "coffee", Name: "Cold Coffee", BaseCost: 10, CostMultiplier: 1.12, Effect: game.EffectClickPower, EffectValue: 1},
		},
		PrestigeUpgrades: []game.UpgradeDefinition{
			{ID: "p_click", Name: "Shadow Touch", BaseCost: 1, CostMultiplier: 1.8, Effect: game.EffectClickMultiplier, EffectValue: 0.5},
		},
	}

	session := game.NewSession(cat, nil, clock.RealClock{})
	codec := save.NewCodec(save.NewStore(filepath.Join(t.TempDir(), "store.json")), "")
	scheduler := game.NewScheduler(session, codec, clock.RealClock{})

	return &Server{Session: session, Scheduler: scheduler}
}

func TestGetStateReturnsSnapshot(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/state", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var snap game.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.SunsPerClick != 1 || snap.VisualStage != game.StageHappy {
		t.Fatalf("unexpected snapshot: perClick=%v stage=%s", snap.SunsPerClick, snap.VisualStage)
	}
}

func TestClickEndpointMutatesState(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("POST", "/api/click", nil))

	var resp ClickResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.SunsGained != 1 {
		t.Fatalf("sunsGained = %v, want 1", resp.Result.SunsGained)
	}
	if resp.State.ClickCount != 1 || resp.State.Suns != 1 {
		t.Fatalf("state after click: clicks=%d suns=%v", resp.State.ClickCount, resp.State.Suns)
	}
}

func TestBuyEndpointReportsFailedPurchase(t *testing.T) {
	srv := newTestServer(t)

	body := strings.NewReader(`{"id":"coffee"}`)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("POST", "/api/upgrades/buy", body))

	var resp PurchaseResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Fresh session, zero suns: the purchase is a silent no-op, not an error.
	if rec.Code != http.StatusOK || resp.Purchased {
		t.Fatalf("status=%d purchased=%v", rec.Code, resp.Purchased)
	}
	if resp.State.Suns != 0 {
		t.Fatalf("failed purchase mutated suns: %v", resp.State.Suns)
	}
}

func TestBuyEndpointRejectsMalformedRequest(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("POST", "/api/upgrades/buy", strings.NewReader("{")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("POST", "/api/upgrades/buy", strings.NewReader("{}")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty id status = %d", rec.Code)
	}
}

func TestPrestigeEndpointBelowThreshold(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("POST", "/api/prestige", nil))

	var resp PrestigeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Prestiged {
		t.Fatal("prestige succeeded on a fresh session")
	}
}

func TestCatalogEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/api/catalog", nil))

	var cat game.Catalog
	if err := json.NewDecoder(rec.Body).Decode(&cat); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cat.Upgrades) != 1 || cat.Upgrades[0].Name != "Cold Coffee" {
		t.Fatalf("catalog = %+v", cat.Upgrades)
	}
}

func TestCORSMiddlewareHandlesPreflight(t *testing.T) {
	srv := newTestServer(t)
	handler := CORSMiddleware(srv.Routes())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/api/click", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}
}
