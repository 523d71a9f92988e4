package agent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/orgchat/backend/internal/model/agent"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(agent.NewMemoryStore(agent.Seed())).RegisterRoutes(r)
	return r
}

func TestListAgents(t *testing.T) {
	resp := httptest.NewRecorder()
	setupRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/agents", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var agents []agent.Agent
	if err := json.Unmarshal(resp.Body.Bytes(), &agents); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(agents) != len(agent.Seed()) {
		t.Fatalf("expected %d agents, got %d", len(agent.Seed()), len(agents))
	}
}

func TestLookupAgent(t *testing.T) {
	r := setupRouter()

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/agents/lookup?name=system+processing", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var a agent.Agent
	if err := json.Unmarshal(resp.Body.Bytes(), &a); err != nil || a.Name != agent.SystemName {
		t.Fatalf("unexpected agent %+v (%v)", a, err)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/agents/lookup?name=nobody", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/agents/lookup", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
