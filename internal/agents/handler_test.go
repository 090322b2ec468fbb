package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/tenancy"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

func newTestRouter(repo Repository) http.Handler {
	h := NewHandler(repo, logging.Default())
	r := chi.NewRouter()
	r.Post("/agents", h.Create)
	r.Get("/agents", h.List)
	r.Get("/agents/{agentID}", h.Get)
	r.Put("/agents/{agentID}", h.Update)
	r.Delete("/agents/{agentID}", h.Delete)
	return r
}

func asOwner(req *http.Request, ownerID string) *http.Request {
	return req.WithContext(tenancy.WithUserID(req.Context(), ownerID))
}

func TestCreateAgentHandler(t *testing.T) {
	repo := NewInMemoryRepository()
	router := newTestRouter(repo)

	body := bytes.NewBufferString(`{"name":"Booking Bot","system_prompt":"Be concise."}`)
	req := asOwner(httptest.NewRequest(http.MethodPost, "/agents", body), "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created Agent
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" || created.Name != "Booking Bot" || !created.IsActive {
		t.Fatalf("unexpected agent: %+v", created)
	}
}

func TestCreateAgentHandlerRejectsBlankName(t *testing.T) {
	router := newTestRouter(NewInMemoryRepository())

	req := asOwner(httptest.NewRequest(http.MethodPost, "/agents", bytes.NewBufferString(`{"name":""}`)), "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateAgentHandlerRequiresUser(t *testing.T) {
	router := newTestRouter(NewInMemoryRepository())

	req := httptest.NewRequest(http.MethodPost, "/agents", bytes.NewBufferString(`{"name":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGetAgentScopedToOwner(t *testing.T) {
	repo := NewInMemoryRepository()
	agent, err := repo.Create(context.Background(), "owner-1", &CreateAgentRequest{Name: "Mine"})
	if err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	router := newTestRouter(repo)

	req := asOwner(httptest.NewRequest(http.MethodGet, "/agents/"+agent.ID, nil), "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", rec.Code)
	}

	req = asOwner(httptest.NewRequest(http.MethodGet, "/agents/"+agent.ID, nil), "owner-2")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other owner, got %d", rec.Code)
	}
}

func TestUpdateAgentHandler(t *testing.T) {
	repo := NewInMemoryRepository()
	agent, err := repo.Create(context.Background(), "owner-1", &CreateAgentRequest{Name: "Before"})
	if err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	router := newTestRouter(repo)

	body := bytes.NewBufferString(`{"name":"After","is_active":false}`)
	req := asOwner(httptest.NewRequest(http.MethodPut, "/agents/"+agent.ID, body), "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated Agent
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if updated.Name != "After" || updated.IsActive {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestDeleteAgentHandler(t *testing.T) {
	repo := NewInMemoryRepository()
	agent, err := repo.Create(context.Background(), "owner-1", &CreateAgentRequest{Name: "Gone"})
	if err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	router := newTestRouter(repo)

	req := asOwner(httptest.NewRequest(http.MethodDelete, "/agents/"+agent.ID, nil), "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	if _, err := repo.GetByID(context.Background(), "owner-1", agent.ID); err != ErrAgentNotFound {
		t.Fatalf("expected agent removed, got %v", err)
	}
}

func TestListAgentsPagination(t *testing.T) {
	repo := NewInMemoryRepository()
	for _, name := range []string{"a", "b", "c"} {
		if _, err := repo.Create(context.Background(), "owner-1", &CreateAgentRequest{Name: name}); err != nil {
			t.Fatalf("seed agent %s: %v", name, err)
		}
	}
	router := newTestRouter(repo)

	req := asOwner(httptest.NewRequest(http.MethodGet, "/agents?limit=2", nil), "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 || resp.Limit != 2 {
		t.Fatalf("unexpected page: %+v", resp)
	}
}
