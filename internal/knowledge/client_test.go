package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchReturnsRankedChunks(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.AgentID != "agent-1" || req.Limit != 3 {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(searchResponse{Chunks: []Chunk{
			{Text: "We are open 9-5 on weekdays.", Score: 0.92},
			{Text: "Consultations run 30 minutes.", Score: 0.81},
		}})
	}))
	defer srv.Close()

	client, err := NewHTTPClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	chunks, err := client.Search(context.Background(), "agent-1", "what are your hours", 3)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(chunks) != 2 || chunks[0].Score < chunks[1].Score {
		t.Fatalf("unexpected chunks: %+v", chunks)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Search(context.Background(), "agent-1", "hi", 5); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	if _, err := NewHTTPClient(Config{}); err == nil {
		t.Fatal("expected error for missing base URL")
	}
}
