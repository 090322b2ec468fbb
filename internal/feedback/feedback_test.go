package feedback

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/tenancy"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

func TestSubmitRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     SubmitRequest
		wantErr bool
	}{
		{"valid", SubmitRequest{Rating: 4, Comment: "great"}, false},
		{"min rating", SubmitRequest{Rating: 1}, false},
		{"max rating", SubmitRequest{Rating: 5}, false},
		{"zero rating", SubmitRequest{Rating: 0}, true},
		{"too high", SubmitRequest{Rating: 6}, true},
		{"long comment", SubmitRequest{Rating: 3, Comment: string(make([]byte, 2001))}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestInsertFeedback(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO feedback").
		WithArgs(pgxmock.AnyArg(), "owner-1", "agent-1", "sess-1", 5, "super helpful").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	entry, err := repo.Insert(context.Background(), "owner-1", &SubmitRequest{
		AgentID:   "agent-1",
		SessionID: "sess-1",
		Rating:    5,
		Comment:   "  super helpful  ",
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if entry.ID == "" || entry.Comment != "super helpful" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitHandlerRejectsBadRating(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	h := NewHandler(NewRepository(mock), logging.Default())

	body := bytes.NewBufferString(`{"rating":9,"comment":"nope"}`)
	req := httptest.NewRequest(http.MethodPost, "/feedback", body)
	req = req.WithContext(tenancy.WithUserID(req.Context(), "owner-1"))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubmitHandlerStoresFeedback(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	h := NewHandler(NewRepository(mock), logging.Default())

	mock.ExpectQuery("INSERT INTO feedback").
		WithArgs(pgxmock.AnyArg(), "owner-1", "", "", 4, "good bot").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))

	body := bytes.NewBufferString(`{"rating":4,"comment":"good bot"}`)
	req := httptest.NewRequest(http.MethodPost, "/feedback", body)
	req = req.WithContext(tenancy.WithUserID(req.Context(), "owner-1"))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
