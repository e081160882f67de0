package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oluwadami/jobpilot/pkg/models"
	"go.uber.org/zap"
)

func TestSendAutoApplySummary(t *testing.T) {
	var got summaryPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, srv.Client(), zap.NewNop())
	results := []models.AutoApplyResult{
		{JobID: "a", Status: models.StatusAutoApplied, MatchScore: 90},
		{JobID: "b", Status: models.StatusManualRequired, MatchScore: 80},
		{JobID: "c", Status: models.StatusFailed, MatchScore: 78},
	}
	if err := w.SendAutoApplySummary(context.Background(), "user-1", results); err != nil {
		t.Fatalf("SendAutoApplySummary: %v", err)
	}

	if got.UserID != "user-1" {
		t.Errorf("user id = %q", got.UserID)
	}
	if got.AutoApplied != 1 || got.ManualRequired != 1 || got.Failed != 1 {
		t.Errorf("tallies = %d/%d/%d", got.AutoApplied, got.ManualRequired, got.Failed)
	}
	if len(got.Results) != 3 {
		t.Errorf("results = %d, want 3", len(got.Results))
	}
}

func TestSendAutoApplySummaryNoURL(t *testing.T) {
	w := NewWebhook("", nil, zap.NewNop())
	if err := w.SendAutoApplySummary(context.Background(), "user-1", nil); err != nil {
		t.Fatalf("no-op webhook must not error: %v", err)
	}
}

func TestSendAutoApplySummaryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, srv.Client(), zap.NewNop())
	if err := w.SendAutoApplySummary(context.Background(), "user-1", nil); err == nil {
		t.Fatal("expected error on 500 response")
	}
}
