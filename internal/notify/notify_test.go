package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetTestMode(true)
	os.Exit(m.Run())
}

func TestRunCompletedPostsSummary(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Unexpected content type %q", r.Header.Get("Content-Type"))
		}
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, WithHTTPClient(srv.Client()))
	err := w.RunCompleted(context.Background(), core.RunReport{
		Operation: "generate-all",
		Total:     50,
		Created:   48,
		Failed:    2,
		Duration:  90 * time.Second,
	})
	if err != nil {
		t.Fatalf("RunCompleted: %v", err)
	}

	for _, want := range []string{"generate-all", "completed with failures", "48 created", "2 failed"} {
		if !strings.Contains(got.Text, want) {
			t.Errorf("Notification missing %q, got %q", want, got.Text)
		}
	}
}

func TestRunCompletedSkipsWithoutURL(t *testing.T) {
	w := NewWebhook("")
	if err := w.RunCompleted(context.Background(), core.RunReport{Operation: "update-all"}); err != nil {
		t.Errorf("Expected silent skip with empty URL, got %v", err)
	}
}

func TestRunCompletedReportsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, WithHTTPClient(srv.Client()))
	if err := w.RunCompleted(context.Background(), core.RunReport{}); err == nil {
		t.Error("Expected an error for a rejected webhook post")
	}
}
