package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"StockCast/internal/domain/errs"
	xlogger "StockCast/pkg/logger"
)

func TestSave_Accepted(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(srv.URL, "secret-token", 5*time.Second, xlogger.Nop())
	saved, err := client.Save(context.Background(), "TCS.NS", 3456.78)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !saved {
		t.Fatal("expected saved=true for HTTP 200")
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotBody["symbol"] != "TCS.NS" || gotBody["predictedPrice"] != 3456.78 {
		t.Errorf("payload = %v", gotBody)
	}
}

func TestSave_RejectedIsPartialSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(srv.URL, "secret-token", 5*time.Second, xlogger.Nop())
	saved, err := client.Save(context.Background(), "TCS.NS", 3456.78)
	if err != nil {
		t.Fatalf("non-200 must not be an error, got %v", err)
	}
	if saved {
		t.Fatal("expected saved=false for HTTP 503")
	}
}

func TestSave_MissingToken(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	client := New(srv.URL, "", time.Second, xlogger.Nop())
	_, err := client.Save(context.Background(), "TCS.NS", 1)
	if !errs.Is(err, errs.KindConfiguration) {
		t.Fatalf("expected configuration kind, got %v", err)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Fatal("network call made despite missing credential")
	}
}

func TestSave_TransportFailure(t *testing.T) {
	// closed server: the request itself fails, which is a real error
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(srv.URL, "secret-token", time.Second, xlogger.Nop())
	_, err := client.Save(context.Background(), "TCS.NS", 1)
	if !errs.Is(err, errs.KindRelay) {
		t.Fatalf("expected relay kind, got %v", err)
	}
}
