package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"StockCast/internal/domain/errs"
	xlogger "StockCast/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int64) {
	t.Helper()
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New("test-key", srv.URL, []string{"NSE", "BSE"}, 5*time.Second, xlogger.Nop()), &calls
}

func TestResolve_FirstMatchWins(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/symbol_search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("symbol") != "TCS" || q.Get("exchange") != "NSE,BSE" || q.Get("type") != "stock" {
			t.Errorf("unexpected query: %v", q)
		}
		if q.Get("apikey") != "test-key" {
			t.Errorf("missing api key")
		}
		w.Write([]byte(`{"data":[{"symbol":"TCS.NS"},{"symbol":"TCS.BO"}],"status":"ok"}`))
	})

	symbol, err := client.Resolve(context.Background(), "TCS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if symbol != "TCS.NS" {
		t.Fatalf("resolved %q, want TCS.NS", symbol)
	}
}

func TestResolve_EmptyMatchList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[],"status":"ok"}`))
	})

	_, err := client.Resolve(context.Background(), "NOSUCH")
	if !errs.Is(err, errs.KindSymbolNotFound) {
		t.Fatalf("expected symbol not found, got %v", err)
	}
}

func TestResolve_ProviderErrorMessageSurfaced(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"You have run out of API credits"}`))
	})

	_, err := client.Resolve(context.Background(), "TCS")
	if !errs.Is(err, errs.KindUpstream) {
		t.Fatalf("expected upstream kind, got %v", err)
	}
	if got := errs.MessageOf(err); got != "You have run out of API credits" {
		t.Fatalf("message = %q, want the provider's text", got)
	}
}

func TestResolve_MissingAPIKey(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()
	client := New("", srv.URL, []string{"NSE"}, time.Second, xlogger.Nop())

	_, err := client.Resolve(context.Background(), "TCS")
	if !errs.Is(err, errs.KindConfiguration) {
		t.Fatalf("expected configuration kind, got %v", err)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Fatal("network call made despite missing credential")
	}
}

func TestDailySeries_ParsesAndSortsAscending(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("interval") != "1day" || q.Get("symbol") != "TCS.NS" {
			t.Errorf("unexpected query: %v", q)
		}
		if q.Get("start_date") != "2023-01-01" || q.Get("end_date") != "2023-10-01" {
			t.Errorf("unexpected date range: %v", q)
		}
		// newest first, as the provider sends them
		w.Write([]byte(`{"status":"ok","values":[
			{"datetime":"2023-01-04","open":"102","high":"104","low":"101","close":"103.5","volume":"2200"},
			{"datetime":"2023-01-03","open":"101","high":"103","low":"100","close":"102.5","volume":"2100"},
			{"datetime":"2023-01-02","open":"100","high":"102","low":"99","close":"101.5","volume":"2000"}
		]}`))
	})

	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	series, err := client.DailySeries(context.Background(), "TCS.NS", from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(series) != 3 {
		t.Fatalf("got %d records, want 3", len(series))
	}
	for i := 1; i < len(series); i++ {
		if !series[i-1].Date.Before(series[i].Date) {
			t.Fatal("series is not sorted ascending by date")
		}
	}
	if series[0].Close != 101.5 || series[0].Volume != 2000 {
		t.Fatalf("first record = %+v, want the oldest bar", series[0])
	}
}

func TestDailySeries_NoData(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","values":[]}`))
	})

	_, err := client.DailySeries(context.Background(), "GHOST.NS", time.Now().AddDate(-1, 0, 0), time.Now())
	if !errs.Is(err, errs.KindNoData) {
		t.Fatalf("expected no data kind, got %v", err)
	}
}

func TestDailySeries_ErrorPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"symbol not supported"}`))
	})

	_, err := client.DailySeries(context.Background(), "BAD", time.Now().AddDate(-1, 0, 0), time.Now())
	if !errs.Is(err, errs.KindUpstream) {
		t.Fatalf("expected upstream kind, got %v", err)
	}
	if errs.MessageOf(err) != "symbol not supported" {
		t.Fatalf("message = %q", errs.MessageOf(err))
	}
}
