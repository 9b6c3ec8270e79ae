package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/gadaielektronik/pawndesk/internal/state"
)

var _ state.Recorder = (*Recorder)(nil)

func TestRecorder_CountsOutcomes(t *testing.T) {
	r := New()

	r.ObserveRefresh(120*time.Millisecond, nil)
	r.ObserveRefresh(3*time.Second, errors.New("timeout"))
	r.ObserveRefresh(80*time.Millisecond, nil)
	r.ObserveAction(state.ActionVerify, nil)
	r.ObserveAction(state.ActionDelete, errors.New("500"))
	r.SetOrderCount(7)

	if got := testutil.ToFloat64(r.RefreshTotal.WithLabelValues("ok")); got != 2 {
		t.Fatalf("refresh ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.RefreshTotal.WithLabelValues("error")); got != 1 {
		t.Fatalf("refresh error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.ActionTotal.WithLabelValues("verify", "ok")); got != 1 {
		t.Fatalf("verify ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.ActionTotal.WithLabelValues("delete", "error")); got != 1 {
		t.Fatalf("delete error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.Orders); got != 7 {
		t.Fatalf("orders = %v, want 7", got)
	}
	if got := testutil.CollectAndCount(r.RefreshDuration); got != 1 {
		t.Fatalf("duration series = %d, want 1", got)
	}
}

func TestServe_ExposesMetrics(t *testing.T) {
	r := New()
	r.SetOrderCount(3)

	ctx, cancel := context.WithCancel(context.Background())
	addr, errc, err := r.Serve(ctx, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Serve returned error: %v", err)
	}

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	if err != nil {
		cancel()
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "pawndesk_orders 3") {
		t.Fatalf("body missing pawndesk_orders gauge:\n%s", body)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("server exit error = %v, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not stop after cancel")
	}
}

func TestServe_BadAddress(t *testing.T) {
	if _, _, err := New().Serve(context.Background(), "not-an-address"); err == nil {
		t.Fatalf("Serve returned nil error for a bad address")
	}
}
