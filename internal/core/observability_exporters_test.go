package core

import (
	"bytes"
	"context"
	"errors"
	"expvar"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExpvarMetricsRecorderAggregates(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if expvar.Get(rec.Name()) == nil {
		t.Fatalf("recorder should publish under %q", rec.Name())
	}

	ctx := context.Background()
	rec.Observe(ctx, "create_guild", true, 20*time.Millisecond)
	rec.Observe(ctx, "create_guild", true, 30*time.Millisecond)
	rec.Observe(ctx, "create_guild", false, 5*time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond)

	snap := rec.Snapshot()
	if got := snap.DurationsMS["create_guild"]; got != 55 {
		t.Fatalf("expected 55ms total, got %v", got)
	}
	if snap.Results["create_guild"]["success"] != 2 || snap.Results["create_guild"]["error"] != 1 {
		t.Fatalf("unexpected result counters: %+v", snap.Results)
	}
	if _, ok := snap.Results[""]; ok {
		t.Fatalf("empty operation should be ignored")
	}
}

func TestJSONTracerEmitsSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)

	_, span := tracer.Start(context.Background(), "place_bet")
	span.End(nil)
	_, span = tracer.Start(context.Background(), "transfer_pitch")
	span.End(errors.New("target cycle belongs to another guild"))

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected two spans, got %d", len(entries))
	}
	if entries[0].Operation != "place_bet" || entries[0].Status != "success" {
		t.Fatalf("unexpected first span: %+v", entries[0])
	}
	if entries[1].Status != "error" || entries[1].Error == "" {
		t.Fatalf("failed span should carry the error: %+v", entries[1])
	}

	out := buf.String()
	if !strings.Contains(out, `"operation":"transfer_pitch"`) {
		t.Fatalf("encoded output missing span: %s", out)
	}
}

func TestJSONTracerWithoutWriterStillRecords(t *testing.T) {
	tracer := NewJSONTracer(nil)
	_, span := tracer.Start(context.Background(), "mint_emission")
	span.End(nil)
	if len(tracer.Entries()) != 1 {
		t.Fatalf("expected retained span without writer")
	}
}

func TestPrometheusMetricsRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("build recorder: %v", err)
	}

	ctx := context.Background()
	rec.Observe(ctx, "post_semos_transaction", true, 12*time.Millisecond)
	rec.Observe(ctx, "post_semos_transaction", false, 3*time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond)

	if got := testutil.ToFloat64(rec.operations.WithLabelValues("post_semos_transaction", "success")); got != 1 {
		t.Fatalf("expected one success, got %v", got)
	}
	if got := testutil.ToFloat64(rec.operations.WithLabelValues("post_semos_transaction", "error")); got != 1 {
		t.Fatalf("expected one error, got %v", got)
	}

	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("duplicate registration should fail")
	}
}
