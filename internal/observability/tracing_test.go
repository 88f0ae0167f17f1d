package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSamplingRatioClamps(t *testing.T) {
	cases := map[float64]float64{-0.5: 0, 0.25: 0.25, 3: 1}
	for in, want := range cases {
		if got := samplingRatio(in); got != want {
			t.Fatalf("samplingRatio(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestEndSpanRecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartSpan(context.Background(), "rbac.sync_grants")
	EndSpan(span, errors.New("unknown permission"))

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "rbac.sync_grants" || ended[0].Status().Code != codes.Error {
		t.Fatalf("unexpected span: name=%s status=%v", ended[0].Name(), ended[0].Status())
	}
}
