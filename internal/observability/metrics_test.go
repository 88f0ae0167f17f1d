package observability

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/sandeepkv93/master-items-admin/internal/config"
)

func recordEveryMetric(ctx context.Context) {
	RecordRepositoryOperation(ctx, "master_item", "list_paged", "success")
	RecordResourceOperation(ctx, "master_items", "create", "success", 12*time.Millisecond)
	RecordListRequest(ctx, "roles", "success", 20, 8*time.Millisecond)
	RecordGrantSync(ctx, "role", "success")
	RecordRBACAuthorization(ctx, "view users", "allow")
	RecordAuthLogin(ctx, "success")
	RecordAccessTokenValidation(ctx, "valid", "cookie")
	RecordRateLimitDecision(ctx, "api", "allow", "local")
	RecordMiddlewareValidationEvent(ctx, "cors", "preflight")
	RecordHealthCheck(ctx, "db", "ready", 3*time.Millisecond)
	RecordDatabaseStartup(ctx, "migrate", "success", 40*time.Millisecond)
	RecordToolCommand(ctx, "seed", "run", "success", 90*time.Millisecond)
}

func TestRecordHelpersNoopWhenUninitialized(t *testing.T) {
	setAppMetrics(nil)
	recordEveryMetric(context.Background())
}

func TestRecordHelpersEmitExpectedLabelCardinality(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(ctx) }()

	m, err := newAppMetrics(provider.Meter("observability-test"))
	if err != nil {
		t.Fatalf("new app metrics: %v", err)
	}
	setAppMetrics(m)
	defer setAppMetrics(nil)

	recordEveryMetric(ctx)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}

	expected := map[string]int{
		"repository.operations":               3,
		"resource.operation.events":           3,
		"resource.operation.duration":         3,
		"list.request.duration":               2,
		"list.page_size":                      1,
		"rbac.grant.sync":                     2,
		"rbac.authorization.events":           2,
		"auth.login.attempts":                 1,
		"auth.access_token.validation.events": 2,
		"http.rate_limit.decisions":           3,
		"http.middleware.validation.events":   2,
		"health.check.results":                2,
		"health.check.duration":               1,
		"database.startup.events":             2,
		"database.startup.duration":           1,
		"tool.command.runs":                   3,
		"tool.command.duration":               3,
	}
	observed := collectLabelCardinality(t, rm)
	for name, want := range expected {
		got, ok := observed[name]
		if !ok {
			t.Fatalf("missing metric datapoint for %s", name)
		}
		if got != want {
			t.Fatalf("metric %s label cardinality mismatch: got=%d want=%d", name, got, want)
		}
	}
}

func TestInitMetricsDisabledReturnsProvider(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{OTELMetricsEnabled: false}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mp, err := InitMetrics(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("init metrics disabled: %v", err)
	}
	if mp == nil {
		t.Fatal("expected non-nil meter provider")
	}
	_ = mp.Shutdown(ctx)
}

func collectLabelCardinality(t *testing.T, rm metricdata.ResourceMetrics) map[string]int {
	t.Helper()
	out := map[string]int{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if len(data.DataPoints) > 0 {
					out[m.Name] = data.DataPoints[0].Attributes.Len()
				}
			case metricdata.Histogram[float64]:
				if len(data.DataPoints) > 0 {
					out[m.Name] = data.DataPoints[0].Attributes.Len()
				}
			}
		}
	}
	return out
}
