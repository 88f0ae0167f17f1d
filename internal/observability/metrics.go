package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/exemplar"

	"github.com/sandeepkv93/master-items-admin/internal/config"
)

type AppMetrics struct {
	repositoryOps         metric.Int64Counter
	resourceOps           metric.Int64Counter
	resourceOpDuration    metric.Float64Histogram
	listReqDuration       metric.Float64Histogram
	listPageSize          metric.Float64Histogram
	grantSync             metric.Int64Counter
	rbacAuthorization     metric.Int64Counter
	authLogin             metric.Int64Counter
	accessTokenValidation metric.Int64Counter
	rateLimitDecision     metric.Int64Counter
	middlewareValidation  metric.Int64Counter
	healthCheckResult     metric.Int64Counter
	healthCheckDuration   metric.Float64Histogram
	databaseStartup       metric.Int64Counter
	databaseStartupDur    metric.Float64Histogram
	toolCommandRuns       metric.Int64Counter
	toolCommandDuration   metric.Float64Histogram
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

var latencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}
	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))),
		sdkmetric.WithExemplarFilter(exemplar.TraceBasedFilter),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "*.duration"},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{Boundaries: latencyBuckets}},
		)),
	)
	otel.SetMeterProvider(mp)

	m, err := newAppMetrics(mp.Meter(MeterName))
	if err != nil {
		_ = mp.Shutdown(ctx)
		return nil, err
	}
	setAppMetrics(m)
	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func newAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var firstErr error
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("create counter %s: %w", name, err)
		}
		return c
	}
	hist := func(name, unit, desc string) metric.Float64Histogram {
		opts := []metric.Float64HistogramOption{metric.WithDescription(desc)}
		if unit != "" {
			opts = append(opts, metric.WithUnit(unit))
		}
		h, err := meter.Float64Histogram(name, opts...)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("create histogram %s: %w", name, err)
		}
		return h
	}

	m := &AppMetrics{
		repositoryOps:         counter("repository.operations", "Repository operations by entity and outcome"),
		resourceOps:           counter("resource.operation.events", "Resource service operations by outcome"),
		resourceOpDuration:    hist("resource.operation.duration", "s", "Duration of resource service operations"),
		listReqDuration:       hist("list.request.duration", "s", "Duration of list endpoint requests"),
		listPageSize:          hist("list.page_size", "", "Effective page size of list requests"),
		grantSync:             counter("rbac.grant.sync", "Grant set replacements by subject and outcome"),
		rbacAuthorization:     counter("rbac.authorization.events", "Permission checks by outcome"),
		authLogin:             counter("auth.login.attempts", "Login attempts by status"),
		accessTokenValidation: counter("auth.access_token.validation.events", "Access token validation by outcome and source"),
		rateLimitDecision:     counter("http.rate_limit.decisions", "Rate limiter decisions"),
		middlewareValidation:  counter("http.middleware.validation.events", "Middleware validation outcomes"),
		healthCheckResult:     counter("health.check.results", "Readiness check outcomes"),
		healthCheckDuration:   hist("health.check.duration", "s", "Readiness check duration"),
		databaseStartup:       counter("database.startup.events", "Database startup stage outcomes"),
		databaseStartupDur:    hist("database.startup.duration", "s", "Database startup stage duration"),
		toolCommandRuns:       counter("tool.command.runs", "Tool command runs"),
		toolCommandDuration:   hist("tool.command.duration", "s", "Tool command duration"),
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return m, nil
}

func setAppMetrics(m *AppMetrics) {
	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()
}

func current() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

func attrs(kv ...string) metric.MeasurementOption {
	out := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, attribute.String(kv[i], kv[i+1]))
	}
	return metric.WithAttributes(out...)
}

func RecordRepositoryOperation(ctx context.Context, entity, operation, outcome string) {
	if m := current(); m != nil {
		m.repositoryOps.Add(ctx, 1, attrs("entity", entity, "operation", operation, "outcome", outcome))
	}
}

func RecordResourceOperation(ctx context.Context, resource, operation, outcome string, d time.Duration) {
	if m := current(); m != nil {
		opt := attrs("resource", resource, "operation", operation, "outcome", outcome)
		m.resourceOps.Add(ctx, 1, opt)
		m.resourceOpDuration.Record(ctx, d.Seconds(), opt)
	}
}

func RecordListRequest(ctx context.Context, resource, status string, perPage int, d time.Duration) {
	if m := current(); m != nil {
		m.listReqDuration.Record(ctx, d.Seconds(), attrs("resource", resource, "status", status))
		m.listPageSize.Record(ctx, float64(perPage), attrs("resource", resource))
	}
}

func RecordGrantSync(ctx context.Context, subject, outcome string) {
	if m := current(); m != nil {
		m.grantSync.Add(ctx, 1, attrs("subject", subject, "outcome", outcome))
	}
}

func RecordRBACAuthorization(ctx context.Context, permission, outcome string) {
	if m := current(); m != nil {
		m.rbacAuthorization.Add(ctx, 1, attrs("permission", permission, "outcome", outcome))
	}
}

func RecordAuthLogin(ctx context.Context, status string) {
	if m := current(); m != nil {
		m.authLogin.Add(ctx, 1, attrs("status", status))
	}
}

func RecordAccessTokenValidation(ctx context.Context, outcome, source string) {
	if m := current(); m != nil {
		m.accessTokenValidation.Add(ctx, 1, attrs("outcome", outcome, "source", source))
	}
}

func RecordRateLimitDecision(ctx context.Context, scope, outcome, mode string) {
	if m := current(); m != nil {
		m.rateLimitDecision.Add(ctx, 1, attrs("scope", scope, "outcome", outcome, "mode", mode))
	}
}

func RecordMiddlewareValidationEvent(ctx context.Context, check, outcome string) {
	if m := current(); m != nil {
		m.middlewareValidation.Add(ctx, 1, attrs("check", check, "outcome", outcome))
	}
}

func RecordHealthCheck(ctx context.Context, check, outcome string, d time.Duration) {
	if m := current(); m != nil {
		m.healthCheckResult.Add(ctx, 1, attrs("check", check, "outcome", outcome))
		m.healthCheckDuration.Record(ctx, d.Seconds(), attrs("check", check))
	}
}

func RecordDatabaseStartup(ctx context.Context, stage, outcome string, d time.Duration) {
	if m := current(); m != nil {
		m.databaseStartup.Add(ctx, 1, attrs("stage", stage, "outcome", outcome))
		m.databaseStartupDur.Record(ctx, d.Seconds(), attrs("stage", stage))
	}
}

func RecordToolCommand(ctx context.Context, tool, command, outcome string, d time.Duration) {
	if m := current(); m != nil {
		opt := attrs("tool", tool, "command", command, "outcome", outcome)
		m.toolCommandRuns.Add(ctx, 1, opt)
		m.toolCommandDuration.Record(ctx, d.Seconds(), opt)
	}
}
