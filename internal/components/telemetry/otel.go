package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OtelAPI forwards every report to an inner API and records it on the
// global otel meter as well. When no meter provider was installed the
// instruments are no-ops.
type OtelAPI struct {
	inner API

	broken   metric.Int64Counter
	warnings metric.Int64Counter
	counts   metric.Int64Histogram
}

func NewOtelAPI(meterName string, inner API) (OtelAPI, error) {
	meter := otel.Meter(meterName)

	broken, err := meter.Int64Counter(
		"reports.broken",
		metric.WithDescription("Components reported as broken."),
	)
	if err != nil {
		return OtelAPI{}, err
	}
	warnings, err := meter.Int64Counter(
		"reports.warning",
		metric.WithDescription("Warnings reported by components."),
	)
	if err != nil {
		return OtelAPI{}, err
	}
	counts, err := meter.Int64Histogram(
		"reports.count",
		metric.WithDescription("Point-in-time counts reported by components."),
	)
	if err != nil {
		return OtelAPI{}, err
	}

	return OtelAPI{
		inner:    inner,
		broken:   broken,
		warnings: warnings,
		counts:   counts,
	}, nil
}

func (o OtelAPI) ReportBroken(id string, params ...any) {
	o.broken.Add(context.Background(), 1, metric.WithAttributes(attribute.String("id", id)))
	o.inner.ReportBroken(id, params...)
}

func (o OtelAPI) ReportWarning(id string, params ...any) {
	o.warnings.Add(context.Background(), 1, metric.WithAttributes(attribute.String("id", id)))
	o.inner.ReportWarning(id, params...)
}

func (o OtelAPI) ReportDebug(msg string, params ...any) {
	o.inner.ReportDebug(msg, params...)
}

func (o OtelAPI) ReportCount(id string, count int64) {
	o.counts.Record(context.Background(), count, metric.WithAttributes(attribute.String("id", id)))
	o.inner.ReportCount(id, count)
}
