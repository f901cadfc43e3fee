package match

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for matching operations.
var (
	tracer = otel.Tracer("provsim.match")
	meter  = otel.Meter("provsim.match")
)

var (
	matchTotal   metric.Int64Counter
	matchLatency metric.Float64Histogram
	matchNodes   metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		matchTotal, err = meter.Int64Counter(
			"match_trees_total",
			metric.WithDescription("Total number of matched trees built"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		matchLatency, err = meter.Float64Histogram(
			"match_duration_seconds",
			metric.WithDescription("Duration of matched tree construction"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		matchNodes, err = meter.Int64Histogram(
			"match_tree_nodes",
			metric.WithDescription("Number of nodes per matched tree"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordMatchMetrics records metrics for one construction. t is nil when
// construction failed.
func recordMatchMetrics(ctx context.Context, duration time.Duration, t *Tree, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))
	matchTotal.Add(ctx, 1, attrs)
	matchLatency.Record(ctx, duration.Seconds(), attrs)
	if t != nil {
		matchNodes.Record(ctx, int64(t.Len()))
	}
}

// startMatchSpan creates a span for a construction.
func startMatchSpan(ctx context.Context) (context.Context, trace.Span) {
	return tracer.Start(ctx, "match.New")
}

// setMatchSpanResult sets the result attributes on a construction span.
func setMatchSpanResult(span trace.Span, t *Tree, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	c := t.Count(true)
	span.SetAttributes(
		attribute.Int("match.node_count", t.Len()),
		attribute.Int("match.paired_leaves", c.Paired),
		attribute.Int("match.left_only_leaves", c.LeftOnly),
		attribute.Int("match.right_only_leaves", c.RightOnly),
	)
}
