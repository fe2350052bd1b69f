// Package telemetry exports interview metrics over OTLP.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/kfreiman/careercoach/internal/interview"
)

const (
	serviceName = "careercoach"
	meterName   = "github.com/kfreiman/careercoach/internal/telemetry"
)

// Config holds OTLP exporter configuration
type Config struct {
	Enabled        bool
	Endpoint       string
	Insecure       bool
	ServiceVersion string
	Interval       time.Duration // Optional: export interval
}

// Recorder is an interview.Recorder that must be closed to flush
type Recorder interface {
	interview.Recorder
	Close(ctx context.Context) error
}

// Metrics records interview metrics on an OpenTelemetry meter
type Metrics struct {
	provider *sdkmetric.MeterProvider

	sessionsStarted    metric.Int64Counter
	sessionsEnded      metric.Int64Counter
	sessionQuestions   metric.Int64Histogram
	sessionDuration    metric.Float64Histogram
	generationDuration metric.Float64Histogram
	generationErrors   metric.Int64Counter
}

// New creates an OTLP gRPC exporter and the instruments on top of it
func New(ctx context.Context, cfg Config) (*Metrics, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts,
			otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			otlpmetricgrpc.WithInsecure(),
		)
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	version := cfg.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return NewWithProvider(provider)
}

// NewWithProvider creates the instruments on an existing provider
func NewWithProvider(provider *sdkmetric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName)
	m := &Metrics{provider: provider}

	var err error
	if m.sessionsStarted, err = meter.Int64Counter(
		"careercoach_interviews_started_total",
		metric.WithDescription("Interviews started"),
		metric.WithUnit("{session}"),
	); err != nil {
		return nil, fmt.Errorf("creating sessions started counter: %w", err)
	}

	if m.sessionsEnded, err = meter.Int64Counter(
		"careercoach_interviews_ended_total",
		metric.WithDescription("Interviews ended, by outcome"),
		metric.WithUnit("{session}"),
	); err != nil {
		return nil, fmt.Errorf("creating sessions ended counter: %w", err)
	}

	if m.sessionQuestions, err = meter.Int64Histogram(
		"careercoach_interview_questions",
		metric.WithDescription("Questions asked per interview"),
		metric.WithUnit("{question}"),
	); err != nil {
		return nil, fmt.Errorf("creating questions histogram: %w", err)
	}

	if m.sessionDuration, err = meter.Float64Histogram(
		"careercoach_interview_duration_seconds",
		metric.WithDescription("Interview duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating session duration histogram: %w", err)
	}

	if m.generationDuration, err = meter.Float64Histogram(
		"careercoach_generation_duration_seconds",
		metric.WithDescription("Text generation latency in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating generation duration histogram: %w", err)
	}

	if m.generationErrors, err = meter.Int64Counter(
		"careercoach_generation_errors_total",
		metric.WithDescription("Failed text generation calls"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, fmt.Errorf("creating generation errors counter: %w", err)
	}

	return m, nil
}

// SessionStarted implements interview.Recorder
func (m *Metrics) SessionStarted(ctx context.Context, _ string) {
	m.sessionsStarted.Add(ctx, 1)
}

// SessionEnded implements interview.Recorder
func (m *Metrics) SessionEnded(ctx context.Context, outcome interview.Outcome, questionCount int, duration time.Duration) {
	opt := metric.WithAttributes(attribute.String("outcome", string(outcome)))
	m.sessionsEnded.Add(ctx, 1, opt)
	m.sessionQuestions.Record(ctx, int64(questionCount), opt)
	m.sessionDuration.Record(ctx, duration.Seconds(), opt)
}

// GenerationCompleted implements interview.Recorder
func (m *Metrics) GenerationCompleted(ctx context.Context, operation string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.generationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	if err != nil {
		m.generationErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
	}
}

// Close shuts down the provider and flushes pending metrics
func (m *Metrics) Close(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
