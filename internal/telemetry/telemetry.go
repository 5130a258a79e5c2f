/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package telemetry

import (
	"context"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// TelemetrySystem owns the process-wide meter provider.
// Metrics recorded through it are exposed in Prometheus text format by MetricsHandler.
type TelemetrySystem struct {
	MeterProvider *sdkmetric.MeterProvider
	Registry      *prometheus.Registry
}

var (
	telemetrySystem     TelemetrySystem
	telemetrySystemOnce sync.Once
)

// GetTelemetrySystem returns the process-wide telemetry system, creating it on first use.
func GetTelemetrySystem() TelemetrySystem {
	telemetrySystemOnce.Do(func() {
		telemetrySystem = NewTelemetrySystem()
		otel.SetMeterProvider(telemetrySystem.MeterProvider)
	})
	return telemetrySystem
}

func NewTelemetrySystem() TelemetrySystem {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		panic(err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	return TelemetrySystem{
		MeterProvider: mp,
		Registry:      registry,
	}
}

// MetricsHandler serves the collected metrics in Prometheus exposition format.
func (ts TelemetrySystem) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(ts.Registry, promhttp.HandlerOpts{})
}

func (ts TelemetrySystem) Shutdown(ctx context.Context) error {
	return ts.MeterProvider.Shutdown(ctx)
}
