// Copyright (c) Microsoft Corporation. All rights reserved.

package inspector

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/microsoft/hostinspector/internal/telemetry"
	"github.com/microsoft/hostinspector/pkg/cdp"
	"github.com/microsoft/hostinspector/pkg/concurrency"
)

var (
	requestsHandledLocallyCounter metric.Int64Counter
	requestsForwardedCounter      metric.Int64Counter
	requestsNoInstanceCounter     metric.Int64Counter
	requestsMethodNotFoundCounter metric.Int64Counter
	instanceSwapCounter           metric.Int64Counter

	activeSessionsCounter metric.Int64UpDownCounter

	hostAgentMeter    metric.Meter
	pendingTasksGauge metric.Int64ObservableGauge
)

func init() {
	ts := telemetry.GetTelemetrySystem()
	meter := ts.MeterProvider.Meter("host-agent")
	hostAgentMeter = meter

	requestsHandledLocallyCounter = telemetry.NewInt64Counter(meter, "cdp_requests_local", "Number of CDP requests answered by the host agent")
	requestsForwardedCounter = telemetry.NewInt64Counter(meter, "cdp_requests_forwarded", "Number of CDP requests forwarded to the current instance")
	requestsNoInstanceCounter = telemetry.NewInt64Counter(meter, "cdp_requests_no_instance", "Number of instance-scoped CDP requests received while no instance was running")
	requestsMethodNotFoundCounter = telemetry.NewInt64Counter(meter, "cdp_requests_method_not_found", "Number of CDP requests for unknown host-scoped methods")
	instanceSwapCounter = telemetry.NewInt64Counter(meter, "instance_swaps", "Number of times the current instance of a session changed")

	activeSessionsCounter = telemetry.NewInt64UpDownCounter(meter, "active_sessions", "Number of connected debugging sessions")
	pendingTasksGauge = telemetry.NewInt64ObservableGauge(meter, "host_executor_pending_tasks", "Number of tasks waiting to run on the host executor", "{task}")
}

func recordRouting(counter metric.Int64Counter, req cdp.PreparsedRequest) {
	counter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("domain", req.Domain())))
}

// observeExecutorQueue reports the executor's queue length until the registration is unregistered.
func observeExecutorQueue(executor *concurrency.SerialExecutor) (metric.Registration, error) {
	return hostAgentMeter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(pendingTasksGauge, int64(executor.Pending()))
		return nil
	}, pendingTasksGauge)
}
