// Copyright (c) Microsoft Corporation. All rights reserved.

package telemetry

import (
	"go.opentelemetry.io/otel/metric"
)

func NewInt64Counter(meter metric.Meter, name string, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(
		name,
		metric.WithDescription(description),
		metric.WithUnit("1"), // dimensionless
	)
	if err != nil {
		panic(err)
	}
	return counter
}

func NewInt64UpDownCounter(meter metric.Meter, name string, description string) metric.Int64UpDownCounter {
	counter, err := meter.Int64UpDownCounter(
		name,
		metric.WithDescription(description),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		panic(err)
	}
	return counter
}

func NewInt64ObservableGauge(meter metric.Meter, name string, description string, unit string) metric.Int64ObservableGauge {
	gauge, err := meter.Int64ObservableGauge(
		name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		panic(err)
	}
	return gauge
}
