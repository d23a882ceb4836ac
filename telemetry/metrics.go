package telemetry

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/norun9/dressco-storefront/config"
)

// InitMeterProvider installs the global MeterProvider. Only the "otlp"
// exporter pushes metrics; other settings keep them in process.
func InitMeterProvider(ctx context.Context, cfg config.Telemetry) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(ctx, cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if cfg.Exporter == "otlp" {
		exporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create OTLP metric exporter")
		}
		opts = append(opts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second)),
		))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// CartMetrics counts cart activity.
type CartMetrics struct {
	LinesAdded   metric.Int64Counter
	LinesRemoved metric.Int64Counter
	Rejected     metric.Int64Counter
	Hydrations   metric.Int64Counter
	Sessions     metric.Int64UpDownCounter
}

// NewCartMetrics registers the cart instruments on meter.
func NewCartMetrics(meter metric.Meter) (*CartMetrics, error) {
	var (
		m   CartMetrics
		err error
	)
	if m.LinesAdded, err = meter.Int64Counter("cart.lines.added",
		metric.WithDescription("Units added to carts")); err != nil {
		return nil, err
	}
	if m.LinesRemoved, err = meter.Int64Counter("cart.lines.removed",
		metric.WithDescription("Lines removed from carts")); err != nil {
		return nil, err
	}
	if m.Rejected, err = meter.Int64Counter("cart.updates.rejected",
		metric.WithDescription("Quantity updates rejected as invalid")); err != nil {
		return nil, err
	}
	if m.Hydrations, err = meter.Int64Counter("cart.hydrations",
		metric.WithDescription("Carts loaded from storage")); err != nil {
		return nil, err
	}
	if m.Sessions, err = meter.Int64UpDownCounter("cart.sessions.active",
		metric.WithDescription("Carts held in memory")); err != nil {
		return nil, err
	}
	return &m, nil
}
