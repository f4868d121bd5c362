package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/restaunax/orders-api/internal/domain"
)

// InitMeterProvider wires the Prometheus exporter into a MeterProvider and
// returns the handler for the /metrics endpoint plus a shutdown function.
func InitMeterProvider(serviceName, serviceVersion string) (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(newResource(serviceName, serviceVersion)),
	)

	otel.SetMeterProvider(mp)

	return promhttp.Handler(), mp.Shutdown, nil
}

// OrderMetrics counts order lifecycle activity. All counters are attributed
// so dashboards can split by order type and by transition.
type OrderMetrics struct {
	created     metric.Int64Counter
	transitions metric.Int64Counter
}

func NewOrderMetrics() (*OrderMetrics, error) {
	meter := otel.Meter("orders")

	created, err := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Orders accepted into the store"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter("order_status_transitions_total",
		metric.WithDescription("Applied order status changes"),
	)
	if err != nil {
		return nil, err
	}

	return &OrderMetrics{created: created, transitions: transitions}, nil
}

func (m *OrderMetrics) OrderCreated(ctx context.Context, orderType domain.OrderType) {
	m.created.Add(ctx, 1, metric.WithAttributes(
		attribute.String("order_type", string(orderType)),
	))
}

func (m *OrderMetrics) StatusChanged(ctx context.Context, from, to domain.OrderStatus) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	))
}
