package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Transport delivers one message to an external channel.
type Transport interface {
	// Name identifies the transport in logs and delivery results.
	Name() string
	Send(ctx context.Context, message string) error
}

// DeliveryResult records which transport delivered the message. When the
// fallback delivered, PrimaryErr retains the primary failure for diagnostics.
type DeliveryResult struct {
	DeliveredVia string
	PrimaryErr   error
}

// Dispatcher sends best-effort notifications with a two-tier fallback: the
// primary transport is tried first, the fallback exactly once after a primary
// failure. No retry loop, no further chain.
type Dispatcher struct {
	primary  Transport
	fallback Transport
	log      *zap.Logger
}

// NewDispatcher creates a dispatcher with the given transports.
func NewDispatcher(primary, fallback Transport, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		primary:  primary,
		fallback: fallback,
		log:      log,
	}
}

// Notify attempts delivery via the primary transport and falls back once. If
// both fail, the combined failure is returned; the caller decides whether
// that is fatal.
func (d *Dispatcher) Notify(ctx context.Context, message string) (*DeliveryResult, error) {
	primaryErr := d.primary.Send(ctx, message)
	if primaryErr == nil {
		return &DeliveryResult{DeliveredVia: d.primary.Name()}, nil
	}

	d.log.Warn("Primary transport failed, trying fallback",
		zap.String("primary", d.primary.Name()),
		zap.String("fallback", d.fallback.Name()),
		zap.Error(primaryErr))

	if err := d.fallback.Send(ctx, message); err != nil {
		return nil, fmt.Errorf("notification failed via %s (%v) and %s (%v)",
			d.primary.Name(), primaryErr, d.fallback.Name(), err)
	}

	return &DeliveryResult{
		DeliveredVia: d.fallback.Name(),
		PrimaryErr:   primaryErr,
	}, nil
}
