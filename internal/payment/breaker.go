package payment

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/logging"
)

const tripAfter = 5

// Breaker bounds every call with a timeout and stops calling a provider
// that keeps failing until it has had time to recover.
type Breaker struct {
	next    commerce.PaymentGateway
	cb      *gobreaker.CircuitBreaker[string]
	timeout time.Duration
}

func NewBreaker(next commerce.PaymentGateway, timeout, openFor time.Duration) *Breaker {
	return &Breaker{
		next:    next,
		timeout: timeout,
		cb: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:        "payment",
			MaxRequests: 1,
			Timeout:     openFor,
			IsSuccessful: providerHealthy,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= tripAfter
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Log(logging.Fields{Step: "payment_breaker", Status: to.String(), Message: name + " was " + from.String()})
			},
		}),
	}
}

func (b *Breaker) CreateSession(ctx context.Context, req commerce.PaymentRequest) (string, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	return b.cb.Execute(func() (string, error) {
		return b.next.CreateSession(ctx, req)
	})
}

// providerHealthy reports whether err leaves the provider's health intact.
// Declines and callers giving up are not the provider's fault.
func providerHealthy(err error) bool {
	return err == nil || errors.Is(err, ErrDeclined) || errors.Is(err, context.Canceled)
}
