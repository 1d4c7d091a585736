// Package payment adapts payment providers to commerce.PaymentGateway.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/01moynul/storefront-golang/internal/commerce"
)

// ErrDeclined marks a charge the provider refused on its merits. It says
// nothing about the provider's health.
var ErrDeclined = errors.New("payment declined")

// SandboxGateway approves every charge up to DeclineOver without talking
// to a provider. It is the default for local runs and tests.
type SandboxGateway struct {
	// DeclineOver rejects amounts above it. Zero accepts everything.
	DeclineOver int64
}

func (g SandboxGateway) CreateSession(ctx context.Context, req commerce.PaymentRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if req.Amount <= 0 || req.Quantity <= 0 {
		return "", errors.New("sandbox: nothing to charge")
	}
	if g.DeclineOver > 0 && req.Amount > g.DeclineOver {
		return "", fmt.Errorf("sandbox: amount %d: %w", req.Amount, ErrDeclined)
	}
	return "sandbox_" + uuid.New().String(), nil
}
