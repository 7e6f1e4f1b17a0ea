package payment

import (
	"context"
	"errors"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

const EventCheckoutSessionCompleted = "checkout.session.completed"

type CheckoutRequest struct {
	PriceID       string
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}

type Session struct {
	ID  string
	URL string
}

// CompletedSession is the payment provider's view of a finished checkout.
type CompletedSession struct {
	ID            string
	CustomerEmail string
	AmountTotal   int64
	Currency      string
	PaymentStatus string
	Metadata      map[string]string
}

type Event struct {
	ID       string
	Type     string
	Livemode bool
	Session  *CompletedSession
}

//go:generate mockery --name=Gateway --dir=. --output=./mocks --filename=gateway_mock.go --case=underscore --with-expecter
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error)
	// ParseWebhook verifies the signature over the raw payload and decodes the event.
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
