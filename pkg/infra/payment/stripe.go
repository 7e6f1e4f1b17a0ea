package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/devopsinterview/storefront/pkg/domain/payment"
	"github.com/devopsinterview/storefront/pkg/infra/httpx"
	"github.com/devopsinterview/storefront/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type Config struct {
	SecretKey     string
	WebhookSecret string
	HTTPClient    *http.Client
}

type stripeGateway struct {
	api           *client.API
	webhookSecret string
	breaker       httpx.CircuitBreaker
	logger        *logrus.Logger
}

func NewStripeGateway(cfg Config, logger *logrus.Logger) payment.Gateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, stripe.NewBackends(cfg.HTTPClient))

	return &stripeGateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		breaker:       httpx.NewCircuitBreaker("stripe", 30*time.Second, 5, logger),
		logger:        logger,
	}
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*payment.Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: req.Metadata,
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	var session *stripe.CheckoutSession
	err := g.breaker.Execute(func() error {
		var err error
		session, err = g.api.CheckoutSessions.New(params)
		return err
	})
	if err != nil {
		prometheus.UpstreamErrors.WithLabelValues("stripe", "create_checkout_session").Inc()
		g.logger.WithError(err).WithField("price_id", req.PriceID).Error("failed to create checkout session")
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &payment.Session{ID: session.ID, URL: session.URL}, nil
}

func (g *stripeGateway) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	return parseWebhook(payload, signature, g.webhookSecret)
}

func parseWebhook(payload []byte, signature, secret string) (*payment.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", payment.ErrInvalidSignature, err.Error())
	}

	out := &payment.Event{
		ID:       event.ID,
		Type:     string(event.Type),
		Livemode: event.Livemode,
	}
	if out.Type != payment.EventCheckoutSessionCompleted || event.Data == nil {
		return out, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	completed := &payment.CompletedSession{
		ID:            session.ID,
		CustomerEmail: session.CustomerEmail,
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
		PaymentStatus: string(session.PaymentStatus),
		Metadata:      session.Metadata,
	}
	if completed.CustomerEmail == "" && session.CustomerDetails != nil {
		completed.CustomerEmail = session.CustomerDetails.Email
	}
	out.Session = completed
	return out, nil
}

func IsInvalidSignature(err error) bool {
	return errors.Is(err, payment.ErrInvalidSignature)
}
