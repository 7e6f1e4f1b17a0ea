package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/devopsinterview/storefront/pkg/app/notification"
	"github.com/devopsinterview/storefront/pkg/domain"
	"github.com/devopsinterview/storefront/pkg/domain/ebook"
	"github.com/devopsinterview/storefront/pkg/domain/order"
	"github.com/devopsinterview/storefront/pkg/domain/payment"
	"github.com/devopsinterview/storefront/pkg/infra/cache"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	metadataOrderID   = "orderId"
	metadataEbookID   = "ebookId"
	metadataEbookSlug = "ebookSlug"
)

type StartInput struct {
	EbookID       uuid.UUID
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type StartResult struct {
	OrderID   uuid.UUID
	SessionID string
	URL       string
}

type WebhookOutcome string

const (
	OutcomeFulfilled WebhookOutcome = "fulfilled"
	OutcomeDuplicate WebhookOutcome = "duplicate"
	OutcomeIgnored   WebhookOutcome = "ignored"
)

type Download struct {
	Ebook  *ebook.Ebook
	Order  *order.Order
	Format ebook.Format
	URL    string
}

type Service interface {
	Start(ctx context.Context, in StartInput) (*StartResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (WebhookOutcome, error)
	AuthorizeDownload(ctx context.Context, ebookID, orderID uuid.UUID, format ebook.Format) (*Download, error)
}

type Opts struct {
	AppURL        string
	DownloadValid time.Duration
	TimeProvider  func() time.Time
}

type service struct {
	logger   *logrus.Logger
	catalog  ebook.Catalog
	orders   order.Repository
	gateway  payment.Gateway
	notifier notification.Notifier
	dedupe   cache.Deduplicator
	appURL   string
	valid    time.Duration
	now      func() time.Time
}

func NewService(
	logger *logrus.Logger,
	catalog ebook.Catalog,
	orders order.Repository,
	gateway payment.Gateway,
	notifier notification.Notifier,
	dedupe cache.Deduplicator,
	opts Opts,
) Service {
	s := &service{
		logger:   logger,
		catalog:  catalog,
		orders:   orders,
		gateway:  gateway,
		notifier: notifier,
		dedupe:   dedupe,
		appURL:   strings.TrimRight(opts.AppURL, "/"),
		valid:    opts.DownloadValid,
		now:      opts.TimeProvider,
	}
	if s.valid <= 0 {
		s.valid = 72 * time.Hour
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Start(ctx context.Context, in StartInput) (*StartResult, error) {
	book, err := s.catalog.GetByID(ctx, in.EbookID)
	if err != nil {
		return nil, err
	}
	if book.PriceID == "" {
		return nil, domain.ErrNotPurchasable
	}

	orderID := uuid.New()
	metadata := make(map[string]string, len(in.Metadata)+3)
	for k, v := range in.Metadata {
		metadata[k] = v
	}
	metadata[metadataOrderID] = orderID.String()
	metadata[metadataEbookID] = book.ID.String()
	metadata[metadataEbookSlug] = book.Slug

	successURL := in.SuccessURL
	if successURL == "" {
		successURL = s.appURL + "/success?session_id={CHECKOUT_SESSION_ID}"
	}
	cancelURL := in.CancelURL
	if cancelURL == "" {
		cancelURL = s.appURL + "/ebooks/" + book.Slug
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		PriceID:       book.PriceID,
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
		CustomerEmail: in.CustomerEmail,
		Metadata:      metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	o := &order.Order{
		ID:            orderID,
		SessionID:     session.ID,
		EbookID:       book.ID,
		CustomerEmail: in.CustomerEmail,
		AmountTotal:   int64(math.Round(book.Price * 100)),
		Currency:      book.Currency,
		Status:        order.StatusPending,
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":   orderID.String(),
		"session_id": session.ID,
		"ebook":      book.Slug,
	}).Info("checkout session created")

	return &StartResult{OrderID: orderID, SessionID: session.ID, URL: session.URL}, nil
}

// HandleWebhook verifies and applies a payment provider event. An error other than
// an invalid signature means the delivery should be retried by the provider.
func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) (WebhookOutcome, error) {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return "", err
	}

	first, err := s.dedupe.FirstSeen(ctx, event.ID)
	if err != nil {
		s.logger.WithError(err).WithField("event_id", event.ID).Warn("webhook dedupe unavailable, processing event")
		first = true
	}
	if !first {
		s.logger.WithField("event_id", event.ID).Info("duplicate webhook event ignored")
		return OutcomeDuplicate, nil
	}

	if event.Type != payment.EventCheckoutSessionCompleted {
		s.logger.WithFields(logrus.Fields{"event_id": event.ID, "type": event.Type}).Debug("unhandled webhook event")
		return OutcomeIgnored, nil
	}

	outcome, err := s.fulfil(ctx, event.Session)
	if err != nil {
		if ferr := s.dedupe.Forget(ctx, event.ID); ferr != nil {
			s.logger.WithError(ferr).WithField("event_id", event.ID).Warn("failed to release webhook event")
		}
		return "", err
	}
	return outcome, nil
}

func (s *service) fulfil(ctx context.Context, session *payment.CompletedSession) (WebhookOutcome, error) {
	if session == nil {
		return "", errors.New("checkout event without session")
	}
	if session.PaymentStatus != "" && session.PaymentStatus != "paid" {
		s.logger.WithFields(logrus.Fields{
			"session_id":     session.ID,
			"payment_status": session.PaymentStatus,
		}).Info("checkout completed without payment, awaiting async confirmation")
		return OutcomeIgnored, nil
	}

	o, err := s.findOrder(ctx, session)
	if err != nil {
		return "", err
	}
	if o == nil {
		s.logger.WithField("session_id", session.ID).Warn("no order for completed checkout session")
		return OutcomeIgnored, nil
	}
	if o.Status == order.StatusFulfilled {
		return OutcomeDuplicate, nil
	}

	if session.CustomerEmail != "" {
		o.CustomerEmail = session.CustomerEmail
	}
	if o.Status != order.StatusPaid {
		o.MarkPaid(s.now(), s.valid)
		if session.AmountTotal > 0 {
			o.AmountTotal = session.AmountTotal
		}
		if session.Currency != "" {
			o.Currency = session.Currency
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return "", fmt.Errorf("mark order paid: %w", err)
		}
	}

	book, err := s.catalog.GetByID(ctx, o.EbookID)
	if err != nil {
		return "", fmt.Errorf("load ebook for order %s: %w", o.ID, err)
	}
	if o.CustomerEmail == "" {
		s.logger.WithField("order_id", o.ID.String()).Warn("paid order has no customer email")
		return OutcomeIgnored, nil
	}
	if err := s.notifier.SendDownloadLinks(ctx, notification.DownloadLinks{
		To:      o.CustomerEmail,
		OrderID: o.ID,
		Ebook:   book,
	}); err != nil {
		return "", fmt.Errorf("send download links: %w", err)
	}

	o.Status = order.StatusFulfilled
	if err := s.orders.Update(ctx, o); err != nil {
		return "", fmt.Errorf("mark order fulfilled: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":   o.ID.String(),
		"session_id": session.ID,
		"ebook":      book.Slug,
	}).Info("order fulfilled")
	return OutcomeFulfilled, nil
}

// findOrder resolves the order by session id, then by the order id carried in metadata.
func (s *service) findOrder(ctx context.Context, session *payment.CompletedSession) (*order.Order, error) {
	o, err := s.orders.GetBySessionID(ctx, session.ID)
	if err == nil {
		return o, nil
	}
	if !domain.IsNotFoundError(err) {
		return nil, err
	}

	raw, ok := session.Metadata[metadataOrderID]
	if !ok {
		return nil, nil
	}
	id, perr := uuid.Parse(raw)
	if perr != nil {
		return nil, nil
	}
	o, err = s.orders.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

func (s *service) AuthorizeDownload(
	ctx context.Context,
	ebookID, orderID uuid.UUID,
	format ebook.Format,
) (*Download, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.EbookID != ebookID {
		return nil, domain.ErrOrderMismatch
	}
	if o.Status != order.StatusPaid && o.Status != order.StatusFulfilled {
		return nil, domain.ErrOrderNotPaid
	}
	if !o.Downloadable(s.now()) {
		return nil, domain.ErrDownloadExpired
	}

	book, err := s.catalog.GetByID(ctx, ebookID)
	if err != nil {
		return nil, err
	}
	if !book.HasFormat(format) || book.FileURL == "" {
		return nil, domain.ErrFormatMissing
	}

	return &Download{
		Ebook:  book,
		Order:  o,
		Format: format,
		URL:    FileURL(book.FileURL, format),
	}, nil
}

// FileURL expands the {format} placeholder of a catalog file URL.
func FileURL(template string, format ebook.Format) string {
	return strings.ReplaceAll(template, "{format}", strings.ToLower(string(format)))
}
