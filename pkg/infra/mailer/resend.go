package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/devopsinterview/storefront/pkg/domain/mail"
	"github.com/devopsinterview/storefront/pkg/infra/httpx"
	"github.com/devopsinterview/storefront/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

type Config struct {
	APIKey  string
	BaseURL string
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendSender struct {
	cfg     Config
	client  httpx.Client
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
}

// NewResendSender delivers mail through the Resend HTTP API.
func NewResendSender(cfg Config, client httpx.Client, logger *logrus.Logger) mail.Sender {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &resendSender{
		cfg:     cfg,
		client:  client,
		breaker: httpx.NewCircuitBreaker("resend", 30*time.Second, 5, logger),
		logger:  logger,
	}
}

func (s *resendSender) Send(ctx context.Context, msg mail.Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("send email: no recipients")
	}
	payload, err := json.Marshal(resendRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	})
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	var id string
	err = s.breaker.Execute(func() error {
		id, err = s.post(ctx, payload)
		return err
	})
	if err != nil {
		prometheus.UpstreamErrors.WithLabelValues("resend", "send_email").Inc()
		s.logger.WithError(err).WithField("subject", msg.Subject).Error("failed to send email")
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"email_id": id, "subject": msg.Subject}).Info("email sent")
	return nil
}

func (s *resendSender) post(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	parsed, parseErr := fastjson.ParseBytes(body)
	if resp.StatusCode >= http.StatusBadRequest {
		message := strings.TrimSpace(string(body))
		if parseErr == nil && parsed.Exists("message") {
			message = string(parsed.GetStringBytes("message"))
		}
		return "", fmt.Errorf("resend responded %d: %s", resp.StatusCode, message)
	}
	if parseErr != nil {
		return "", nil
	}
	return string(parsed.GetStringBytes("id")), nil
}
