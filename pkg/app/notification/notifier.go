package notification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/devopsinterview/storefront/pkg/config"
	"github.com/devopsinterview/storefront/pkg/domain/ebook"
	"github.com/devopsinterview/storefront/pkg/domain/mail"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type DownloadLinks struct {
	To      string
	OrderID uuid.UUID
	Ebook   *ebook.Ebook
}

type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type Notifier interface {
	SendDownloadLinks(ctx context.Context, in DownloadLinks) error
	SendNewsletterConfirmation(ctx context.Context, email, name string) error
	SendContactNotification(ctx context.Context, msg ContactMessage) error
}

type executor interface {
	Execute(w io.Writer, data any) error
}

type notifier struct {
	logger *logrus.Logger
	sender mail.Sender
	appURL string
	cfg    config.EmailConfig
}

func NewNotifier(logger *logrus.Logger, sender mail.Sender, appURL string, cfg config.EmailConfig) Notifier {
	return &notifier{
		logger: logger,
		sender: sender,
		appURL: strings.TrimRight(appURL, "/"),
		cfg:    cfg,
	}
}

// DownloadURL is the storefront link that authorizes a download for one format.
func DownloadURL(appURL string, ebookID, orderID uuid.UUID, format ebook.Format) string {
	q := url.Values{}
	q.Set("ebookId", ebookID.String())
	q.Set("orderId", orderID.String())
	q.Set("format", string(format))
	return fmt.Sprintf("%s/api/download?%s", strings.TrimRight(appURL, "/"), q.Encode())
}

func (n *notifier) SendDownloadLinks(ctx context.Context, in DownloadLinks) error {
	if in.Ebook == nil {
		return fmt.Errorf("download links: ebook is required")
	}
	view := downloadView{
		Title:      in.Ebook.Title,
		ValidHours: int(n.cfg.DownloadValid / time.Hour),
		Support:    n.cfg.SupportInbox,
	}
	for _, f := range in.Ebook.Formats {
		view.Links = append(view.Links, downloadLink{
			Format: string(f),
			URL:    DownloadURL(n.appURL, in.Ebook.ID, in.OrderID, f),
		})
	}
	return n.send(ctx, []string{in.To}, "", downloadSubject, downloadHTML, downloadText, view)
}

func (n *notifier) SendNewsletterConfirmation(ctx context.Context, email, name string) error {
	view := newsletterView{Name: name, AppURL: n.appURL, Support: n.cfg.SupportInbox}
	return n.send(ctx, []string{email}, "", newsletterSubject, newsletterHTML, newsletterText, view)
}

func (n *notifier) SendContactNotification(ctx context.Context, msg ContactMessage) error {
	view := contactView(msg)
	subject := "Contact: " + msg.Subject
	return n.send(ctx, []string{n.cfg.SupportInbox}, msg.Email, subject, contactHTML, contactText, view)
}

func (n *notifier) send(
	ctx context.Context,
	to []string,
	replyTo, subject string,
	html, text executor,
	view any,
) error {
	var htmlBuf, textBuf bytes.Buffer
	if err := html.Execute(&htmlBuf, view); err != nil {
		return fmt.Errorf("render html body: %w", err)
	}
	if err := text.Execute(&textBuf, view); err != nil {
		return fmt.Errorf("render text body: %w", err)
	}

	err := n.sender.Send(ctx, mail.Message{
		From:    n.cfg.From,
		To:      to,
		ReplyTo: replyTo,
		Subject: subject,
		HTML:    htmlBuf.String(),
		Text:    textBuf.String(),
	})
	if err != nil {
		n.logger.WithError(err).WithField("subject", subject).Error("failed to send email")
		return err
	}
	return nil
}
