package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFulfilled Status = "fulfilled"
	StatusFailed    Status = "failed"
)

type Order struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID         string     `json:"sessionId" gorm:"type:text;uniqueIndex"`
	EbookID           uuid.UUID  `json:"ebookId" gorm:"type:uuid;not null;index"`
	CustomerEmail     string     `json:"customerEmail" gorm:"type:text"`
	AmountTotal       int64      `json:"amountTotal"`
	Currency          string     `json:"currency" gorm:"type:text"`
	Status            Status     `json:"status" gorm:"type:text;not null"`
	PaidAt            *time.Time `json:"paidAt,omitempty"`
	DownloadExpiresAt *time.Time `json:"downloadExpiresAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Downloadable reports whether the order grants access to its ebook at now.
func (o *Order) Downloadable(now time.Time) bool {
	if o.Status != StatusPaid && o.Status != StatusFulfilled {
		return false
	}
	return o.DownloadExpiresAt != nil && now.Before(*o.DownloadExpiresAt)
}

// MarkPaid records payment and opens the download window.
func (o *Order) MarkPaid(now time.Time, validFor time.Duration) {
	expires := now.Add(validFor)
	o.Status = StatusPaid
	o.PaidAt = &now
	o.DownloadExpiresAt = &expires
}

type Repository interface {
	Save(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*Order, error)
	Update(ctx context.Context, o *Order) error
}
