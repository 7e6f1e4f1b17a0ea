package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/devopsinterview/storefront/pkg/domain"
	"github.com/devopsinterview/storefront/pkg/domain/order"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{
		db: db,
	}
}

func (r *orderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Order", id)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

func (r *orderRepository) GetBySessionID(ctx context.Context, sessionID string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundByKeyError("Order", sessionID)
		}
		return nil, fmt.Errorf("failed to get order by session: %w", err)
	}
	return &o, nil
}

func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).Model(&order.Order{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
		"session_id":          o.SessionID,
		"customer_email":      o.CustomerEmail,
		"amount_total":        o.AmountTotal,
		"currency":            o.Currency,
		"status":              o.Status,
		"paid_at":             o.PaidAt,
		"download_expires_at": o.DownloadExpiresAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Order", o.ID)
	}
	return nil
}
