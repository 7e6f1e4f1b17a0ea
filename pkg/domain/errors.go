package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEntityNotFound  *notFoundError
	ErrDownloadExpired = errors.New("download link has expired")
	ErrOrderNotPaid    = errors.New("order has not been paid")
	ErrOrderMismatch   = errors.New("order does not belong to this ebook")
	ErrFormatMissing   = errors.New("format is not available for this ebook")
	ErrNotPurchasable  = errors.New("ebook is not available for purchase")
)

type notFoundError struct {
	EntityType string
	ID         string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s with ID '%s' not found", e.EntityType, e.ID)
}

func NewNotFoundError(entityType string, id fmt.Stringer) error {
	return &notFoundError{EntityType: entityType, ID: id.String()}
}

func NewNotFoundByKeyError(entityType, key string) error {
	return &notFoundError{EntityType: entityType, ID: key}
}

func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var notFoundError *notFoundError
	return errors.As(err, &notFoundError)
}
