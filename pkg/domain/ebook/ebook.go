package ebook

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type Format string

const (
	FormatPDF  Format = "PDF"
	FormatEPUB Format = "EPUB"
	FormatMOBI Format = "MOBI"
)

var Formats = []Format{FormatPDF, FormatEPUB, FormatMOBI}

type Ebook struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice,omitempty"`
	Currency      string    `json:"currency"`
	Formats       []Format  `json:"formats"`
	PageCount     int       `json:"pageCount,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	CoverURL      string    `json:"coverUrl,omitempty"`
	PriceID       string    `json:"-"`
	FileURL       string    `json:"-"`
}

func (e *Ebook) HasFormat(f Format) bool {
	for _, have := range e.Formats {
		if strings.EqualFold(string(have), string(f)) {
			return true
		}
	}
	return false
}

type Catalog interface {
	List(ctx context.Context) ([]*Ebook, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Ebook, error)
	GetBySlug(ctx context.Context, slug string) (*Ebook, error)
}
