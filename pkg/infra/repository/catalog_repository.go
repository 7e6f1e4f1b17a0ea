package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/devopsinterview/storefront/pkg/config"
	"github.com/devopsinterview/storefront/pkg/domain"
	"github.com/devopsinterview/storefront/pkg/domain/ebook"
	"github.com/google/uuid"
)

type catalogRepository struct {
	ordered []*ebook.Ebook
	byID    map[uuid.UUID]*ebook.Ebook
	bySlug  map[string]*ebook.Ebook
}

// NewCatalogRepository builds the read-only catalog from configuration.
func NewCatalogRepository(entries []config.CatalogEbook) (ebook.Catalog, error) {
	r := &catalogRepository{
		byID:   make(map[uuid.UUID]*ebook.Ebook, len(entries)),
		bySlug: make(map[string]*ebook.Ebook, len(entries)),
	}
	for i, e := range entries {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: invalid id %q: %w", i, e.ID, err)
		}
		if e.Slug == "" {
			return nil, fmt.Errorf("catalog entry %d: slug is required", i)
		}
		if _, dup := r.bySlug[e.Slug]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate slug %q", i, e.Slug)
		}
		if _, dup := r.byID[id]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %s", i, id)
		}

		book := &ebook.Ebook{
			ID:            id,
			Slug:          e.Slug,
			Title:         e.Title,
			Description:   e.Description,
			Price:         e.Price,
			OriginalPrice: e.OriginalPrice,
			Currency:      strings.ToLower(e.Currency),
			PageCount:     e.PageCount,
			Tags:          e.Tags,
			CoverURL:      e.CoverURL,
			PriceID:       e.PriceID,
			FileURL:       e.FileURL,
		}
		if book.Currency == "" {
			book.Currency = "usd"
		}
		for _, f := range e.Formats {
			book.Formats = append(book.Formats, ebook.Format(strings.ToUpper(f)))
		}
		r.ordered = append(r.ordered, book)
		r.byID[id] = book
		r.bySlug[e.Slug] = book
	}
	sort.SliceStable(r.ordered, func(i, j int) bool { return r.ordered[i].Title < r.ordered[j].Title })
	return r, nil
}

func (r *catalogRepository) List(_ context.Context) ([]*ebook.Ebook, error) {
	out := make([]*ebook.Ebook, len(r.ordered))
	copy(out, r.ordered)
	return out, nil
}

func (r *catalogRepository) GetByID(_ context.Context, id uuid.UUID) (*ebook.Ebook, error) {
	if b, ok := r.byID[id]; ok {
		return b, nil
	}
	return nil, domain.NewNotFoundError("Ebook", id)
}

func (r *catalogRepository) GetBySlug(_ context.Context, slug string) (*ebook.Ebook, error) {
	if b, ok := r.bySlug[slug]; ok {
		return b, nil
	}
	return nil, domain.NewNotFoundByKeyError("Ebook", slug)
}
