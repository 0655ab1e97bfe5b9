package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/pkg/events"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type CatalogStore interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategory(ctx context.Context, name, slug string) (*models.Category, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
}

// ProductIndex is an external full-text index over products.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	SearchProducts(ctx context.Context, q string, from, size int) (int64, []uuid.UUID, error)
}

type CatalogService struct {
	Repo   CatalogStore
	Index  ProductIndex
	Events events.Publisher
}

type NewProduct struct {
	Title        string
	Description  string
	Price        decimal.Decimal
	Availability *bool
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name is required")
	}
	cat := &models.Category{Name: name, Slug: slug.Make(name)}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	publish(ctx, s.Events, events.TopicCatalog, cat.ID.String(), events.New(events.CategoryCreated, cat))
	return cat, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, categoryID uuid.UUID, in NewProduct) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, invalid("title is required")
	}
	if in.Price.IsNegative() {
		return nil, invalid("price must be >= 0")
	}

	available := true
	if in.Availability != nil {
		available = *in.Availability
	}
	p := &models.Product{
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price.Round(2),
		Availability: available,
		CategoryID:   categoryID,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %w", ErrNotFound)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, p); err != nil {
			l.Warn("index_product_error", "product_id", p.ID, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicCatalog, p.ID.String(), events.New(events.ProductCreated, p))
	return p, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %w", ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

// ProductsByCategoryName accepts the category name or its slug.
func (s *CatalogService) ProductsByCategoryName(ctx context.Context, name string) (*models.Category, []models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, invalid("category name is required")
	}
	cat, err := s.Repo.FindCategory(ctx, name, slug.Make(name))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("category %w", ErrNotFound)
		}
		return nil, nil, err
	}
	items, err := s.Repo.ListProductsByCategory(ctx, cat.ID)
	if err != nil {
		return nil, nil, err
	}
	return cat, items, nil
}

func (s *CatalogService) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, invalid("q is required")
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	if s.Index != nil {
		total, ids, err := s.Index.SearchProducts(ctx, q, offset, limit)
		if err == nil {
			items, err := s.productsInOrder(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "fallback", "db", "error", err)
	}
	return s.Repo.SearchProducts(ctx, q, offset, limit)
}

func (s *CatalogService) productsInOrder(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	found, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
