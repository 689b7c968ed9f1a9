package product

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/kimocks-netizen/caro-backend/pkg/db"
	"github.com/kimocks-netizen/caro-backend/pkg/db/models"
	pkgerrors "github.com/kimocks-netizen/caro-backend/pkg/errors"
)

const slugInsertAttempts = 3

// Service exposes catalog management operations.
type Service interface {
	List(ctx context.Context) ([]ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a listing.
type CreateProductInput struct {
	Title       string
	Description *string
	Category    *string
	ImageURL    []string
	Tags        []string
	Variants    []string
	Available   *bool
}

// UpdateProductInput holds optional mutation values for a listing.
type UpdateProductInput struct {
	Title       *string
	Description *string
	Category    *string
	ImageURL    *[]string
	Tags        *[]string
	Variants    *[]string
	Available   *bool
}

type productStore interface {
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
}

type service struct {
	repo productStore
}

// NewService constructs a product service instance.
func NewService(repo productStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// List returns the catalog, newest first.
func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return NewProductDTOs(products), nil
}

// Get loads a single listing.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return NewProductDTO(product), nil
}

// Create inserts a new listing, allocating a unique slug from the title.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	base := slugify(title)
	slug := base
	var lastErr error
	for attempt := 0; attempt < slugInsertAttempts; attempt++ {
		product := &models.Product{
			Title:       title,
			Slug:        slug,
			Description: input.Description,
			Category:    input.Category,
			ImageURL:    normalizeList(input.ImageURL),
			Tags:        normalizeList(input.Tags),
			Variants:    normalizeList(input.Variants),
			Available:   available,
		}
		created, err := s.repo.CreateProduct(ctx, product)
		if err == nil {
			return NewProductDTO(created), nil
		}
		if !db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		lastErr = err
		slug = fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, lastErr, "could not allocate a unique product slug")
}

// Update patches the supplied fields, keeping existing values otherwise.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		product.Title = title
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		product.Category = input.Category
	}
	if input.ImageURL != nil {
		product.ImageURL = normalizeList(*input.ImageURL)
	}
	if input.Tags != nil {
		product.Tags = normalizeList(*input.Tags)
	}
	if input.Variants != nil {
		product.Variants = normalizeList(*input.Variants)
	}
	if input.Available != nil {
		product.Available = *input.Available
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

// Delete removes the listing.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "product is referenced by existing quotes")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStripRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = uuid.NewString()[:8]
	}
	return slug
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
