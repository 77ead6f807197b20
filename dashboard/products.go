package dashboard

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	admin "github.com/samriddha-basu-cloud/kitzcorner-admin"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/docstore"
)

// ProductInput carries the create/edit form fields. Images are hosted asset
// URLs produced by the media uploader.
type ProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Discount    float64  `json:"discount"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
}

func (p ProductInput) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Price, validation.Required, validation.Min(0.0)),
		validation.Field(&p.Discount, validation.Min(0.0), validation.Max(100.0)),
	)
}

// Products is the catalog service backing the product screen.
type Products struct {
	collection *docstore.Collection[admin.Product]
	logger     Logger
}

func NewProducts(collection *docstore.Collection[admin.Product]) *Products {
	return &Products{collection: collection, logger: noopLogger{}}
}

func (s *Products) WithLogger(l Logger) *Products {
	if l != nil {
		s.logger = l
	}
	return s
}

// List returns products matched by the name search, newest first as stored.
// Filtering is in-memory and idempotent.
func (s *Products) List(ctx context.Context, search string) ([]*admin.Product, error) {
	all, err := s.collection.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not list products")
	}

	out := make([]*admin.Product, 0, len(all))
	for _, p := range all {
		if matches(search, p.Name) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Products) Get(ctx context.Context, id string) (*admin.Product, error) {
	return s.collection.Read(ctx, id)
}

func (s *Products) Create(ctx context.Context, in ProductInput) (*admin.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid product payload").
			WithTextCode("INVALID_PAYLOAD")
	}

	now := time.Now()
	record := &admin.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Discount:    in.Discount,
		Category:    strings.TrimSpace(in.Category),
		Images:      in.Images,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}

	if err := s.collection.Create(ctx, record); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not create product")
	}
	return record, nil
}

// Update overwrites the editable fields and bumps the server timestamp.
// CreatedAt is never written from the form.
func (s *Products) Update(ctx context.Context, id string, in ProductInput) (*admin.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid product payload").
			WithTextCode("INVALID_PAYLOAD")
	}

	current, err := s.collection.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	current.Name = strings.TrimSpace(in.Name)
	current.Description = in.Description
	current.Price = in.Price
	current.Discount = in.Discount
	current.Category = strings.TrimSpace(in.Category)
	current.Images = in.Images
	current.UpdatedAt = &now

	if err := s.collection.Replace(ctx, id, current); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not update product")
	}

	// re-fetch so the caller sees exactly what is stored
	return s.collection.Read(ctx, id)
}

func (s *Products) Delete(ctx context.Context, id string) error {
	return s.collection.Delete(ctx, id)
}
