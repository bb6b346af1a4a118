package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"furniture-store/models"
	"furniture-store/utils"
)

// Upload is one file received in a multipart form.
type Upload struct {
	Filename string
	Data     []byte
}

// ProductInput carries the editable product fields. On update, nil fields
// keep their stored value.
type ProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Material    *string  `json:"material"`
	Color       *string  `json:"color"`
	Dimensions  *string  `json:"dimensions"`
	IsActive    *bool    `json:"isActive"`
	Tag         *string  `json:"tag"`
	// RemoveImages lists publicIds to drop from the product on update.
	RemoveImages []string `json:"removeImages"`
}

type CatalogService struct {
	products ProductStore
	images   utils.ImageHost
	now      Clock
}

func NewCatalogService(products ProductStore, images utils.ImageHost) *CatalogService {
	return &CatalogService{products: products, images: images, now: time.Now}
}

func (s *CatalogService) withBadges(products []models.Product) []models.Product {
	now := s.now()
	for i := range products {
		products[i].IsNew = products[i].IsNewAt(now)
	}
	return products
}

// ListProducts returns the active products matching q, each with its isNew
// badge computed for the current time.
func (s *CatalogService) ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	if q.Category != "" && !q.Category.Valid() {
		return nil, BadRequest("Invalid category")
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, BadRequest("minPrice cannot exceed maxPrice")
	}
	q.IncludeInactive = false
	products, err := s.products.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.withBadges(products), nil
}

// ListAllProducts is the back-office listing; inactive products are included.
func (s *CatalogService) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.Find(ctx, models.ProductQuery{IncludeInactive: true})
	if err != nil {
		return nil, err
	}
	return s.withBadges(products), nil
}

// GetProduct returns an active product. Inactive products are NotFound here;
// the back-office reaches them through ListAllProducts.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, NotFound("Product not found")
	}
	return product, nil
}

// find loads a product whatever its active flag.
func (s *CatalogService) find(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, oid)
	if isNotFound(err) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}
	product.IsNew = product.IsNewAt(s.now())
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput, uploads []Upload) (*models.Product, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, BadRequest("name is required")
	}
	if in.Price == nil {
		return nil, BadRequest("price is required")
	}
	if in.Category == nil {
		return nil, BadRequest("category is required")
	}
	now := s.now()
	product := &models.Product{IsActive: true, CreatedAt: now}
	if err := s.apply(product, in); err != nil {
		return nil, err
	}
	product.UpdatedAt = now

	images, err := s.upload(ctx, uploads)
	if err != nil {
		return nil, err
	}
	product.Images = images

	if err := s.products.Create(ctx, product); err != nil {
		s.discard(ctx, images)
		return nil, err
	}
	product.IsNew = product.IsNewAt(now)
	logrus.WithFields(logrus.Fields{"product": product.ID.Hex(), "images": len(images)}).Info("product created")
	return product, nil
}

// UpdateProduct applies the non-nil fields of in, removes the images listed in
// in.RemoveImages and appends uploads.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput, uploads []Upload) (*models.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(product, in); err != nil {
		return nil, err
	}

	var removed []models.ProductImage
	if len(in.RemoveImages) > 0 {
		drop := make(map[string]bool, len(in.RemoveImages))
		for _, pid := range in.RemoveImages {
			drop[pid] = true
		}
		kept := product.Images[:0:0]
		for _, img := range product.Images {
			if drop[img.PublicID] {
				removed = append(removed, img)
				continue
			}
			kept = append(kept, img)
		}
		product.Images = kept
	}

	added, err := s.upload(ctx, uploads)
	if err != nil {
		return nil, err
	}
	product.Images = append(product.Images, added...)
	product.UpdatedAt = s.now()

	if err := s.products.Update(ctx, product); err != nil {
		s.discard(ctx, added)
		if isNotFound(err) {
			return nil, NotFound("Product not found")
		}
		return nil, err
	}
	s.discard(ctx, removed)
	product.IsNew = product.IsNewAt(s.now())
	return product, nil
}

// DeleteProduct removes the product and then its hosted images.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, product.ID); err != nil {
		if isNotFound(err) {
			return NotFound("Product not found")
		}
		return err
	}
	s.discard(ctx, product.Images)
	return nil
}

func (s *CatalogService) apply(p *models.Product, in ProductInput) error {
	if err := check(in); err != nil {
		return err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return BadRequest("name is required")
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Category != nil {
		c := models.Category(strings.ToLower(strings.TrimSpace(*in.Category)))
		if !c.Valid() {
			return BadRequest("Invalid category")
		}
		p.Category = c
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Material != nil {
		p.Material = *in.Material
	}
	if in.Color != nil {
		p.Color = *in.Color
	}
	if in.Dimensions != nil {
		p.Dimensions = *in.Dimensions
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.Tag != nil {
		p.Tag = strings.ToLower(strings.TrimSpace(*in.Tag))
	}
	return nil
}

// upload sends every file to the image host. On failure the files already
// uploaded are removed again.
func (s *CatalogService) upload(ctx context.Context, uploads []Upload) ([]models.ProductImage, error) {
	images := make([]models.ProductImage, 0, len(uploads))
	for _, u := range uploads {
		img, err := s.images.Upload(ctx, u.Filename, u.Data)
		if err != nil {
			s.discard(ctx, images)
			if errors.Is(err, utils.ErrUnsupportedImage) {
				return nil, BadRequest("%s", err.Error())
			}
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func (s *CatalogService) discard(ctx context.Context, images []models.ProductImage) {
	for _, img := range images {
		if err := s.images.Delete(ctx, img.PublicID); err != nil {
			logrus.WithError(err).WithField("publicId", img.PublicID).Warn("failed to delete hosted image")
		}
	}
}

func parseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, BadRequest("Invalid %s ID", what)
	}
	return id, nil
}
