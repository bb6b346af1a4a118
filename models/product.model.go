package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategorySofas    Category = "sofas"
	CategoryChairs   Category = "chairs"
	CategoryTables   Category = "tables"
	CategoryBeds     Category = "beds"
	CategoryStorage  Category = "storage"
	CategoryDecor    Category = "decor"
	CategoryLighting Category = "lighting"
	CategoryOutdoor  Category = "outdoor"
)

var Categories = []Category{
	CategorySofas,
	CategoryChairs,
	CategoryTables,
	CategoryBeds,
	CategoryStorage,
	CategoryDecor,
	CategoryLighting,
	CategoryOutdoor,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// TagNew marks a product for the "new" badge while it is inside NewBadgeWindow.
const TagNew = "new"

const NewBadgeWindow = 14 * 24 * time.Hour

// ProductImage is a hosted image: the host's identifier and its public URL.
type ProductImage struct {
	PublicID string `bson:"publicId" json:"publicId"`
	URL      string `bson:"url" json:"url"`
}

// Product represents a catalog item
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    Category           `bson:"category" json:"category"`
	Stock       int                `bson:"stock" json:"stock"`
	Images      []ProductImage     `bson:"images" json:"images"`
	Material    string             `bson:"material,omitempty" json:"material,omitempty"`
	Color       string             `bson:"color,omitempty" json:"color,omitempty"`
	Dimensions  string             `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	Tag         string             `bson:"tag,omitempty" json:"tag,omitempty"`
	IsNew       bool               `bson:"-" json:"isNew"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsNewAt reports whether the product shows the "new" badge at the given time.
func (p *Product) IsNewAt(now time.Time) bool {
	return p.Tag == TagNew && now.Sub(p.CreatedAt) < NewBadgeWindow
}

// PrimaryImage returns the URL of the first image, or "".
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

type ProductSort string

const (
	SortNewest    ProductSort = ""
	SortPriceAsc  ProductSort = "price-asc"
	SortPriceDesc ProductSort = "price-desc"
)

// ProductQuery filters the catalog listing. Nil bounds are not applied.
type ProductQuery struct {
	Category        Category
	Search          string
	MinPrice        *float64
	MaxPrice        *float64
	Sort            ProductSort
	IncludeInactive bool
}
