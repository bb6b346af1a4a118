package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furniture-store/models"
)

func strp(s string) *string     { return &s }
func floatp(f float64) *float64 { return &f }
func intp(i int) *int           { return &i }
func boolp(b bool) *bool        { return &b }

func newCatalogFixture() (*CatalogService, *fakeProducts, *fakeImages, time.Time) {
	products, images := newFakeProducts(), &fakeImages{}
	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	svc := NewCatalogService(products, images)
	svc.now = fixedClock(now)
	return svc, products, images, now
}

func TestListProductsDerivesIsNew(t *testing.T) {
	svc, products, _, now := newCatalogFixture()
	fresh := products.add(models.Product{Name: "Fresh", Tag: models.TagNew, IsActive: true, CreatedAt: now.Add(-24 * time.Hour)})
	stale := products.add(models.Product{Name: "Stale", Tag: models.TagNew, IsActive: true, CreatedAt: now.Add(-20 * 24 * time.Hour)})
	products.add(models.Product{Name: "Hidden", IsActive: false, CreatedAt: now})

	list, err := svc.ListProducts(context.Background(), models.ProductQuery{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, list, 2, "inactive products are never listed publicly")

	byID := map[string]bool{}
	for _, p := range list {
		byID[p.Name] = p.IsNew
	}
	assert.True(t, byID[fresh.Name])
	assert.False(t, byID[stale.Name])

	all, err := svc.ListAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListProductsRejectsBadQuery(t *testing.T) {
	svc, _, _, _ := newCatalogFixture()
	_, err := svc.ListProducts(context.Background(), models.ProductQuery{Category: "spaceships"})
	requireServiceError(t, err, http.StatusBadRequest, "Invalid category")

	_, err = svc.ListProducts(context.Background(), models.ProductQuery{MinPrice: floatp(10), MaxPrice: floatp(5)})
	requireServiceError(t, err, http.StatusBadRequest, "")
}

func TestCreateProductUploadsImages(t *testing.T) {
	svc, products, images, now := newCatalogFixture()

	p, err := svc.CreateProduct(context.Background(), ProductInput{
		Name: strp("Oak Chair"), Price: floatp(4999), Category: strp("Chairs"), Stock: intp(3), Tag: strp("new"),
	}, []Upload{{Filename: "a.jpg"}, {Filename: "b.jpg"}})
	require.NoError(t, err)

	assert.Equal(t, models.CategoryChairs, p.Category)
	assert.True(t, p.IsActive)
	assert.True(t, p.IsNew)
	assert.Equal(t, now, p.CreatedAt)
	require.Len(t, p.Images, 2)
	assert.Equal(t, "https://cdn.test/a.jpg", p.PrimaryImage())
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, images.uploaded)

	stored, err := products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oak Chair", stored.Name)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, _, _ := newCatalogFixture()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, ProductInput{Price: floatp(1), Category: strp("sofas")}, nil)
	requireServiceError(t, err, http.StatusBadRequest, "name is required")

	_, err = svc.CreateProduct(ctx, ProductInput{Name: strp("X"), Price: floatp(-1), Category: strp("sofas")}, nil)
	requireServiceError(t, err, http.StatusBadRequest, "")

	_, err = svc.CreateProduct(ctx, ProductInput{Name: strp("X"), Price: floatp(1), Category: strp("boats")}, nil)
	requireServiceError(t, err, http.StatusBadRequest, "Invalid category")

	_, err = svc.CreateProduct(ctx, ProductInput{Name: strp("X"), Price: floatp(1), Category: strp("sofas"), Stock: intp(-2)}, nil)
	requireServiceError(t, err, http.StatusBadRequest, "")
}

func TestCreateProductUploadFailure(t *testing.T) {
	svc, products, images, _ := newCatalogFixture()
	images.err = errors.New("cdn down")

	_, err := svc.CreateProduct(context.Background(), ProductInput{
		Name: strp("X"), Price: floatp(1), Category: strp("decor"),
	}, []Upload{{Filename: "a.jpg"}})
	require.Error(t, err)
	n, _ := products.Count(context.Background())
	assert.Zero(t, n)
}

func TestUpdateProduct(t *testing.T) {
	svc, products, images, _ := newCatalogFixture()
	p := products.add(models.Product{
		Name: "Bench", Price: 100, Category: models.CategoryOutdoor, Stock: 2, IsActive: true,
		Images: []models.ProductImage{{PublicID: "old1", URL: "u1"}, {PublicID: "old2", URL: "u2"}},
	})

	updated, err := svc.UpdateProduct(context.Background(), p.ID.Hex(), ProductInput{
		Price: floatp(120), IsActive: boolp(false), RemoveImages: []string{"old1"},
	}, []Upload{{Filename: "new.jpg"}})
	require.NoError(t, err)

	assert.Equal(t, "Bench", updated.Name, "nil fields are kept")
	assert.Equal(t, 120.0, updated.Price)
	assert.False(t, updated.IsActive)
	assert.Equal(t, []string{"old2", "img/new.jpg"}, []string{updated.Images[0].PublicID, updated.Images[1].PublicID})
	assert.Equal(t, []string{"old1"}, images.deleted)

	_, err = svc.UpdateProduct(context.Background(), "64b7f0f0f0f0f0f0f0f0f0f0", ProductInput{}, nil)
	requireServiceError(t, err, http.StatusNotFound, "Product not found")
}

func TestDeleteProductRemovesImages(t *testing.T) {
	svc, products, images, _ := newCatalogFixture()
	p := products.add(models.Product{Name: "Vase", Images: []models.ProductImage{{PublicID: "v1"}}})

	require.NoError(t, svc.DeleteProduct(context.Background(), p.ID.Hex()))
	assert.Equal(t, []string{"v1"}, images.deleted)
	_, err := svc.GetProduct(context.Background(), p.ID.Hex())
	requireServiceError(t, err, http.StatusNotFound, "Product not found")

	requireServiceError(t, svc.DeleteProduct(context.Background(), "xyz"), http.StatusBadRequest, "Invalid product ID")
}

func TestGetProductHidesInactive(t *testing.T) {
	svc, products, _, _ := newCatalogFixture()
	hidden := products.add(models.Product{Name: "Prototype", IsActive: false})
	shown := products.add(models.Product{Name: "Chair", IsActive: true})

	_, err := svc.GetProduct(context.Background(), hidden.ID.Hex())
	requireServiceError(t, err, http.StatusNotFound, "Product not found")

	p, err := svc.GetProduct(context.Background(), shown.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Chair", p.Name)

	updated, err := svc.UpdateProduct(context.Background(), hidden.ID.Hex(), ProductInput{IsActive: boolp(true)}, nil)
	require.NoError(t, err, "the back-office can still edit inactive products")
	assert.True(t, updated.IsActive)
}
