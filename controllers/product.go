package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"

	"furniture-store/models"
	"furniture-store/services"
)

// UploadLimits bounds the multipart "images" field.
type UploadLimits struct {
	MaxFiles    int
	MaxFileSize int64
}

// ProductController handles product-related requests
type ProductController struct {
	responder
	catalog *services.CatalogService
	limits  UploadLimits
}

// NewProductController creates a new ProductController
func NewProductController(catalog *services.CatalogService, limits UploadLimits, r *render.Render) *ProductController {
	return &ProductController{responder: responder{render: r}, catalog: catalog, limits: limits}
}

// GetProducts lists active products. Query: category, search, minPrice,
// maxPrice, sort (price-asc|price-desc).
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	q, err := productQuery(r)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	products, err := pc.catalog.ListProducts(r.Context(), q)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.ok(w, http.StatusOK, envelope{"count": len(products), "products": products})
}

func productQuery(r *http.Request) (models.ProductQuery, error) {
	v := r.URL.Query()
	q := models.ProductQuery{
		Category: models.Category(strings.ToLower(v.Get("category"))),
		Search:   strings.TrimSpace(v.Get("search")),
		Sort:     models.ProductSort(v.Get("sort")),
	}
	switch q.Sort {
	case models.SortNewest, models.SortPriceAsc, models.SortPriceDesc:
	default:
		q.Sort = models.SortNewest
	}
	for name, dst := range map[string]**float64{"minPrice": &q.MinPrice, "maxPrice": &q.MaxPrice} {
		raw := v.Get(name)
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, services.BadRequest("Invalid %s", name)
		}
		*dst = &f
	}
	return q, nil
}

// GetProductByID retrieves a single product
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	product, err := pc.catalog.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.ok(w, http.StatusOK, envelope{"product": product})
}

// GetAllProducts is the admin listing, inactive products included
func (pc *ProductController) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := pc.catalog.ListAllProducts(r.Context())
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.ok(w, http.StatusOK, envelope{"count": len(products), "products": products})
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	in, uploads, err := pc.readProduct(w, r)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	product, err := pc.catalog.CreateProduct(r.Context(), in, uploads)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.ok(w, http.StatusCreated, envelope{"product": product})
}

// UpdateProduct handles updating product details (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	in, uploads, err := pc.readProduct(w, r)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	product, err := pc.catalog.UpdateProduct(r.Context(), mux.Vars(r)["id"], in, uploads)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.ok(w, http.StatusOK, envelope{"product": product})
}

// DeleteProduct handles deleting a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := pc.catalog.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.message(w, http.StatusOK, "Product deleted")
}

// readProduct accepts either a JSON body or a multipart form whose "images"
// field carries the files.
func (pc *ProductController) readProduct(w http.ResponseWriter, r *http.Request) (services.ProductInput, []services.Upload, error) {
	var in services.ProductInput
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return in, nil, decode(r, &in)
	}

	limit := int64(pc.limits.MaxFiles)*pc.limits.MaxFileSize + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return in, nil, &services.Error{Status: http.StatusBadRequest, Message: "Invalid multipart form", Err: err}
	}
	form := r.MultipartForm

	str := func(key string) *string {
		if vals, ok := form.Value[key]; ok && len(vals) > 0 {
			s := vals[0]
			return &s
		}
		return nil
	}
	in.Name = str("name")
	in.Description = str("description")
	in.Category = str("category")
	in.Material = str("material")
	in.Color = str("color")
	in.Dimensions = str("dimensions")
	in.Tag = str("tag")
	if s := str("price"); s != nil {
		f, err := strconv.ParseFloat(*s, 64)
		if err != nil {
			return in, nil, services.BadRequest("Invalid price")
		}
		in.Price = &f
	}
	if s := str("stock"); s != nil {
		n, err := strconv.Atoi(*s)
		if err != nil {
			return in, nil, services.BadRequest("Invalid stock")
		}
		in.Stock = &n
	}
	if s := str("isActive"); s != nil {
		b, err := strconv.ParseBool(*s)
		if err != nil {
			return in, nil, services.BadRequest("Invalid isActive")
		}
		in.IsActive = &b
	}
	for _, v := range form.Value["removeImages"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				in.RemoveImages = append(in.RemoveImages, id)
			}
		}
	}

	files := form.File["images"]
	if len(files) > pc.limits.MaxFiles {
		return in, nil, services.BadRequest("At most %d images are allowed", pc.limits.MaxFiles)
	}
	uploads := make([]services.Upload, 0, len(files))
	for _, fh := range files {
		if fh.Size > pc.limits.MaxFileSize {
			return in, nil, services.BadRequest("%s exceeds the %dMB limit", fh.Filename, pc.limits.MaxFileSize>>20)
		}
		f, err := fh.Open()
		if err != nil {
			return in, nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return in, nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, services.Upload{Filename: fh.Filename, Data: data})
	}
	return in, uploads, nil
}
