package catalog

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/get_brand"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/get_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/list_products"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/batch_delete_products"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/create_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/delete_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/update_product"
)

// DefaultMaxBodyBytes bounds a mutation request including its uploads.
const DefaultMaxBodyBytes = 64 << 20

// Handler adapts HTTP requests to the catalog interactors and queries.
type Handler struct {
	Create       *create_product.Interactor
	Update       *update_product.Interactor
	Delete       *delete_product.Interactor
	BatchDelete  *batch_delete_products.Interactor
	Get          *get_product.Handler
	List         *list_products.Handler
	Brand        *get_brand.Handler
	MaxBodyBytes int64
	logger       hclog.Logger
}

func NewHandler(
	create *create_product.Interactor,
	update *update_product.Interactor,
	del *delete_product.Interactor,
	batch *batch_delete_products.Interactor,
	readModel contracts.ReadModel,
	logger hclog.Logger,
) *Handler {
	return &Handler{
		Create:       create,
		Update:       update,
		Delete:       del,
		BatchDelete:  batch,
		Get:          get_product.NewHandler(readModel),
		List:         list_products.NewHandler(readModel),
		Brand:        get_brand.NewHandler(readModel),
		MaxBodyBytes: DefaultMaxBodyBytes,
		logger:       logger,
	}
}

// CreateProduct handles POST /products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)

	var req create_product.Request
	files, err := decodeMutation(r, &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.Thumbnail = files.thumbnail
	req.Images = files.images
	req.VariationImages = files.variationImages

	p, err := h.Create.Execute(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.FromProduct(p, nil))
}

// UpdateProduct handles PUT /products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)

	var req update_product.Request
	files, err := decodeMutation(r, &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.ProductID = mux.Vars(r)["id"]
	req.Thumbnail = files.thumbnail
	req.Images = files.images
	req.VariationImages = files.variationImages

	p, err := h.Update.Execute(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromProduct(p, nil))
}

// DeleteProduct handles DELETE /products/{id}?expectedVersion=N
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	req := delete_product.Request{ProductID: mux.Vars(r)["id"]}
	if v := r.URL.Query().Get("expectedVersion"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, h.logger, domain.NewValidationError("expectedVersion", "expectedVersion must be an integer"))
			return
		}
		req.ExpectedVersion = &n
	}

	if err := h.Delete.Execute(r.Context(), req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchDeleteProducts handles POST /products/batch-delete with {"ids": [...]}
func (h *Handler) BatchDeleteProducts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)

	var req batch_delete_products.Request
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	n, err := h.BatchDelete.Execute(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DeleteResultDTO{Deleted: n})
}

// GetProduct handles GET /products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Get.Execute(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListProducts handles GET /products?brand=&category=&featured=&page=&limit=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	page, err := h.List.Execute(r.Context(), f)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetBrand handles GET /brands/{id}
func (h *Handler) GetBrand(w http.ResponseWriter, r *http.Request) {
	b, err := h.Brand.Execute(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func parseFilter(r *http.Request) (contracts.ProductFilter, error) {
	q := r.URL.Query()
	f := contracts.ProductFilter{
		BrandID:    q.Get("brand"),
		CategoryID: q.Get("category"),
	}

	if v := q.Get("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, domain.NewValidationError("featured", "featured must be true or false")
		}
		f.Featured = &b
	}

	var err error
	if f.Page, err = intParam(q.Get("page"), "page"); err != nil {
		return f, err
	}
	if f.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return f, err
	}
	return f, nil
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.NewValidationError(name, name+" must be an integer")
	}
	return n, nil
}
