package handlers

import (
	"net/http"
	"strconv"

	"toko-olahraga/internal/models"
	"toko-olahraga/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type CatalogHandler struct {
	catalog *services.CatalogService
	logger  zerolog.Logger
}

func NewCatalogHandler(catalog *services.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.catalog.ListCategories())
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	category, err := h.catalog.AddCategory(req.ID, req.Name, req.Description)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_category_id", "Invalid category ID")
		return
	}

	var upd models.CategoryUpdate
	if err := decodeJSON(r, &upd); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.catalog.EditCategory(id, upd); err != nil {
		respondWithServiceError(w, err)
		return
	}

	category, err := h.catalog.Category(id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, category)
}

// ListProducts renders the catalog with 1-based positions. ?mode=rental
// reports per-day rental prices.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	rental := r.URL.Query().Get("mode") == string(models.TransactionKindRental)
	respondWithJSON(w, http.StatusOK, h.catalog.Listings(rental))
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDVar(w, r, "id")
	if !ok {
		return
	}

	product, err := h.catalog.Product(id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) GetProductAt(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_index", "Invalid product index")
		return
	}

	product, err := h.catalog.ProductAt(index)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.NewProduct
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	product, err := h.catalog.AddProduct(req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDVar(w, r, "id")
	if !ok {
		return
	}

	var upd models.ProductUpdate
	if err := decodeJSON(r, &upd); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.catalog.EditProduct(id, upd); err != nil {
		respondWithServiceError(w, err)
		return
	}

	product, err := h.catalog.Product(id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDVar(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(id); err != nil {
		respondWithServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDVar(w, r, "id")
	if !ok {
		return
	}

	var req models.StockAdjustRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	stock, err := h.catalog.AdjustStock(id, req.Delta)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"stock": stock})
}

func productIDVar(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_product_id", "Invalid product ID")
		return uuid.Nil, false
	}
	return id, true
}
