package handler

import (
	"net/http"

	"catalog-api/internal/model"
	"catalog-api/internal/respond"
	"catalog-api/internal/service"
)

// TaxonomyHandler serves categories, brands and companies.
type TaxonomyHandler struct {
	service *service.TaxonomyService
}

func NewTaxonomyHandler(service *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: service}
}

func (h *TaxonomyHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, items)
}

// ListWithProducts is the company listing, each entry carrying its products.
func (h *TaxonomyHandler) ListWithProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListWithProducts(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, items)
}

func (h *TaxonomyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, item)
}

func (h *TaxonomyHandler) Products(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	products, err := h.service.Products(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, products)
}

func (h *TaxonomyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.TaxonomyRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	item, err := h.service.Create(r.Context(), payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusCreated, item)
}

func (h *TaxonomyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var payload model.TaxonomyPatch
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	item, err := h.service.Update(r.Context(), id, payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, item)
}

func (h *TaxonomyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, model.Empty{})
}
