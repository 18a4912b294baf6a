package handler

import (
	"net/http"

	"catalog-api/internal/model"
	"catalog-api/internal/respond"
	"catalog-api/internal/service"
)

type CartHandler struct {
	service *service.CartService
}

func NewCartHandler(service *service.CartService) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Get(r.Context(), currentUser(r).ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload model.AddToCartRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	cart, err := h.service.AddItem(r.Context(), currentUser(r).ID, payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var payload model.UpdateCartItemRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	cart, err := h.service.UpdateItem(r.Context(), currentUser(r).ID, productID, *payload.Quantity)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), currentUser(r).ID, productID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Clear(r.Context(), currentUser(r).ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, cart)
}
