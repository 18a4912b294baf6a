package handler

import (
	"net/http"

	"catalog-api/internal/model"
	"catalog-api/internal/respond"
	"catalog-api/internal/service"
)

// ReviewHandler is mounted at /reviews and at /products/{productId}/reviews.
type ReviewHandler struct {
	service *service.ReviewService
}

func NewReviewHandler(service *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	productID, err := optionalPathID(r, "productId")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	reviews, err := h.service.List(r.Context(), productID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, id, err := reviewIDs(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	review, err := h.service.Get(r.Context(), productID, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, review)
}

// Create takes the product from the nested route, or from ?product= on the top-level one.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	productID, err := optionalPathID(r, "productId")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if productID == "" {
		productID = r.URL.Query().Get("product")
	}

	var payload model.ReviewRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	review, err := h.service.Create(r.Context(), productID, currentUser(r), payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusCreated, review)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID, id, err := reviewIDs(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var payload model.ReviewPatch
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	review, err := h.service.Update(r.Context(), productID, id, currentUser(r), payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, review)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, id, err := reviewIDs(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), productID, id, currentUser(r)); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, model.Empty{})
}

func reviewIDs(r *http.Request) (string, string, error) {
	productID, err := optionalPathID(r, "productId")
	if err != nil {
		return "", "", err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return "", "", err
	}
	return productID, id, nil
}
