package handler

import (
	"net/http"

	"catalog-api/internal/model"
	"catalog-api/internal/respond"
	"catalog-api/internal/service"
)

type ExpenseHandler struct {
	service *service.ExpenseService
}

func NewExpenseHandler(service *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.ExpenseRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	expense, err := h.service.Create(r.Context(), currentUser(r).ID, payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.service.List(r.Context(), currentUser(r).ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	expense, err := h.service.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, model.Empty{})
}
