package handler

import (
	"net/http"

	"catalog-api/internal/model"
	"catalog-api/internal/respond"
	"catalog-api/internal/service"
)

type ConversationHandler struct {
	service *service.ConversationService
}

func NewConversationHandler(service *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateConversationRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	conversation, err := h.service.Create(r.Context(), currentUser(r), payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusCreated, conversation)
}

func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.service.List(r.Context(), currentUser(r).ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, conversations)
}

func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	conversation, err := h.service.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, conversation)
}

func (h *ConversationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var payload model.UpdateConversationRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	conversation, err := h.service.Update(r.Context(), currentUser(r).ID, id, payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, conversation)
}

func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var payload model.SendMessageRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	message, err := h.service.SendMessage(r.Context(), currentUser(r).ID, id, payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusCreated, message)
}

func (h *ConversationHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	messages, err := h.service.Messages(r.Context(), currentUser(r).ID, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, messages)
}
