package handler

import (
	"net/http"

	"catalog-api/internal/model"
	"catalog-api/internal/respond"
	"catalog-api/internal/service"
)

type MovieHandler struct {
	service *service.MovieService
}

func NewMovieHandler(service *service.MovieService) *MovieHandler {
	return &MovieHandler{service: service}
}

func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *MovieHandler) Trending(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *MovieHandler) list(w http.ResponseWriter, r *http.Request, trendingOnly bool) {
	movies, err := h.service.List(r.Context(), trendingOnly)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, movies)
}

func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	movie, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, movie)
}

func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.MovieRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	movie, err := h.service.Create(r.Context(), payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusCreated, movie)
}

func (h *MovieHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var payload model.MoviePatch
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	movie, err := h.service.Update(r.Context(), id, payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, movie)
}

func (h *MovieHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

type FavoriteHandler struct {
	service *service.FavoriteService
}

func NewFavoriteHandler(service *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	var payload model.FavoriteRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	favorite, err := h.service.Add(r.Context(), currentUser(r).ID, payload.MovieID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusCreated, favorite)
}

func (h *FavoriteHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.service.ListMine(r.Context(), currentUser(r).ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, favorites)
}

func (h *FavoriteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	favorite, err := h.service.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, favorite)
}

func (h *FavoriteHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
