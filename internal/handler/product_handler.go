package handler

import (
	"errors"
	"net/http"
	"strconv"

	"catalog-api/internal/model"
	"catalog-api/internal/respond"
	"catalog-api/internal/service"
	"catalog-api/internal/upload"
	"catalog-api/pkg/apierror"
)

const (
	productImageDir    = "images/products"
	productImagePrefix = "product"
	maxProductImages   = 10
)

type ProductHandler struct {
	service  *service.ProductService
	uploader *upload.Uploader
}

func NewProductHandler(service *service.ProductService, uploader *upload.Uploader) *ProductHandler {
	return &ProductHandler{service: service, uploader: uploader}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, product)
}

func (h *ProductHandler) ReviewsSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	product, err := h.service.GetWithReviews(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateProductRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	product, err := h.service.Create(r.Context(), currentUser(r).ID, payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var payload model.UpdateProductRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	product, err := h.service.Update(r.Context(), id, payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
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

func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.uploader.Parse(w, r, 1, "image"); err != nil {
		respond.Error(w, r, err)
		return
	}
	file, err := h.uploader.Single(r, "image", productImageDir, productImagePrefix)
	if err != nil {
		respond.Error(w, r, uploadError(err))
		return
	}
	defer file.Cleanup()

	product, err := h.service.SetImage(r.Context(), id, file.URL)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	file.Keep()

	respond.Success(w, http.StatusOK, product)
}

// UploadImages appends to the gallery; ?replace=true swaps it out.
func (h *ProductHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	replace, _ := strconv.ParseBool(r.URL.Query().Get("replace"))

	if err := h.uploader.Parse(w, r, maxProductImages, "images"); err != nil {
		respond.Error(w, r, err)
		return
	}
	batch, err := h.uploader.Multiple(r, "images", maxProductImages, productImageDir, productImagePrefix)
	if err != nil {
		respond.Error(w, r, uploadError(err))
		return
	}
	defer batch.Cleanup()

	product, message, err := h.service.AddImages(r.Context(), id, batch.URLs(), replace)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	batch.Keep()

	respond.SuccessMessage(w, http.StatusOK, message, product)
}

// uploadError turns a missing file into the client-facing 400.
func uploadError(err error) error {
	if errors.Is(err, upload.ErrNoFile) {
		return apierror.BadRequest("Please upload an image")
	}
	return err
}
