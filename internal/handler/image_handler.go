package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"catalog-api/internal/respond"
	"catalog-api/internal/storage"
	"catalog-api/internal/util"
)

// ImageHandler serves stored uploads under /images/.
type ImageHandler struct {
	store storage.Store
}

func NewImageHandler(store storage.Store) *ImageHandler {
	return &ImageHandler{store: store}
}

func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	clientPath := path.Join("images", chi.URLParam(r, "*"))
	if !util.IsImageExtension(path.Ext(clientPath)) {
		respond.Fail(w, http.StatusNotFound, "Not found")
		return
	}

	file, err := h.store.OpenForRead(clientPath)
	if errors.Is(err, fs.ErrNotExist) {
		respond.Fail(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		respond.Fail(w, http.StatusNotFound, "Not found")
		return
	}

	head := make([]byte, 512)
	n, _ := file.Read(head)
	if _, err := file.Seek(0, 0); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", util.DetectMIME(head[:n]))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}
