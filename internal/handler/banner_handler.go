package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"catalog-api/internal/model"
	"catalog-api/internal/respond"
	"catalog-api/internal/service"
	"catalog-api/internal/upload"
	"catalog-api/internal/validate"
	"catalog-api/pkg/apierror"
)

const (
	bannerImageDir    = "images/banners"
	bannerImagePrefix = "banner"
)

// BannerHandler reads multipart forms: an "image" file plus plain text fields.
type BannerHandler struct {
	service  *service.BannerService
	uploader *upload.Uploader
}

func NewBannerHandler(service *service.BannerService, uploader *upload.Uploader) *BannerHandler {
	return &BannerHandler{service: service, uploader: uploader}
}

func (h *BannerHandler) List(w http.ResponseWriter, r *http.Request) {
	banners, err := h.service.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, banners)
}

func (h *BannerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	banner, err := h.service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, banner)
}

func (h *BannerHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := h.uploader.Parse(w, r, 1, "image"); err != nil {
		respond.Error(w, r, err)
		return
	}

	form, err := bannerForm(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := validate.Struct(form); err != nil {
		respond.Error(w, r, err)
		return
	}

	file, err := h.uploader.Single(r, "image", bannerImageDir, bannerImagePrefix)
	if err != nil {
		respond.Error(w, r, uploadError(err))
		return
	}
	defer file.Cleanup()

	banner, err := h.service.Create(r.Context(), form, file.URL)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	file.Keep()

	respond.Success(w, http.StatusCreated, banner)
}

func (h *BannerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.uploader.Parse(w, r, 1, "image"); err != nil {
		respond.Error(w, r, err)
		return
	}

	upd, err := bannerUpdate(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	file, err := h.uploader.Single(r, "image", bannerImageDir, bannerImagePrefix)
	switch {
	case errors.Is(err, upload.ErrNoFile):
	case err != nil:
		respond.Error(w, r, err)
		return
	default:
		defer file.Cleanup()
		upd.ImageURL = &file.URL
	}

	banner, err := h.service.Update(r.Context(), id, upd)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if file != nil {
		file.Keep()
	}

	respond.Success(w, http.StatusOK, banner)
}

func (h *BannerHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func bannerForm(r *http.Request) (model.BannerForm, error) {
	form := model.BannerForm{
		Title:     strings.TrimSpace(r.FormValue("title")),
		TargetURL: strings.TrimSpace(r.FormValue("target_url")),
		IsActive:  true,
	}

	var err error
	if form.StartDate, err = parseFormTime(r.FormValue("start_date")); err != nil {
		return model.BannerForm{}, err
	}
	if raw := r.FormValue("end_date"); strings.TrimSpace(raw) != "" {
		end, err := parseFormTime(raw)
		if err != nil {
			return model.BannerForm{}, err
		}
		form.EndDate = &end
	}
	if raw := r.FormValue("is_active"); raw != "" {
		if form.IsActive, err = strconv.ParseBool(raw); err != nil {
			return model.BannerForm{}, apierror.Cast(err)
		}
	}
	return form, nil
}

// bannerUpdate only sets the fields present in the form.
func bannerUpdate(r *http.Request) (model.BannerUpdate, error) {
	var upd model.BannerUpdate
	values := r.Form

	if values.Has("title") {
		title := strings.TrimSpace(values.Get("title"))
		if err := validate.Var(title, "required,max=200"); err != nil {
			return upd, apierror.Validation("title", "Title is required")
		}
		upd.Title = &title
	}
	if values.Has("target_url") {
		target := strings.TrimSpace(values.Get("target_url"))
		if err := validate.Var(target, "required,url"); err != nil {
			return upd, apierror.Validation("target_url", "Target URL must be a valid URL")
		}
		upd.TargetURL = &target
	}
	for field, dst := range map[string]**time.Time{"start_date": &upd.StartDate, "end_date": &upd.EndDate} {
		if strings.TrimSpace(values.Get(field)) == "" {
			continue
		}
		t, err := parseFormTime(values.Get(field))
		if err != nil {
			return upd, err
		}
		*dst = &t
	}
	if values.Has("is_active") {
		active, err := strconv.ParseBool(values.Get("is_active"))
		if err != nil {
			return upd, apierror.Cast(err)
		}
		upd.IsActive = &active
	}
	return upd, nil
}

// parseFormTime reports an unparseable date as a cast failure.
func parseFormTime(raw string) (time.Time, error) {
	t, err := model.ParseDate(raw)
	if err != nil {
		return time.Time{}, apierror.Cast(err)
	}
	return t, nil
}
