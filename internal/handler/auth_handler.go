package handler

import (
	"net/http"
	"strings"
	"time"

	"catalog-api/internal/middleware"
	"catalog-api/internal/model"
	"catalog-api/internal/respond"
	"catalog-api/internal/service"
)

const msgResetIssued = "If an account exists, a reset link would be sent. Use the token for reset."

type AuthHandler struct {
	service    *service.AuthService
	production bool
}

func NewAuthHandler(service *service.AuthService, production bool) *AuthHandler {
	return &AuthHandler{service: service, production: production}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	session, err := h.service.Register(r.Context(), payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusCreated, session)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	session, err := h.service.Login(r.Context(), payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, session)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie(r, "", time.Unix(0, 0)))
	respond.Success(w, http.StatusOK, model.Empty{})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Me(r.Context(), currentUser(r).ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, user)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload model.ForgotPasswordRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	ticket, err := h.service.ForgotPassword(r.Context(), payload.Email)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.SuccessMessage(w, http.StatusOK, msgResetIssued, ticket)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload model.ResetPasswordRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	session, err := h.service.ResetPassword(r.Context(), payload.Token, payload.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, session)
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateMeRequest
	if err := bind(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	user, err := h.service.UpdateMe(r.Context(), currentUser(r).ID, payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Success(w, http.StatusOK, user)
}

// writeSession sets the session cookie, expiring with the token, and returns the token in the body as well.
func (h *AuthHandler) writeSession(w http.ResponseWriter, r *http.Request, status int, session model.AuthSession) {
	http.SetCookie(w, h.cookie(r, session.Token, session.ExpiresAt))
	respond.JSON(w, status, model.APIResponse{Success: true, Token: session.Token, Data: session})
}

func (h *AuthHandler) cookie(r *http.Request, value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: h.production,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteStrictMode,
	}
	if value == "" {
		c.MaxAge = -1
	}
	return c
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
