package handler

import (
	"net/http"

	"github.com/bloghub-dev/bloghub/shared/api"
	"github.com/bloghub-dev/bloghub/shared/domain"
	"github.com/bloghub-dev/bloghub/shared/utils"
)

// Register creates a new user account.
// POST /v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, err := h.auth.Register(
		domain.Credentials{Email: req.Email, Password: req.Password},
		domain.UserSettings{AutoReplyEnabled: req.AutoReplyEnabled, ReplyDelayMinutes: req.ReplyDelayMinutes},
	)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and issues an access token. The token is both
// returned in the body (API clients) and set as a cookie (browser clients).
// POST /v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, err := h.auth.Login(domain.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, api.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me returns the authenticated user's profile and auto-reply settings.
// GET /v1/users/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := requireUser(w, r)
	if claims == nil {
		return
	}

	user, err := h.auth.Me(claims.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateSettings updates the authenticated user's auto-reply settings.
// PATCH /v1/users/me
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	claims := requireUser(w, r)
	if claims == nil {
		return
	}

	var req api.UpdateUserSettingsRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, err := h.auth.UpdateSettings(claims.Id, domain.UserSettings{
		AutoReplyEnabled:  req.AutoReplyEnabled,
		ReplyDelayMinutes: req.ReplyDelayMinutes,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
