package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bloghub-dev/bloghub/shared/domain"
	"github.com/bloghub-dev/bloghub/shared/errors"
	"github.com/bloghub-dev/bloghub/shared/logger"
	"github.com/bloghub-dev/bloghub/shared/middleware"
	"github.com/bloghub-dev/bloghub/shared/utils"
)

// requireUser returns the authenticated user from the request context, or
// writes 401 and returns nil. The auth middleware normally guarantees the
// user is present.
func requireUser(w http.ResponseWriter, r *http.Request) *domain.User {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}
	return user
}

// parseIdParam parses a numeric id path parameter.
func parseIdParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &errors.ErrorWithStatusCode{Message: fmt.Sprintf("Invalid %s id", name), StatusCode: http.StatusBadRequest}
	}
	return id, nil
}

// parsePagination resolves limit/offset query params against the configured
// defaults, clamping limit to the max page size.
func (h *Handler) parsePagination(r *http.Request) (limit, offset int) {
	limit = h.cfg.Public.PostsPerPage
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > h.cfg.Public.MaxPageSize {
		limit = h.cfg.Public.MaxPageSize
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// writeServiceError passes through errors that already carry a status code
// (not found, moderation rejection, validation). Anything else is an
// unexpected persistence failure: log it and answer with the generic
// fallback message.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var e *errors.ErrorWithStatusCode
	if stderrors.As(err, &e) {
		utils.WriteErrorAndStatusCode(w, e)
		return
	}
	logger.Log.Error(fallback, "error", err)
	utils.WriteErrorAndStatusCode(w, &errors.ErrorWithStatusCode{Message: fallback, StatusCode: http.StatusUnprocessableEntity})
}
