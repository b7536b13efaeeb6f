package handler

import (
	"net/http"
	"time"

	"github.com/bloghub-dev/bloghub/shared/api"
	"github.com/bloghub-dev/bloghub/shared/domain"
	"github.com/bloghub-dev/bloghub/shared/errors"
	"github.com/bloghub-dev/bloghub/shared/messages"
	"github.com/bloghub-dev/bloghub/shared/utils"
)

const dateLayout = "2006-01-02"

func (h *Handler) commentResponse(comment domain.Comment) api.CommentResponse {
	return api.CommentResponse{Comment: comment, DescriptionHTML: h.renderer.Render(comment.Description)}
}

// CreateComment creates a comment on a post. A clean create schedules the
// author's auto-reply; a moderation rejection stores the comment flagged and
// answers 400.
// POST /v1/posts/{post}/comments
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	postId, err := parseIdParam(r, "post")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var req api.CreateCommentRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.comments.Create(r.Context(), postId, user.Id, req.Description, req.ParentCommentId)
	if err != nil {
		writeServiceError(w, err, messages.FailedToCreateComment)
		return
	}
	writeJSON(w, http.StatusCreated, h.commentResponse(comment))
}

// GetComments lists the authenticated user's comments on a post, oldest first.
// GET /v1/posts/{post}/comments
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	postId, err := parseIdParam(r, "post")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comments, err := h.comments.GetByPost(postId, user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if len(comments) == 0 {
		utils.WriteErrorAndStatusCode(w, &errors.ErrorWithStatusCode{Message: messages.NoCommentsFound(postId), StatusCode: http.StatusNotFound})
		return
	}

	resp := api.CommentListResponse{Comments: make([]api.CommentResponse, 0, len(comments))}
	for _, comment := range comments {
		resp.Comments = append(resp.Comments, h.commentResponse(comment))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetComment fetches one comment scoped to both its post and the
// authenticated user.
// GET /v1/posts/{post}/comments/{comment}
func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	postId, err := parseIdParam(r, "post")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	commentId, err := parseIdParam(r, "comment")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.comments.GetOneByPost(postId, commentId, user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.commentResponse(comment))
}

// UpdateComment replaces a comment's description. A moderation rejection
// leaves the stored comment untouched.
// PUT /v1/comments/{comment}
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	commentId, err := parseIdParam(r, "comment")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var req api.UpdateCommentRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.comments.Update(r.Context(), commentId, user.Id, req.Description)
	if err != nil {
		writeServiceError(w, err, messages.FailedToUpdateComment)
		return
	}
	writeJSON(w, http.StatusAccepted, h.commentResponse(comment))
}

// DeleteComment removes one of the authenticated user's comments.
// DELETE /v1/comments/{comment}
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	commentId, err := parseIdParam(r, "comment")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.comments.Delete(commentId, user.Id); err != nil {
		writeServiceError(w, err, messages.FailedToDeleteComment)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DailyBreakdown aggregates the authenticated user's comments per calendar
// day over an inclusive date range. The range is validated before any
// repository call; an empty result answers 200 with an informational message.
// GET /v1/comments/daily-breakdown?date_from=YYYY-MM-DD&date_to=YYYY-MM-DD
func (h *Handler) DailyBreakdown(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	dateFrom, err := parseDateParam(r, "date_from")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	dateTo, err := parseDateParam(r, "date_to")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if dateFrom.After(dateTo) {
		utils.WriteErrorAndStatusCode(w, &errors.ErrorWithStatusCode{Message: messages.DateRangeInvalid, StatusCode: http.StatusBadRequest})
		return
	}

	rows, err := h.comments.DailyBreakdown(user.Id, dateFrom, dateTo)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if len(rows) == 0 {
		writeJSON(w, http.StatusOK, api.MessageResponse{Message: messages.NoCommentsForPeriod(dateFrom.Format(dateLayout), dateTo.Format(dateLayout))})
		return
	}

	resp := api.DailyBreakdownResponse{Days: make([]api.DailyBreakdownRow, 0, len(rows))}
	for _, row := range rows {
		resp.Days = append(resp.Days, api.DailyBreakdownRow{
			Date:            row.Date.Format(dateLayout),
			TotalComments:   row.TotalComments,
			BlockedComments: row.BlockedComments,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, &errors.ErrorWithStatusCode{Message: name + " is required", StatusCode: http.StatusBadRequest}
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, &errors.ErrorWithStatusCode{Message: name + " must be a date in YYYY-MM-DD format", StatusCode: http.StatusBadRequest}
	}
	return date, nil
}
