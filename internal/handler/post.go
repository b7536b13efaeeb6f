package handler

import (
	"net/http"

	"github.com/bloghub-dev/bloghub/shared/api"
	"github.com/bloghub-dev/bloghub/shared/domain"
	"github.com/bloghub-dev/bloghub/shared/errors"
	"github.com/bloghub-dev/bloghub/shared/messages"
	"github.com/bloghub-dev/bloghub/shared/utils"
)

func (h *Handler) postResponse(post domain.Post) api.PostResponse {
	return api.PostResponse{Post: post, ContentHTML: h.renderer.Render(post.Content)}
}

// CreatePost creates a post for the authenticated user. A post the moderation
// gate rejects is stored flagged but the request still fails with 400.
// POST /v1/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req api.CreatePostRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.posts.Create(r.Context(), user.Id, domain.PostContent{
		Title:     req.Title,
		Content:   req.Content,
		Completed: req.Completed,
	})
	if err != nil {
		writeServiceError(w, err, messages.FailedToCreatePost)
		return
	}
	writeJSON(w, http.StatusCreated, h.postResponse(post))
}

// GetPosts lists the authenticated user's posts, newest first.
// GET /v1/posts
func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	limit, offset := h.parsePagination(r)

	posts, err := h.posts.GetAll(user.Id, limit, offset)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if len(posts) == 0 {
		utils.WriteErrorAndStatusCode(w, &errors.ErrorWithStatusCode{Message: messages.NoPostsFound, StatusCode: http.StatusNotFound})
		return
	}

	resp := api.PostListResponse{Posts: make([]api.PostResponse, 0, len(posts))}
	for _, post := range posts {
		resp.Posts = append(resp.Posts, h.postResponse(post))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPost fetches one of the authenticated user's posts.
// GET /v1/posts/{post}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	postId, err := parseIdParam(r, "post")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.posts.Get(postId, user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.postResponse(post))
}

// UpdatePost replaces the editable fields of a post. A moderation rejection
// leaves the stored post untouched.
// PUT /v1/posts/{post}
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	postId, err := parseIdParam(r, "post")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var req api.UpdatePostRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.posts.Update(r.Context(), postId, user.Id, domain.PostContent{
		Title:     req.Title,
		Content:   req.Content,
		Completed: req.Completed,
	})
	if err != nil {
		writeServiceError(w, err, messages.FailedToUpdatePost)
		return
	}
	writeJSON(w, http.StatusAccepted, h.postResponse(post))
}

// DeletePost removes one of the authenticated user's posts together with its
// comments.
// DELETE /v1/posts/{post}
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	postId, err := parseIdParam(r, "post")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.posts.Delete(postId, user.Id); err != nil {
		writeServiceError(w, err, messages.FailedToDeletePost)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
