package post

import (
	"encoding/json"
	"net/http"

	"community-feed/internal/handler/http/auth"
	"community-feed/internal/handler/http/pathutil"
	"community-feed/internal/handler/http/respond"
	engUC "community-feed/internal/usecase/engagement"
)

// LikeHandler records a like by the authenticated user. Liking twice is a
// no-op: the second request answers 200 instead of 201.
type LikeHandler struct{ Svc *engUC.Service }

func (h LikeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	postID, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	added, err := h.Svc.LikePost(r.Context(), postID, auth.UserID(r.Context()))
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	if added {
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// UnlikeHandler removes the authenticated user's like.
type UnlikeHandler struct{ Svc *engUC.Service }

func (h UnlikeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	postID, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.UnlikePost(r.Context(), postID, auth.UserID(r.Context())); err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ViewHandler records a view event by the authenticated user.
type ViewHandler struct{ Svc *engUC.Service }

func (h ViewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	postID, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.RecordView(r.Context(), postID, auth.UserID(r.Context())); err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// CommentHandler creates a comment on a post by the authenticated user.
type CommentHandler struct{ Svc *engUC.Service }

func (h CommentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	postID, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.Svc.Comment(r.Context(), engUC.CommentInput{
		PostID:   postID,
		AuthorID: auth.UserID(r.Context()),
		Content:  req.Content,
	})
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusCreated, CommentDTO{
		ID:        created.ID,
		PostID:    created.PostID,
		AuthorID:  created.AuthorID,
		Content:   created.Content,
		CreatedAt: created.CreatedAt,
	})
}

// DeleteCommentHandler removes a comment.
type DeleteCommentHandler struct{ Svc *engUC.Service }

func (h DeleteCommentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.DeleteComment(r.Context(), id); err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReplyHandler creates a nested reply to a comment by the authenticated user.
type ReplyHandler struct{ Svc *engUC.Service }

func (h ReplyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.Svc.Reply(r.Context(), engUC.ReplyInput{
		CommentID: commentID,
		AuthorID:  auth.UserID(r.Context()),
		Content:   req.Content,
	})
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusCreated, ReplyDTO{
		ID:        created.ID,
		CommentID: created.CommentID,
		AuthorID:  created.AuthorID,
		Content:   created.Content,
		CreatedAt: created.CreatedAt,
	})
}
