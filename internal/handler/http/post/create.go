package post

import (
	"encoding/json"
	"net/http"

	"community-feed/internal/handler/http/respond"
	postUC "community-feed/internal/usecase/post"
)

type CreateHandler struct{ Svc *postUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TopicID  int64  `json:"topic_id"`
		AuthorID int64  `json:"author_id"`
		Title    string `json:"title"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.Svc.Create(r.Context(), postUC.CreateInput{
		TopicID:  req.TopicID,
		AuthorID: req.AuthorID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusCreated, toDTO(created))
}
