package topic

import (
	"encoding/json"
	"net/http"

	"community-feed/internal/handler/http/respond"
	topicUC "community-feed/internal/usecase/topic"
)

type CreateHandler struct{ Svc *topicUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID     int64  `json:"owner_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.Svc.Create(r.Context(), topicUC.CreateInput{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusCreated, DTO{
		ID:          created.ID,
		OwnerID:     created.OwnerID,
		Name:        created.Name,
		Description: created.Description,
		CreatedAt:   created.CreatedAt,
	})
}
