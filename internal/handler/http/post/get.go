package post

import (
	"net/http"

	"community-feed/internal/domain/entity"
	"community-feed/internal/handler/http/pathutil"
	"community-feed/internal/handler/http/respond"
	"community-feed/internal/usecase/view"
)

// GetHandler serves a single post aggregate, including its denormalized
// author snapshot and engagement counters.
type GetHandler struct {
	Engine *view.Engine
	View   view.Definition
}

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	agg, err := view.Find[entity.PostAggregate](r.Context(), h.Engine, h.View, id)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusOK, agg)
}
