package post

import (
	"net/http"

	"community-feed/internal/handler/http/pathutil"
	"community-feed/internal/handler/http/respond"
	postUC "community-feed/internal/usecase/post"
)

type DeleteHandler struct{ Svc *postUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
