package topic

import (
	"net/http"

	"community-feed/internal/handler/http/auth"
	"community-feed/internal/handler/http/pathutil"
	"community-feed/internal/handler/http/respond"
	engUC "community-feed/internal/usecase/engagement"
)

// FollowHandler records a follow by the authenticated user. Following an
// already-followed topic answers 200 instead of 201.
type FollowHandler struct{ Svc *engUC.Service }

func (h FollowHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	added, err := h.Svc.FollowTopic(r.Context(), topicID, auth.UserID(r.Context()))
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

// UnfollowHandler removes the authenticated user's follow.
type UnfollowHandler struct{ Svc *engUC.Service }

func (h UnfollowHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.UnfollowTopic(r.Context(), topicID, auth.UserID(r.Context())); err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
