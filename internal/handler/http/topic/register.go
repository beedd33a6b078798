package topic

import (
	"log/slog"
	"net/http"

	"community-feed/internal/common/pagination"
	"community-feed/internal/handler/http/auth"
	engUC "community-feed/internal/usecase/engagement"
	topicUC "community-feed/internal/usecase/topic"
	"community-feed/internal/usecase/view"
)

// Register registers all topic-related HTTP handlers with the given mux.
// Directory and detail reads are public; writes and follows require
// authentication via the auth middleware.
func Register(mux *http.ServeMux, svc *topicUC.Service, eng *engUC.Service, viewEngine *view.Engine, topicView view.Definition, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET    /topics", ListHandler{
		Engine:        viewEngine,
		View:          topicView,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET    /topics/{id}", GetHandler{Engine: viewEngine, View: topicView})

	mux.Handle("POST   /topics", auth.Authz(CreateHandler{Svc: svc}))
	mux.Handle("DELETE /topics/{id}", auth.Authz(DeleteHandler{Svc: svc}))

	mux.Handle("POST   /topics/{id}/follow", auth.Authz(FollowHandler{Svc: eng}))
	mux.Handle("DELETE /topics/{id}/follow", auth.Authz(UnfollowHandler{Svc: eng}))
}
