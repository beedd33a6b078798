package post

import (
	"log/slog"
	"net/http"

	"community-feed/internal/common/pagination"
	"community-feed/internal/handler/http/auth"
	engUC "community-feed/internal/usecase/engagement"
	postUC "community-feed/internal/usecase/post"
	"community-feed/internal/usecase/view"
)

// Register registers all post-related HTTP handlers with the given mux.
// Feed and detail reads are public; writes and engagement routes require
// authentication via the auth middleware.
func Register(mux *http.ServeMux, svc *postUC.Service, eng *engUC.Service, viewEngine *view.Engine, postView view.Definition, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET    /posts", ListHandler{
		Engine:        viewEngine,
		View:          postView,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET    /posts/{id}", GetHandler{Engine: viewEngine, View: postView})

	mux.Handle("POST   /posts", auth.Authz(CreateHandler{Svc: svc}))
	mux.Handle("PUT    /posts/{id}", auth.Authz(UpdateHandler{Svc: svc}))
	mux.Handle("DELETE /posts/{id}", auth.Authz(DeleteHandler{Svc: svc}))

	mux.Handle("POST   /posts/{id}/like", auth.Authz(LikeHandler{Svc: eng}))
	mux.Handle("DELETE /posts/{id}/like", auth.Authz(UnlikeHandler{Svc: eng}))
	mux.Handle("POST   /posts/{id}/view", auth.Authz(ViewHandler{Svc: eng}))
	mux.Handle("POST   /posts/{id}/comments", auth.Authz(CommentHandler{Svc: eng}))
	mux.Handle("DELETE /comments/{id}", auth.Authz(DeleteCommentHandler{Svc: eng}))
	mux.Handle("POST   /comments/{id}/replies", auth.Authz(ReplyHandler{Svc: eng}))
}
