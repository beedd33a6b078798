// Package search provides the full-text search endpoints. Queries run
// against the materialized aggregates using trigram similarity with a
// popularity boost, and answer in the same paginated envelope as the
// list endpoints.
package search

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"community-feed/internal/common/pagination"
	"community-feed/internal/domain/entity"
	"community-feed/internal/handler/http/requestid"
	"community-feed/internal/handler/http/respond"
	"community-feed/internal/observability/logging"
	searchUC "community-feed/internal/usecase/search"
	"community-feed/internal/usecase/view"
)

func statusFor(err error) int {
	var invalidField *entity.InvalidFieldError
	var malformedToken *pagination.MalformedTokenError
	var validation *entity.ValidationError

	switch {
	case errors.As(err, &invalidField),
		errors.As(err, &malformedToken),
		errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Handler serves one search endpoint, generic over the aggregate type the
// backing view materializes.
type Handler[T any] struct {
	Svc           *searchUC.Service
	View          view.Definition
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h Handler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	req, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.LogError(logger, reqID, h.View.Name(), err, "validation")
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	text := r.URL.Query().Get("q")

	page, err := searchUC.Query[T](ctx, h.Svc, h.View, text, req)
	if err != nil {
		code := statusFor(err)
		errType := "database"
		if code == http.StatusBadRequest {
			errType = "validation"
		}
		pagination.LogError(logger, reqID, h.View.Name(), err, errType)
		pagination.RecordError(errType)
		respond.SafeError(w, code, err)
		return
	}

	duration := time.Since(startTime)
	pagination.RecordRequest(http.StatusOK, h.View.Name())
	pagination.RecordDuration("handler", duration.Seconds())
	pagination.LogResponse(logger, reqID, h.View.Name(), len(page.Items), page.NextPageToken != "", duration, http.StatusOK)

	pagination.SetNextPageHeader(w, page)
	respond.JSON(w, http.StatusOK, page)
}

// Register registers the search endpoints with the given mux. Both are
// public reads.
func Register(mux *http.ServeMux, svc *searchUC.Service, postView, topicView view.Definition, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET    /search/posts", Handler[entity.PostAggregate]{
		Svc:           svc,
		View:          postView,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET    /search/topics", Handler[entity.TopicAggregate]{
		Svc:           svc,
		View:          topicView,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
}
