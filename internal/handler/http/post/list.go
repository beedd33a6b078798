package post

import (
	"log/slog"
	"net/http"
	"time"

	"community-feed/internal/common/pagination"
	"community-feed/internal/domain/entity"
	"community-feed/internal/handler/http/requestid"
	"community-feed/internal/handler/http/respond"
	"community-feed/internal/observability/logging"
	"community-feed/internal/usecase/view"
)

// ListHandler serves the post feed from the materialized post aggregates:
// filterable, sortable, and cursor-paginated. The continuation token for the
// next page rides in the Next-Page response header.
type ListHandler struct {
	Engine        *view.Engine
	View          view.Definition
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	pagination.LogRequest(logger, reqID, h.View.Name(), req)

	page, err := view.FindAll[entity.PostAggregate](ctx, h.Engine, h.View, req)
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
