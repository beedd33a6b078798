package post

import (
	"errors"
	"net/http"

	"community-feed/internal/common/pagination"
	"community-feed/internal/domain/entity"
	"community-feed/internal/handler/http/pathutil"
	engUC "community-feed/internal/usecase/engagement"
	postUC "community-feed/internal/usecase/post"
)

// statusFor maps domain errors onto HTTP status codes: client mistakes
// (unknown field aliases, malformed tokens, validation) to 400, absent
// resources to 404, transient store failures to 503.
func statusFor(err error) int {
	var invalidField *entity.InvalidFieldError
	var malformedToken *pagination.MalformedTokenError
	var validation *entity.ValidationError

	switch {
	case errors.As(err, &invalidField),
		errors.As(err, &malformedToken),
		errors.As(err, &validation),
		errors.Is(err, postUC.ErrInvalidPostID),
		errors.Is(err, engUC.ErrInvalidID),
		errors.Is(err, pathutil.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, postUC.ErrPostNotFound),
		errors.Is(err, engUC.ErrCommentNotFound),
		errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
