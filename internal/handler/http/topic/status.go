package topic

import (
	"errors"
	"net/http"

	"community-feed/internal/common/pagination"
	"community-feed/internal/domain/entity"
	"community-feed/internal/handler/http/pathutil"
	engUC "community-feed/internal/usecase/engagement"
	topicUC "community-feed/internal/usecase/topic"
)

func statusFor(err error) int {
	var invalidField *entity.InvalidFieldError
	var malformedToken *pagination.MalformedTokenError
	var validation *entity.ValidationError

	switch {
	case errors.As(err, &invalidField),
		errors.As(err, &malformedToken),
		errors.As(err, &validation),
		errors.Is(err, topicUC.ErrInvalidTopicID),
		errors.Is(err, engUC.ErrInvalidID),
		errors.Is(err, pathutil.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, topicUC.ErrTopicNotFound),
		errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
