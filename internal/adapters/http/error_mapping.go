package httpadapter

import (
	"net/http"

	"github.com/avezina/paperlens/internal/core/domain"
)

// mapErrorToHTTPStatus translates pipeline error kinds into response
// codes. Temporary wins over the stage kinds so callers see 503 for
// anything worth retrying.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrFetch):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrEmbedding), domain.IsKind(err, domain.ErrAnalysis):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
