package web

import (
	"net/http"

	"github.com/rs/zerolog"
)

// pageHandler renders a page and returns any failure to the error boundary
type pageHandler func(w http.ResponseWriter, r *http.Request) error

// errorBoundary turns page failures into the generic error page
type errorBoundary struct {
	pages  *PageRenderer
	logger zerolog.Logger
}

func newErrorBoundary(pages *PageRenderer, logger zerolog.Logger) *errorBoundary {
	return &errorBoundary{
		pages:  pages,
		logger: logger.With().Str("component", "error_boundary").Logger(),
	}
}

func (b *errorBoundary) wrap(handler pageHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := handler(w, r); err != nil {
			b.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Page request failed")
			b.pages.RenderError(w, http.StatusInternalServerError)
		}
	})
}
