package web

import (
	"net/http"

	"quickgrab-listing-feed/internal/adapters/ws"
	"quickgrab-listing-feed/internal/logging"

	"github.com/rs/zerolog"
)

type RouterParams struct {
	Pages      *PageRenderer
	ItemsAPI   *ItemsAPI
	FeedSocket *ws.FeedSocketHandler // nil when notifications are disabled
	Logger     zerolog.Logger
}

// NewRouter wires every route of the listing feed
func NewRouter(params RouterParams) http.Handler {
	mux := http.NewServeMux()

	boundary := newErrorBoundary(params.Pages, params.Logger)

	mux.Handle("GET /home", boundary.wrap(params.Pages.Home))
	mux.HandleFunc("GET /api/items", params.ItemsAPI.ListItems)
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
	})

	if params.FeedSocket != nil {
		mux.Handle("GET /ws/feed", params.FeedSocket)
	}

	return logging.AccessLog(params.Logger, mux)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok", "service": "listing-feed"}`))
}
