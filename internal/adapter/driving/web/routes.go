package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Management mode.
	mux.HandleFunc("GET /{$}", h.ServerList)
	mux.HandleFunc("POST /servers", h.AddServer)
	mux.HandleFunc("POST /servers/{index}/delete", h.DeleteServer)

	// Selection mode.
	mux.HandleFunc("GET /select", h.SelectList)
	mux.HandleFunc("POST /select/{index}", h.SelectServer)
}
