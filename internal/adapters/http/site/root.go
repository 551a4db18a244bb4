// Package site serves the embedded activities frontend.
package site

import (
	"bytes"
	"context"
	"net/http"
	"time"
)

// IndexPath is where the root path redirects to.
const IndexPath = "/static/index.html"

// Register attaches the frontend routes to mux.
//
//	GET /                    -> 307 to /static/index.html
//	GET /static/index.html   -> entry page
//	GET /static/*            -> embedded assets
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	root := NewRootHandler()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.HandleFunc("GET "+IndexPath, root.HandleIndex)
	mux.HandleFunc("GET /{$}", root.HandleRoot)
}

// RootHandler serves the frontend entry points.
type RootHandler struct {
	index []byte
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	index, _ := staticFS.ReadFile("static/index.html")
	return &RootHandler{index: index}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, IndexPath, http.StatusTemporaryRedirect)
}

// HandleIndex serves index.html directly; http.FileServer would redirect it to the directory.
func (h *RootHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if len(h.index) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(h.index))
}
