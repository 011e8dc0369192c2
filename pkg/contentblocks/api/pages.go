package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// EditableHeader is set on page responses served to admins so the editing
// plugin switches into edit mode.
const EditableHeader = "X-Content-Editable"

// pageRoutes maps request paths to page files
var pageRoutes = map[string]string{
	"/":          "home.html",
	"/home":      "home.html",
	"/index":     "home.html",
	"/handbook":  "handbook.html",
	"/standings": "standings.html",
	"/archives":  "archives.html",
	"/directory": "directory.html",
}

// PagesHandler serves the site's fixed set of pages from a file system
type PagesHandler struct {
	pages fs.FS
}

// NewPagesHandler creates a pages handler reading from pages
func NewPagesHandler(pages fs.FS) *PagesHandler {
	return &PagesHandler{pages: pages}
}

// Register adds the page routes to r
func (h *PagesHandler) Register(r chi.Router) {
	for path, file := range pageRoutes {
		r.Get(path, h.servePage(file))
	}
}

func (h *PagesHandler) servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := fs.Stat(h.pages, name); err != nil {
			writeError(w, r, http.StatusNotFound, http.StatusText(http.StatusNotFound))
			return
		}
		if IsAdminFromContext(r.Context()) {
			w.Header().Set(EditableHeader, "true")
		}
		http.ServeFileFS(w, r, h.pages, name)
	}
}
