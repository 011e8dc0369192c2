package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/content-blocks/pkg/contentblocks"
)

// Messages kept verbatim for the editing plugin
const (
	msgNoRecordsFound = "No records found."
	msgScriptTags     = "Script tags are not allowed."
)

// ContentIDHeader carries the store-assigned id on create responses,
// whose body echoes the submitted document.
const ContentIDHeader = "X-Content-ID"

// MaxBodyBytes caps the size of a POST or PUT body
const MaxBodyBytes int64 = 1 << 20

// ContentHandler handles HTTP requests for content blocks
type ContentHandler struct {
	service contentblocks.Service
	logger  *slog.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(service contentblocks.Service, logger *slog.Logger) *ContentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentHandler{
		service: service,
		logger:  logger,
	}
}

// Routes returns the routes for content. The shapes are fixed by the
// editing plugin's URL templates.
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/find", h.FindContent)
	r.Post("/", h.CreateContent)
	r.Get("/{id}", h.GetContent)
	r.Put("/{id}", h.UpdateContent)
	r.Delete("/{id}", h.DeleteContent)

	return r
}

// FindContent returns every item matching the q= filter
func (h *ContentHandler) FindContent(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")

	docs, err := h.service.Find(r.Context(), raw)
	if err != nil {
		if errors.Is(err, contentblocks.ErrInvalidQuery) {
			h.sendError(w, r, http.StatusInternalServerError, err.Error(), err)
			return
		}
		h.logger.InfoContext(r.Context(), "no records found", "query", raw, "error", err)
		writeError(w, r, http.StatusNotFound, msgNoRecordsFound)
		return
	}

	render.JSON(w, r, docs)
}

// GetContent retrieves a content item by ID
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := h.service.Get(r.Context(), id)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, contentblocks.ErrNotFound) {
			msg = "ID not found " + id
		}
		h.sendError(w, r, http.StatusInternalServerError, msg, err)
		return
	}

	render.JSON(w, r, doc)
}

// CreateContent stores a new content item and echoes the submitted document
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.readDocument(w, r)
	if !ok {
		return
	}

	id, err := h.service.Create(r.Context(), doc)
	if err != nil {
		h.sendError(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	w.Header().Set(ContentIDHeader, id)
	render.JSON(w, r, doc)
}

// UpdateContent replaces a content item by ID
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.readDocument(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.service.Update(r.Context(), id, doc)
	if err != nil {
		h.sendError(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	render.JSON(w, r, result)
}

// DeleteContent deletes a content item by ID
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.sendError(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	render.JSON(w, r, result)
}

// readDocument decodes a JSON object body and applies the script check.
// It writes the error response itself and reports whether to continue.
func (h *ContentHandler) readDocument(w http.ResponseWriter, r *http.Request) (contentblocks.Document, bool) {
	var doc contentblocks.Document
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&doc); err != nil || doc == nil {
		if err == nil {
			err = contentblocks.ErrInvalidDocument
		}
		err = fmt.Errorf("%w: %w", contentblocks.ErrInvalidDocument, err)
		h.sendError(w, r, http.StatusInternalServerError, err.Error(), err)
		return nil, false
	}

	if contentblocks.IsScriptInjection(r.URL.Query(), doc) {
		h.sendError(w, r, http.StatusInternalServerError, msgScriptTags, contentblocks.ErrScriptInjection)
		return nil, false
	}
	return doc, true
}

func (h *ContentHandler) sendError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	h.logger.ErrorContext(r.Context(), "content request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	writeError(w, r, status, msg)
}
