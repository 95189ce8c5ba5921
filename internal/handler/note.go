package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/serkuksov/NotesAPI/internal/auth"
	"github.com/serkuksov/NotesAPI/internal/handler/dto"
	"github.com/serkuksov/NotesAPI/internal/service"
)

// NoteHandler handles HTTP requests for note operations.
type NoteHandler struct {
	svc    *service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(svc *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /notes/.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	var req dto.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	note, err := h.svc.CreateNote(r.Context(), identity, req.Title, req.Content)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("note_created",
		"note_id", note.ID,
		"user_id", identity.UserID,
	)

	writeJSON(w, http.StatusCreated, dto.ToNoteResponse(note))
}

// Get handles GET /notes/{noteID}/.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.noteID(w, r)
	if !ok {
		return
	}

	note, err := h.svc.GetNote(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToNoteResponse(note))
}

// List handles GET /notes/, the public listing with filtering, sorting
// and pagination.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, ok := h.intQuery(w, query.Get("limit"), "limit")
	if !ok {
		return
	}
	page, ok := h.intQuery(w, query.Get("page"), "page")
	if !ok {
		return
	}

	input := service.ListNotesInput{
		Title:     query.Get("title"),
		OwnerName: query.Get("user"),
		Search:    query.Get("search"),
		OrderBy:   parseOrderBy(query.Get("order_by")),
		Limit:     limit,
		Page:      page,
	}

	notes, err := h.svc.ListNotes(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	pagination, _ := service.ValidatePagination(limit, page)
	writeJSON(w, http.StatusOK, dto.ToNoteListResponse(notes, pagination.Limit, pagination.Page))
}

// ListMine handles GET /notes/user/, the authenticated caller's own notes.
func (h *NoteHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())
	query := r.URL.Query()

	limit, ok := h.intQuery(w, query.Get("limit"), "limit")
	if !ok {
		return
	}
	page, ok := h.intQuery(w, query.Get("page"), "page")
	if !ok {
		return
	}

	notes, err := h.svc.ListUserNotes(r.Context(), identity, limit, page)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	pagination, _ := service.ValidatePagination(limit, page)
	writeJSON(w, http.StatusOK, dto.ToOwnNoteListResponse(notes, pagination.Limit, pagination.Page))
}

// Update handles PUT /notes/{noteID}/.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	id, ok := h.noteID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.UpdateNoteInput{
		Title:   req.Title,
		Content: req.Content,
	}

	note, err := h.svc.UpdateNote(r.Context(), identity, id, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("note_updated",
		"note_id", note.ID,
		"user_id", identity.UserID,
	)

	writeJSON(w, http.StatusOK, dto.ToNoteResponse(note))
}

// Delete handles DELETE /notes/{noteID}/.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	id, ok := h.noteID(w, r)
	if !ok {
		return
	}

	note, err := h.svc.DeleteNote(r.Context(), identity, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("note_deleted",
		"note_id", id,
		"user_id", identity.UserID,
	)

	writeJSON(w, http.StatusOK, dto.ToNoteResponse(note))
}

// noteID parses the {noteID} URL parameter. Non-integer values are a
// validation failure; out-of-range integers fall through to a 404 from
// the lookup.
func (h *NoteHandler) noteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "noteID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, "INVALID_NOTE_ID", "Note ID must be an integer")
		return 0, false
	}
	return id, true
}

// intQuery parses an optional integer query parameter. Absent means zero,
// which downstream validation replaces with the default.
func (h *NoteHandler) intQuery(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, "INVALID_QUERY", "Parameter "+name+" must be an integer")
		return 0, false
	}
	return v, true
}

// parseOrderBy splits a comma-separated order_by value into sort keys.
func parseOrderBy(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}

// handleServiceError maps service errors to HTTP responses.
func (h *NoteHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		h.writeError(w, http.StatusNotFound, "NOTE_NOT_FOUND", "Note not found")
	case errors.Is(err, service.ErrForbidden):
		h.writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not own this note")
	case errors.Is(err, service.ErrNoFieldsToUpdate):
		h.writeError(w, http.StatusBadRequest, "NO_FIELDS", "At least one field must be supplied")
	case errors.Is(err, service.ErrTitleRequired):
		h.writeError(w, http.StatusUnprocessableEntity, "TITLE_REQUIRED", "Title is required")
	case errors.Is(err, service.ErrTitleTooLong):
		h.writeError(w, http.StatusUnprocessableEntity, "TITLE_TOO_LONG", "Title exceeds maximum length")
	case errors.Is(err, service.ErrInvalidSortField):
		h.writeError(w, http.StatusUnprocessableEntity, "INVALID_ORDER_BY", "Unknown sort field in order_by")
	case errors.Is(err, service.ErrInvalidLimit):
		h.writeError(w, http.StatusUnprocessableEntity, "INVALID_LIMIT", "Limit must be between 5 and 50")
	case errors.Is(err, service.ErrInvalidPage):
		h.writeError(w, http.StatusUnprocessableEntity, "INVALID_PAGE", "Page must be 1 or greater")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *NoteHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
