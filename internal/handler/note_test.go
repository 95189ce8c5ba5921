package handler

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/serkuksov/NotesAPI/internal/handler/dto"
	"github.com/serkuksov/NotesAPI/internal/model"
	"github.com/serkuksov/NotesAPI/internal/service"
)

func TestParseOrderBy(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single key", "-created_at", []string{"-created_at"}},
		{"multiple keys", "-created_at,+title", []string{"-created_at", "+title"}},
		{"whitespace trimmed", " -created_at , title ", []string{"-created_at", "title"}},
		{"empty segments dropped", ",,title,", []string{"title"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOrderBy(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseOrderBy(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	h := &NoteHandler{logger: slog.Default()}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"note not found", service.ErrNoteNotFound, 404, "NOTE_NOT_FOUND"},
		{"forbidden", service.ErrForbidden, 403, "FORBIDDEN"},
		{"no fields", service.ErrNoFieldsToUpdate, 400, "NO_FIELDS"},
		{"title required", service.ErrTitleRequired, 422, "TITLE_REQUIRED"},
		{"title too long", service.ErrTitleTooLong, 422, "TITLE_TOO_LONG"},
		{"invalid sort", service.ErrInvalidSortField, 422, "INVALID_ORDER_BY"},
		{"invalid limit", service.ErrInvalidLimit, 422, "INVALID_LIMIT"},
		{"invalid page", service.ErrInvalidPage, 422, "INVALID_PAGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.handleServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestToNoteListResponse(t *testing.T) {
	now := time.Now().UTC()
	notes := []*model.NoteWithOwner{
		{
			Note: model.Note{
				ID:        1,
				OwnerID:   7,
				Title:     "first",
				Content:   "body",
				CreatedAt: now,
				UpdatedAt: now,
			},
			OwnerName: "alice",
		},
	}

	resp := dto.ToNoteListResponse(notes, 25, 2)

	if resp.Pagination.Limit != 25 || resp.Pagination.Page != 2 {
		t.Errorf("pagination = %+v, want limit=25 page=2", resp.Pagination)
	}
	if resp.Pagination.Count != 1 {
		t.Errorf("count = %d, want 1", resp.Pagination.Count)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("data length = %d, want 1", len(resp.Data))
	}
	if resp.Data[0].UserName != "alice" {
		t.Errorf("user_name = %q, want %q", resp.Data[0].UserName, "alice")
	}
	if resp.Data[0].UserID != 7 {
		t.Errorf("user_id = %d, want 7", resp.Data[0].UserID)
	}
}

func TestToOwnNoteListResponse(t *testing.T) {
	now := time.Now().UTC()
	notes := []*model.Note{
		{ID: 3, OwnerID: 7, Title: "mine", Content: "body", CreatedAt: now, UpdatedAt: now},
		{ID: 4, OwnerID: 7, Title: "also mine", CreatedAt: now, UpdatedAt: now},
	}

	resp := dto.ToOwnNoteListResponse(notes, 10, 1)

	if resp.Pagination.Limit != 10 || resp.Pagination.Page != 1 {
		t.Errorf("pagination = %+v, want limit=10 page=1", resp.Pagination)
	}
	if resp.Pagination.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Pagination.Count)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("data length = %d, want 2", len(resp.Data))
	}
	if resp.Data[0].ID != 3 || resp.Data[1].ID != 4 {
		t.Errorf("ids = %d, %d, want 3, 4", resp.Data[0].ID, resp.Data[1].ID)
	}
}
