package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"imageatelier/internal/domain"
)

type imageRecordOut struct {
	ID        int64     `json:"id"`
	ImageURL  string    `json:"image_url"`
	Prompt    string    `json:"prompt"`
	UserID    *int64    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toRecordsOut(records []domain.ImageRecord) []imageRecordOut {
	out := make([]imageRecordOut, 0, len(records))
	for _, rec := range records {
		out = append(out, imageRecordOut{
			ID:        rec.ID,
			ImageURL:  rec.ImageURL,
			Prompt:    rec.Prompt,
			UserID:    rec.UserID,
			CreatedAt: rec.CreatedAt,
		})
	}
	return out
}

// HistoryList returns every record across all users, newest first.
func (a *App) HistoryList(w http.ResponseWriter, r *http.Request) {
	records, err := a.History.ListAll(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("history list failed")
		a.error(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	a.json(w, http.StatusOK, toRecordsOut(records))
}

// UserImages returns one user's records, newest first. An unknown user gets
// an empty list.
func (a *App) UserImages(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	records, err := a.History.ListByUser(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Int64("user_id", userID).Msg("user history failed")
		a.error(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	a.json(w, http.StatusOK, toRecordsOut(records))
}
