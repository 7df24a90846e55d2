package comments

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// GetHandler serves GET /tenancy/api/comments/{type}?ids=a,b,c and returns
// {"items":[{"id":...,"comment":...}]}.
func GetHandler(store *Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := chi.URLParam(r, "type")
		if !KindValid(kind) {
			http.Error(w, `{"error":"bad type"}`, http.StatusBadRequest)
			return
		}

		var ids []string
		for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}

		items, err := store.List(r.Context(), kind, ids)
		if err != nil {
			logger.Error().Err(err).Str("kind", kind).Msg("comments list")
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []Row{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}
}

// PostHandler serves POST /tenancy/api/comments/{type} with body
// {"id":..., "comment":...}. An empty comment clears the annotation.
func PostHandler(store *Store, logger zerolog.Logger) http.HandlerFunc {
	type payload struct {
		ID      string `json:"id"`
		Comment string `json:"comment"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		kind := chi.URLParam(r, "type")
		if !KindValid(kind) {
			http.Error(w, `{"error":"bad type"}`, http.StatusBadRequest)
			return
		}

		var p payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil || strings.TrimSpace(p.ID) == "" {
			http.Error(w, `{"error":"bad payload"}`, http.StatusBadRequest)
			return
		}

		if err := store.Upsert(r.Context(), kind, p.ID, p.Comment); err != nil {
			logger.Error().Err(err).Str("kind", kind).Str("id", p.ID).Msg("comments upsert")
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
