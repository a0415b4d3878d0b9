package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/brightmark/brightmark-core/internal/bank"
	"github.com/brightmark/brightmark-core/internal/grading"
	"github.com/brightmark/brightmark-core/internal/question"
)

// POST /questions/{questionID}/grade: grade a learner response against a
// stored question.
func GradeHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "questionID"))
		var req struct {
			Response question.Response `json:"response"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		q, err := store.Get(r.Context(), id)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, bank.ErrNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(grading.Grade(q, req.Response))
	}
}

// POST /grade/preview: stateless grading of a raw question + response pair,
// used by authoring tools to try out a question before saving it.
func PreviewGradeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Question map[string]any    `json:"question"`
			Response question.Response `json:"response"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		q := question.Normalize(req.Question)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(grading.Grade(q, req.Response))
	}
}
