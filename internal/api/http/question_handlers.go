package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/brightmark/brightmark-core/internal/bank"
	"github.com/brightmark/brightmark-core/internal/question"
)

type validationReport struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type putQuestionResp struct {
	Question question.Question `json:"question"`
	Warnings []string          `json:"warnings,omitempty"`
}

// POST /questions: normalize, validate and store a raw authoring record.
// Validation errors block the import.
func PutQuestionHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		q := question.Normalize(raw)
		errs, warns := question.Validate(q)
		if len(errs) > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(validationReport{Errors: errs, Warnings: warns})
			return
		}
		stored, err := store.Put(r.Context(), raw)
		if err != nil {
			http.Error(w, "store question: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(putQuestionResp{Question: stored, Warnings: warns})
	}
}

// GET /questions/{questionID}
func GetQuestionHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "questionID"))
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
		_ = json.NewEncoder(w).Encode(q)
	}
}

// GET /questions?subject=&limit=&offset=
func ListQuestionsHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		qs, err := store.List(r.Context(), r.URL.Query().Get("subject"), limit, offset)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if qs == nil {
			qs = []question.Question{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(qs)
	}
}

// DELETE /questions/{questionID}
func DeleteQuestionHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "questionID"))
		if err := store.Delete(r.Context(), id); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, bank.ErrNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /questions/validate: stateless authoring-time check of a raw record.
func ValidateQuestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		errs, warns := question.Validate(question.Normalize(raw))
		if errs == nil {
			errs = []string{}
		}
		if warns == nil {
			warns = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(validationReport{Errors: errs, Warnings: warns})
	}
}
