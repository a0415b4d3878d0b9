package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/brightmark/brightmark-core/internal/bank"
	"github.com/brightmark/brightmark-core/internal/grading"
	"github.com/brightmark/brightmark-core/internal/question"
)

func testRouter(store bank.Store) http.Handler {
	r := chi.NewRouter()
	r.Post("/questions", PutQuestionHandler(store))
	r.Get("/questions", ListQuestionsHandler(store))
	r.Get("/questions/{questionID}", GetQuestionHandler(store))
	r.Delete("/questions/{questionID}", DeleteQuestionHandler(store))
	r.Post("/questions/validate", ValidateQuestionHandler())
	r.Post("/questions/{questionID}/grade", GradeHandler(store))
	r.Post("/grade/preview", PreviewGradeHandler())
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPutThenGradeRoundTrip(t *testing.T) {
	h := testRouter(bank.NewInMemoryStore())

	rec := doJSON(t, h, http.MethodPost, "/questions", map[string]any{
		"question": "What is the capital of France?",
		"answer":   "Paris",
		"maxMarks": 1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var put struct {
		Question question.Question `json:"question"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&put); err != nil {
		t.Fatalf("decode put response: %v", err)
	}
	if put.Question.ID == "" {
		t.Fatalf("expected stored question to carry an id")
	}

	rec = doJSON(t, h, http.MethodPost, "/questions/"+put.Question.ID+"/grade", map[string]any{
		"response": map[string]any{"text": "paris"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("grade: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res grading.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !res.Correct || res.Marks != 1 {
		t.Fatalf("expected full marks, got %+v", res)
	}
}

func TestPutQuestion_ValidationBlocksImport(t *testing.T) {
	store := bank.NewInMemoryStore()
	h := testRouter(store)

	rec := doJSON(t, h, http.MethodPost, "/questions", map[string]any{
		"id":              "bad1",
		"interactionType": "multipleChoice",
		"question":        "Pick one of the following",
		"answer":          "Z",
		"choiceA":         "first",
		"choiceB":         "second",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var report struct {
		Errors   []string `json:"errors"`
		Warnings []string `json:"warnings"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Errors) == 0 {
		t.Fatalf("expected validation errors in the report")
	}

	// Nothing was stored.
	rec = doJSON(t, h, http.MethodGet, "/questions/bad1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for rejected record, got %d", rec.Code)
	}
}

func TestValidateQuestion_Stateless(t *testing.T) {
	h := testRouter(bank.NewInMemoryStore())

	rec := doJSON(t, h, http.MethodPost, "/questions/validate", map[string]any{
		"id":       "q1",
		"question": "What is the boiling point of water?",
		"answer":   "100",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var report struct {
		Errors   []string `json:"errors"`
		Warnings []string `json:"warnings"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Errors == nil || report.Warnings == nil {
		t.Fatalf("report slices must be present even when empty: %+v", report)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("expected clean record, got %v", report.Errors)
	}
}

func TestListAndDelete(t *testing.T) {
	h := testRouter(bank.NewInMemoryStore())

	for _, raw := range []map[string]any{
		{"id": "m1", "subject": "maths", "question": "one plus one", "answer": "2"},
		{"id": "p1", "subject": "physics", "question": "unit of force", "answer": "newton"},
	} {
		if rec := doJSON(t, h, http.MethodPost, "/questions", raw); rec.Code != http.StatusOK {
			t.Fatalf("put %v: %d %s", raw["id"], rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/questions?subject=maths", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var qs []question.Question
	if err := json.NewDecoder(rec.Body).Decode(&qs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(qs) != 1 || qs[0].ID != "m1" {
		t.Fatalf("expected only the maths question, got %+v", qs)
	}

	if rec = doJSON(t, h, http.MethodDelete, "/questions/m1", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if rec = doJSON(t, h, http.MethodDelete, "/questions/m1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestPreviewGrade(t *testing.T) {
	h := testRouter(bank.NewInMemoryStore())

	rec := doJSON(t, h, http.MethodPost, "/grade/preview", map[string]any{
		"question": map[string]any{
			"interactionType": "multiNumeric",
			"question":        "Solve x^2 = 9",
			"maxMarks":        2,
			"typeConfig": map[string]any{
				"fields": []any{"3", "-3"},
			},
		},
		"response": map[string]any{"fields": []string{"-3", "3"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res grading.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !res.Correct || res.Marks != 2 {
		t.Fatalf("expected both roots accepted in any order, got %+v", res)
	}
}

func TestGrade_UnknownQuestion(t *testing.T) {
	h := testRouter(bank.NewInMemoryStore())
	rec := doJSON(t, h, http.MethodPost, "/questions/nope/grade", map[string]any{
		"response": map[string]any{"text": "anything"},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/grade/preview", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", rec.Code)
	}
}
