// Package grading turns a canonical question and a learner response into a
// marked result. Grade is total: it never panics and never returns an error,
// because one malformed question must not take down a whole session.
package grading

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/brightmark/brightmark-core/internal/question"
)

// Feedback is the learner-facing portion of a Result.
type Feedback struct {
	Summary       string   `json:"summary"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	MistakeTags   []string `json:"mistake_tags,omitempty"`
}

// Result is the outcome of grading a single response.
type Result struct {
	Correct          bool     `json:"correct"`
	Marks            int      `json:"marks"`
	MaxMarks         int      `json:"max_marks"`
	Feedback         Feedback `json:"feedback"`
	NormalizedAnswer string   `json:"normalized_answer,omitempty"`
}

const (
	summaryCorrect      = "Correct"
	summaryPartial      = "Partially correct"
	summaryIncorrect    = "Incorrect"
	summaryEmpty        = "No answer given"
	summaryError        = "An error occurred while grading"
	summaryUnknownType  = "Unable to grade this question type"
	summaryKindMismatch = "Unable to grade this response (wrong kind for this question)"
)

// Grade dispatches on the question's interaction type. Any panic from a
// grader is converted into an error result at this boundary.
func Grade(q question.Question, resp question.Response) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				MaxMarks: maxMarksOf(q),
				Feedback: Feedback{Summary: summaryError, MistakeTags: []string{"error"}},
			}
		}
	}()

	res = grade(q, resp)
	if res.Marks < 0 {
		res.Marks = 0
	}
	if res.Marks > res.MaxMarks {
		res.Marks = res.MaxMarks
	}
	return res
}

func grade(q question.Question, resp question.Response) Result {
	max := maxMarksOf(q)

	if resp.Kind != "" && resp.Kind != q.Type {
		return Result{
			MaxMarks: max,
			Feedback: Feedback{Summary: summaryKindMismatch, MistakeTags: []string{"invalid"}},
		}
	}
	// Empty submissions score zero before any heuristic gets a chance to
	// accidentally match a blank string.
	if emptyResponse(resp) {
		return Result{
			MaxMarks: max,
			Feedback: Feedback{Summary: summaryEmpty, CorrectAnswer: correctDisplay(q), MistakeTags: []string{"empty"}},
		}
	}

	switch q.Type {
	case question.TypeShortAnswer:
		return gradeShortAnswer(q, resp)
	case question.TypeMultipleChoice:
		return gradeChoice(q, resp)
	case question.TypeFillInBlanks:
		return gradeBlanks(q, resp)
	case question.TypeMatchPairs:
		return gradeMatch(q, resp)
	case question.TypeLabelDiagram:
		return gradeLabel(q, resp)
	case question.TypeMultiNumeric:
		return gradeNumericFields(q, resp)
	case question.TypeTableFill:
		return gradeTable(q, resp)
	case question.TypeGraphPlot:
		return gradePlot(q, resp)
	case question.TypeGeometryConstruct:
		return gradeConstruct(q, resp)
	case question.TypeProofMarkScheme:
		return gradeMarkScheme(q, resp)
	default:
		return Result{
			MaxMarks: max,
			Feedback: Feedback{Summary: summaryUnknownType, MistakeTags: []string{"invalid"}},
		}
	}
}

func maxMarksOf(q question.Question) int {
	if q.MaxMarks < 1 {
		return 1
	}
	return q.MaxMarks
}

func emptyResponse(r question.Response) bool {
	if strings.TrimSpace(r.Text) != "" || strings.TrimSpace(r.ChoiceKey) != "" {
		return false
	}
	for _, b := range r.Blanks {
		if strings.TrimSpace(b) != "" {
			return false
		}
	}
	for _, v := range r.Pairs {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	for _, v := range r.Labels {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	for _, f := range r.Fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	for _, row := range r.Cells {
		for _, v := range row {
			if strings.TrimSpace(v) != "" {
				return false
			}
		}
	}
	return len(r.Points) == 0
}

func unableResult(q question.Question, missing string) Result {
	return Result{
		MaxMarks: maxMarksOf(q),
		Feedback: Feedback{
			Summary:     fmt.Sprintf("Unable to grade this question (missing %s)", missing),
			MistakeTags: []string{"invalid"},
		},
	}
}

// partialResult applies the shared partial-credit formula:
// round(max * correct/total), clamped, with summary and tags derived from
// how much matched.
func partialResult(q question.Question, correct, total int, normalized string) Result {
	max := maxMarksOf(q)
	if total <= 0 {
		return unableResult(q, "expected answer configuration")
	}
	marks := int(math.Round(float64(max) * float64(correct) / float64(total)))
	if marks < 0 {
		marks = 0
	}
	if marks > max {
		marks = max
	}
	res := Result{
		Marks:            marks,
		MaxMarks:         max,
		NormalizedAnswer: normalized,
		Feedback:         Feedback{CorrectAnswer: correctDisplay(q)},
	}
	switch {
	case correct == total:
		res.Correct = true
		res.Feedback.Summary = summaryCorrect
		res.Feedback.CorrectAnswer = ""
	case correct > 0:
		res.Feedback.Summary = summaryPartial
		res.Feedback.MistakeTags = []string{"partial"}
	default:
		res.Feedback.Summary = summaryIncorrect
		res.Feedback.MistakeTags = []string{"mismatch"}
	}
	return res
}

func fullMarksResult(q question.Question, normalized string) Result {
	return Result{
		Correct:          true,
		Marks:            maxMarksOf(q),
		MaxMarks:         maxMarksOf(q),
		NormalizedAnswer: normalized,
		Feedback:         Feedback{Summary: summaryCorrect},
	}
}

func incorrectResult(q question.Question, normalized string) Result {
	return Result{
		MaxMarks:         maxMarksOf(q),
		NormalizedAnswer: normalized,
		Feedback: Feedback{
			Summary:       summaryIncorrect,
			CorrectAnswer: correctDisplay(q),
			MistakeTags:   []string{"mismatch"},
		},
	}
}

func correctDisplay(q question.Question) string {
	if len(q.AcceptedAnswers) > 0 {
		return q.AcceptedAnswers[0]
	}
	switch q.Type {
	case question.TypeMatchPairs:
		if q.Config.Match != nil {
			return strings.Join(pairStrings(q.Config.Match.Pairs), ", ")
		}
	case question.TypeLabelDiagram:
		if q.Config.Label != nil {
			parts := make([]string, 0, len(q.Config.Label.Targets))
			for _, t := range q.Config.Label.Targets {
				parts = append(parts, t.ID+"="+t.CorrectLabel)
			}
			return strings.Join(parts, ", ")
		}
	case question.TypeMultiNumeric:
		if q.Config.Numeric != nil {
			parts := make([]string, 0, len(q.Config.Numeric.Fields))
			for _, f := range q.Config.Numeric.Fields {
				parts = append(parts, f.Expected)
			}
			return strings.Join(parts, ", ")
		}
	case question.TypeGraphPlot, question.TypeGeometryConstruct:
		if q.Config.Plot != nil {
			parts := make([]string, 0, len(q.Config.Plot.Points))
			for _, p := range q.Config.Plot.Points {
				parts = append(parts, fmt.Sprintf("(%g, %g)", p.X, p.Y))
			}
			return strings.Join(parts, ", ")
		}
	}
	return ""
}

// --- multiple choice ---

// Choice keys are compared exactly and case-sensitively; all or nothing.
func gradeChoice(q question.Question, resp question.Response) Result {
	if len(q.Config.Choices) == 0 {
		return unableResult(q, "choices")
	}
	if len(q.AcceptedAnswers) == 0 {
		return unableResult(q, "accepted choice keys")
	}
	key := strings.TrimSpace(resp.ChoiceKey)
	for _, a := range q.AcceptedAnswers {
		if key == a {
			return fullMarksResult(q, key)
		}
	}
	return incorrectResult(q, key)
}

// --- fill in blanks ---

func gradeBlanks(q question.Question, resp question.Response) Result {
	bc := q.Config.Blanks
	if bc == nil || bc.Count < 1 {
		return unableResult(q, "blank configuration")
	}
	correct := 0
	filled := make([]string, bc.Count)
	for i := 0; i < bc.Count; i++ {
		var given string
		if i < len(resp.Blanks) {
			given = resp.Blanks[i]
		}
		filled[i] = strings.TrimSpace(given)
		if blankMatches(q, bc, i, given) {
			correct++
		}
	}
	return partialResult(q, correct, bc.Count, strings.Join(filled, " | "))
}

func blankMatches(q question.Question, bc *question.BlanksConfig, i int, given string) bool {
	if strings.TrimSpace(given) == "" {
		return false
	}
	accepted := q.AcceptedAnswers
	if i < len(bc.Accepted) && len(bc.Accepted[i]) > 0 {
		accepted = bc.Accepted[i]
	}
	for _, a := range accepted {
		if textEqual(q, given, a) {
			return true
		}
	}
	return false
}

// --- match pairs ---

// Both sides are canonicalized into sorted "left=right" strings so entry
// order never matters.
func gradeMatch(q question.Question, resp question.Response) Result {
	mc := q.Config.Match
	if mc == nil || len(mc.Pairs) == 0 {
		return unableResult(q, "canonical pair mapping")
	}
	want := map[string]struct{}{}
	for _, p := range pairStrings(mc.Pairs) {
		want[p] = struct{}{}
	}
	got := pairStrings(resp.Pairs)
	correct := 0
	for _, p := range got {
		if _, ok := want[p]; ok {
			correct++
		}
	}
	return partialResult(q, correct, len(want), strings.Join(got, ", "))
}

func pairStrings(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for l, r := range m {
		l, r = strings.TrimSpace(l), strings.TrimSpace(r)
		if l == "" || r == "" {
			continue
		}
		out = append(out, l+"="+r)
	}
	sort.Strings(out)
	return out
}

// --- label diagram ---

func gradeLabel(q question.Question, resp question.Response) Result {
	lc := q.Config.Label
	if lc == nil || len(lc.Targets) == 0 {
		return unableResult(q, "diagram targets")
	}
	correct := 0
	placed := make([]string, 0, len(lc.Targets))
	for _, t := range lc.Targets {
		got := strings.TrimSpace(resp.Labels[t.ID])
		if got != "" {
			placed = append(placed, t.ID+"="+got)
		}
		if got != "" && got == t.CorrectLabel {
			correct++
		}
	}
	return partialResult(q, correct, len(lc.Targets), strings.Join(placed, ", "))
}

// --- table fill ---

func gradeTable(q question.Question, resp question.Response) Result {
	tc := q.Config.Table
	if tc == nil || len(tc.Rows) == 0 {
		return unableResult(q, "expected row definitions")
	}
	total, correct := 0, 0
	var echo []string
	for _, row := range tc.Rows {
		for _, col := range sortedKeys(row.Cells) {
			total++
			var got string
			if cells, ok := resp.Cells[row.Key]; ok {
				got = cells[col]
			}
			got = strings.TrimSpace(got)
			if got == "" {
				continue
			}
			echo = append(echo, row.Key+"."+col+"="+got)
			if cellMatches(q, got, row.Cells[col]) {
				correct++
			}
		}
	}
	if total == 0 {
		return unableResult(q, "expected row definitions")
	}
	return partialResult(q, correct, total, strings.Join(echo, ", "))
}

// cellMatches accepts either a text match or a numeric match, since table
// cells usually carry coordinates or computed values.
func cellMatches(q question.Question, got, want string) bool {
	if textEqual(q, got, want) {
		return true
	}
	gv, gok := parseNumberLoose(got)
	wv, wok := parseNumberLoose(want)
	return gok && wok && numbersWithin(gv, wv, q.Tolerance)
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
