package grading

import (
	"strings"

	"github.com/brightmark/brightmark-core/internal/question"
)

// gradeMarkScheme scores free-text proof answers against an ordered list of
// criteria. A criterion awards its marks only when every one of its keywords
// and key numbers appears in the answer. The total is capped at the
// question's max marks even when the authored scheme sums to more.
func gradeMarkScheme(q question.Question, resp question.Response) Result {
	scheme := q.Config.MarkScheme
	if len(scheme) == 0 {
		return unableResult(q, "mark scheme criteria")
	}

	max := maxMarksOf(q)
	text := foldText(normalizeNotation(resp.Text))
	total := 0
	satisfied := 0
	for _, c := range scheme {
		if criterionMet(text, c) {
			total += c.Marks
			satisfied++
		}
	}
	if total > max {
		total = max
	}

	res := Result{
		Marks:            total,
		MaxMarks:         max,
		NormalizedAnswer: text,
		Feedback:         Feedback{CorrectAnswer: correctDisplay(q)},
	}
	switch {
	case total >= max:
		res.Correct = true
		res.Feedback.Summary = summaryCorrect
		res.Feedback.CorrectAnswer = ""
	case satisfied > 0:
		res.Feedback.Summary = summaryPartial
		res.Feedback.MistakeTags = []string{"partial"}
	default:
		res.Feedback.Summary = summaryIncorrect
		res.Feedback.MistakeTags = []string{"mismatch"}
	}
	return res
}

// criterionMet does case-insensitive substring presence checks; text has
// already been folded. A criterion with no non-blank keyword or key number
// can never be met, so a half-authored scheme cannot hand out free marks.
func criterionMet(text string, c question.Criterion) bool {
	checked := false
	for _, kw := range c.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		checked = true
		if !strings.Contains(text, kw) {
			return false
		}
	}
	for _, kn := range c.KeyNumbers {
		kn = strings.TrimSpace(kn)
		if kn == "" {
			continue
		}
		checked = true
		if !strings.Contains(text, kn) {
			return false
		}
	}
	return checked
}
