package grading

import (
	"strings"

	"github.com/brightmark/brightmark-core/internal/question"
)

var keyUnits KeyUnitsMatcher

// gradeShortAnswer is all-or-nothing at the single-answer level: full marks
// if any accepted answer matches under any comparison strategy, zero
// otherwise. Mark-scheme partial credit belongs to the proof type.
func gradeShortAnswer(q question.Question, resp question.Response) Result {
	if len(q.AcceptedAnswers) == 0 {
		return unableResult(q, "accepted answers")
	}
	echo := canonicalExpression(q, resp.Text)
	if matchesAccepted(q, resp.Text) {
		return fullMarksResult(q, echo)
	}
	return incorrectResult(q, echo)
}

func matchesAccepted(q question.Question, user string) bool {
	if strings.TrimSpace(user) == "" {
		return false
	}
	for _, accepted := range q.AcceptedAnswers {
		if answerMatches(q, user, accepted) {
			return true
		}
	}
	return false
}

// answerMatches runs the comparison strategies in order; the first success
// wins. Every strategy treats its own parse failures as "did not match".
func answerMatches(q question.Question, user, accepted string) bool {
	// Numeric with declared tolerance, fractions included. The boundary is
	// inclusive.
	if q.Tolerance >= 0 {
		uv, uok := parseNumberLoose(user)
		av, aok := parseNumberLoose(accepted)
		if uok && aok && numbersWithin(uv, av, q.Tolerance) {
			return true
		}
	}

	// Equivalent fractions, opt-in.
	if q.EquivalentFractions && fractionsEqual(user, accepted) {
		return true
	}

	// Exact compare over the canonical expression form. This already covers
	// the notation rules: * vs ×, superscripts, a leading "var =" prefix on
	// either side, whitespace and (unless flagged) case.
	cu := canonicalExpression(q, user)
	ca := canonicalExpression(q, accepted)
	if cu != "" && cu == ca {
		return true
	}

	// Products of factors compare as an order-independent multiset.
	if fu, ok := canonicalFactors(q, user); ok {
		if fa, ok := canonicalFactors(q, accepted); ok && fu == fa {
			return true
		}
	}

	// Inequalities ignore the bound variable letter.
	if iu, ok := canonicalInequality(q, user); ok {
		if ia, ok := canonicalInequality(q, accepted); ok && iu == ia {
			return true
		}
	}

	// Key-units heuristic: all content tokens of the accepted answer present
	// anywhere in the learner's text. The matcher casefolds, so it is off for
	// case-sensitive questions.
	if q.CaseSensitive {
		return false
	}
	return keyUnits.Match(user, accepted)
}
