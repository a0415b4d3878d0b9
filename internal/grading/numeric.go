package grading

import (
	"math"
	"strconv"
	"strings"

	"github.com/brightmark/brightmark-core/internal/question"
)

// Comparisons use a tiny epsilon so a difference of exactly the declared
// tolerance still passes despite float representation error.
const numericEpsilon = 1e-9

// parseNumberLoose parses a learner- or author-written number: a plain
// float, a simple fraction a/b, or standard form m×10^e. A leading "var ="
// prefix is stripped first.
func parseNumberLoose(s string) (float64, bool) {
	s = stripAssignment(normalizeNotation(s))
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	if n, d, ok := splitFraction(s); ok {
		return n / d, true
	}
	// standard form: 2.1×10^3
	if i := strings.Index(s, "×10^"); i > 0 {
		m, errM := strconv.ParseFloat(s[:i], 64)
		e, errE := strconv.ParseFloat(s[i+len("×10^"):], 64)
		if errM == nil && errE == nil {
			return m * math.Pow(10, e), true
		}
	}
	return 0, false
}

func splitFraction(s string) (num, den float64, ok bool) {
	i := strings.Index(s, "/")
	if i <= 0 || i == len(s)-1 {
		return 0, 0, false
	}
	n, errN := strconv.ParseFloat(s[:i], 64)
	d, errD := strconv.ParseFloat(s[i+1:], 64)
	if errN != nil || errD != nil || d == 0 {
		return 0, 0, false
	}
	return n, d, true
}

// numbersWithin reports whether a and b agree within tol. tol < 0 means no
// tolerance declared, which degrades to (epsilon) equality.
func numbersWithin(a, b, tol float64) bool {
	if tol < 0 {
		tol = 0
	}
	return math.Abs(a-b) <= tol+numericEpsilon
}

// fractionsEqual reports whether both strings parse as numbers (fractions
// included) with the same value.
func fractionsEqual(a, b string) bool {
	av, aok := parseNumberLoose(a)
	bv, bok := parseNumberLoose(b)
	return aok && bok && math.Abs(av-bv) <= numericEpsilon
}

// --- multi-numeric ---

// gradeNumericFields marks a list of independent numeric entry boxes.
// Matching is order-independent with best-available pairing: values are
// assigned to fields so the number of matched fields is maximal, so right
// values in the wrong boxes still earn credit even when tolerance windows
// overlap.
func gradeNumericFields(q question.Question, resp question.Response) Result {
	nc := q.Config.Numeric
	if nc == nil || len(nc.Fields) == 0 {
		return unableResult(q, "numeric field definitions")
	}

	var given []string
	echo := make([]string, 0, len(resp.Fields))
	for _, raw := range resp.Fields {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		given = append(given, s)
		echo = append(echo, stripAssignment(normalizeNotation(s)))
	}

	candidates := make([][]bool, len(given))
	for u, g := range given {
		candidates[u] = make([]bool, len(nc.Fields))
		for i, f := range nc.Fields {
			candidates[u][i] = numericFieldMatches(q, f, g)
		}
	}

	matched := maximumMatching(candidates, len(nc.Fields))
	return partialResult(q, matched, len(nc.Fields), strings.Join(echo, ", "))
}

// maximumMatching sizes the largest value-to-field assignment, where
// candidates[u][f] marks the fields value u satisfies. Augmenting-path
// search; field counts are small.
func maximumMatching(candidates [][]bool, fields int) int {
	owner := make([]int, fields)
	for f := range owner {
		owner[f] = -1
	}
	var assign func(u int, seen []bool) bool
	assign = func(u int, seen []bool) bool {
		for f := 0; f < fields; f++ {
			if !candidates[u][f] || seen[f] {
				continue
			}
			seen[f] = true
			if owner[f] == -1 || assign(owner[f], seen) {
				owner[f] = u
				return true
			}
		}
		return false
	}
	matched := 0
	for u := range candidates {
		if assign(u, make([]bool, fields)) {
			matched++
		}
	}
	return matched
}

func numericFieldMatches(q question.Question, f question.NumericField, given string) bool {
	want, wok := parseNumberLoose(f.Expected)
	got, gok := parseNumberLoose(given)
	if wok && gok {
		tol := f.Tolerance
		if tol < 0 {
			tol = q.Tolerance
		}
		return numbersWithin(got, want, tol)
	}
	// Non-numeric expected values fall back to text comparison.
	return textEqual(q, stripAssignment(given), stripAssignment(f.Expected))
}
