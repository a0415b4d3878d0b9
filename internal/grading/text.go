package grading

import (
	"sort"
	"strings"
	"unicode"

	"github.com/brightmark/brightmark-core/internal/question"
)

// foldText casefolds, drops punctuation and collapses runs of whitespace.
// Used for word-level matching (key units, mark schemes).
func foldText(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPunct(r) && r != '.' && r != '-' && r != '/':
			// keep decimal points, signs and fraction bars inside numbers
		default:
			if space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = false
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

// textEqual is the plain comparison used for blanks and table cells:
// trimmed, whitespace-collapsed, case per the question's flag.
func textEqual(q question.Question, a, b string) bool {
	a, b = collapseSpaces(a), collapseSpaces(b)
	if q.CaseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var superscripts = map[rune]rune{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
}

// normalizeNotation rewrites the notation variants authors and learners mix
// freely: superscript digits become ^n, '*' and a spaced 'x' become '×',
// unicode minus becomes '-', and ≤/≥ become <=/>=.
func normalizeNotation(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "−", "-")
	s = strings.ReplaceAll(s, "≤", "<=")
	s = strings.ReplaceAll(s, "≥", ">=")
	s = strings.ReplaceAll(s, "∗", "*")
	s = strings.ReplaceAll(s, "⋅", "*")
	s = strings.ReplaceAll(s, "*", "×")
	s = strings.ReplaceAll(s, " x ", "×")
	s = strings.ReplaceAll(s, " X ", "×")

	var b strings.Builder
	b.Grow(len(s))
	prevSuper := false
	for _, r := range s {
		if d, ok := superscripts[r]; ok {
			if !prevSuper {
				b.WriteByte('^')
			}
			b.WriteRune(d)
			prevSuper = true
			continue
		}
		prevSuper = false
		b.WriteRune(r)
	}
	return b.String()
}

// stripAssignment removes a leading "var =" prefix so "x=7" and "7" compare
// equal whichever form the accepted answer was stored in. Only a short
// identifier qualifies; "3+4=7" is left alone.
func stripAssignment(s string) string {
	s = strings.TrimSpace(s)
	eq := strings.Index(s, "=")
	if eq <= 0 || eq > 4 {
		return s
	}
	head := strings.TrimSpace(s[:eq])
	if head == "" || len(head) > 3 {
		return s
	}
	for _, r := range head {
		if !unicode.IsLetter(r) {
			return s
		}
	}
	rest := strings.TrimSpace(s[eq+1:])
	if rest == "" {
		return s
	}
	return rest
}

// canonicalExpression is the normalized form used for short-answer exact
// comparison: notation rewritten, assignment prefix stripped, all spaces
// removed, casefolded unless the question is case-sensitive.
func canonicalExpression(q question.Question, s string) string {
	s = stripAssignment(normalizeNotation(s))
	s = strings.Join(strings.Fields(s), "")
	if !q.CaseSensitive {
		s = strings.ToLower(s)
	}
	return s
}

// canonicalInequality additionally substitutes the bound variable letter, so
// "3.445<=x<3.455" and the same interval written over m compare equal. It
// returns ok=false when s is not an inequality.
func canonicalInequality(q question.Question, s string) (string, bool) {
	s = canonicalExpression(q, s)
	if !strings.ContainsAny(s, "<>") {
		return "", false
	}
	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) {
			continue
		}
		prevOK := i == 0 || !unicode.IsLetter(runes[i-1]) && !unicode.IsDigit(runes[i-1])
		nextOK := i == len(runes)-1 || !unicode.IsLetter(runes[i+1]) && !unicode.IsDigit(runes[i+1])
		if prevOK && nextOK {
			runes[i] = 'v'
		}
	}
	return string(runes), true
}

// canonicalFactors treats s as a product of factors and returns the factors
// sorted, so 2²×3²×5 equals 2²×5×3². ok is false when s is not a product.
func canonicalFactors(q question.Question, s string) (string, bool) {
	expr := canonicalExpression(q, s)
	// Adjacent parenthesised factors multiply implicitly: (x+4)(x+5).
	expr = strings.ReplaceAll(expr, ")(", ")×(")
	parts := splitFactors(expr)
	if len(parts) < 2 {
		return "", false
	}
	sort.Strings(parts)
	return strings.Join(parts, "×"), true
}

// splitFactors splits on top-level '×' only; multiplication signs inside
// parentheses stay part of their factor.
func splitFactors(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '×':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + len("×")
			}
		}
	}
	parts = append(parts, s[start:])
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
