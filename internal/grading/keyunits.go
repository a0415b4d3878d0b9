package grading

import "strings"

// KeyUnitsMatcher is the deliberately approximate fallback for describe and
// explain answers. It extracts the content tokens of an accepted answer
// (numbers, plus words that are not connective filler) and accepts the
// learner's text when every one of those tokens appears somewhere in it, in
// any order. It is tokenization plus presence checks, not semantics; keep it
// isolated here so it can be tuned without touching the exact and numeric
// comparison branches.
type KeyUnitsMatcher struct{}

// Filler that carries no marking weight. Directional words, quantities and
// subject terms deliberately stay OUT of this list: "right", "positive" and
// "correlation" are content.
var fillerWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "it": {}, "its": {}, "this": {}, "that": {},
	"there": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"of": {}, "to": {}, "in": {}, "on": {}, "at": {}, "by": {}, "with": {},
	"and": {}, "or": {}, "as": {}, "for": {}, "from": {}, "so": {}, "then": {},
	"than": {}, "we": {}, "you": {}, "i": {}, "they": {},
	"shows": {}, "show": {}, "showing": {}, "shown": {},
	"has": {}, "have": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"can": {}, "could": {}, "will": {}, "would": {}, "should": {}, "must": {},
	"get": {}, "gets": {}, "got": {}, "go": {}, "goes": {}, "going": {}, "went": {},
	"move": {}, "moves": {}, "moved": {}, "moving": {},
	"translate": {}, "translates": {}, "translated": {}, "translation": {},
	"shift": {}, "shifts": {}, "shifted": {},
	"space": {}, "spaces": {}, "unit": {}, "units": {}, "squares": {},
	"place": {}, "places": {}, "step": {}, "steps": {},
	"about": {}, "approximately": {}, "roughly": {},
	"answer": {}, "equals": {}, "equal": {}, "value": {},
	"because": {}, "since": {}, "means": {}, "mean": {},
}

// Match reports whether user contains every content token of accepted.
func (KeyUnitsMatcher) Match(user, accepted string) bool {
	wanted := contentTokens(accepted)
	if len(wanted) == 0 {
		return false
	}
	have := map[string]struct{}{}
	for _, t := range tokens(user) {
		have[t] = struct{}{}
	}
	for _, w := range wanted {
		if _, ok := have[w]; !ok {
			return false
		}
	}
	return true
}

func tokens(s string) []string {
	return strings.Fields(foldText(normalizeNotation(s)))
}

func contentTokens(s string) []string {
	var out []string
	for _, t := range tokens(s) {
		if _, filler := fillerWords[t]; filler {
			continue
		}
		out = append(out, t)
	}
	return out
}
