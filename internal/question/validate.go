package question

import (
	"fmt"
	"strings"
)

const minPromptLen = 5

// Validate runs the authoring-time structural checks for q. Errors block
// import; warnings are advisory (the grader has a fallback for them).
// Validate never mutates q and never panics.
func Validate(q Question) (errs, warns []string) {
	if strings.TrimSpace(q.ID) == "" {
		warns = append(warns, "question has no id")
	}
	if len(strings.TrimSpace(q.Prompt)) < minPromptLen {
		errs = append(errs, fmt.Sprintf("prompt text must be at least %d characters", minPromptLen))
	}
	if q.MaxMarks < 1 {
		errs = append(errs, "max marks must be at least 1")
	}
	if !KnownType(q.Type) {
		errs = append(errs, fmt.Sprintf("unknown interaction type %q", q.Type))
		return errs, warns
	}

	switch q.Type {
	case TypeMultipleChoice:
		errs, warns = validateChoice(q, errs, warns)
	case TypeFillInBlanks:
		errs, warns = validateBlanks(q, errs, warns)
	case TypeMatchPairs:
		errs, warns = validateMatch(q, errs, warns)
	case TypeLabelDiagram:
		errs, warns = validateLabel(q, errs, warns)
	case TypeMultiNumeric:
		if q.Config.Numeric == nil || len(q.Config.Numeric.Fields) == 0 {
			errs = append(errs, "multi-numeric question needs at least one numeric field")
		}
	case TypeTableFill:
		if q.Config.Table == nil || len(q.Config.Table.Rows) == 0 {
			errs = append(errs, "table-fill question needs expected row definitions")
		}
	case TypeGraphPlot, TypeGeometryConstruct:
		if q.Config.Plot == nil || len(q.Config.Plot.Points) == 0 {
			if len(q.AcceptedAnswers) == 0 {
				errs = append(errs, "question needs expected points or accepted answer text")
			} else {
				warns = append(warns, "no expected points configured; grading falls back to text comparison")
			}
		}
	case TypeProofMarkScheme:
		errs, warns = validateMarkScheme(q, errs, warns)
	default:
		if len(q.AcceptedAnswers) == 0 {
			errs = append(errs, "question needs at least one accepted answer")
		}
	}
	return errs, warns
}

func validateChoice(q Question, errs, warns []string) ([]string, []string) {
	choices := q.Config.Choices
	if len(choices) < 2 {
		errs = append(errs, "multiple-choice question needs at least 2 choices")
		return errs, warns
	}
	keys := map[string]struct{}{}
	for _, c := range choices {
		if _, dup := keys[c.Key]; dup {
			errs = append(errs, fmt.Sprintf("duplicate choice key %q", c.Key))
		}
		keys[c.Key] = struct{}{}
	}
	if len(q.AcceptedAnswers) == 0 {
		errs = append(errs, "multiple-choice question needs at least one accepted choice key")
		return errs, warns
	}
	for _, a := range q.AcceptedAnswers {
		if _, ok := keys[a]; !ok {
			errs = append(errs, fmt.Sprintf("accepted key %q is not among the choices", a))
		}
	}
	return errs, warns
}

func validateBlanks(q Question, errs, warns []string) ([]string, []string) {
	bc := q.Config.Blanks
	if bc == nil || bc.Count < 1 {
		errs = append(errs, "fill-in-blanks question needs a blank count of at least 1")
		return errs, warns
	}
	if len(bc.Accepted) < bc.Count {
		if len(q.AcceptedAnswers) == 0 {
			errs = append(errs, "fill-in-blanks question has blanks with no accepted answers")
		} else {
			warns = append(warns, "not every blank has an explicit accepted set; the shared accepted answers are used as fallback")
		}
	}
	return errs, warns
}

func validateMatch(q Question, errs, warns []string) ([]string, []string) {
	mc := q.Config.Match
	if mc == nil {
		errs = append(errs, "match-pairs question needs left/right items and a canonical mapping")
		return errs, warns
	}
	if len(mc.Left) < 2 || len(mc.Right) < 2 {
		errs = append(errs, "match-pairs question needs at least 2 items on each side")
	}
	errs = appendDupItemErrs(errs, "left", mc.Left)
	errs = appendDupItemErrs(errs, "right", mc.Right)
	if len(mc.Pairs) == 0 {
		errs = append(errs, "match-pairs question needs a canonical left-right mapping")
	}
	return errs, warns
}

func appendDupItemErrs(errs []string, side string, items []Item) []string {
	seen := map[string]struct{}{}
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate %s item id %q", side, it.ID))
		}
		seen[it.ID] = struct{}{}
	}
	return errs
}

func validateLabel(q Question, errs, warns []string) ([]string, []string) {
	lc := q.Config.Label
	if lc == nil || len(lc.Labels) == 0 {
		errs = append(errs, "label-diagram question needs a non-empty label bank")
	}
	if lc == nil || len(lc.Targets) == 0 {
		errs = append(errs, "label-diagram question needs at least one target")
		return errs, warns
	}
	labelIDs := map[string]struct{}{}
	for _, l := range lc.Labels {
		labelIDs[l.ID] = struct{}{}
	}
	for _, t := range lc.Targets {
		if t.ID == "" {
			errs = append(errs, "label target is missing an id")
		}
		if t.CorrectLabel == "" {
			errs = append(errs, fmt.Sprintf("target %q has no correct label reference", t.ID))
		} else if _, ok := labelIDs[t.CorrectLabel]; !ok {
			errs = append(errs, fmt.Sprintf("target %q references unknown label %q", t.ID, t.CorrectLabel))
		}
	}
	return errs, warns
}

func validateMarkScheme(q Question, errs, warns []string) ([]string, []string) {
	scheme := q.Config.MarkScheme
	if len(scheme) == 0 {
		errs = append(errs, "proof question needs at least one mark-scheme criterion")
		return errs, warns
	}
	total := 0
	for i, c := range scheme {
		if countNonEmpty(c.Keywords)+countNonEmpty(c.KeyNumbers) == 0 {
			errs = append(errs, fmt.Sprintf("criterion %d has neither keywords nor key numbers", i+1))
		}
		if c.Marks < 1 {
			errs = append(errs, fmt.Sprintf("criterion %d must be worth at least 1 mark", i+1))
		}
		total += c.Marks
	}
	if total > q.MaxMarks {
		warns = append(warns, fmt.Sprintf("mark scheme sums to %d but max marks is %d; the total is capped when grading", total, q.MaxMarks))
	}
	return errs, warns
}

func countNonEmpty(ss []string) int {
	n := 0
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}
