package question

import (
	"strings"
	"testing"
)

func hasMsg(msgs []string, substr string) bool {
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestValidate_ShortAnswer(t *testing.T) {
	q := Question{
		ID:              "q1",
		Type:            TypeShortAnswer,
		Prompt:          "What is the capital of France?",
		AcceptedAnswers: []string{"Paris"},
		MaxMarks:        1,
		Tolerance:       -1,
	}
	if errs, _ := Validate(q); len(errs) != 0 {
		t.Fatalf("expected clean question to validate, got %v", errs)
	}

	q.AcceptedAnswers = nil
	errs, _ := Validate(q)
	if !hasMsg(errs, "accepted answer") {
		t.Fatalf("expected missing accepted answer error, got %v", errs)
	}
}

func TestValidate_StructuralErrors(t *testing.T) {
	q := Question{Type: TypeShortAnswer, Prompt: "ok", MaxMarks: 0, AcceptedAnswers: []string{"x"}}
	errs, warns := Validate(q)
	if !hasMsg(errs, "prompt text") {
		t.Fatalf("expected short prompt error, got %v", errs)
	}
	if !hasMsg(errs, "max marks") {
		t.Fatalf("expected max marks error, got %v", errs)
	}
	if !hasMsg(warns, "no id") {
		t.Fatalf("expected missing id warning, got %v", warns)
	}
}

func TestValidate_UnknownType(t *testing.T) {
	q := Question{ID: "q1", Type: Type("hologram"), Prompt: "Do the thing please", MaxMarks: 1}
	errs, _ := Validate(q)
	if !hasMsg(errs, "unknown interaction type") {
		t.Fatalf("expected unknown type error, got %v", errs)
	}
}

func TestValidate_MultipleChoice(t *testing.T) {
	base := Question{
		ID:       "q1",
		Type:     TypeMultipleChoice,
		Prompt:   "Pick the even number",
		MaxMarks: 1,
	}

	t.Run("too few choices", func(t *testing.T) {
		q := base
		q.Config.Choices = []Choice{{Key: "A", Text: "one"}}
		errs, _ := Validate(q)
		if !hasMsg(errs, "at least 2 choices") {
			t.Fatalf("got %v", errs)
		}
	})

	t.Run("duplicate keys", func(t *testing.T) {
		q := base
		q.AcceptedAnswers = []string{"A"}
		q.Config.Choices = []Choice{{Key: "A"}, {Key: "A"}}
		errs, _ := Validate(q)
		if !hasMsg(errs, "duplicate choice key") {
			t.Fatalf("got %v", errs)
		}
	})

	t.Run("accepted key outside choices", func(t *testing.T) {
		q := base
		q.AcceptedAnswers = []string{"C"}
		q.Config.Choices = []Choice{{Key: "A"}, {Key: "B"}}
		errs, _ := Validate(q)
		if !hasMsg(errs, "not among the choices") {
			t.Fatalf("got %v", errs)
		}
	})

	t.Run("valid", func(t *testing.T) {
		q := base
		q.AcceptedAnswers = []string{"B"}
		q.Config.Choices = []Choice{{Key: "A", Text: "one"}, {Key: "B", Text: "two"}}
		if errs, _ := Validate(q); len(errs) != 0 {
			t.Fatalf("got %v", errs)
		}
	})
}

func TestValidate_FillInBlanks(t *testing.T) {
	q := Question{
		ID:       "q1",
		Type:     TypeFillInBlanks,
		Prompt:   "Water boils at ___ degrees",
		MaxMarks: 1,
		Config:   TypeConfig{Blanks: &BlanksConfig{Count: 2}},
	}

	// Fewer accepted sets than blanks and no shared fallback blocks import.
	errs, _ := Validate(q)
	if !hasMsg(errs, "no accepted answers") {
		t.Fatalf("got %v", errs)
	}

	// With a shared fallback it degrades to a warning.
	q.AcceptedAnswers = []string{"100"}
	errs, warns := Validate(q)
	if len(errs) != 0 {
		t.Fatalf("expected no errors with fallback, got %v", errs)
	}
	if !hasMsg(warns, "fallback") {
		t.Fatalf("expected fallback warning, got %v", warns)
	}

	// Per-blank accepted sets validate cleanly.
	q.Config.Blanks.Accepted = [][]string{{"100"}, {"celsius"}}
	if errs, warns = Validate(q); len(errs) != 0 || len(warns) != 0 {
		t.Fatalf("expected clean, got errs=%v warns=%v", errs, warns)
	}
}

func TestValidate_MatchPairs(t *testing.T) {
	q := Question{ID: "q1", Type: TypeMatchPairs, Prompt: "Match the countries", MaxMarks: 2}

	errs, _ := Validate(q)
	if !hasMsg(errs, "match-pairs") {
		t.Fatalf("expected missing config error, got %v", errs)
	}

	q.Config.Match = &MatchConfig{
		Left:  []Item{{ID: "l1"}, {ID: "l1"}},
		Right: []Item{{ID: "r1"}, {ID: "r2"}},
	}
	errs, _ = Validate(q)
	if !hasMsg(errs, "duplicate left item id") {
		t.Fatalf("expected duplicate id error, got %v", errs)
	}
	if !hasMsg(errs, "canonical left-right mapping") {
		t.Fatalf("expected missing mapping error, got %v", errs)
	}

	q.Config.Match = &MatchConfig{
		Left:  []Item{{ID: "l1"}, {ID: "l2"}},
		Right: []Item{{ID: "r1"}, {ID: "r2"}},
		Pairs: map[string]string{"l1": "r1", "l2": "r2"},
	}
	if errs, _ = Validate(q); len(errs) != 0 {
		t.Fatalf("got %v", errs)
	}
}

func TestValidate_LabelDiagram(t *testing.T) {
	q := Question{
		ID:       "q1",
		Type:     TypeLabelDiagram,
		Prompt:   "Label the cell diagram",
		MaxMarks: 2,
		Config: TypeConfig{Label: &LabelConfig{
			Labels:  []Item{{ID: "nucleus"}, {ID: "membrane"}},
			Targets: []Target{{ID: "t1", CorrectLabel: "nucleus"}, {ID: "t2", CorrectLabel: "vacuole"}},
		}},
	}
	errs, _ := Validate(q)
	if !hasMsg(errs, `unknown label "vacuole"`) {
		t.Fatalf("expected unknown label error, got %v", errs)
	}

	q.Config.Label.Targets[1].CorrectLabel = "membrane"
	if errs, _ = Validate(q); len(errs) != 0 {
		t.Fatalf("got %v", errs)
	}
}

func TestValidate_PlotWarnsWithoutPoints(t *testing.T) {
	q := Question{
		ID:              "q1",
		Type:            TypeGraphPlot,
		Prompt:          "Describe the scatter graph",
		AcceptedAnswers: []string{"positive correlation"},
		MaxMarks:        1,
	}
	errs, warns := Validate(q)
	if len(errs) != 0 {
		t.Fatalf("missing points must not block import, got %v", errs)
	}
	if !hasMsg(warns, "text comparison") {
		t.Fatalf("expected fallback warning, got %v", warns)
	}

	// Without accepted answer text there is nothing the fallback can compare
	// against, so the question is unanswerable and import is blocked.
	q.AcceptedAnswers = nil
	errs, _ = Validate(q)
	if !hasMsg(errs, "expected points or accepted answer") {
		t.Fatalf("expected unanswerable question error, got %v", errs)
	}
}

func TestValidate_MarkScheme(t *testing.T) {
	q := Question{
		ID:       "q1",
		Type:     TypeProofMarkScheme,
		Prompt:   "Prove the angles sum to 180",
		MaxMarks: 2,
	}
	errs, _ := Validate(q)
	if !hasMsg(errs, "mark-scheme criterion") {
		t.Fatalf("expected missing scheme error, got %v", errs)
	}

	q.Config.MarkScheme = []Criterion{
		{Keywords: []string{"angle"}, Marks: 2},
		{Marks: 1},
		{KeyNumbers: []string{"180"}, Marks: 0},
		{Keywords: []string{" ", ""}, Marks: 1},
	}
	errs, warns := Validate(q)
	if !hasMsg(errs, "criterion 2 has neither") {
		t.Fatalf("expected empty criterion error, got %v", errs)
	}
	if !hasMsg(errs, "criterion 4 has neither") {
		t.Fatalf("expected blank-only criterion error, got %v", errs)
	}
	if !hasMsg(errs, "criterion 3 must be worth") {
		t.Fatalf("expected zero-marks error, got %v", errs)
	}
	if !hasMsg(warns, "capped when grading") {
		t.Fatalf("expected over-authored warning, got %v", warns)
	}
}
