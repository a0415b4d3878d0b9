package grading

import (
	"strings"
	"testing"

	"github.com/brightmark/brightmark-core/internal/question"
)

func plotConfig() *question.PointsConfig {
	return &question.PointsConfig{
		Points:    []question.Point{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}},
		Tolerance: 0.5,
	}
}

func TestGradePlot_OrderIndependent(t *testing.T) {
	q := question.Question{Type: question.TypeGraphPlot, MaxMarks: 3, Tolerance: -1,
		Config: question.TypeConfig{Plot: plotConfig()}}

	// Same points, shuffled: graph plots accept any order.
	res := Grade(q, question.Response{Points: []question.Point{{X: 5, Y: 6}, {X: 1, Y: 2}, {X: 3, Y: 4}}})
	if !res.Correct || res.Marks != 3 {
		t.Fatalf("expected shuffled points accepted, got %+v", res)
	}

	// Within tolerance counts; beyond does not.
	res = Grade(q, question.Response{Points: []question.Point{{X: 1.3, Y: 2.3}, {X: 3, Y: 9}, {X: 5, Y: 6}}})
	if res.Correct || res.Marks != 2 {
		t.Fatalf("expected 2 of 3 points matched, got %+v", res)
	}
}

func TestGradeConstruct_OrderSensitive(t *testing.T) {
	q := question.Question{Type: question.TypeGeometryConstruct, MaxMarks: 3, Tolerance: -1,
		Config: question.TypeConfig{Plot: plotConfig()}}

	// In order: full marks.
	res := Grade(q, question.Response{Points: []question.Point{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}}})
	if !res.Correct || res.Marks != 3 {
		t.Fatalf("expected ordered vertices accepted, got %+v", res)
	}

	// Same set shuffled: vertices land on the wrong positions.
	res = Grade(q, question.Response{Points: []question.Point{{X: 5, Y: 6}, {X: 1, Y: 2}, {X: 3, Y: 4}}})
	if res.Correct || res.Marks != 0 {
		t.Fatalf("expected shuffled vertices rejected for constructions, got %+v", res)
	}
}

func TestGradePlot_TextFallback(t *testing.T) {
	q := question.Question{
		Type: question.TypeGraphPlot, MaxMarks: 1, Tolerance: -1,
		AcceptedAnswers: []string{"positive correlation"},
	}

	res := Grade(q, question.Response{Text: "it shows positive correlation"})
	if !res.Correct || res.Marks != 1 {
		t.Fatalf("expected text fallback to accept, got %+v", res)
	}

	// A failed fallback is a normal miss, not an authoring defect.
	res = Grade(q, question.Response{Text: "no correlation"})
	if res.Marks != 0 || res.Feedback.Summary != "Incorrect" {
		t.Fatalf("expected Incorrect summary from fallback, got %+v", res)
	}
	if strings.Contains(res.Feedback.Summary, "Unable to grade") {
		t.Fatalf("fallback miss must not read as unable to grade")
	}
}

func TestGradeConstruct_MissingConfig(t *testing.T) {
	q := question.Question{Type: question.TypeGeometryConstruct, MaxMarks: 2, Tolerance: -1}
	res := Grade(q, question.Response{Points: []question.Point{{X: 1, Y: 1}}})
	if res.Marks != 0 || !strings.Contains(res.Feedback.Summary, "Unable to grade") {
		t.Fatalf("expected unable to grade without vertices, got %+v", res)
	}
}

func TestGradePlot_ExtraPointsClaimNothing(t *testing.T) {
	q := question.Question{Type: question.TypeGraphPlot, MaxMarks: 2, Tolerance: -1,
		Config: question.TypeConfig{Plot: &question.PointsConfig{
			Points:    []question.Point{{X: 0, Y: 0}, {X: 2, Y: 2}},
			Tolerance: 0.25,
		}}}
	// Two user points near the same expected point: only one claims it.
	res := Grade(q, question.Response{Points: []question.Point{{X: 0, Y: 0}, {X: 0.1, Y: 0.1}}})
	if res.Marks != 1 {
		t.Fatalf("expected one claim per expected point, got %+v", res)
	}
}
