package grading

import (
	"fmt"
	"math"
	"strings"

	"github.com/brightmark/brightmark-core/internal/question"
)

// gradePlot marks plotted points order-independently: each user point claims
// the nearest unclaimed expected point within tolerance. With no expected
// points configured the answer text is compared instead (a fallback attempt
// was made, so a miss reads "Incorrect" rather than "Unable to grade").
func gradePlot(q question.Question, resp question.Response) Result {
	pc := q.Config.Plot
	if pc == nil || len(pc.Points) == 0 {
		if strings.TrimSpace(resp.Text) != "" && matchesAccepted(q, resp.Text) {
			return fullMarksResult(q, canonicalExpression(q, resp.Text))
		}
		return incorrectResult(q, pointsEcho(resp.Points))
	}

	claimed := make([]bool, len(pc.Points))
	matched := 0
	for _, p := range resp.Points {
		best := -1
		bestDist := math.Inf(1)
		for i, want := range pc.Points {
			if claimed[i] {
				continue
			}
			d := math.Hypot(p.X-want.X, p.Y-want.Y)
			if d <= pc.Tolerance+numericEpsilon && d < bestDist {
				best, bestDist = i, d
			}
		}
		if best >= 0 {
			claimed[best] = true
			matched++
		}
	}
	return partialResult(q, matched, len(pc.Points), pointsEcho(resp.Points))
}

// gradeConstruct marks construction vertices in the order supplied: figures
// are orientation- and sequence-dependent, so the i-th user point must land
// on the i-th expected point. This is the one behavioral difference from
// graph plotting.
func gradeConstruct(q question.Question, resp question.Response) Result {
	pc := q.Config.Plot
	if pc == nil || len(pc.Points) == 0 {
		return unableResult(q, "expected vertices")
	}
	matched := 0
	for i, want := range pc.Points {
		if i >= len(resp.Points) {
			break
		}
		p := resp.Points[i]
		if math.Hypot(p.X-want.X, p.Y-want.Y) <= pc.Tolerance+numericEpsilon {
			matched++
		}
	}
	return partialResult(q, matched, len(pc.Points), pointsEcho(resp.Points))
}

func pointsEcho(pts []question.Point) string {
	parts := make([]string, 0, len(pts))
	for _, p := range pts {
		parts = append(parts, fmt.Sprintf("(%g, %g)", p.X, p.Y))
	}
	return strings.Join(parts, ", ")
}
