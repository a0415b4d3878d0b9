package question

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Legacy records name interaction types inconsistently; map the spellings
// seen in old content dumps onto the canonical set.
var typeAliases = map[string]Type{
	"shortanswer":         TypeShortAnswer,
	"short_answer":        TypeShortAnswer,
	"text":                TypeShortAnswer,
	"multiplechoice":      TypeMultipleChoice,
	"multiple_choice":     TypeMultipleChoice,
	"mcq":                 TypeMultipleChoice,
	"fillinblanks":        TypeFillInBlanks,
	"fill_in_blanks":      TypeFillInBlanks,
	"fill":                TypeFillInBlanks,
	"matchpairs":          TypeMatchPairs,
	"match_pairs":         TypeMatchPairs,
	"match":               TypeMatchPairs,
	"labeldiagram":        TypeLabelDiagram,
	"label_diagram":       TypeLabelDiagram,
	"multinumeric":        TypeMultiNumeric,
	"multi_numeric":       TypeMultiNumeric,
	"tablefill":           TypeTableFill,
	"table_fill":          TypeTableFill,
	"table":               TypeTableFill,
	"graphplot":           TypeGraphPlot,
	"graph_plot":          TypeGraphPlot,
	"geometryconstruct":   TypeGeometryConstruct,
	"geometry_construct":  TypeGeometryConstruct,
	"proofwithmarkscheme": TypeProofMarkScheme,
	"proof":               TypeProofMarkScheme,
	"markscheme":          TypeProofMarkScheme,
}

// Normalize converts an arbitrary raw authoring record into the canonical
// Question form. It is total: malformed or nil input produces a minimal valid
// short-answer question instead of an error.
func Normalize(raw map[string]any) (q Question) {
	defer func() {
		if r := recover(); r != nil {
			q = fallbackQuestion(raw)
		}
	}()
	q = normalize(raw)
	return q
}

// NormalizeJSON decodes a raw JSON authoring record and normalizes it.
// Undecodable input yields the fallback question.
func NormalizeJSON(data []byte) Question {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fallbackQuestion(nil)
	}
	return Normalize(raw)
}

func fallbackQuestion(raw map[string]any) Question {
	q := Question{
		Type:            TypeShortAnswer,
		AcceptedAnswers: []string{},
		MaxMarks:        1,
		Tolerance:       -1,
	}
	if raw != nil {
		q.ID = rawString(raw, "id", "questionId", "question_id")
	}
	return q
}

func normalize(raw map[string]any) Question {
	q := fallbackQuestion(raw)
	if raw == nil {
		return q
	}

	q.Subject = rawString(raw, "subject", "subjectId", "subject_id")
	q.Unit = rawString(raw, "unit", "unitId", "unit_id")
	q.Topic = rawString(raw, "topic", "topicId", "topic_id")
	q.Paper = rawString(raw, "paper", "paperId", "paper_id")
	q.Prompt = rawString(raw, "question", "prompt", "promptText", "prompt_text")

	if t := canonicalType(rawString(raw, "interactionType", "interaction_type", "type")); t != "" {
		q.Type = t
	}

	q.AcceptedAnswers = coerceAnswers(raw)
	q.MaxMarks = coerceMarks(raw)

	if v, ok := rawFloat(raw, "numericTolerance", "numeric_tolerance", "tolerance"); ok && v >= 0 {
		q.Tolerance = v
	}
	q.CaseSensitive = rawBool(raw, "caseSensitive", "case_sensitive")
	q.EquivalentFractions = rawBool(raw, "acceptEquivalentFractions", "accept_equivalent_fractions", "equivalentFractions")

	cfg := rawMap(raw, "typeConfig", "type_config", "config")
	if cfg == nil {
		// Legacy records keep config fields flat on the record itself.
		cfg = raw
	}
	q.Config = normalizeConfig(q, cfg, raw)
	return q
}

func canonicalType(s string) Type {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if KnownType(Type(s)) {
		return Type(s)
	}
	if t, ok := typeAliases[strings.ToLower(s)]; ok {
		return t
	}
	// Unknown types pass through; the dispatcher degrades them safely.
	return Type(s)
}

// coerceAnswers gathers accepted answers from the many legacy shapes:
// a scalar "answer", an "answers" array, a JSON-encoded array string, or a
// "||"-delimited string. The result is trimmed and de-duplicated in order.
func coerceAnswers(raw map[string]any) []string {
	var collected []string
	for _, key := range []string{"acceptedAnswers", "accepted_answers", "answers", "answer"} {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		collected = append(collected, anyToStrings(v)...)
	}

	out := make([]string, 0, len(collected))
	seen := map[string]struct{}{}
	for _, s := range collected {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func anyToStrings(v any) []string {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if strings.HasPrefix(s, "[") {
			var arr []any
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				var out []string
				for _, e := range arr {
					out = append(out, anyToStrings(e)...)
				}
				return out
			}
		}
		if strings.Contains(s, "||") {
			return strings.Split(s, "||")
		}
		return []string{s}
	case []any:
		var out []string
		for _, e := range t {
			out = append(out, anyToStrings(e)...)
		}
		return out
	case []string:
		return t
	case float64:
		return []string{formatNumber(t)}
	case int:
		return []string{strconv.Itoa(t)}
	case bool:
		return []string{strconv.FormatBool(t)}
	default:
		return nil
	}
}

func coerceMarks(raw map[string]any) int {
	if v, ok := rawFloat(raw, "maxMarks", "max_marks", "marks", "points"); ok {
		m := int(v)
		if m >= 1 {
			return m
		}
	}
	return 1
}

func normalizeConfig(q Question, cfg, raw map[string]any) TypeConfig {
	var tc TypeConfig
	switch q.Type {
	case TypeMultipleChoice:
		tc.Choices = normalizeChoices(cfg, raw)
	case TypeFillInBlanks:
		tc.Blanks = normalizeBlanks(q, cfg)
	case TypeMatchPairs:
		tc.Match = normalizeMatch(cfg)
	case TypeLabelDiagram:
		tc.Label = normalizeLabel(cfg)
	case TypeMultiNumeric:
		tc.Numeric = normalizeNumericFields(cfg)
	case TypeTableFill:
		tc.Table = normalizeTable(cfg)
	case TypeGraphPlot, TypeGeometryConstruct:
		tc.Plot = normalizePoints(cfg)
	case TypeProofMarkScheme:
		tc.MarkScheme = normalizeMarkScheme(cfg)
	}
	return tc
}

func normalizeChoices(cfg, raw map[string]any) []Choice {
	if arr, ok := cfg["choices"].([]any); ok && len(arr) > 0 {
		out := make([]Choice, 0, len(arr))
		for i, e := range arr {
			switch c := e.(type) {
			case map[string]any:
				key := rawString(c, "key", "id")
				if key == "" {
					key = string(rune('A' + i))
				}
				out = append(out, Choice{Key: key, Text: rawString(c, "text", "label", "value")})
			case string:
				out = append(out, Choice{Key: string(rune('A' + i)), Text: strings.TrimSpace(c)})
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	// Flat legacy shape: choiceA, choiceB, ...
	var out []Choice
	for i := 0; i < 10; i++ {
		key := string(rune('A' + i))
		text := rawString(raw, "choice"+key, "option"+key)
		if text == "" {
			continue
		}
		out = append(out, Choice{Key: key, Text: text})
	}
	return out
}

func normalizeBlanks(q Question, cfg map[string]any) *BlanksConfig {
	bc := &BlanksConfig{}
	if v, ok := rawFloat(cfg, "blankCount", "blank_count", "count"); ok && v >= 1 {
		bc.Count = int(v)
	}
	if arr, ok := cfg["blanks"].([]any); ok {
		for _, e := range arr {
			switch b := e.(type) {
			case map[string]any:
				bc.Accepted = append(bc.Accepted, anyToStrings(b["accepted"]))
			default:
				bc.Accepted = append(bc.Accepted, anyToStrings(b))
			}
		}
		if bc.Count == 0 {
			bc.Count = len(bc.Accepted)
		}
	}
	if bc.Count == 0 {
		bc.Count = countPlaceholders(q.Prompt)
	}
	if bc.Count == 0 {
		bc.Count = 1
	}
	return bc
}

// countPlaceholders counts runs of 3+ consecutive underscores in the prompt,
// the authoring convention for an inline blank.
func countPlaceholders(prompt string) int {
	count, run := 0, 0
	for _, r := range prompt {
		if r == '_' {
			run++
			continue
		}
		if run >= 3 {
			count++
		}
		run = 0
	}
	if run >= 3 {
		count++
	}
	return count
}

func normalizeMatch(cfg map[string]any) *MatchConfig {
	mc := &MatchConfig{Pairs: map[string]string{}}
	mc.Left = normalizeItems(cfg, "left", "leftItems", "left_items")
	mc.Right = normalizeItems(cfg, "right", "rightItems", "right_items")
	if m, ok := cfg["pairs"].(map[string]any); ok {
		for k, v := range m {
			if s, ok := v.(string); ok {
				mc.Pairs[strings.TrimSpace(k)] = strings.TrimSpace(s)
			}
		}
	}
	if arr, ok := cfg["pairs"].([]any); ok {
		for _, e := range arr {
			p, ok := e.(map[string]any)
			if !ok {
				continue
			}
			l := rawString(p, "left", "leftId", "left_id")
			r := rawString(p, "right", "rightId", "right_id")
			if l != "" && r != "" {
				mc.Pairs[l] = r
			}
		}
	}
	return mc
}

func normalizeItems(cfg map[string]any, keys ...string) []Item {
	for _, key := range keys {
		arr, ok := cfg[key].([]any)
		if !ok {
			continue
		}
		out := make([]Item, 0, len(arr))
		for i, e := range arr {
			switch it := e.(type) {
			case map[string]any:
				id := rawString(it, "id", "key")
				if id == "" {
					id = strconv.Itoa(i)
				}
				out = append(out, Item{ID: id, Text: rawString(it, "text", "label", "value")})
			case string:
				out = append(out, Item{ID: strconv.Itoa(i), Text: strings.TrimSpace(it)})
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func normalizeLabel(cfg map[string]any) *LabelConfig {
	lc := &LabelConfig{}
	lc.Labels = normalizeItems(cfg, "labels", "labelBank", "label_bank")
	if arr, ok := cfg["targets"].([]any); ok {
		for _, e := range arr {
			t, ok := e.(map[string]any)
			if !ok {
				continue
			}
			id := rawString(t, "id", "targetId", "target_id")
			correct := rawString(t, "correctLabel", "correct_label", "correctLabelId", "labelId")
			if id == "" {
				continue
			}
			lc.Targets = append(lc.Targets, Target{ID: id, CorrectLabel: correct})
		}
	}
	return lc
}

func normalizeNumericFields(cfg map[string]any) *NumericConfig {
	nc := &NumericConfig{}
	arr, ok := cfg["fields"].([]any)
	if !ok {
		arr, _ = cfg["numericFields"].([]any)
	}
	for _, e := range arr {
		switch f := e.(type) {
		case map[string]any:
			nf := NumericField{
				Expected:  rawString(f, "expected", "answer", "value"),
				Tolerance: -1,
			}
			if v, ok := rawFloat(f, "tolerance", "tol"); ok && v >= 0 {
				nf.Tolerance = v
			}
			nc.Fields = append(nc.Fields, nf)
		case string:
			nc.Fields = append(nc.Fields, NumericField{Expected: strings.TrimSpace(f), Tolerance: -1})
		case float64:
			nc.Fields = append(nc.Fields, NumericField{Expected: formatNumber(f), Tolerance: -1})
		}
	}
	return nc
}

func normalizeTable(cfg map[string]any) *TableConfig {
	tc := &TableConfig{}
	arr, ok := cfg["rows"].([]any)
	if !ok {
		arr, _ = cfg["expectedRows"].([]any)
	}
	for i, e := range arr {
		r, ok := e.(map[string]any)
		if !ok {
			continue
		}
		row := TableRow{Key: rawString(r, "key", "id"), Cells: map[string]string{}}
		if row.Key == "" {
			row.Key = strconv.Itoa(i)
		}
		if cells, ok := r["cells"].(map[string]any); ok {
			for k, v := range cells {
				row.Cells[k] = anyToDisplay(v)
			}
		} else {
			// Flat row shape: every non-key field is a cell.
			for k, v := range r {
				if k == "key" || k == "id" {
					continue
				}
				row.Cells[k] = anyToDisplay(v)
			}
		}
		tc.Rows = append(tc.Rows, row)
	}
	return tc
}

func normalizePoints(cfg map[string]any) *PointsConfig {
	pc := &PointsConfig{Tolerance: 0.5}
	if v, ok := rawFloat(cfg, "coordTolerance", "coord_tolerance", "pointTolerance", "tolerance"); ok && v >= 0 {
		pc.Tolerance = v
	}
	arr, ok := cfg["expectedPoints"].([]any)
	if !ok {
		arr, _ = cfg["points"].([]any)
	}
	for _, e := range arr {
		switch p := e.(type) {
		case map[string]any:
			x, okX := rawFloat(p, "x")
			y, okY := rawFloat(p, "y")
			if okX && okY {
				pc.Points = append(pc.Points, Point{X: x, Y: y})
			}
		case []any:
			if len(p) >= 2 {
				x, okX := toFloat(p[0])
				y, okY := toFloat(p[1])
				if okX && okY {
					pc.Points = append(pc.Points, Point{X: x, Y: y})
				}
			}
		}
	}
	return pc
}

func normalizeMarkScheme(cfg map[string]any) []Criterion {
	arr, ok := cfg["markScheme"].([]any)
	if !ok {
		arr, _ = cfg["mark_scheme"].([]any)
	}
	if arr == nil {
		arr, _ = cfg["criteria"].([]any)
	}
	var out []Criterion
	for _, e := range arr {
		c, ok := e.(map[string]any)
		if !ok {
			continue
		}
		crit := Criterion{
			Keywords:   anyToStrings(c["keywords"]),
			KeyNumbers: anyToStrings(c["keyNumbers"]),
			Marks:      1,
		}
		if crit.KeyNumbers == nil {
			crit.KeyNumbers = anyToStrings(c["key_numbers"])
		}
		if v, ok := rawFloat(c, "marks", "points"); ok && v >= 0 {
			crit.Marks = int(v)
		}
		out = append(out, crit)
	}
	return out
}

// raw field helpers

func rawString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			return formatNumber(t)
		case bool:
			return strconv.FormatBool(t)
		}
	}
	return ""
}

func rawFloat(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		if f, ok := toFloat(v); ok {
			return f, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func rawBool(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		switch t := m[k].(type) {
		case bool:
			return t
		case string:
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "1", "true", "yes":
				return true
			case "0", "false", "no":
				return false
			}
		}
	}
	return false
}

func rawMap(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if sub, ok := m[k].(map[string]any); ok {
			return sub
		}
	}
	return nil
}

func anyToDisplay(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return formatNumber(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
