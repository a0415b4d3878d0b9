package question

// Type identifies the interaction format of a question.
type Type string

const (
	TypeShortAnswer       Type = "shortAnswer"
	TypeMultipleChoice    Type = "multipleChoice"
	TypeFillInBlanks      Type = "fillInBlanks"
	TypeMatchPairs        Type = "matchPairs"
	TypeLabelDiagram      Type = "labelDiagram"
	TypeMultiNumeric      Type = "multiNumeric"
	TypeTableFill         Type = "tableFill"
	TypeGraphPlot         Type = "graphPlot"
	TypeGeometryConstruct Type = "geometryConstruct"
	TypeProofMarkScheme   Type = "proofWithMarkScheme"
)

var knownTypes = map[Type]struct{}{
	TypeShortAnswer:       {},
	TypeMultipleChoice:    {},
	TypeFillInBlanks:      {},
	TypeMatchPairs:        {},
	TypeLabelDiagram:      {},
	TypeMultiNumeric:      {},
	TypeTableFill:         {},
	TypeGraphPlot:         {},
	TypeGeometryConstruct: {},
	TypeProofMarkScheme:   {},
}

// KnownType reports whether t is one of the supported interaction formats.
func KnownType(t Type) bool { _, ok := knownTypes[t]; return ok }

type Choice struct {
	Key  string `json:"key"`
	Text string `json:"text,omitempty"`
}

// BlanksConfig describes a fill-in-the-blanks body. Accepted holds one
// accepted set per blank; when shorter than Count the question's top-level
// accepted answers serve as a shared fallback for the uncovered blanks.
type BlanksConfig struct {
	Count    int        `json:"count"`
	Accepted [][]string `json:"accepted,omitempty"`
}

type Item struct {
	ID   string `json:"id"`
	Text string `json:"text,omitempty"`
}

// MatchConfig holds the two item columns and the canonical left->right map.
type MatchConfig struct {
	Left  []Item            `json:"left,omitempty"`
	Right []Item            `json:"right,omitempty"`
	Pairs map[string]string `json:"pairs,omitempty"`
}

type Target struct {
	ID           string `json:"id"`
	CorrectLabel string `json:"correct_label"`
}

type LabelConfig struct {
	Labels  []Item   `json:"labels,omitempty"`
	Targets []Target `json:"targets,omitempty"`
}

// NumericField is one independent numeric entry box. Expected is kept as the
// authored string and parsed at grading time; Tolerance < 0 means exact.
type NumericField struct {
	Expected  string  `json:"expected"`
	Tolerance float64 `json:"tolerance"`
}

type NumericConfig struct {
	Fields []NumericField `json:"fields,omitempty"`
}

type TableRow struct {
	Key   string            `json:"key"`
	Cells map[string]string `json:"cells,omitempty"`
}

type TableConfig struct {
	Rows []TableRow `json:"rows,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointsConfig covers both graph plots and geometry constructions; the
// question type decides whether point order matters.
type PointsConfig struct {
	Points    []Point `json:"points,omitempty"`
	Tolerance float64 `json:"tolerance"`
}

// Criterion is one independently awarded row of a mark scheme. Marks are
// granted only when every keyword and key number is present in the answer.
type Criterion struct {
	Keywords   []string `json:"keywords,omitempty"`
	KeyNumbers []string `json:"key_numbers,omitempty"`
	Marks      int      `json:"marks"`
}

// TypeConfig is the per-interaction configuration. Exactly one group of
// fields is populated for a given question type; a nil group at grading time
// degrades to an "unable to grade" result rather than a panic.
type TypeConfig struct {
	Choices    []Choice       `json:"choices,omitempty"`
	Blanks     *BlanksConfig  `json:"blanks,omitempty"`
	Match      *MatchConfig   `json:"match,omitempty"`
	Label      *LabelConfig   `json:"label,omitempty"`
	Numeric    *NumericConfig `json:"numeric,omitempty"`
	Table      *TableConfig   `json:"table,omitempty"`
	Plot       *PointsConfig  `json:"plot,omitempty"`
	MarkScheme []Criterion    `json:"mark_scheme,omitempty"`
}

// Question is the canonical, author-independent form produced by Normalize.
// It is a value type: constructed once, then read-only.
type Question struct {
	ID      string `json:"id"`
	Subject string `json:"subject,omitempty"`
	Unit    string `json:"unit,omitempty"`
	Topic   string `json:"topic,omitempty"`
	Paper   string `json:"paper,omitempty"`

	Type            Type       `json:"type"`
	Prompt          string     `json:"prompt"`
	AcceptedAnswers []string   `json:"accepted_answers"`
	MaxMarks        int        `json:"max_marks"`
	Config          TypeConfig `json:"config"`

	// Tolerance < 0 means no numeric tolerance declared.
	Tolerance           float64 `json:"tolerance"`
	CaseSensitive       bool    `json:"case_sensitive,omitempty"`
	EquivalentFractions bool    `json:"equivalent_fractions,omitempty"`
}

// Response is the learner's answer, tagged by the interaction kind that
// produced it. Only the fields for that kind are populated.
type Response struct {
	Kind Type `json:"kind,omitempty"`

	Text      string                       `json:"text,omitempty"`       // shortAnswer, proofWithMarkScheme, plot fallback
	ChoiceKey string                       `json:"choice_key,omitempty"` // multipleChoice
	Blanks    []string                     `json:"blanks,omitempty"`     // fillInBlanks
	Pairs     map[string]string            `json:"pairs,omitempty"`      // matchPairs: leftID -> rightID
	Labels    map[string]string            `json:"labels,omitempty"`     // labelDiagram: targetID -> labelID
	Fields    []string                     `json:"fields,omitempty"`     // multiNumeric
	Cells     map[string]map[string]string `json:"cells,omitempty"`      // tableFill: rowKey -> colKey -> value
	Points    []Point                      `json:"points,omitempty"`     // graphPlot, geometryConstruct
}
