// Package domain contains the canonical learning model. It has no
// infrastructure dependencies; every other package builds on it.
package domain

import "math"

// LevelType identifies the activity kind of a level
type LevelType string

const (
	LevelTheory     LevelType = "THEORY"     // markdown reading
	LevelQuiz       LevelType = "QUIZ"       // multiple choice, 4 options
	LevelFlashcards LevelType = "FLASHCARDS" // front/back cards
	LevelPractice   LevelType = "PRACTICE"   // multi-step task with solution reveal
	LevelSummary    LevelType = "SUMMARY"    // bullet points / checklist
)

// IsValid reports whether t is one of the five known level types
func (t LevelType) IsValid() bool {
	switch t {
	case LevelTheory, LevelQuiz, LevelFlashcards, LevelPractice, LevelSummary:
		return true
	default:
		return false
	}
}

// LevelStatus tracks a level through its lifecycle. Status only ever
// advances LOCKED -> UNLOCKED -> COMPLETED, never backwards.
type LevelStatus string

const (
	StatusLocked    LevelStatus = "LOCKED"
	StatusUnlocked  LevelStatus = "UNLOCKED"
	StatusCompleted LevelStatus = "COMPLETED"
)

// QuizOption is one of exactly four answer choices
type QuizOption struct {
	Text        string `json:"text"`
	Explanation string `json:"explanation"` // feedback shown for this option
}

// QuizQuestion is a multiple-choice question with per-option feedback
type QuizQuestion struct {
	Question    string       `json:"question"`
	Options     []QuizOption `json:"options"`
	AnswerIndex int          `json:"answerIndex"` // must index into Options
}

// HasValidAnswer reports whether AnswerIndex points at a real option
func (q QuizQuestion) HasValidAnswer() bool {
	return q.AnswerIndex >= 0 && q.AnswerIndex < len(q.Options)
}

// Flashcard is a front/back study card
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// PracticeTask is a task with an optional hint and a revealable solution
type PracticeTask struct {
	Question string `json:"question"`
	Hint     string `json:"hint,omitempty"`
	Solution string `json:"solution"`
}

// LevelContent is the variant payload of a level, keyed by the level's type.
// Only the fields matching the type are populated.
type LevelContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`

	MarkdownContent string         `json:"markdownContent,omitempty"` // THEORY, SUMMARY
	QuizQuestions   []QuizQuestion `json:"quizQuestions,omitempty"`   // QUIZ
	Flashcards      []Flashcard    `json:"flashcards,omitempty"`      // FLASHCARDS
	PracticeTasks   []PracticeTask `json:"practiceTasks,omitempty"`   // PRACTICE
}

// Level is one atomic learning activity
type Level struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Type    LevelType    `json:"type"`
	Status  LevelStatus  `json:"status"`
	Stars   int          `json:"stars"` // 0-3, non-decreasing across completions
	Content LevelContent `json:"content"`

	// TranslatedContent holds the bilingual overlay, attached positionally
	// by the translation merge. Nil when no translation exists.
	TranslatedContent *LevelContent `json:"contentTranslated,omitempty"`
}

// Unit groups an ordered sequence of levels
type Unit struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ColorTheme  string  `json:"colorTheme"`
	Levels      []Level `json:"levels"`

	TranslatedTitle       string `json:"titleTranslated,omitempty"`
	TranslatedDescription string `json:"descriptionTranslated,omitempty"`
}

// Course is the top-level learning document: an ordered tree of units
// containing levels. TotalProgress is derived from level statuses and is
// never authoritative on its own.
type Course struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Professor     string `json:"professor,omitempty"`
	Icon          string `json:"icon"`
	ThemeColor    string `json:"themeColor"`
	TotalProgress int    `json:"totalProgress"`
	Units         []Unit `json:"units"`

	TranslatedTitle string `json:"titleTranslated,omitempty"`
}

// MaxStars is the highest star rating a level completion can earn
const MaxStars = 3

// ClampStars bounds a raw star value to the 0-3 range
func ClampStars(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxStars {
		return MaxStars
	}
	return n
}

// -----------------------------------------------------------------------------
// Document order
//
// Levels have a total order: unit array position, then level array position
// within that unit. Initial unlocking (ingest) and next-level unlocking
// (progression) both derive from this single ordering.
// -----------------------------------------------------------------------------

// LevelRef locates a level in a course's document order
type LevelRef struct {
	Unit  int // index into Course.Units
	Level int // index into Unit.Levels
	Seq   int // zero-based position in the flattened document order
}

// OrderedRefs returns refs for every level in document order
func (c *Course) OrderedRefs() []LevelRef {
	var refs []LevelRef
	seq := 0
	for u := range c.Units {
		for l := range c.Units[u].Levels {
			refs = append(refs, LevelRef{Unit: u, Level: l, Seq: seq})
			seq++
		}
	}
	return refs
}

// LevelAt returns the level a ref points to, or nil for an out-of-range ref
func (c *Course) LevelAt(ref LevelRef) *Level {
	if ref.Unit < 0 || ref.Unit >= len(c.Units) {
		return nil
	}
	unit := &c.Units[ref.Unit]
	if ref.Level < 0 || ref.Level >= len(unit.Levels) {
		return nil
	}
	return &unit.Levels[ref.Level]
}

// FindLevel locates a level by id
func (c *Course) FindLevel(id string) (LevelRef, bool) {
	for _, ref := range c.OrderedRefs() {
		if c.LevelAt(ref).ID == id {
			return ref, true
		}
	}
	return LevelRef{}, false
}

// NextRef returns the ref immediately after the given one in document
// order, crossing unit boundaries. ok is false when ref is the last level.
func (c *Course) NextRef(ref LevelRef) (LevelRef, bool) {
	refs := c.OrderedRefs()
	if ref.Seq+1 >= len(refs) {
		return LevelRef{}, false
	}
	return refs[ref.Seq+1], true
}

// LevelCount returns the total number of levels across all units
func (c *Course) LevelCount() int {
	n := 0
	for _, u := range c.Units {
		n += len(u.Levels)
	}
	return n
}

// CompletedCount returns the number of COMPLETED levels
func (c *Course) CompletedCount() int {
	n := 0
	for _, u := range c.Units {
		for _, l := range u.Levels {
			if l.Status == StatusCompleted {
				n++
			}
		}
	}
	return n
}

// ComputeProgress derives the 0-100 completion percentage from level
// statuses. An empty course is 0.
func (c *Course) ComputeProgress() int {
	total := c.LevelCount()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(c.CompletedCount()) / float64(total) * 100))
}

// Clone creates a deep copy of the course. Snapshot transformations
// (progression, translation merge) mutate the clone, never the input.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Units = make([]Unit, len(c.Units))
	for i, u := range c.Units {
		cu := u
		cu.Levels = make([]Level, len(u.Levels))
		for j, l := range u.Levels {
			cl := l
			cl.Content = cloneContent(l.Content)
			if l.TranslatedContent != nil {
				tc := cloneContent(*l.TranslatedContent)
				cl.TranslatedContent = &tc
			}
			cu.Levels[j] = cl
		}
		clone.Units[i] = cu
	}
	return &clone
}

func cloneContent(c LevelContent) LevelContent {
	out := c
	if c.QuizQuestions != nil {
		out.QuizQuestions = make([]QuizQuestion, len(c.QuizQuestions))
		for i, q := range c.QuizQuestions {
			cq := q
			cq.Options = append([]QuizOption(nil), q.Options...)
			out.QuizQuestions[i] = cq
		}
	}
	if c.Flashcards != nil {
		out.Flashcards = append([]Flashcard(nil), c.Flashcards...)
	}
	if c.PracticeTasks != nil {
		out.PracticeTasks = append([]PracticeTask(nil), c.PracticeTasks...)
	}
	return out
}
