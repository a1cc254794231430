// Package ingest turns loosely-structured, untrusted course JSON into the
// canonical domain model. Course content is typically authored by an LLM
// against a prompt template, so the normalizer is deliberately lenient:
// everything below the required top-level fields is repaired rather than
// rejected.
package ingest

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
)

// DefaultDescription is the placeholder used when a level carries no
// preview text of its own.
const DefaultDescription = "Lerneinheit"

// rawCourse mirrors the lenient ingestion shape. Pointer fields
// distinguish "absent" from "empty" for the required-field check.
type rawCourse struct {
	ID         string     `json:"id"`
	Title      *string    `json:"title"`
	Professor  string     `json:"professor"`
	Icon       string     `json:"icon"`
	ThemeColor string     `json:"themeColor"`
	Units      *[]rawUnit `json:"units"`
}

type rawUnit struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ColorTheme  string     `json:"colorTheme"`
	Levels      []rawLevel `json:"levels"`
}

type rawLevel struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Type    string      `json:"type"`
	Content *rawContent `json:"content"`

	// Legacy flat fields: older generators emit level payloads at the
	// top level instead of inside a content wrapper.
	Description     string                `json:"description"`
	MarkdownContent string                `json:"markdownContent"`
	QuizQuestions   []rawQuestion         `json:"quizQuestions"`
	Flashcards      []domain.Flashcard    `json:"flashcards"`
	PracticeTasks   []domain.PracticeTask `json:"practiceTasks"`
}

type rawContent struct {
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	MarkdownContent string                `json:"markdownContent"`
	QuizQuestions   []rawQuestion         `json:"quizQuestions"`
	Flashcards      []domain.Flashcard    `json:"flashcards"`
	PracticeTasks   []domain.PracticeTask `json:"practiceTasks"`
}

type rawQuestion struct {
	Question    string      `json:"question"`
	Options     []rawOption `json:"options"`
	AnswerIndex *int        `json:"answerIndex"`
}

// rawOption accepts the legacy is-correct flag. The flag only exists on
// input; canonical questions carry AnswerIndex instead.
type rawOption struct {
	Text        string `json:"text"`
	Explanation string `json:"explanation"`
	IsCorrect   bool   `json:"isCorrect"`
}

// Normalize parses raw course JSON and repairs it into canonical form.
// JSON parse failures propagate unchanged; a missing title or units field
// fails with a *domain.ValidationError naming every missing field. All
// other irregularities are repaired in place.
//
// The result always has a freshly generated course id, totalProgress 0,
// all stars 0, and exactly the first level in document order UNLOCKED.
func Normalize(data []byte) (*domain.Course, error) {
	var raw rawCourse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var missing []string
	if raw.Title == nil {
		missing = append(missing, "title")
	}
	if raw.Units == nil {
		missing = append(missing, "units")
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Fields: missing}
	}

	course := &domain.Course{
		ID:            uuid.NewString(), // never trust an external id
		Title:         *raw.Title,
		Professor:     raw.Professor,
		Icon:          raw.Icon,
		ThemeColor:    raw.ThemeColor,
		TotalProgress: 0,
		Units:         make([]domain.Unit, 0, len(*raw.Units)),
	}

	for _, ru := range *raw.Units {
		unit := domain.Unit{
			ID:          defaultID(ru.ID),
			Title:       ru.Title,
			Description: ru.Description,
			ColorTheme:  ru.ColorTheme,
			Levels:      make([]domain.Level, 0, len(ru.Levels)),
		}
		for _, rl := range ru.Levels {
			unit.Levels = append(unit.Levels, normalizeLevel(rl))
		}
		course.Units = append(course.Units, unit)
	}

	// Freshly imported content is always unplayed: force the first level
	// in document order open and lock everything behind it, regardless of
	// any status the input claimed.
	for _, ref := range course.OrderedRefs() {
		lvl := course.LevelAt(ref)
		if ref.Seq == 0 {
			lvl.Status = domain.StatusUnlocked
		} else {
			lvl.Status = domain.StatusLocked
		}
	}

	return course, nil
}

func normalizeLevel(rl rawLevel) domain.Level {
	content := rl.Content
	if content == nil {
		// Synthesize the wrapper from legacy flat fields
		content = &rawContent{
			Description:     rl.Description,
			MarkdownContent: rl.MarkdownContent,
			QuizQuestions:   rl.QuizQuestions,
			Flashcards:      rl.Flashcards,
			PracticeTasks:   rl.PracticeTasks,
		}
	}
	if content.Title == "" {
		content.Title = rl.Title
	}
	if content.Description == "" {
		content.Description = DefaultDescription
	}

	levelType := domain.LevelType(rl.Type)

	return domain.Level{
		ID:     defaultID(rl.ID),
		Title:  rl.Title,
		Type:   levelType,
		Status: domain.StatusLocked, // re-forced afterwards in document order
		Stars:  0,
		Content: domain.LevelContent{
			Title:           content.Title,
			Description:     content.Description,
			MarkdownContent: content.MarkdownContent,
			QuizQuestions:   normalizeQuestions(levelType, content.QuizQuestions),
			Flashcards:      content.Flashcards,
			PracticeTasks:   content.PracticeTasks,
		},
	}
}

// normalizeQuestions resolves the legacy isCorrect flag into answerIndex
// for quiz levels. When neither is present the first option is assumed
// correct, matching the repair-over-reject policy.
func normalizeQuestions(levelType domain.LevelType, raw []rawQuestion) []domain.QuizQuestion {
	if raw == nil {
		return nil
	}

	questions := make([]domain.QuizQuestion, 0, len(raw))
	for _, rq := range raw {
		q := domain.QuizQuestion{
			Question: rq.Question,
			Options:  make([]domain.QuizOption, 0, len(rq.Options)),
		}
		for _, opt := range rq.Options {
			q.Options = append(q.Options, domain.QuizOption{
				Text:        opt.Text,
				Explanation: opt.Explanation,
			})
		}

		switch {
		case rq.AnswerIndex != nil:
			q.AnswerIndex = *rq.AnswerIndex
		case levelType == domain.LevelQuiz:
			q.AnswerIndex = firstCorrect(rq.Options)
		}

		questions = append(questions, q)
	}
	return questions
}

func firstCorrect(options []rawOption) int {
	for i, opt := range options {
		if opt.IsCorrect {
			return i
		}
	}
	return 0
}

func defaultID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
