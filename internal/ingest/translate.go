package ingest

import (
	"encoding/json"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
)

// Translation is a parallel document carrying translated text for a
// course. It mirrors the course structure but holds no progress state.
type Translation struct {
	Title string            `json:"title"`
	Units []TranslationUnit `json:"units"`
}

// TranslationUnit carries translated unit text
type TranslationUnit struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Levels      []TranslationLevel `json:"levels"`
}

// TranslationLevel carries translated level content. Generators emit
// either {"content": {...}} or the content fields directly on the level
// object; both shapes are accepted.
type TranslationLevel struct {
	Content *domain.LevelContent
}

// UnmarshalJSON accepts a wrapped or flat content shape
func (t *TranslationLevel) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		Content *domain.LevelContent `json:"content"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if wrapped.Content != nil {
		t.Content = wrapped.Content
		return nil
	}

	var flat domain.LevelContent
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	t.Content = &flat
	return nil
}

// ParseTranslation parses a translation document
func ParseTranslation(data []byte) (*Translation, error) {
	var tr Translation
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

// MergeTranslations zips a translation document onto a course by array
// position: unit i maps to translated unit i, level j to translated
// level j. Missing entries at any position simply leave that field
// unset; the merge never fails.
//
// The matching is purely positional. If base and translation diverge in
// unit or level ordering, content is silently mismatched -- there is no
// reconciliation signal. Known limitation.
func MergeTranslations(course *domain.Course, tr *Translation) *domain.Course {
	merged := course.Clone()
	if tr == nil {
		return merged
	}

	if tr.Title != "" {
		merged.TranslatedTitle = tr.Title
	}

	for u := range merged.Units {
		if u >= len(tr.Units) {
			break
		}
		trUnit := tr.Units[u]
		merged.Units[u].TranslatedTitle = trUnit.Title
		merged.Units[u].TranslatedDescription = trUnit.Description

		for l := range merged.Units[u].Levels {
			if l >= len(trUnit.Levels) {
				break
			}
			if trUnit.Levels[l].Content != nil {
				content := *trUnit.Levels[l].Content
				merged.Units[u].Levels[l].TranslatedContent = &content
			}
		}
	}

	return merged
}

// TranslationTemplate strips progress and identity fields from a course,
// producing the skeleton handed to a translator (human or LLM). The
// returned document has the exact positional shape MergeTranslations
// expects back.
func TranslationTemplate(course *domain.Course) *Translation {
	tr := &Translation{
		Title: course.Title,
		Units: make([]TranslationUnit, 0, len(course.Units)),
	}
	for _, u := range course.Units {
		tu := TranslationUnit{
			Title:       u.Title,
			Description: u.Description,
			Levels:      make([]TranslationLevel, 0, len(u.Levels)),
		}
		for _, l := range u.Levels {
			content := l.Content
			tu.Levels = append(tu.Levels, TranslationLevel{Content: &content})
		}
		tr.Units = append(tr.Units, tu)
	}
	return tr
}

// MarshalJSON emits the wrapped content shape for translation levels
func (t TranslationLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Content *domain.LevelContent `json:"content"`
	}{Content: t.Content})
}
