// Package content serves the static learning catalog: a JSON document
// of languages and their exercises. The document is treated as
// read-only for the process lifetime.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	ErrLanguageNotFound = errors.New("language not found")
	ErrExerciseNotFound = errors.New("exercise not found")
)

// LanguageInfo is the list shape for a language; exercises are
// fetched separately.
type LanguageInfo struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}

// ExerciseSummary is the collection shape for an exercise. Heavy
// fields (prompt, starter code, hints) stay out of list responses.
type ExerciseSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
}

// Exercise is the full record a user needs to start solving.
type Exercise struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Difficulty  string   `json:"difficulty"`
	Prompt      string   `json:"prompt"`
	StarterCode string   `json:"starter_code"`
	Hints       []string `json:"hints"`
}

type language struct {
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description string     `json:"description"`
	Exercises   []Exercise `json:"exercises"`
}

type catalog struct {
	Languages []language `json:"languages"`
}

// Repository is the read side of the learning catalog.
type Repository interface {
	ListLanguages() ([]LanguageInfo, error)
	GetLanguage(slug string) (*LanguageInfo, error)
	ListExercises(languageSlug string) ([]ExerciseSummary, error)
	GetExercise(languageSlug, exerciseID string) (*Exercise, error)
}

// FileRepository reads the catalog from a JSON file on every call.
// The document is small, so re-parsing per request is cheaper than a
// cache it would never invalidate.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) ListLanguages() ([]LanguageInfo, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	infos := make([]LanguageInfo, 0, len(doc.Languages))
	for _, lang := range doc.Languages {
		infos = append(infos, languageInfo(lang))
	}
	return infos, nil
}

func (r *FileRepository) GetLanguage(slug string) (*LanguageInfo, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	lang := findLanguage(doc, slug)
	if lang == nil {
		return nil, ErrLanguageNotFound
	}
	info := languageInfo(*lang)
	return &info, nil
}

func (r *FileRepository) ListExercises(languageSlug string) ([]ExerciseSummary, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	lang := findLanguage(doc, languageSlug)
	if lang == nil {
		return nil, ErrLanguageNotFound
	}
	summaries := make([]ExerciseSummary, 0, len(lang.Exercises))
	for _, ex := range lang.Exercises {
		summaries = append(summaries, ExerciseSummary{
			ID:         ex.ID,
			Title:      ex.Title,
			Difficulty: ex.Difficulty,
		})
	}
	return summaries, nil
}

func (r *FileRepository) GetExercise(languageSlug, exerciseID string) (*Exercise, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	lang := findLanguage(doc, languageSlug)
	if lang == nil {
		return nil, ErrLanguageNotFound
	}
	for i := range lang.Exercises {
		if lang.Exercises[i].ID == exerciseID {
			ex := lang.Exercises[i]
			return &ex, nil
		}
	}
	return nil, ErrExerciseNotFound
}

func (r *FileRepository) load() (*catalog, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read learning content failed: %w", err)
	}
	var doc catalog
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse learning content failed: %w", err)
	}
	return &doc, nil
}

func findLanguage(doc *catalog, slug string) *language {
	for i := range doc.Languages {
		if doc.Languages[i].Slug == slug {
			return &doc.Languages[i]
		}
	}
	return nil
}

func languageInfo(lang language) LanguageInfo {
	return LanguageInfo{
		Slug:        lang.Slug,
		Name:        lang.Name,
		Version:     lang.Version,
		Description: lang.Description,
	}
}
