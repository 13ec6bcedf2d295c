package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testCatalog = `{
  "languages": [
    {
      "slug": "python",
      "name": "Python",
      "version": "3.12",
      "description": "General-purpose language.",
      "exercises": [
        {
          "id": "ex1",
          "title": "FizzBuzz",
          "difficulty": "easy",
          "prompt": "Print FizzBuzz.",
          "starter_code": "def fizzbuzz():\n    pass\n",
          "hints": ["Use modulo.", "Check the combined case first."]
        },
        {
          "id": "ex2",
          "title": "Reverse a String",
          "difficulty": "easy",
          "prompt": "Reverse the input.",
          "starter_code": "def reverse(s):\n    pass\n",
          "hints": ["Walk backwards.", "Build a list first."]
        }
      ]
    },
    {
      "slug": "go",
      "name": "Go",
      "version": "1.24",
      "exercises": []
    }
  ]
}`

func newTestRepository(t *testing.T) *FileRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "learning_content.json")
	if err := os.WriteFile(path, []byte(testCatalog), 0o600); err != nil {
		t.Fatalf("write catalog failed: %v", err)
	}
	return NewFileRepository(path)
}

func TestListLanguages(t *testing.T) {
	repo := newTestRepository(t)

	languages, err := repo.ListLanguages()
	if err != nil {
		t.Fatalf("list languages failed: %v", err)
	}
	if len(languages) != 2 {
		t.Fatalf("expected 2 languages, got %d", len(languages))
	}
	if languages[0].Slug != "python" || languages[0].Name != "Python" {
		t.Fatalf("unexpected first language: %+v", languages[0])
	}
}

func TestGetLanguage_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	if _, err := repo.GetLanguage("rust"); !errors.Is(err, ErrLanguageNotFound) {
		t.Fatalf("expected language not found, got %v", err)
	}

	lang, err := repo.GetLanguage("go")
	if err != nil {
		t.Fatalf("get language failed: %v", err)
	}
	if lang.Version != "1.24" {
		t.Fatalf("unexpected language: %+v", lang)
	}
}

func TestListExercises_SummaryShape(t *testing.T) {
	repo := newTestRepository(t)

	exercises, err := repo.ListExercises("python")
	if err != nil {
		t.Fatalf("list exercises failed: %v", err)
	}
	if len(exercises) != 2 {
		t.Fatalf("expected 2 exercises, got %d", len(exercises))
	}
	if exercises[0].ID != "ex1" || exercises[0].Title != "FizzBuzz" || exercises[0].Difficulty != "easy" {
		t.Fatalf("unexpected summary: %+v", exercises[0])
	}

	if _, err := repo.ListExercises("rust"); !errors.Is(err, ErrLanguageNotFound) {
		t.Fatalf("expected language not found, got %v", err)
	}
}

func TestGetExercise_TwoTierNotFound(t *testing.T) {
	repo := newTestRepository(t)

	if _, err := repo.GetExercise("rust", "ex1"); !errors.Is(err, ErrLanguageNotFound) {
		t.Fatalf("expected language not found, got %v", err)
	}
	if _, err := repo.GetExercise("python", "ex99"); !errors.Is(err, ErrExerciseNotFound) {
		t.Fatalf("expected exercise not found, got %v", err)
	}

	exercise, err := repo.GetExercise("python", "ex1")
	if err != nil {
		t.Fatalf("get exercise failed: %v", err)
	}
	if exercise.Prompt == "" || exercise.StarterCode == "" {
		t.Fatalf("expected full record, got %+v", exercise)
	}
	if len(exercise.Hints) != 2 {
		t.Fatalf("expected exactly 2 hints, got %d", len(exercise.Hints))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := repo.ListLanguages(); err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}
