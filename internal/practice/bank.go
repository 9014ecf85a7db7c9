package practice

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/studyhub/backend/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// QuestionBank is the read-only source of practice questions.
type QuestionBank interface {
	Categories() []models.Category
	QuestionsFor(category string) ([]models.Question, error)
	QuestionAt(category string, index int) (models.Question, error)
}

// Catalog is a QuestionBank fixed at construction time.
type Catalog struct {
	order      []string
	categories map[string]models.Category
}

type catalogFile struct {
	Categories []models.Category `yaml:"categories"`
}

// NewCatalog validates the categories and builds an immutable bank from them.
func NewCatalog(categories []models.Category) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("catalog has no categories")
	}

	c := &Catalog{categories: make(map[string]models.Category, len(categories))}
	for _, cat := range categories {
		if cat.Key == "" {
			return nil, fmt.Errorf("category key is required")
		}
		if _, dup := c.categories[cat.Key]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.Key)
		}
		if len(cat.Questions) == 0 {
			return nil, fmt.Errorf("category %q has no questions", cat.Key)
		}

		ids := make(map[string]bool, len(cat.Questions))
		questions := make([]models.Question, len(cat.Questions))
		for i, q := range cat.Questions {
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("category %q: %w", cat.Key, err)
			}
			if ids[q.ID] {
				return nil, fmt.Errorf("category %q: duplicate question id %q", cat.Key, q.ID)
			}
			ids[q.ID] = true
			q.Options = append([]string(nil), q.Options...)
			questions[i] = q
		}
		cat.Questions = questions

		c.order = append(c.order, cat.Key)
		c.categories[cat.Key] = cat
	}
	return c, nil
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return NewCatalog(f.Categories)
}

// LoadCatalog reads the catalog at path, or the built-in one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// DefaultCatalog returns the built-in math, science and coding questions.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

func (c *Catalog) Categories() []models.Category {
	out := make([]models.Category, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.categories[key])
	}
	return out
}

func (c *Catalog) Category(key string) (models.Category, bool) {
	cat, ok := c.categories[key]
	return cat, ok
}

func (c *Catalog) QuestionsFor(category string) ([]models.Question, error) {
	cat, ok := c.categories[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return append([]models.Question(nil), cat.Questions...), nil
}

func (c *Catalog) QuestionAt(category string, index int) (models.Question, error) {
	cat, ok := c.categories[category]
	if !ok {
		return models.Question{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if index < 0 || index >= len(cat.Questions) {
		return models.Question{}, fmt.Errorf("%w: %s[%d] (have %d)", ErrOutOfRange, category, index, len(cat.Questions))
	}
	return cat.Questions[index], nil
}
