package report

import (
	"errors"
	"strings"
)

var (
	// ErrNoCategorySelected is returned when an export names no category.
	ErrNoCategorySelected = errors.New("no category selected")
	// ErrInvalidCategory is returned for unknown category identifiers.
	ErrInvalidCategory = errors.New("invalid category")
)

// Category identifies one of the four record kinds.
type Category string

const (
	CategoryGlucose  Category = "glucose"
	CategoryInsulin  Category = "insulin"
	CategoryFood     Category = "food"
	CategoryActivity Category = "activity"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{CategoryGlucose, CategoryInsulin, CategoryFood, CategoryActivity}

// Label returns the user-facing name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryGlucose:
		return "Glicemia"
	case CategoryInsulin:
		return "Insulina"
	case CategoryFood:
		return "Alimentação"
	case CategoryActivity:
		return "Atividade"
	}
	return string(c)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryGlucose, CategoryInsulin, CategoryFood, CategoryActivity:
		return true
	}
	return false
}

// ParseCategories parses a comma separated list of category ids. Duplicates
// are dropped, first occurrence wins.
func ParseCategories(raw string) ([]Category, error) {
	var cats []Category
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		cats = append(cats, Category(part))
	}
	return normalizeCategories(cats)
}

func normalizeCategories(cats []Category) ([]Category, error) {
	seen := make(map[Category]bool, len(cats))
	out := make([]Category, 0, len(cats))
	for _, c := range cats {
		if !c.Valid() {
			return nil, ErrInvalidCategory
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, ErrNoCategorySelected
	}
	return out, nil
}

func allSelected(cats []Category) bool {
	return len(cats) == len(AllCategories)
}

func categoryLabels(cats []Category) string {
	if allSelected(cats) {
		return "Todas"
	}
	labels := make([]string, len(cats))
	for i, c := range cats {
		labels[i] = c.Label()
	}
	return strings.Join(labels, ", ")
}

func categorySlug(cats []Category) string {
	if allSelected(cats) {
		return "todas"
	}
	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = string(c)
	}
	return strings.Join(ids, "-")
}
