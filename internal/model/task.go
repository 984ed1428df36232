package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyTitle      = errors.New("model: task title cannot be empty")
	ErrInvalidCategory = errors.New("model: invalid task category")
)

// Category is one of the four Eisenhower quadrants.
type Category string

const (
	CategoryUrgentImportant       Category = "urgent_important"
	CategoryNotUrgentImportant    Category = "not_urgent_important"
	CategoryUrgentNotImportant    Category = "urgent_not_important"
	CategoryNotUrgentNotImportant Category = "not_urgent_not_important"
)

// Categories returns the quadrants in display order.
func Categories() []Category {
	return []Category{
		CategoryUrgentImportant,
		CategoryNotUrgentImportant,
		CategoryUrgentNotImportant,
		CategoryNotUrgentNotImportant,
	}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryUrgentImportant, CategoryNotUrgentImportant, CategoryUrgentNotImportant, CategoryNotUrgentNotImportant:
		return true
	default:
		return false
	}
}

// Title is the action label shown for the quadrant.
func (c Category) Title() string {
	switch c {
	case CategoryUrgentImportant:
		return "Do First"
	case CategoryNotUrgentImportant:
		return "Schedule"
	case CategoryUrgentNotImportant:
		return "Delegate"
	case CategoryNotUrgentNotImportant:
		return "Eliminate"
	default:
		return string(c)
	}
}

// Subtitle describes the urgency/importance pair.
func (c Category) Subtitle() string {
	switch c {
	case CategoryUrgentImportant:
		return "urgent & important"
	case CategoryNotUrgentImportant:
		return "not urgent & important"
	case CategoryUrgentNotImportant:
		return "urgent & not important"
	case CategoryNotUrgentNotImportant:
		return "not urgent & not important"
	default:
		return ""
	}
}

// Index returns the 1-based position of c in Categories, or 0 when c is invalid.
func (c Category) Index() int {
	for i, cat := range Categories() {
		if cat == c {
			return i + 1
		}
	}
	return 0
}

// ParseCategory accepts a canonical value, a short alias or a 1-based index.
func ParseCategory(raw string) (Category, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if n, err := strconv.Atoi(v); err == nil {
		cats := Categories()
		if n >= 1 && n <= len(cats) {
			return cats[n-1], nil
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	switch v {
	case "do", "do-first", "dofirst", "ui":
		return CategoryUrgentImportant, nil
	case "schedule", "ni":
		return CategoryNotUrgentImportant, nil
	case "delegate", "un":
		return CategoryUrgentNotImportant, nil
	case "eliminate", "nn":
		return CategoryNotUrgentNotImportant, nil
	}
	if c := Category(v); c.IsValid() {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
}

type Task struct {
	ID          string
	Title       string
	Description string
	Category    Category
	Completed   bool
	CreatedAt   time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}
