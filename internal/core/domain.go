package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Housing        Category = "Housing"
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Education      Category = "Education"
	Books          Category = "Books"
	Subscriptions  Category = "Subscriptions"
	Entertainment  Category = "Entertainment"
	Healthcare     Category = "Healthcare"
	Insurance      Category = "Insurance"
	Savings        Category = "Savings"
	Other          Category = "Other"
)

type (
	// Category is one label from the closed set used to classify expenses.
	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// ExpenseRecord is a single manually entered expense.
	ExpenseRecord struct {
		ID          string
		Category    Category
		Amount      Money
		Date        Date
		Description string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
)

// categoryOrder is the fixed display order for the category set.
var categoryOrder = []Category{
	Housing, Food, Transportation, Education, Books,
	Subscriptions, Entertainment, Healthcare, Insurance,
	Savings, Other,
}

// Categories returns the closed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// ParseCategory resolves a raw label against the fixed set. Anything not in
// the set, including the empty string, folds into Other.
func ParseCategory(s string) Category {
	c := Category(strings.TrimSpace(s))
	for _, known := range categoryOrder {
		if c == known {
			return known
		}
	}
	return Other
}

// IsValid reports whether c is a member of the fixed set.
func (c Category) IsValid() bool {
	for _, known := range categoryOrder {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e ExpenseRecord) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return e.Amount.Validate()
}
