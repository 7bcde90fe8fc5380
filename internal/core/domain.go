package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryFood     Category = "food"
	CategoryTravel   Category = "travel"
	CategoryShopping Category = "shopping"
	CategoryBills    Category = "bills"
	CategoryOther    Category = "other"
)

type (
	// Category is one of the fixed expense categories.
	Category string

	// Expense is a dated, user-owned spending record.
	Expense struct {
		ID        string    `json:"id"`
		UserID    int64     `json:"user_id"`
		Title     string    `json:"title"`
		Amount    Money     `json:"amount"`
		Category  Category  `json:"category"`
		Date      time.Time `json:"date"`
		Notes     string    `json:"notes"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	// Budget is the spending target for one (user, calendar month) pair.
	Budget struct {
		UserID int64  `json:"-"`
		Month  string `json:"month"` // "YYYY-MM"
		Amount Money  `json:"amount"`
	}

	// ExpensePatch carries a partial-field update; nil fields keep their
	// prior value.
	ExpensePatch struct {
		Title    *string
		Amount   *Money
		Category *Category
		Date     *time.Time
		Notes    *string
	}
)

var (
	ErrEmptyTitle      = errors.New("title is required")
	ErrInvalidAmount   = errors.New("amount must be zero or positive")
	ErrInvalidCategory = errors.New("category must be one of: food, travel, shopping, bills, other")
	ErrInvalidDate     = errors.New("invalid date")
	ErrNotFound        = errors.New("not found")
)

var validationErrs = []error{ErrEmptyTitle, ErrInvalidAmount, ErrInvalidCategory, ErrInvalidDate}

// IsValidation reports whether err is a user-input validation error as
// opposed to a missing record or an internal failure.
func IsValidation(err error) bool {
	for _, ve := range validationErrs {
		if errors.Is(err, ve) {
			return true
		}
	}
	return false
}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{CategoryFood, CategoryTravel, CategoryShopping, CategoryBills, CategoryOther}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTravel, CategoryShopping, CategoryBills, CategoryOther:
		return true
	default:
		return false
	}
}

func (c Category) String() string { return string(c) }

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Apply overlays the patch onto e, leaving nil fields untouched.
func (p ExpensePatch) Apply(e *Expense) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
}

func (b Budget) Validate() error {
	return b.Amount.Validate()
}

// Remaining is the budget target minus the amount already spent. A negative
// result means the user is over budget by that magnitude.
func (b Budget) Remaining(spent Money) Money {
	return Money{Cents: b.Amount.Cents - spent.Cents}
}

// MonthKey renders t's calendar month as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthWindow returns the first and last instant of t's calendar month in
// t's location.
func MonthWindow(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
