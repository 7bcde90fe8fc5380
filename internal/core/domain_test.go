package core

import (
	"errors"
	"testing"
	"time"
)

func TestExpense_Validate(t *testing.T) {
	valid := Expense{
		Title:    "groceries",
		Amount:   Money{Cents: 1250},
		Category: CategoryFood,
		Date:     time.Date(2026, 8, 14, 10, 0, 0, 0, time.Local),
	}

	tests := []struct {
		name    string
		mutate  func(e *Expense)
		wantErr error
	}{
		{name: "valid expense", mutate: func(e *Expense) {}, wantErr: nil},
		{name: "zero amount is allowed", mutate: func(e *Expense) { e.Amount = Money{} }, wantErr: nil},
		{name: "empty title", mutate: func(e *Expense) { e.Title = "" }, wantErr: ErrEmptyTitle},
		{name: "whitespace title", mutate: func(e *Expense) { e.Title = "   " }, wantErr: ErrEmptyTitle},
		{name: "negative amount", mutate: func(e *Expense) { e.Amount = Money{Cents: -100} }, wantErr: ErrInvalidAmount},
		{name: "unknown category", mutate: func(e *Expense) { e.Category = "gadgets" }, wantErr: ErrInvalidCategory},
		{name: "empty category", mutate: func(e *Expense) { e.Category = "" }, wantErr: ErrInvalidCategory},
		{name: "zero date", mutate: func(e *Expense) { e.Date = time.Time{} }, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	for _, err := range []error{ErrEmptyTitle, ErrInvalidAmount, ErrInvalidCategory, ErrInvalidDate} {
		if !IsValidation(err) {
			t.Errorf("IsValidation(%v) = false, want true", err)
		}
	}
	if IsValidation(ErrNotFound) {
		t.Error("IsValidation(ErrNotFound) = true, want false")
	}
	if IsValidation(errors.New("boom")) {
		t.Error("IsValidation(arbitrary error) = true, want false")
	}
}

func TestExpensePatch_Apply(t *testing.T) {
	date := time.Date(2026, 8, 2, 0, 0, 0, 0, time.Local)
	e := Expense{
		Title:    "lunch",
		Amount:   Money{Cents: 900},
		Category: CategoryFood,
		Date:     date,
		Notes:    "",
	}

	notes := "team lunch"
	(ExpensePatch{Notes: &notes}).Apply(&e)

	if e.Title != "lunch" || e.Amount.Cents != 900 || e.Category != CategoryFood || !e.Date.Equal(date) {
		t.Fatalf("patch touched unspecified fields: %+v", e)
	}
	if e.Notes != "team lunch" {
		t.Fatalf("notes = %q, want %q", e.Notes, "team lunch")
	}

	amount := Money{Cents: 1500}
	category := CategoryTravel
	(ExpensePatch{Amount: &amount, Category: &category}).Apply(&e)
	if e.Amount.Cents != 1500 || e.Category != CategoryTravel {
		t.Fatalf("patch not applied: %+v", e)
	}
	if e.Notes != "team lunch" {
		t.Fatalf("notes lost on second patch: %q", e.Notes)
	}
}

func TestBudget_Remaining(t *testing.T) {
	b := Budget{Month: "2026-08", Amount: Money{Cents: 10000}}

	if got := b.Remaining(Money{Cents: 6000}); got.Cents != 4000 {
		t.Fatalf("Remaining = %d cents, want 4000", got.Cents)
	}
	if got := b.Remaining(Money{Cents: 12000}); got.Cents != -2000 {
		t.Fatalf("Remaining = %d cents, want -2000 (over budget)", got.Cents)
	}
}

func TestMonthKey(t *testing.T) {
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Date(2026, 8, 31, 23, 59, 0, 0, time.Local), "2026-08"},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local), "2026-01"},
		{time.Date(2025, 12, 15, 12, 0, 0, 0, time.Local), "2025-12"},
	}
	for _, tt := range tests {
		if got := MonthKey(tt.t); got != tt.want {
			t.Errorf("MonthKey(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestMonthWindow(t *testing.T) {
	now := time.Date(2026, 2, 14, 15, 30, 0, 0, time.Local)
	start, end := MonthWindow(now)

	if !start.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("start = %v", start)
	}
	// 2026 is not a leap year; February ends on the 28th.
	if end.Day() != 28 || end.Month() != time.February {
		t.Fatalf("end = %v", end)
	}
	if !end.Before(time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("end %v spills into next month", end)
	}
	if !start.Before(now) || !end.After(now) {
		t.Fatalf("window [%v, %v] does not contain %v", start, end, now)
	}
}
