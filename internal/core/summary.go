package core

// MonthlySummary is the derived view of one user's spending inside a
// calendar month. It is computed on demand and never stored.
type MonthlySummary struct {
	TotalSpent        Money              `json:"totalSpent"`
	TotalCount        int                `json:"totalCount"`
	CategoryBreakdown map[Category]Money `json:"categoryBreakdown"`
}

// NewMonthlySummary returns an empty summary; the breakdown map is
// allocated so a month without expenses marshals as {} rather than null.
func NewMonthlySummary() MonthlySummary {
	return MonthlySummary{CategoryBreakdown: make(map[Category]Money)}
}
