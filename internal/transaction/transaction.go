package transaction

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type classifies a transaction as money coming in or going out.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// DefaultCategory is applied when the caller leaves the category blank.
const DefaultCategory = "General"

// Transaction represents a single recorded financial movement. The amount is
// signed: positive for income, negative for expenses.
type Transaction struct {
	ID          uuid.UUID
	Description string
	Amount      float64
	Category    string
	Date        time.Time
	Type        Type
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ErrNotFound is returned when no transaction matches the requested ID.
var ErrNotFound = errors.New("transaction not found")

// ValidationError reports missing or malformed caller input. Its message is
// safe to surface to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// CreateParams carries the caller-supplied fields of a create or full-replace
// update.
type CreateParams struct {
	Description string
	Amount      float64
	Category    string
	Date        time.Time
	Type        Type
}

// Normalize trims text fields, applies the category default, and derives the
// type from the amount's sign when none was supplied. Zero counts as income.
// A supplied type is kept even when it disagrees with the sign; a positive
// refund may legitimately be typed as an expense.
func (p *CreateParams) Normalize() {
	p.Description = strings.TrimSpace(p.Description)

	p.Category = strings.TrimSpace(p.Category)
	if p.Category == "" {
		p.Category = DefaultCategory
	}

	if p.Type == "" {
		if p.Amount < 0 {
			p.Type = TypeExpense
		} else {
			p.Type = TypeIncome
		}
	}
}

// Validate reports the first problem with normalized params.
func (p CreateParams) Validate() error {
	if p.Description == "" {
		return &ValidationError{Message: "description is required"}
	}

	if p.Date.IsZero() {
		return &ValidationError{Message: "date is required"}
	}

	if math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) {
		return &ValidationError{Message: "amount must be a valid number"}
	}

	if p.Type != TypeIncome && p.Type != TypeExpense {
		return &ValidationError{Message: "type must be income or expense"}
	}

	return nil
}
