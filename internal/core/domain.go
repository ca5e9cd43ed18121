package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entity kinds served by the API. The string value doubles as the URL segment.
const (
	KindExpenses         Kind = "expenses"
	KindIncome           Kind = "income"
	KindCategories       Kind = "categories"
	KindIncomeCategories Kind = "income-categories"
)

// Change operations carried by Change.Op.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

type (
	Kind string

	Expense struct {
		ID          string   `json:"id"`
		Amount      float64  `json:"amount"`
		Category    string   `json:"category"`
		Date        string   `json:"date"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
	}

	Income struct {
		ID          string  `json:"id"`
		Amount      float64 `json:"amount"`
		Source      string  `json:"source"`
		Date        string  `json:"date"`
		Description string  `json:"description"`
	}

	// Change describes one successful mutation of a collection.
	Change struct {
		Kind      Kind            `json:"kind"`
		Op        string          `json:"op"`
		Key       string          `json:"key"`
		Record    json.RawMessage `json:"record,omitempty"`
		Timestamp time.Time       `json:"timestamp"`
	}
)

// Transaction is implemented by records that carry an amount on a calendar day.
type Transaction interface {
	Value() float64
	Day() string
}

func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the four known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindExpenses, KindIncome, KindCategories, KindIncomeCategories:
		return true
	default:
		return false
	}
}

// Kinds returns every entity kind in route order.
func Kinds() []Kind {
	return []Kind{KindExpenses, KindIncome, KindCategories, KindIncomeCategories}
}

func (e Expense) Value() float64 { return e.Amount }
func (e Expense) Day() string    { return e.Date }

func (i Income) Value() float64 { return i.Amount }
func (i Income) Day() string    { return i.Date }

// UnmarshalJSON accepts the amount as a JSON number or a numeric string.
// Files written by earlier clients store amounts as strings.
func (e *Expense) UnmarshalJSON(data []byte) error {
	type plain Expense
	aux := struct {
		*plain
		Amount any `json:"amount"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	amount, err := storedAmount(aux.Amount)
	if err != nil {
		return fmt.Errorf("expense %q: %w", e.ID, err)
	}
	e.Amount = amount
	return nil
}

// UnmarshalJSON accepts the amount as a JSON number or a numeric string.
func (i *Income) UnmarshalJSON(data []byte) error {
	type plain Income
	aux := struct {
		*plain
		Amount any `json:"amount"`
	}{plain: (*plain)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	amount, err := storedAmount(aux.Amount)
	if err != nil {
		return fmt.Errorf("income %q: %w", i.ID, err)
	}
	i.Amount = amount
	return nil
}

func storedAmount(v any) (float64, error) {
	if v == nil {
		return 0, nil
	}
	amount, err := ParseAmount(v)
	if err != nil {
		return 0, fmt.Errorf("amount %v: %w", v, err)
	}
	return amount, nil
}

// DefaultCategories is the starter expense category set.
func DefaultCategories() []string {
	return []string{"Food", "Transport", "Shopping", "Bills", "Entertainment", "Other"}
}

// DefaultIncomeCategories is the starter income source set.
func DefaultIncomeCategories() []string {
	return []string{"Salary", "Freelance", "Bonus", "Other"}
}

// NewChange builds a change event, encoding record when present.
func NewChange(kind Kind, op, key string, record any) (Change, error) {
	c := Change{Kind: kind, Op: op, Key: key, Timestamp: time.Now().UTC()}
	if record == nil {
		return c, nil
	}
	body, err := json.Marshal(record)
	if err != nil {
		return c, err
	}
	c.Record = body
	return c, nil
}
