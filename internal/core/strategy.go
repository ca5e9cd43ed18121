package core

import "github.com/google/uuid"

// Strategy captures everything the generic CRUD service needs to know about
// one entity kind. Collection kinds hold id-keyed records that can be
// updated; set kinds hold unique names.
type Strategy[T any] interface {
	Kind() Kind
	IsCollection() bool
	Validate(p Payload) error
	Transform(p Payload) (T, error)
	Key(item T) string
	Merge(item T, p Payload) (T, error)
	Present(item T) any
	NotFoundMessage() string
}

// IDFunc returns a fresh record id.
type IDFunc func() string

// NewID returns a time-ordered UUIDv7, falling back to a random v4 if the
// clock source fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

const updateUnsupported = "Update not supported for this endpoint"

// ExpenseStrategy handles /api/expenses records.
type ExpenseStrategy struct {
	NewID IDFunc
}

func NewExpenseStrategy() ExpenseStrategy {
	return ExpenseStrategy{NewID: NewID}
}

func (ExpenseStrategy) Kind() Kind         { return KindExpenses }
func (ExpenseStrategy) IsCollection() bool { return true }

func (ExpenseStrategy) Validate(p Payload) error {
	if !p.Truthy("amount") || !p.Truthy("category") || !p.Truthy("date") {
		return NewValidationError("Amount, category, and date are required.")
	}
	return nil
}

func (s ExpenseStrategy) Transform(p Payload) (Expense, error) {
	amount, date, err := amountAndDate(p)
	if err != nil {
		return Expense{}, err
	}
	return Expense{
		ID:          idFrom(s.NewID),
		Amount:      amount,
		Category:    text(p["category"]),
		Date:        date,
		Description: text(p["description"]),
		Tags:        tags(p["tags"]),
	}, nil
}

func (ExpenseStrategy) Key(e Expense) string { return e.ID }

// Merge applies the fields present in p onto e. The id never changes.
func (ExpenseStrategy) Merge(e Expense, p Payload) (Expense, error) {
	if p.Has("amount") {
		amount, err := ParseAmount(p["amount"])
		if err != nil {
			return e, NewValidationError("Amount must be a number.")
		}
		e.Amount = amount
	}
	if p.Has("category") {
		e.Category = text(p["category"])
	}
	if p.Has("date") {
		date, err := NormalizeDate(p["date"])
		if err != nil {
			return e, NewValidationError(err.Error())
		}
		e.Date = date
	}
	if p.Has("description") {
		e.Description = text(p["description"])
	}
	if p.Has("tags") {
		e.Tags = tags(p["tags"])
	}
	return e, nil
}

func (ExpenseStrategy) Present(e Expense) any   { return e }
func (ExpenseStrategy) NotFoundMessage() string { return "expense not found" }

// IncomeStrategy handles /api/income records.
type IncomeStrategy struct {
	NewID IDFunc
}

func NewIncomeStrategy() IncomeStrategy {
	return IncomeStrategy{NewID: NewID}
}

func (IncomeStrategy) Kind() Kind         { return KindIncome }
func (IncomeStrategy) IsCollection() bool { return true }

func (IncomeStrategy) Validate(p Payload) error {
	if !p.Truthy("amount") || !p.Truthy("source") || !p.Truthy("date") {
		return NewValidationError("Amount, source, and date are required.")
	}
	return nil
}

func (s IncomeStrategy) Transform(p Payload) (Income, error) {
	amount, date, err := amountAndDate(p)
	if err != nil {
		return Income{}, err
	}
	return Income{
		ID:          idFrom(s.NewID),
		Amount:      amount,
		Source:      text(p["source"]),
		Date:        date,
		Description: text(p["description"]),
	}, nil
}

func (IncomeStrategy) Key(i Income) string { return i.ID }

func (IncomeStrategy) Merge(i Income, p Payload) (Income, error) {
	if p.Has("amount") {
		amount, err := ParseAmount(p["amount"])
		if err != nil {
			return i, NewValidationError("Amount must be a number.")
		}
		i.Amount = amount
	}
	if p.Has("source") {
		i.Source = text(p["source"])
	}
	if p.Has("date") {
		date, err := NormalizeDate(p["date"])
		if err != nil {
			return i, NewValidationError(err.Error())
		}
		i.Date = date
	}
	if p.Has("description") {
		i.Description = text(p["description"])
	}
	return i, nil
}

func (IncomeStrategy) Present(i Income) any   { return i }
func (IncomeStrategy) NotFoundMessage() string { return "income not found" }

// NameSetStrategy handles the two category sets. Both share the same rules
// and differ only by kind.
type NameSetStrategy struct {
	kind Kind
}

func NewCategoryStrategy() NameSetStrategy       { return NameSetStrategy{kind: KindCategories} }
func NewIncomeCategoryStrategy() NameSetStrategy { return NameSetStrategy{kind: KindIncomeCategories} }

func (s NameSetStrategy) Kind() Kind       { return s.kind }
func (NameSetStrategy) IsCollection() bool { return false }

func (NameSetStrategy) Validate(p Payload) error {
	if !p.Truthy("name") {
		return NewValidationError("Category name required")
	}
	return nil
}

func (NameSetStrategy) Transform(p Payload) (string, error) {
	return text(p["name"]), nil
}

func (NameSetStrategy) Key(name string) string { return name }

func (NameSetStrategy) Merge(name string, _ Payload) (string, error) {
	return name, NewNotFoundError(updateUnsupported)
}

func (NameSetStrategy) Present(name string) any { return map[string]string{"name": name} }
func (NameSetStrategy) NotFoundMessage() string { return "Category not found" }

func amountAndDate(p Payload) (float64, string, error) {
	amount, err := ParseAmount(p["amount"])
	if err != nil {
		return 0, "", NewValidationError("Amount must be a number.")
	}
	date, err := NormalizeDate(p["date"])
	if err != nil {
		return 0, "", NewValidationError(err.Error())
	}
	return amount, date, nil
}

func idFrom(fn IDFunc) string {
	if fn == nil {
		return NewID()
	}
	return fn()
}

// Compile-time checks that each strategy satisfies the interface.
var (
	_ Strategy[Expense] = ExpenseStrategy{}
	_ Strategy[Income]  = IncomeStrategy{}
	_ Strategy[string]  = NameSetStrategy{}
)
