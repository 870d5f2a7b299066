package balance

import "fmt"

// ValidationError reports a balance sheet that cannot be used: a negative
// line item or a balance equation that is out of tolerance.
type ValidationError struct {
	Item   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Item == "" {
		return fmt.Sprintf("balance sheet invalid: %s", e.Reason)
	}
	return fmt.Sprintf("balance sheet invalid: %s: %s", e.Item, e.Reason)
}

// UnknownCategoryError reports an operation that referenced a line item
// absent from the ledger. Category is the side of the balance sheet
// ("assets" or "liabilities"), Key the missing item.
type UnknownCategoryError struct {
	Category string
	Key      string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s category: %q", e.Category, e.Key)
}
