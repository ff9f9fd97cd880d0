package enum

// TransactionType tells whether a cash-flow transaction brings money in or out
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func (t TransactionType) String() string {
	return string(t)
}

// Label returns a human readable type
func (t TransactionType) Label() string {
	if t == TransactionTypeIncome {
		return "Income"
	}
	return "Expense"
}
