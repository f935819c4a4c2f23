package models

import "time"

// Transaction is one signed monetary entry owned by a user.
// Positive amounts are income, negative amounts are expenses.
type Transaction struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Amount    Amount    `json:"amount"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTransaction carries the client-settable fields of a Transaction.
type NewTransaction struct {
	UserID   string
	Title    string
	Amount   Amount
	Category string
}

type Summary struct {
	Balance Amount `json:"balance"`
	Income  Amount `json:"income"`
	Expense Amount `json:"expense"`
}
