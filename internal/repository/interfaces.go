package repository

import (
	"context"

	"github.com/baharkarakas/wallet-api/internal/models"
)

// Transactions is the store accessor. Every method is a single parameterized statement.
type Transactions interface {
	ListByUser(ctx context.Context, userID string) ([]models.Transaction, error)
	Create(ctx context.Context, in models.NewTransaction) (models.Transaction, error)
	// DeleteByID returns found=false when no row matched.
	DeleteByID(ctx context.Context, id int64) (models.Transaction, bool, error)
	SumAll(ctx context.Context, userID string) (models.Amount, error)
	SumIncome(ctx context.Context, userID string) (models.Amount, error)
	SumExpense(ctx context.Context, userID string) (models.Amount, error)
}
