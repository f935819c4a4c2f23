package postgres

import (
	"time"

	repo "github.com/baharkarakas/wallet-api/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Transactions repo.Transactions
}

// NewRepositories wires the pool into every repo. timeout bounds each statement; zero disables it.
func NewRepositories(pool *pgxpool.Pool, timeout time.Duration) Repositories {
	return Repositories{
		Transactions: &transactionsRepo{db: pool, timeout: timeout},
	}
}
