// Package repotest provides an in-memory repository.Transactions for tests.
package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/baharkarakas/wallet-api/internal/models"
	"github.com/baharkarakas/wallet-api/internal/repository"
)

var _ repository.Transactions = (*Fake)(nil)

// Fake keeps rows in insertion order. Setting Err makes every call fail with it.
type Fake struct {
	mu     sync.Mutex
	rows   []models.Transaction
	nextID int64
	clock  time.Time
	calls  int

	Err error
}

func NewFake() *Fake {
	return &Fake{clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Calls reports how many store operations were attempted.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Fake) enter() error {
	f.mu.Lock()
	f.calls++
	return f.Err
}

func (f *Fake) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	err := f.enter()
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []models.Transaction{}
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *Fake) Create(ctx context.Context, in models.NewTransaction) (models.Transaction, error) {
	err := f.enter()
	defer f.mu.Unlock()
	if err != nil {
		return models.Transaction{}, err
	}
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	tx := models.Transaction{
		ID:        f.nextID,
		UserID:    in.UserID,
		Title:     in.Title,
		Amount:    models.Amount{Decimal: in.Amount.Round(2)},
		Category:  in.Category,
		CreatedAt: f.clock,
	}
	f.rows = append(f.rows, tx)
	return tx, nil
}

func (f *Fake) DeleteByID(ctx context.Context, id int64) (models.Transaction, bool, error) {
	err := f.enter()
	defer f.mu.Unlock()
	if err != nil {
		return models.Transaction{}, false, err
	}
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return r, true, nil
		}
	}
	return models.Transaction{}, false, nil
}

func (f *Fake) SumAll(ctx context.Context, userID string) (models.Amount, error) {
	return f.sum(userID, func(models.Amount) bool { return true })
}

func (f *Fake) SumIncome(ctx context.Context, userID string) (models.Amount, error) {
	return f.sum(userID, func(a models.Amount) bool { return a.IsPositive() })
}

func (f *Fake) SumExpense(ctx context.Context, userID string) (models.Amount, error) {
	return f.sum(userID, func(a models.Amount) bool { return a.IsNegative() })
}

func (f *Fake) sum(userID string, keep func(models.Amount) bool) (models.Amount, error) {
	err := f.enter()
	defer f.mu.Unlock()
	var total models.Amount
	if err != nil {
		return total, err
	}
	for _, r := range f.rows {
		if r.UserID == userID && keep(r.Amount) {
			total = total.Add(r.Amount)
		}
	}
	return total, nil
}
