package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/baharkarakas/wallet-api/internal/api/validate"
	"github.com/baharkarakas/wallet-api/internal/metrics"
	"github.com/baharkarakas/wallet-api/internal/models"
	repo "github.com/baharkarakas/wallet-api/internal/repository"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrInvalidID  = errors.New("invalid transaction id")
	ErrNotFound   = errors.New("transaction not found")

	// ErrInvalidAmount marks an amount the DECIMAL(10, 2) column cannot hold exactly.
	ErrInvalidAmount = errors.New("amount out of range")
)

type TransactionService struct {
	trx repo.Transactions
}

func NewTransactionService(t repo.Transactions) *TransactionService {
	return &TransactionService{trx: t}
}

// CreateInput mirrors the POST body. Amount is a pointer so an absent amount
// can be told apart from zero.
type CreateInput struct {
	UserID   string         `json:"user_id"`
	Title    string         `json:"title"`
	Amount   *models.Amount `json:"amount"`
	Category string         `json:"category"`
}

func (in CreateInput) validate() error {
	var errs validate.Errs
	errs = errs.
		Add(validate.Required("user_id", in.UserID)).
		Add(validate.Required("title", in.Title)).
		Add(validate.Present("amount", in.Amount)).
		Add(validate.Required("category", in.Category))
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, errs)
	}
	if !in.Amount.FitsColumn() {
		return fmt.Errorf("%w: coefficient %s, exponent %d", ErrInvalidAmount, in.Amount.Coefficient(), in.Amount.Exponent())
	}
	return nil
}

// ----------------- Commands -----------------

func (s *TransactionService) Create(ctx context.Context, in CreateInput) (models.Transaction, error) {
	if err := in.validate(); err != nil {
		return models.Transaction{}, err
	}
	amount := *in.Amount
	if amount.IsZero() {
		// drops any exponent carried by inputs like 0e9
		amount = models.Amount{}
	}
	tx, err := s.trx.Create(ctx, models.NewTransaction{
		UserID:   in.UserID,
		Title:    in.Title,
		Amount:   amount,
		Category: in.Category,
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("create").Inc()
		return models.Transaction{}, err
	}
	metrics.TransactionsCreated.Inc()
	return tx, nil
}

// Delete removes the row whose id is rawID. Integers that cannot name a row
// (zero, negative, beyond int64) are reported as not found without querying.
func (s *TransactionService) Delete(ctx context.Context, rawID string) (models.Transaction, error) {
	if validate.Overflows(rawID) {
		return models.Transaction{}, ErrNotFound
	}
	id, ef := validate.ID("id", rawID)
	if ef != nil {
		return models.Transaction{}, fmt.Errorf("%w: %s", ErrInvalidID, ef.Msg)
	}
	if id <= 0 {
		return models.Transaction{}, ErrNotFound
	}

	tx, found, err := s.trx.DeleteByID(ctx, id)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("delete").Inc()
		return models.Transaction{}, err
	}
	if !found {
		return models.Transaction{}, ErrNotFound
	}
	metrics.TransactionsDeleted.Inc()
	return tx, nil
}

// ----------------- Queries -----------------

func (s *TransactionService) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	txs, err := s.trx.ListByUser(ctx, userID)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		return nil, err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

// Summary runs the three aggregates concurrently; the first failure cancels the rest.
func (s *TransactionService) Summary(ctx context.Context, userID string) (models.Summary, error) {
	var sum models.Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { sum.Balance, err = s.trx.SumAll(gctx, userID); return })
	g.Go(func() (err error) { sum.Income, err = s.trx.SumIncome(gctx, userID); return })
	g.Go(func() (err error) { sum.Expense, err = s.trx.SumExpense(gctx, userID); return })
	if err := g.Wait(); err != nil {
		metrics.StoreErrors.WithLabelValues("summary").Inc()
		return models.Summary{}, err
	}
	return sum, nil
}
