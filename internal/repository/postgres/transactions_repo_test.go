package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/baharkarakas/wallet-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.vals[i].(int64)
		case *string:
			*p = r.vals[i].(string)
		case *time.Time:
			*p = r.vals[i].(time.Time)
		case *models.Amount:
			if err := p.Scan(r.vals[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// fakeDB records the last statement and its arguments.
type fakeDB struct {
	sql         string
	args        []any
	row         fakeRow
	hadDeadline bool
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not used")
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not used")
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.sql, f.args = sql, args
	_, f.hadDeadline = ctx.Deadline()
	return f.row
}

func TestCreateBindsParameters(t *testing.T) {
	now := time.Now().UTC()
	db := &fakeDB{row: fakeRow{vals: []any{int64(1), "u1", "Coffee", "-4.50", "food", now}}}
	r := &transactionsRepo{db: db, timeout: time.Second}

	tx, err := r.Create(context.Background(), models.NewTransaction{
		UserID: "u1", Title: "Coffee", Amount: models.MustAmount("-4.50"), Category: "food",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(db.sql, "Coffee") || !strings.Contains(db.sql, "$4") {
		t.Errorf("values must be bound, got SQL %q", db.sql)
	}
	if len(db.args) != 4 || db.args[0] != "u1" || db.args[2] != "-4.5" {
		t.Errorf("unexpected args %v", db.args)
	}
	if !db.hadDeadline {
		t.Error("expected statement deadline")
	}
	if tx.ID != 1 || !tx.Amount.Equal(models.MustAmount("-4.5")) {
		t.Errorf("unexpected row %+v", tx)
	}
}

func TestDeleteByIDNoRows(t *testing.T) {
	r := &transactionsRepo{db: &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}}
	_, found, err := r.DeleteByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("no rows must not be an error, got %v", err)
	}
	if found {
		t.Error("expected found=false")
	}
}

func TestDeleteByIDStoreError(t *testing.T) {
	boom := errors.New("conn reset")
	r := &transactionsRepo{db: &fakeDB{row: fakeRow{err: boom}}}
	_, _, err := r.DeleteByID(context.Background(), 42)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestSumQueries(t *testing.T) {
	cases := []struct {
		name   string
		call   func(*transactionsRepo) (models.Amount, error)
		filter string
	}{
		{"all", func(r *transactionsRepo) (models.Amount, error) { return r.SumAll(context.Background(), "u1") }, ""},
		{"income", func(r *transactionsRepo) (models.Amount, error) { return r.SumIncome(context.Background(), "u1") }, "amount > 0"},
		{"expense", func(r *transactionsRepo) (models.Amount, error) { return r.SumExpense(context.Background(), "u1") }, "amount < 0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			db := &fakeDB{row: fakeRow{vals: []any{"12.30"}}}
			got, err := c.call(&transactionsRepo{db: db})
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(models.MustAmount("12.3")) {
				t.Errorf("expected 12.30, got %s", got)
			}
			if !strings.Contains(db.sql, "COALESCE(SUM(amount), 0)") || !strings.Contains(db.sql, c.filter) {
				t.Errorf("unexpected SQL %q", db.sql)
			}
			if db.hadDeadline {
				t.Error("zero timeout must not set a deadline")
			}
		})
	}
}
