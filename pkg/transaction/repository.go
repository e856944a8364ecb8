package transaction

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Repository reads transactions and recurring templates. The only write is storing
// materialized occurrences, which must be idempotent.
type Repository interface {
	GetTransactions(ctx context.Context, userId int) ([]Transaction, error)
	GetRecurringTransactions(ctx context.Context) ([]RecurringTransaction, error)
	StoreMaterialized(ctx context.Context, userId int, transactions []Transaction) (int, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetTransactions(ctx context.Context, userId int) ([]Transaction, error) {
	query := `SELECT id, date, type, category, amount::text, description, COALESCE(recurring_id, '')
				FROM finance_transaction WHERE user_id = $1 ORDER BY date, id`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var t Transaction
		var amount string
		if err := rows.Scan(&t.Id, &t.Date, &t.Type, &t.Category, &amount, &t.Description, &t.RecurringId); err != nil {
			err := fmt.Errorf("error scanning transaction row: %w", err)
			log.Error(err)
			return nil, err
		}
		t.Amount = parseAmount(t.Id, amount)
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating transaction rows: %v", err)
		return nil, err
	}
	return transactions, nil
}

func (r *RepositoryImpl) GetRecurringTransactions(ctx context.Context) ([]RecurringTransaction, error) {
	query := `SELECT id, user_id, start_date, end_date, frequency, repeat_every, type, category, amount::text, description
				FROM recurring_transaction ORDER BY user_id, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query recurring transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var templates []RecurringTransaction
	for rows.Next() {
		var rt RecurringTransaction
		var amount string
		if err := rows.Scan(&rt.Id, &rt.UserId, &rt.StartDate, &rt.EndDate, &rt.Frequency, &rt.Interval,
			&rt.Type, &rt.Category, &amount, &rt.Description); err != nil {
			err := fmt.Errorf("error scanning recurring transaction row: %w", err)
			log.Error(err)
			return nil, err
		}
		rt.Amount = parseAmount(rt.Id, amount)
		templates = append(templates, rt)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating recurring transaction rows: %v", err)
		return nil, err
	}
	return templates, nil
}

// StoreMaterialized inserts the transactions in one batch, skipping ids that already
// exist, and returns how many rows were actually inserted.
func (r *RepositoryImpl) StoreMaterialized(ctx context.Context, userId int, transactions []Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}
	query := `INSERT INTO finance_transaction (id, user_id, date, type, category, amount, description, recurring_id)
				VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, NULLIF($8, ''))
				ON CONFLICT (id) DO NOTHING`

	batch := &pgx.Batch{}
	for _, t := range transactions {
		batch.Queue(query, t.Id, userId, t.Date, string(t.Type), t.Category, t.Amount.String(), t.Description, t.RecurringId)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range transactions {
		tag, err := results.Exec()
		if err != nil {
			err := fmt.Errorf("could not store materialized transaction: %w", err)
			log.Error(err)
			return inserted, err
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func parseAmount(id, value string) decimal.Decimal {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		log.Debugf("transaction %s: unreadable amount %q", id, value)
		return decimal.Zero
	}
	return amount
}
