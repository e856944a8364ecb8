package journal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	GetEntries(ctx context.Context, userId int) ([]Entry, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetEntries(ctx context.Context, userId int) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, date, mood FROM journal_entry WHERE user_id = $1 ORDER BY date, id`, userId)
	if err != nil {
		err := fmt.Errorf("could not query journal entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Id, &e.Date, &e.Mood); err != nil {
			err := fmt.Errorf("error scanning journal entry row: %w", err)
			log.Error(err)
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating journal entry rows: %v", err)
		return nil, err
	}
	return entries, nil
}
