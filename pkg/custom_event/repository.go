package custom_event

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	GetEvents(ctx context.Context, userId int) ([]Event, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetEvents(ctx context.Context, userId int) ([]Event, error) {
	query := `SELECT id, title, description, date, time, color, priority
				FROM custom_event WHERE user_id = $1 ORDER BY date, time, id`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query custom events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Id, &e.Title, &e.Description, &e.Date, &e.Time, &e.Color, &e.Priority); err != nil {
			err := fmt.Errorf("error scanning custom event row: %w", err)
			log.Error(err)
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating custom event rows: %v", err)
		return nil, err
	}
	return events, nil
}
