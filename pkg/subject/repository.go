package subject

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Repository is a read-only view over the subjects owned by the persistence layer.
type Repository interface {
	GetSubjects(ctx context.Context, userId int) ([]Subject, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetSubjects(ctx context.Context, userId int) ([]Subject, error) {
	query := `SELECT id, name, color, term_start, term_end FROM subject WHERE user_id = $1 ORDER BY name, id`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query subjects: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var subjects []Subject
	positions := map[string]int{}
	for rows.Next() {
		var s Subject
		if err := rows.Scan(&s.Id, &s.Name, &s.Color, &s.TermStart, &s.TermEnd); err != nil {
			err := fmt.Errorf("error scanning subject row: %w", err)
			log.Error(err)
			return nil, err
		}
		positions[s.Id] = len(subjects)
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating subject rows: %v", err)
		return nil, err
	}
	if len(subjects) == 0 {
		return subjects, nil
	}

	if err := r.loadSchedules(ctx, userId, subjects, positions); err != nil {
		return nil, err
	}
	if err := r.loadMilestones(ctx, userId, subjects, positions); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *RepositoryImpl) loadSchedules(ctx context.Context, userId int, subjects []Subject, positions map[string]int) error {
	query := `SELECT sc.subject_id, sc.day, sc.start_time, sc.end_time
				FROM subject_schedule sc
				JOIN subject s ON s.id = sc.subject_id
				WHERE s.user_id = $1
				ORDER BY sc.subject_id, sc.position, sc.id`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query subject schedules: %w", err)
		log.Error(err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var subjectId string
		var schedule Schedule
		if err := rows.Scan(&subjectId, &schedule.Day, &schedule.StartTime, &schedule.EndTime); err != nil {
			err := fmt.Errorf("error scanning schedule row: %w", err)
			log.Error(err)
			return err
		}
		idx := positions[subjectId]
		subjects[idx].Schedules = append(subjects[idx].Schedules, schedule)
	}
	return rows.Err()
}

func (r *RepositoryImpl) loadMilestones(ctx context.Context, userId int, subjects []Subject, positions map[string]int) error {
	query := `SELECT m.subject_id, m.id, m.title, m.date, m.time, m.type
				FROM subject_milestone m
				JOIN subject s ON s.id = m.subject_id
				WHERE s.user_id = $1
				ORDER BY m.subject_id, m.date, m.id`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query subject milestones: %w", err)
		log.Error(err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var subjectId string
		var m Milestone
		if err := rows.Scan(&subjectId, &m.Id, &m.Title, &m.Date, &m.Time, &m.Type); err != nil {
			err := fmt.Errorf("error scanning milestone row: %w", err)
			log.Error(err)
			return err
		}
		idx := positions[subjectId]
		subjects[idx].Milestones = append(subjects[idx].Milestones, m)
	}
	return rows.Err()
}
