package postgres

import (
	"context"
	"fmt"

	"quizshow-scoreboard/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader reads question sets from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	rows, err := l.pool.Query(ctx, `SELECT prompt, answer FROM questions WHERE set_id=$1 ORDER BY position`, setID)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("load question set: %w", err)
	}
	defer rows.Close()

	set := domain.QuestionSet{ID: setID}
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.Text, &q.Answer); err != nil {
			return domain.QuestionSet{}, fmt.Errorf("scan question: %w", err)
		}
		set.Questions = append(set.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("load question set: %w", err)
	}
	if len(set.Questions) == 0 {
		return domain.QuestionSet{}, fmt.Errorf("question set %q: %w", setID, domain.ErrQuestionSetNotFound)
	}
	return set, nil
}

// RosterLoader reads seeded rosters from Postgres.
type RosterLoader struct {
	pool *pgxpool.Pool
}

func NewRosterLoader(pool *pgxpool.Pool) *RosterLoader {
	return &RosterLoader{pool: pool}
}

func (l *RosterLoader) LoadRoster(ctx context.Context, rosterID string) ([]domain.RosterEntry, error) {
	rows, err := l.pool.Query(ctx, `SELECT rank, organization, name FROM roster_entries WHERE roster_id=$1 ORDER BY rank`, rosterID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	defer rows.Close()

	var entries []domain.RosterEntry
	for rows.Next() {
		var e domain.RosterEntry
		if err := rows.Scan(&e.Rank, &e.Organization, &e.Name); err != nil {
			return nil, fmt.Errorf("scan roster entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("roster %q: %w", rosterID, domain.ErrRosterNotFound)
	}
	return entries, nil
}
