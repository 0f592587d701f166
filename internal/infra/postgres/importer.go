package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quizshow-scoreboard/internal/domain"

	"github.com/uptrace/bun"
)

type questionSetModel struct {
	bun.BaseModel `bun:"table:question_sets"`

	ID        string    `bun:"id,pk"`
	Title     string    `bun:"title"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type questionModel struct {
	bun.BaseModel `bun:"table:questions"`

	SetID    string `bun:"set_id,pk"`
	Position int    `bun:"position,pk"`
	Prompt   string `bun:"prompt"`
	Answer   string `bun:"answer"`
}

type rosterEntryModel struct {
	bun.BaseModel `bun:"table:roster_entries"`

	RosterID     string `bun:"roster_id,pk"`
	Rank         int    `bun:"rank,pk"`
	Organization string `bun:"organization"`
	Name         string `bun:"name"`
}

// Importer writes parsed files into the show tables. Each import replaces
// the previous content of the same set or roster.
type Importer struct {
	db *bun.DB
}

func NewImporter(db *bun.DB) *Importer {
	return &Importer{db: db}
}

func (i *Importer) ImportQuestionSet(ctx context.Context, set domain.QuestionSet) error {
	return i.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		header := &questionSetModel{ID: set.ID, Title: set.ID}
		if _, err := tx.NewInsert().Model(header).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("insert question set: %w", err)
		}
		if _, err := tx.NewDelete().Model((*questionModel)(nil)).Where("set_id = ?", set.ID).Exec(ctx); err != nil {
			return fmt.Errorf("clear questions: %w", err)
		}
		if len(set.Questions) == 0 {
			return nil
		}
		rows := make([]questionModel, 0, len(set.Questions))
		for pos, q := range set.Questions {
			rows = append(rows, questionModel{SetID: set.ID, Position: pos, Prompt: q.Text, Answer: q.Answer})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		return nil
	})
}

func (i *Importer) ImportRoster(ctx context.Context, rosterID string, entries []domain.RosterEntry) error {
	return i.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*rosterEntryModel)(nil)).Where("roster_id = ?", rosterID).Exec(ctx); err != nil {
			return fmt.Errorf("clear roster: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}
		// later rows win when a rank repeats
		byRank := make(map[int]rosterEntryModel, len(entries))
		order := make([]int, 0, len(entries))
		for _, e := range entries {
			if _, seen := byRank[e.Rank]; !seen {
				order = append(order, e.Rank)
			}
			byRank[e.Rank] = rosterEntryModel{RosterID: rosterID, Rank: e.Rank, Organization: e.Organization, Name: e.Name}
		}
		rows := make([]rosterEntryModel, 0, len(order))
		for _, rank := range order {
			rows = append(rows, byRank[rank])
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert roster: %w", err)
		}
		return nil
	})
}
