package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"quizshow-scoreboard/internal/domain"

	"github.com/sirupsen/logrus"
)

// Loader serves rosters and question sets from a directory. A roster id
// resolves to <id>.csv or <id>.xlsx, a question set id to <id>.csv.
type Loader struct {
	dir string
	log logrus.FieldLogger
}

func NewLoader(dir string, log logrus.FieldLogger) *Loader {
	return &Loader{dir: dir, log: log}
}

func (l *Loader) LoadRoster(_ context.Context, rosterID string) ([]domain.RosterEntry, error) {
	for _, name := range []string{rosterID + ".csv", rosterID + ".xlsx"} {
		data, err := l.read(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		res, err := ParseRoster(name, data)
		if err != nil {
			return nil, fmt.Errorf("roster %q: %w", rosterID, err)
		}
		l.report(name, len(res.Entries), res.Skipped)
		return res.Entries, nil
	}
	return nil, fmt.Errorf("roster %q: %w", rosterID, domain.ErrRosterNotFound)
}

func (l *Loader) LoadQuestionSet(_ context.Context, setID string) (domain.QuestionSet, error) {
	name := setID + ".csv"
	data, err := l.read(name)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.QuestionSet{}, fmt.Errorf("question set %q: %w", setID, domain.ErrQuestionSetNotFound)
	}
	if err != nil {
		return domain.QuestionSet{}, err
	}
	res, err := ParseQuestionsCSV(data)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("question set %q: %w", setID, err)
	}
	l.report(name, len(res.Questions), res.Skipped)
	return domain.QuestionSet{ID: setID, Questions: res.Questions}, nil
}

func (l *Loader) read(name string) ([]byte, error) {
	// ids are plain names; refuse anything that walks out of the directory
	if filepath.Base(name) != name {
		return nil, fmt.Errorf("invalid file name %q: %w", name, fs.ErrNotExist)
	}
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (l *Loader) report(name string, rows, skipped int) {
	entry := l.log.WithFields(logrus.Fields{"file": name, "rows": rows, "skipped": skipped})
	if skipped > 0 {
		entry.Warn("skipped unusable rows")
		return
	}
	entry.Debug("file loaded")
}
