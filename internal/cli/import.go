package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"quizshow-scoreboard/internal/config"
	"quizshow-scoreboard/internal/domain"
	"quizshow-scoreboard/internal/infra/files"
	"quizshow-scoreboard/internal/infra/postgres"
	"quizshow-scoreboard/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewImportCmd loads roster and question files into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import roster or question files into Postgres",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "roster <roster-id> <file.csv|file.xlsx>",
		Short: "Replace a roster with the rows of a CSV or XLSX file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, *configPath, func(imp *postgres.Importer, log logrus.FieldLogger) error {
				data, err := os.ReadFile(args[1])
				if err != nil {
					return err
				}
				res, err := files.ParseRoster(filepath.Base(args[1]), data)
				if err != nil {
					return err
				}
				if err := imp.ImportRoster(cmd.Context(), args[0], res.Entries); err != nil {
					return err
				}
				log.WithFields(logrus.Fields{"roster": args[0], "entries": len(res.Entries), "skipped": res.Skipped}).Info("roster imported")
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "questions <set-id> <file.csv>",
		Short: "Replace a question set with the rows of a CSV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, *configPath, func(imp *postgres.Importer, log logrus.FieldLogger) error {
				data, err := os.ReadFile(args[1])
				if err != nil {
					return err
				}
				res, err := files.ParseQuestionsCSV(data)
				if err != nil {
					return err
				}
				set := domain.QuestionSet{ID: args[0], Questions: res.Questions}
				if err := imp.ImportQuestionSet(cmd.Context(), set); err != nil {
					return err
				}
				log.WithFields(logrus.Fields{"set": args[0], "questions": len(res.Questions), "skipped": res.Skipped}).Info("question set imported")
				return nil
			})
		},
	})
	return cmd
}

func runImport(cmd *cobra.Command, configPath string, fn func(*postgres.Importer, logrus.FieldLogger) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	if err := runMigrations(cmd.Context(), cfg, log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := openBun(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(postgres.NewImporter(db), log)
}
