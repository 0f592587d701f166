package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizshow-scoreboard/internal/app"
	"quizshow-scoreboard/internal/config"
	"quizshow-scoreboard/internal/domain"
	"quizshow-scoreboard/internal/infra/files"
	"quizshow-scoreboard/internal/infra/memory"
	pgloader "quizshow-scoreboard/internal/infra/postgres"
	redisstore "quizshow-scoreboard/internal/infra/redis"
	"quizshow-scoreboard/internal/logging"
	"quizshow-scoreboard/internal/metrics"
	"quizshow-scoreboard/internal/scoring"
	transport "quizshow-scoreboard/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the scoreboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// contentLoader serves both rosters and question sets.
type contentLoader interface {
	memory.QuestionLoader
	app.RosterLoader
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 12*time.Hour)

	var loader contentLoader
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgLoader{pgloader.NewQuestionLoader(pool), pgloader.NewRosterLoader(pool)}
	case cfg.Questions.Dir != "":
		loader = files.NewLoader(cfg.Questions.Dir, log.WithField("component", "files"))
	default:
		log.Warn("no postgres url or questions dir configured; serving the built-in sample set")
		loader = staticLoader{memory.NewStaticQuestionLoader(sampleQuestions()), memory.NewStaticRosterLoader(nil)}
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questions app.QuestionRepository
	if redisClient != nil {
		questions = redisstore.NewQuestionRepository(redisClient, loader, questionTTL)
	} else {
		questions = memory.NewQuestionRepository(loader, questionTTL)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := app.NewSessionFactory(app.SessionOptions{
		Engine:       scoring.NewEngine(cfg.Rules),
		Logger:       log,
		Metrics:      metrics.NewPrometheus(registry),
		TimerSeconds: cfg.Show.Timer,
		Debounce:     config.TTLDuration(cfg.Show.RenderDebounce, 0),
		ShowTimer:    cfg.Show.ShowTimer,
	})

	var store app.SessionRepository
	if redisClient != nil {
		rs := redisstore.NewSessionStore(redisClient, redisTTL, factory)
		if live, err := rs.LiveShows(ctx); err == nil && len(live) > 0 {
			log.WithField("shows", live).Info("shows marked live by a previous process start fresh")
		}
		store = rs
	} else {
		store = memory.NewSessionStore(factory)
	}
	service := app.NewControlService(store, questions, loader, log)

	if err := openDefaultShow(ctx, service, cfg, log); err != nil {
		return err
	}

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     transport.NewRouter(service, registry, log),
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.WithField("port", finalPort).Info("starting scoreboard")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	service.Close(shutdownCtx, cfg.Show.ID)
	return server.Shutdown(shutdownCtx)
}

// openDefaultShow opens the configured show and preloads its content. A
// missing roster or question set is logged; the operator can load one later.
func openDefaultShow(ctx context.Context, service *app.ControlService, cfg config.Config, log logrus.FieldLogger) error {
	if cfg.Show.ID == "" {
		return nil
	}
	if _, err := service.Open(ctx, cfg.Show.ID); err != nil {
		return err
	}
	entry := log.WithField("show", cfg.Show.ID)
	if cfg.Show.Roster != "" {
		if err := service.LoadRoster(ctx, cfg.Show.ID, cfg.Show.Roster); err != nil {
			entry.WithError(err).Warn("roster not preloaded")
		}
	}
	if cfg.Show.QuestionSet != "" {
		if err := service.LoadQuestions(ctx, cfg.Show.ID, cfg.Show.QuestionSet); err != nil {
			entry.WithError(err).Warn("question set not preloaded")
		}
	}
	entry.Info("show opened")
	return nil
}

type pgLoader struct {
	*pgloader.QuestionLoader
	*pgloader.RosterLoader
}

type staticLoader struct {
	*memory.StaticQuestionLoader
	*memory.StaticRosterLoader
}

// sampleQuestions keeps a bare start usable for rehearsals.
func sampleQuestions() map[string]domain.QuestionSet {
	return map[string]domain.QuestionSet{
		"sample": {
			ID: "sample",
			Questions: []domain.Question{
				{Text: "What is 2 + 2?", Answer: "4"},
				{Text: "Which planet is closest to the sun?", Answer: "Mercury"},
				{Text: "How many sides does a hexagon have?", Answer: "6"},
			},
		},
	}
}
