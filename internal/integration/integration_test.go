package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"quizshow-scoreboard/internal/app"
	"quizshow-scoreboard/internal/domain"
	pgloader "quizshow-scoreboard/internal/infra/postgres"
	pgmigrations "quizshow-scoreboard/internal/infra/postgres/migrations"
	infraredis "quizshow-scoreboard/internal/infra/redis"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestShowEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedShowContent(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	logger, _ := test.NewNullLogger()
	questions := infraredis.NewQuestionRepository(redisClient, pgloader.NewQuestionLoader(pool), 5*time.Minute)
	store := infraredis.NewSessionStore(redisClient, 5*time.Minute, app.NewSessionFactory(app.SessionOptions{Logger: logger}))
	service := app.NewControlService(store, questions, pgloader.NewRosterLoader(pool), logger)

	if _, err := service.Open(ctx, "finals"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := service.LoadRoster(ctx, "finals", "seeds"); err != nil {
		t.Fatalf("load roster: %v", err)
	}
	if err := service.LoadQuestions(ctx, "finals", "round-2"); err != nil {
		t.Fatalf("load questions: %v", err)
	}

	board, err := service.Board(ctx, "finals")
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if board.Question != "What is 2 + 2?" || board.Players[0].Rank != 1 {
		t.Fatalf("unexpected initial board: %q rank %d", board.Question, board.Players[0].Rank)
	}
	start := board.Players[0].Score

	board, err = service.Dispatch(ctx, "finals", app.Command{Type: app.CmdCorrect, Slot: 0})
	if err != nil {
		t.Fatalf("correct: %v", err)
	}
	if board.Players[0].Score != start+1 || board.Question != "Name the largest ocean." {
		t.Fatalf("expected score %d on question 2, got %d on %q", start+1, board.Players[0].Score, board.Question)
	}

	board, err = service.Dispatch(ctx, "finals", app.Command{Type: app.CmdUndo})
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if board.Players[0].Score != start || board.QuestionNumber != 1 {
		t.Fatalf("expected undo back to question 1, got %+v", board.Players[0])
	}

	live, err := store.LiveShows(ctx)
	if err != nil || len(live) != 1 || live[0] != "finals" {
		t.Fatalf("expected finals marked live, got %v (%v)", live, err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "scoreboard", "POSTGRES_PASSWORD": "scoreboard", "POSTGRES_DB": "scoreboard"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://scoreboard:scoreboard@%s:%s/scoreboard?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedShowContent(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	importer := pgloader.NewImporter(db)
	if err := importer.ImportQuestionSet(ctx, domain.QuestionSet{
		ID: "round-2",
		Questions: []domain.Question{
			{Text: "What is 2 + 2?", Answer: "4"},
			{Text: "Name the largest ocean.", Answer: "Pacific"},
		},
	}); err != nil {
		t.Fatalf("import questions: %v", err)
	}

	faker := gofakeit.New(7)
	roster := make([]domain.RosterEntry, 0, 48)
	for rank := 1; rank <= 48; rank++ {
		roster = append(roster, domain.RosterEntry{Rank: rank, Name: faker.Name(), Organization: faker.Company()})
	}
	if err := importer.ImportRoster(ctx, "seeds", roster); err != nil {
		t.Fatalf("import roster: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
