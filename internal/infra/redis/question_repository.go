package redis

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"quizshow-scoreboard/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches question sets from a backing store (files, Postgres).
type QuestionLoader interface {
	LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// QuestionRepository caches question sets in Redis and falls back to a loader on cache miss.
// Prompts are stored as: HSET scoreboard:questions:{setID}:prompts {index} {text}
// Answers are stored as: HSET scoreboard:questions:{setID}:answers {index} {answer}
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	if set, ok := r.cached(ctx, setID); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(setID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := r.cached(ctx, setID); ok {
			return set, nil
		}

		set, err := r.loader.LoadQuestionSet(ctx, setID)
		if err != nil {
			return domain.QuestionSet{}, err
		}
		if len(set.Questions) == 0 {
			return set, nil
		}

		promptKey, answerKey := r.promptsKey(setID), r.answersKey(setID)
		ttl := r.ttlWithJitter()
		pipe := r.client.TxPipeline()
		pipe.Del(ctx, promptKey, answerKey)
		for i, q := range set.Questions {
			field := strconv.Itoa(i)
			pipe.HSet(ctx, promptKey, field, q.Text)
			pipe.HSet(ctx, answerKey, field, q.Answer)
		}
		if ttl > 0 {
			pipe.Expire(ctx, promptKey, ttl)
			pipe.Expire(ctx, answerKey, ttl)
		}
		// A failed cache write only costs a reload next time.
		_, _ = pipe.Exec(ctx)

		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

// Invalidate drops a cached set so the next read goes to the loader.
func (r *QuestionRepository) Invalidate(ctx context.Context, setID string) error {
	if err := r.client.Del(ctx, r.promptsKey(setID), r.answersKey(setID)).Err(); err != nil {
		return fmt.Errorf("invalidate question set %q: %w", setID, err)
	}
	return nil
}

func (r *QuestionRepository) cached(ctx context.Context, setID string) (domain.QuestionSet, bool) {
	prompts, err := r.client.HGetAll(ctx, r.promptsKey(setID)).Result()
	if err != nil || len(prompts) == 0 {
		return domain.QuestionSet{}, false
	}
	answers, err := r.client.HGetAll(ctx, r.answersKey(setID)).Result()
	if err != nil {
		return domain.QuestionSet{}, false
	}
	return buildSetFromCache(setID, prompts, answers)
}

func buildSetFromCache(setID string, prompts, answers map[string]string) (domain.QuestionSet, bool) {
	indexes := make([]int, 0, len(prompts))
	for field := range prompts {
		i, err := strconv.Atoi(field)
		if err != nil {
			return domain.QuestionSet{}, false
		}
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	questions := make([]domain.Question, 0, len(indexes))
	for _, i := range indexes {
		field := strconv.Itoa(i)
		questions = append(questions, domain.Question{Text: prompts[field], Answer: answers[field]})
	}
	return domain.QuestionSet{ID: setID, Questions: questions}, true
}

func (r *QuestionRepository) promptsKey(setID string) string {
	return "scoreboard:questions:" + setID + ":prompts"
}

func (r *QuestionRepository) answersKey(setID string) string {
	return "scoreboard:questions:" + setID + ":answers"
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
