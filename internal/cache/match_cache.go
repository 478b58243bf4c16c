package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"govtrack/internal/model"

	"github.com/redis/go-redis/v9"
)

// MatchCache memoises alignment rankings per quiz and answer set. Rankings are
// pure functions of answers and stances, so entries only go stale when the
// quiz or its stances change; Invalidate handles that by moving the quiz to a
// new generation.
type MatchCache interface {
	Get(ctx context.Context, quizID string, responses []model.QuizResponse) ([]model.Alignment, error)
	Set(ctx context.Context, quizID string, responses []model.QuizResponse, alignments []model.Alignment) error
	Invalidate(ctx context.Context, quizID string) error
}

type matchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMatchCache creates a new match cache
func NewMatchCache(client *redis.Client, ttl time.Duration) MatchCache {
	return &matchCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *matchCache) genKey(quizID string) string {
	return fmt.Sprintf("match:%s:gen", quizID)
}

func (c *matchCache) key(ctx context.Context, quizID string, responses []model.QuizResponse) (string, error) {
	gen, err := c.client.Get(ctx, c.genKey(quizID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("match:%s:g%d:%s", quizID, gen, Fingerprint(responses)), nil
}

func (c *matchCache) Get(ctx context.Context, quizID string, responses []model.QuizResponse) ([]model.Alignment, error) {
	key, err := c.key(ctx, quizID, responses)
	if err != nil {
		return nil, err
	}

	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var alignments []model.Alignment
	if err := json.Unmarshal([]byte(data), &alignments); err != nil {
		return nil, err
	}
	return alignments, nil
}

func (c *matchCache) Set(ctx context.Context, quizID string, responses []model.QuizResponse, alignments []model.Alignment) error {
	key, err := c.key(ctx, quizID, responses)
	if err != nil {
		return err
	}
	data, err := json.Marshal(alignments)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *matchCache) Invalidate(ctx context.Context, quizID string) error {
	return c.client.Incr(ctx, c.genKey(quizID)).Err()
}

// Fingerprint is an order-independent digest of an answer set. Keys are
// length-prefixed so that no key can imitate a run of other answers.
func Fingerprint(responses []model.QuizResponse) string {
	sorted := make([]model.QuizResponse, len(responses))
	copy(sorted, responses)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].QuestionKey != sorted[j].QuestionKey {
			return sorted[i].QuestionKey < sorted[j].QuestionKey
		}
		return sorted[i].Value < sorted[j].Value
	})

	h := sha256.New()
	for _, r := range sorted {
		h.Write([]byte(strconv.Itoa(len(r.QuestionKey))))
		h.Write([]byte{':'})
		h.Write([]byte(r.QuestionKey))
		h.Write([]byte{'='})
		h.Write([]byte(strconv.Itoa(r.Value)))
		h.Write([]byte{';'})
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}
