package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// MatchStats counts how often each representative comes out as a
// respondent's closest match, using a Redis ZSET per quiz
type MatchStats interface {
	Increment(ctx context.Context, quizID, repID string) error
	Top(ctx context.Context, quizID string, limit int) ([]MatchEntry, error)
	Remove(ctx context.Context, quizID, repID string) error
	Reset(ctx context.Context, quizID string) error
}

// MatchEntry is one row of the top-match board
type MatchEntry struct {
	RepresentativeID string `json:"representativeId"`
	Count            int    `json:"count"`
	Rank             int    `json:"rank"`
}

type matchStats struct {
	client *redis.Client
}

// NewMatchStats creates a new top-match counter
func NewMatchStats(client *redis.Client) MatchStats {
	return &matchStats{
		client: client,
	}
}

func (c *matchStats) key(quizID string) string {
	return fmt.Sprintf("quiz:%s:topmatch", quizID)
}

func (c *matchStats) Increment(ctx context.Context, quizID, repID string) error {
	return c.client.ZIncrBy(ctx, c.key(quizID), 1, repID).Err()
}

func (c *matchStats) Top(ctx context.Context, quizID string, limit int) ([]MatchEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(quizID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]MatchEntry, len(results))
	for i, z := range results {
		entries[i] = MatchEntry{
			RepresentativeID: z.Member.(string),
			Count:            int(z.Score),
			Rank:             i + 1,
		}
	}
	return entries, nil
}

func (c *matchStats) Remove(ctx context.Context, quizID, repID string) error {
	return c.client.ZRem(ctx, c.key(quizID), repID).Err()
}

func (c *matchStats) Reset(ctx context.Context, quizID string) error {
	return c.client.Del(ctx, c.key(quizID)).Err()
}
