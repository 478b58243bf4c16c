package app

import (
	"context"
	"testing"
	"time"

	"govtrack/internal/alignment"
	"govtrack/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func TestNew_WiresEverything(t *testing.T) {
	// Neither client dials until it is used.
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Disconnect(context.Background()) })
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTTTL:        time.Hour,
		QuizCacheTTL:  time.Minute,
		MatchCacheTTL: time.Minute,
	}
	a := New(client.Database("govtrack_test"), rdb, cfg, zap.NewNop())

	assert.NotNil(t, a.AuthService)
	assert.NotNil(t, a.PolicyService)
	assert.NotNil(t, a.RepresentativeService)
	assert.NotNil(t, a.QuizService)
	assert.NotNil(t, a.ProfileService)
	assert.NotNil(t, a.MatchStats)
}

func TestNewScorer_Options(t *testing.T) {
	questions := []alignment.Question{
		{ID: "q1", Category: "economic", Scale: alignment.Scale{Min: 1, Max: 5}},
		{ID: "q2", Category: "social", Scale: alignment.Scale{Min: 1, Max: 5}},
	}
	subjects := []alignment.Subject{
		{ID: "a", Positions: []alignment.Position{{QuestionID: "q1", Value: 5}}},
		{ID: "b"},
	}
	answers := []alignment.Answer{{QuestionID: "q1", Value: 5}}

	_, err := NewScorer(config.AlignmentConfig{}).Score(answers, questions, subjects)
	assert.ErrorIs(t, err, alignment.ErrInsufficientData)

	results, err := NewScorer(config.AlignmentConfig{SkipInsufficient: true, Categories: true}).Score(answers, questions, subjects)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 100, results[0].Percentage)
	assert.Equal(t, 100, results[0].Categories["economic"])
}
