// Package app wires repositories, caches and services on top of a MongoDB
// database and a Redis client.
package app

import (
	"context"
	"fmt"
	"time"

	"govtrack/internal/alignment"
	"govtrack/internal/cache"
	"govtrack/internal/config"
	"govtrack/internal/repository"
	"govtrack/internal/service"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

type App struct {
	PolicyRepo         repository.PolicyRepo
	RepresentativeRepo repository.RepresentativeRepo
	QuizRepo           repository.QuizRepo
	StanceRepo         repository.StanceRepo
	ResultRepo         repository.ResultRepo
	UserRepo           repository.UserRepo

	QuizCache  cache.QuizCache
	MatchCache cache.MatchCache
	MatchStats cache.MatchStats

	AuthService           *service.AuthService
	PolicyService         *service.PolicyService
	RepresentativeService *service.RepresentativeService
	QuizService           *service.QuizService
	ProfileService        *service.ProfileService
}

// New builds the application graph. Nothing here talks to the network.
func New(db *mongo.Database, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *App {
	a := &App{
		PolicyRepo:         repository.NewPolicyRepo(db),
		RepresentativeRepo: repository.NewRepresentativeRepo(db),
		QuizRepo:           repository.NewQuizRepo(db),
		StanceRepo:         repository.NewStanceRepo(db),
		ResultRepo:         repository.NewResultRepo(db),
		UserRepo:           repository.NewUserRepo(db),

		QuizCache:  cache.NewQuizCache(rdb, cfg.QuizCacheTTL),
		MatchCache: cache.NewMatchCache(rdb, cfg.MatchCacheTTL),
		MatchStats: cache.NewMatchStats(rdb),
	}

	a.AuthService = service.NewAuthService(a.UserRepo, cfg.JWTSecret, cfg.JWTTTL)
	a.PolicyService = service.NewPolicyService(a.PolicyRepo)
	a.RepresentativeService = service.NewRepresentativeService(a.RepresentativeRepo, a.PolicyRepo, a.StanceRepo,
		a.MatchCache, a.MatchStats, logger.Named("representatives"))
	a.QuizService = service.NewQuizService(a.QuizRepo, a.StanceRepo, a.RepresentativeRepo, a.ResultRepo,
		a.QuizCache, a.MatchCache, a.MatchStats, NewScorer(cfg.Alignment), logger.Named("quiz"))
	a.ProfileService = service.NewProfileService(a.UserRepo, a.PolicyRepo, a.RepresentativeRepo, a.ResultRepo)
	return a
}

// NewScorer applies the configured scoring options
func NewScorer(cfg config.AlignmentConfig) *alignment.Scorer {
	var opts []alignment.Option
	if cfg.SkipInsufficient {
		opts = append(opts, alignment.WithSkipInsufficient())
	}
	if cfg.Categories {
		opts = append(opts, alignment.WithCategories())
	}
	return alignment.NewScorer(opts...)
}

// ConnectMongo connects, pings and makes sure the indexes exist
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("create indexes: %w", err)
	}
	return client, db, nil
}

func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping Redis: %w", err)
	}
	return rdb, nil
}
