package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"govtrack/internal/app"
	"govtrack/internal/config"
	"govtrack/internal/dataset"
	"govtrack/internal/logging"
	"govtrack/internal/model"
	"govtrack/internal/repository"
	"govtrack/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type seedOptions struct {
	dataFile      string
	adminName     string
	adminEmail    string
	adminPassword string
	timeout       time.Duration
}

func main() {
	opts := &seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a quiz dataset (and optionally an admin account) into MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&opts.dataFile, "data", "d", "", "YAML dataset (defaults to the built-in sample)")
	cmd.Flags().StringVar(&opts.adminName, "admin-name", "Administrator", "name for the admin account")
	cmd.Flags().StringVar(&opts.adminEmail, "admin-email", "", "create or promote this account to admin")
	cmd.Flags().StringVar(&opts.adminPassword, "admin-password", "", "password for a newly created admin account")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", time.Minute, "overall deadline")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func seed(ctx context.Context, opts *seedOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		return err
	}
	defer logger.Sync()

	ds := dataset.Sample()
	if opts.dataFile != "" {
		if ds, err = dataset.Load(opts.dataFile); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	client, db, err := app.ConnectMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	rdb, err := app.ConnectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	a := app.New(db, rdb, cfg, logger)
	quizSvc := a.QuizService

	quizID, err := quizSvc.ImportDataset(ctx, ds)
	if err != nil {
		return err
	}
	logger.Info("imported dataset",
		zap.String("quizId", quizID),
		zap.String("title", ds.Quiz.Title),
		zap.Int("questions", len(ds.Quiz.Questions)),
		zap.Int("representatives", len(ds.Subjects)))

	if opts.adminEmail == "" {
		return nil
	}
	return ensureAdmin(ctx, a.UserRepo, a.AuthService, opts, logger)
}

func ensureAdmin(ctx context.Context, users repository.UserRepo, auth *service.AuthService, opts *seedOptions, logger *zap.Logger) error {
	user, err := users.GetByEmail(ctx, opts.adminEmail)
	if err != nil {
		return err
	}
	if user == nil {
		if opts.adminPassword == "" {
			return errors.New("--admin-password is required to create a new admin")
		}
		resp, err := auth.Register(ctx, model.RegisterRequest{Name: opts.adminName, Email: opts.adminEmail, Password: opts.adminPassword})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		user = resp.User
	}

	user.Role = model.RoleAdmin
	if err := users.Update(ctx, user); err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	logger.Info("admin ready", zap.String("userId", user.ID), zap.String("email", user.Email))
	return nil
}
