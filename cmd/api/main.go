package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Shynif/nuit-de-linfo-2025/internal/auth"
	"github.com/Shynif/nuit-de-linfo-2025/internal/chat"
	"github.com/Shynif/nuit-de-linfo-2025/internal/config"
	"github.com/Shynif/nuit-de-linfo-2025/internal/leaderboard"
	"github.com/Shynif/nuit-de-linfo-2025/internal/question"
	"github.com/Shynif/nuit-de-linfo-2025/internal/router"
	"github.com/Shynif/nuit-de-linfo-2025/internal/session"
	"github.com/Shynif/nuit-de-linfo-2025/internal/setting"
	settingrepo "github.com/Shynif/nuit-de-linfo-2025/internal/setting/repo"
	"github.com/Shynif/nuit-de-linfo-2025/internal/user"
	userrepo "github.com/Shynif/nuit-de-linfo-2025/internal/user/repo"
	"github.com/Shynif/nuit-de-linfo-2025/pkg/database"
	"github.com/Shynif/nuit-de-linfo-2025/pkg/utilities"
)

func main() {
	// best-effort: without a .env file the real environment is used
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting quiz api")

	cfg, err := config.ConfigFromEnv()
	if err != nil {
		sugar.Fatalf("config: %v", err)
	}
	if fatal, err := cfg.Validate(); err != nil {
		if fatal {
			sugar.Fatalf("JWT_SECRET: %v", err)
		}
		sugar.Warnw("weak JWT_SECRET tolerated in development", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()
	if err := database.Migrate(ctx, sqlDB); err != nil {
		sugar.Fatalf("db migrate: %v", err)
	}
	db := database.Wrap(sqlDB)

	handler, cleanup, err := build(cfg, db, sugar)
	if err != nil {
		sugar.Fatalf("init: %v", err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Infow("listening", "addr", cfg.Addr, "env", cfg.Env)

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}

// build wires every feature onto db and returns the root handler.
func build(cfg config.Config, db *sqlx.DB, sugar *zap.SugaredLogger) (http.Handler, func(), error) {
	hasher, err := auth.NewHasher(auth.DefaultHasherOptions())
	if err != nil {
		return nil, nil, err
	}
	codec, err := auth.NewCodec(cfg.Secret)
	if err != nil {
		return nil, nil, err
	}

	users := userrepo.NewUserRepo(db)
	sessions := session.NewManager(codec, users, session.CookieConfig{
		Name:   cfg.SessionCookie,
		Secure: !cfg.Dev(),
	}, cfg.SessionTTL, sugar)

	board, err := leaderboard.NewService(users, cfg.LeaderboardCacheTTL)
	if err != nil {
		return nil, nil, err
	}
	userSvc := user.NewUserService(users, hasher)
	userSvc.OnHighscore = board.Invalidate
	settingSvc := setting.NewService(settingrepo.NewRepo(db))
	settingSvc.OnVisibilityChange = board.Invalidate

	bank, err := loadQuestions(cfg.QuestionsFile)
	if err != nil {
		board.Close()
		return nil, nil, err
	}
	sugar.Infow("questions loaded", "count", bank.Len(), "skipped", bank.Skipped)

	validator, err := chat.NewValidator()
	if err != nil {
		board.Close()
		return nil, nil, err
	}
	if cfg.GeminiAPIKey == "" {
		sugar.Warn("GEMINI_API_KEY not set; /api/chat will answer 500")
	}
	gemini := chat.NewGeminiClient(chat.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})

	handler := router.RegisterRoutes(sugar, router.Handlers{
		Sessions:    sessions,
		Users:       user.NewHandler(userSvc, sessions, sugar),
		Settings:    setting.NewHandler(settingSvc, sugar),
		Leaderboard: leaderboard.NewHandler(board, sugar),
		Questions:   question.NewHandler(bank, sugar),
		Chat:        chat.NewHandler(gemini, validator, sugar),
	})
	return handler, func() { _ = board.Close() }, nil
}

func loadQuestions(path string) (*question.Bank, error) {
	if path == "" {
		return question.Default()
	}
	return question.LoadFile(path)
}
