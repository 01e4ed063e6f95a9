package main

import (
	"os"

	"github.com/devfolio/internal/config"
	"github.com/devfolio/internal/content"
	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/github"
	"github.com/devfolio/internal/handler"
	"github.com/devfolio/internal/router"
	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// .env 文件不存在时静默忽略
	_ = godotenv.Load()

	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}

	// 按需创建管理员账号
	if err := db.EnsureUser(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure admin user")
	}

	// 无论内容存放在哪种模式下，浏览计数都由关系型数据库维护。
	repo := service.NewCountedRepository(selectRepository(cfg, logger), db.DB)
	views := service.NewViewService(db.DB, repo, logger)
	chat := service.NewChatService(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, repo, logger)

	api := handler.NewAPI(repo, views, chat, logger)

	r := router.SetupRouter(api, cfg)
	logger.Info().
		Str("addr", cfg.ListenAddr).
		Str("content_mode", cfg.ContentMode).
		Msg("starting server")
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal().Err(err).Msg("failed to run server")
	}
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(parsed).With().Timestamp().Logger()
}

// selectRepository 根据配置选择内容存储模式。
func selectRepository(cfg config.AppConfig, logger zerolog.Logger) content.Repository {
	if cfg.ContentMode == config.ContentModeGitHub {
		if cfg.GitHubOwner == "" || cfg.GitHubRepo == "" {
			logger.Fatal().Msg("github content mode requires GITHUB_OWNER and GITHUB_REPO")
		}
		client := github.NewClient(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubBranch)
		return github.NewRepository(client)
	}
	return service.NewPostService(db.DB)
}
