package config

import (
	"fmt"
	"os"
	"strings"
)

// Content storage modes supported by the application.
const (
	ContentModeDatabase = "database"
	ContentModeGitHub   = "github"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string
	Port          string
	DatabasePath  string
	SessionSecret string
	GinMode       string
	LogLevel      string

	AdminUsername string
	AdminPassword string

	ContentMode  string
	GitHubToken  string
	GitHubOwner  string
	GitHubRepo   string
	GitHubBranch string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "devfolio.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "devfolio-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	logLevel := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}

	contentMode := strings.ToLower(strings.TrimSpace(os.Getenv("CONTENT_MODE")))
	if contentMode != ContentModeGitHub {
		contentMode = ContentModeDatabase
	}

	gitHubBranch := strings.TrimSpace(os.Getenv("GITHUB_BRANCH"))
	if gitHubBranch == "" {
		gitHubBranch = "main"
	}

	openAIModel := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if openAIModel == "" {
		openAIModel = "gpt-4o-mini"
	}

	return AppConfig{
		ListenAddr:    listenAddr,
		Port:          port,
		DatabasePath:  databasePath,
		SessionSecret: sessionSecret,
		GinMode:       ginMode,
		LogLevel:      logLevel,
		AdminUsername: strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminPassword: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
		ContentMode:   contentMode,
		GitHubToken:   strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		GitHubOwner:   strings.TrimSpace(os.Getenv("GITHUB_OWNER")),
		GitHubRepo:    strings.TrimSpace(os.Getenv("GITHUB_REPO")),
		GitHubBranch:  gitHubBranch,
		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:   openAIModel,
		OpenAIBaseURL: strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
	}
}
