package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zhouzirui/orgchat/backend/internal/service/backend"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Log     LogConfig
	Chat    ChatConfig
	Auth    AuthConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	backendCfg, err := loadBackendConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	auth, err := loadAuthConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Backend: backendCfg, Log: logCfg, Chat: chat, Auth: auth}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	CookieSecure   bool
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	secure, err := parseBoolEnv("COOKIE_SECURE", false)
	if err != nil {
		return ServerConfig{}, err
	}

	cfg := ServerConfig{
		AllowedOrigins: parseListEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		CookieSecure:   secure,
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		cfg.Addr = port
		return cfg, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	cfg.Addr = ":" + port
	return cfg, nil
}

// BackendConfig 描述多智能体后端的地址。
type BackendConfig struct {
	URL string
	// Timeout 为 0 表示不限制。
	Timeout time.Duration
}

func loadBackendConfig() (BackendConfig, error) {
	timeout, err := parseDurationEnv("BACKEND_TIMEOUT", 0)
	if err != nil {
		return BackendConfig{}, err
	}
	if timeout < 0 {
		return BackendConfig{}, fmt.Errorf("invalid BACKEND_TIMEOUT value %q: must not be negative", os.Getenv("BACKEND_TIMEOUT"))
	}

	return BackendConfig{
		URL:     getEnvOrDefault("BACKEND_URL", backend.DefaultBaseURL),
		Timeout: timeout,
	}, nil
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level string
	JSON  bool
}

func loadLogConfig() (LogConfig, error) {
	jsonOutput, err := parseBoolEnv("LOG_JSON", false)
	if err != nil {
		return LogConfig{}, err
	}
	return LogConfig{
		Level: getEnvOrDefault("LOG_LEVEL", "info"),
		JSON:  jsonOutput,
	}, nil
}

// ChatConfig 描述对话管线配置。
type ChatConfig struct {
	// SignaturesFile 为空时使用内置调试签名。
	SignaturesFile  string
	RenderCacheSize int
}

func loadChatConfig() (ChatConfig, error) {
	size := 512
	if override, err := parseOptionalIntEnv("RENDER_CACHE_SIZE"); err != nil {
		return ChatConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return ChatConfig{}, fmt.Errorf("invalid RENDER_CACHE_SIZE value %d: must be positive", *override)
		}
		size = *override
	}

	return ChatConfig{
		SignaturesFile:  strings.TrimSpace(os.Getenv("CHAT_DEBUG_SIGNATURES_FILE")),
		RenderCacheSize: size,
	}, nil
}

// AuthConfig 描述用户缓存。
type AuthConfig struct {
	CacheSize int
	CacheTTL  time.Duration
}

func loadAuthConfig() (AuthConfig, error) {
	size := 1024
	if override, err := parseOptionalIntEnv("AUTH_CACHE_SIZE"); err != nil {
		return AuthConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AuthConfig{}, fmt.Errorf("invalid AUTH_CACHE_SIZE value %d: must be positive", *override)
		}
		size = *override
	}

	ttl, err := parseDurationEnv("AUTH_CACHE_TTL", 30*time.Second)
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{CacheSize: size, CacheTTL: ttl}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

// parseListEnv 解析逗号分隔的列表，忽略空项。
func parseListEnv(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
